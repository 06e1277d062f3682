package pfx

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultTickRate is the Minecraft tick rate: 20 ticks per second.
const DefaultTickRate = 50 * time.Millisecond

// Scheduler ticks systems at a fixed rate on a single goroutine.
// The dt passed to every system is the tick rate in milliseconds rather than
// the measured wall time, so the simulation does not depend on timer jitter.
type Scheduler struct {
	log *slog.Logger

	systems   []*System
	systemsMu sync.Mutex

	// Execution state
	running atomic.Bool
	stopCh  chan struct{}
	doneCh  chan struct{}

	// Tick tracking
	tickRate   time.Duration
	tickNumber atomic.Uint64
}

// NewScheduler creates a scheduler. A tickRate <= 0 selects DefaultTickRate
// and a nil logger selects slog.Default().
func NewScheduler(tickRate time.Duration, log *slog.Logger) *Scheduler {
	if tickRate <= 0 {
		tickRate = DefaultTickRate
	}
	if log == nil {
		log = slog.Default()
	}
	return &Scheduler{log: log, tickRate: tickRate}
}

// TickRate returns the interval between two ticks.
func (s *Scheduler) TickRate() time.Duration {
	return s.tickRate
}

// TickNumber returns the number of ticks run since the scheduler was created.
func (s *Scheduler) TickNumber() uint64 {
	return s.tickNumber.Load()
}

// Add registers a system. Systems are ticked in the order they are added.
func (s *Scheduler) Add(sys *System) error {
	if sys == nil {
		return fmt.Errorf("%w: system must not be nil", ErrInvalidArgument)
	}
	if sys.Closed() {
		return ErrClosed
	}
	s.systemsMu.Lock()
	defer s.systemsMu.Unlock()
	if !slices.Contains(s.systems, sys) {
		s.systems = append(s.systems, sys)
	}
	return nil
}

// Remove unregisters a system. It reports whether the system was registered.
func (s *Scheduler) Remove(sys *System) bool {
	s.systemsMu.Lock()
	defer s.systemsMu.Unlock()
	i := slices.Index(s.systems, sys)
	if i < 0 {
		return false
	}
	s.systems = slices.Delete(s.systems, i, i+1)
	return true
}

// Len returns the number of registered systems.
func (s *Scheduler) Len() int {
	s.systemsMu.Lock()
	defer s.systemsMu.Unlock()
	return len(s.systems)
}

// Start begins the scheduler's tick loop.
func (s *Scheduler) Start() {
	if s.running.Swap(true) {
		return // Already running
	}
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	go s.tickLoop(s.stopCh, s.doneCh)
}

// Stop stops the tick loop and waits for the running tick to finish.
// Registered systems are left open.
func (s *Scheduler) Stop() {
	if !s.running.Swap(false) {
		return // Not running
	}
	close(s.stopCh)
	<-s.doneCh
}

// tickLoop is the main scheduler loop.
func (s *Scheduler) tickLoop(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(s.tickRate)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			s.tick()
		}
	}
}

// tick runs one tick of every registered system. Closed systems are dropped.
func (s *Scheduler) tick() {
	n := s.tickNumber.Add(1)
	dt := float64(s.tickRate) / float64(time.Millisecond)

	s.systemsMu.Lock()
	systems := slices.Clone(s.systems)
	s.systemsMu.Unlock()

	for _, sys := range systems {
		err := s.tickSystem(sys, dt)
		switch {
		case err == nil:
		case errors.Is(err, ErrClosed):
			s.Remove(sys)
			s.log.Debug("pfx: dropped closed system", "tick", n)
		default:
			s.log.Error("pfx: system tick failed", "tick", n, "err", err)
		}
	}
}

// tickSystem ticks one system, recovering from panics so one system cannot
// stop the others.
func (s *Scheduler) tickSystem(sys *System, dt float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	return sys.Tick(dt)
}
