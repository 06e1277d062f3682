package pfx

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"runtime/debug"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// System owns an ordered collection of live objects and drives them once per
// tick. Objects are updated and rendered in insertion order, renderers in
// registration order, so a tick with the same inputs always produces the
// same sink calls in the same order.
//
// A System is built with NewBuilder. Tick is driven by a single goroutine,
// usually a Scheduler. Every other method is safe for concurrent use:
// mutations issued from outside a tick are queued and applied when the next
// tick starts.
type System struct {
	origin   mgl64.Vec3
	timeUnit float64

	renderers []Renderer
	updaters  [stageCount][]Updater

	sink    Sink
	log     *slog.Logger
	onError func(error)

	// objects is written by the ticking goroutine only, under mu so that
	// readers on other goroutines see a consistent slice.
	objects []*Object
	index   map[uuid.UUID]*Object
	elapsed float64
	mu      sync.RWMutex

	// pending holds work queued from outside a tick.
	pending   []func(*Frame)
	pendingMu sync.Mutex

	// tasks holds work delayed in simulated time.
	tasks *taskQueue

	// tickMu is held for the duration of a tick.
	tickMu     sync.Mutex
	tickNumber atomic.Uint64
	closed     atomic.Bool
	released   atomic.Bool
}

// Origin returns the world position object positions are relative to.
func (s *System) Origin() mgl64.Vec3 {
	return s.origin
}

// TimeUnit returns the amount of dt that corresponds to one velocity unit.
func (s *System) TimeUnit() float64 {
	return s.timeUnit
}

// TickNumber returns the number of ticks completed.
func (s *System) TickNumber() uint64 {
	return s.tickNumber.Load()
}

// Elapsed returns the sum of every dt ticked so far.
func (s *System) Elapsed() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

// Closed reports whether Close has been called.
func (s *System) Closed() bool {
	return s.closed.Load()
}

// Object returns the live object with the given ID, or nil.
func (s *System) Object(id uuid.UUID) *Object {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index[id]
}

// Objects returns a snapshot of the live objects in render order.
func (s *System) Objects() []*Object {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Object, 0, len(s.objects))
	for _, o := range s.objects {
		if !o.Removed() {
			out = append(out, o)
		}
	}
	return out
}

// ObjectCount returns the number of live objects.
func (s *System) ObjectCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.index)
}

// CreateObject creates an object carrying the given traits. Each trait must
// be a non-nil pointer to a struct and each trait type may appear once.
//
// The traits are attached immediately, so the returned handle can be
// inspected right away, but the object only becomes live when the next tick
// starts. Use Frame.CreateObject to create an object that is live at once.
func (s *System) CreateObject(traits ...any) (*Object, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	o, err := s.newObject(traits)
	if err != nil {
		return nil, err
	}
	s.enqueue(func(*Frame) {
		s.insert(o)
	})
	return o, nil
}

// RemoveObject removes an object when the next tick starts. Removing an object
// that is already removed is a no-op.
func (s *System) RemoveObject(o *Object) error {
	if err := s.checkOwner(o); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	s.enqueue(func(*Frame) {
		s.remove(o)
	})
	return nil
}

// Exec queues fn to run at the start of the next tick, before any updater.
// Within fn, traits may be changed freely and objects created or removed
// through the frame.
//
//	err := sys.Exec(func(f *pfx.Frame) {
//	    if phys := pfx.Get[pfx.Physics](obj); phys != nil {
//	        _ = phys.SetVelocity(mgl64.Vec3{0, 1, 0})
//	    }
//	})
func (s *System) Exec(fn func(*Frame)) error {
	if fn == nil {
		return fmt.Errorf("%w: exec function must not be nil", ErrInvalidArgument)
	}
	if s.closed.Load() {
		return ErrClosed
	}
	s.enqueue(fn)
	return nil
}

// Close releases every object, calling Detach hooks, and drops queued work.
// Further ticks fail with ErrClosed. If a tick is running on another
// goroutine, the objects are released when it finishes.
func (s *System) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	if s.tickMu.TryLock() {
		defer s.tickMu.Unlock()
		s.shutdown()
	}
	return nil
}

// Tick advances the system by dt.
//
// Queued work runs first, then updaters stage by stage, then every renderer
// against every live object. Render and update failures are passed to the
// error handler and never returned: Tick only fails when it cannot run at all.
func (s *System) Tick(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return fmt.Errorf("%w: dt must be a finite value >= 0, got %v", ErrInvalidArgument, dt)
	}
	if s.closed.Load() {
		return ErrClosed
	}
	return s.tick(dt)
}

// tick runs one tick with tickMu held. Close may have released the system
// between the caller's check and the lock, so closed is checked again.
func (s *System) tick(dt float64) error {
	if !s.tickMu.TryLock() {
		return ErrConcurrentTick
	}
	defer s.tickMu.Unlock()
	if s.closed.Load() {
		return ErrClosed
	}

	f := &Frame{system: s, dt: dt, tick: s.tickNumber.Load() + 1}

	s.drain(f)
	s.update(f)
	s.render(f)
	s.compact()

	s.mu.Lock()
	s.elapsed += dt
	s.mu.Unlock()
	s.tickNumber.Store(f.tick)

	if s.closed.Load() {
		s.shutdown()
	}
	return nil
}

// drain runs queued work in FIFO order, then the tasks due by the end of
// this tick. Tasks scheduled while draining wait for the next tick.
func (s *System) drain(f *Frame) {
	due := s.tasks.PopDue(s.elapsed + f.dt)

	s.pendingMu.Lock()
	pending := s.pending
	s.pending = nil
	s.pendingMu.Unlock()

	for _, fn := range pending {
		if err := s.protect(fn, f); err != nil {
			s.log.Error("pfx: queued function panicked", "tick", f.tick, "err", err)
		}
	}
	for _, t := range due {
		if t.Cancelled() {
			continue
		}
		if err := s.protect(t.fn, f); err != nil {
			s.log.Error("pfx: scheduled task panicked", "tick", f.tick, "due", t.at, "err", err)
		}
	}
}

// update runs every updater against the objects that match its filter.
// Objects created during a pass are picked up by the next pass.
func (s *System) update(f *Frame) {
	for stage := Before; stage < stageCount; stage++ {
		for _, u := range s.updaters[stage] {
			filter := u.Filter()
			n := len(s.objects)
			for i := 0; i < n; i++ {
				o := s.objects[i]
				if o.Removed() || !filter.Match(o) {
					continue
				}
				err := s.protect(func(f *Frame) error { return u.Update(f, o) }, f)
				if err != nil {
					s.onError(&UpdateError{Object: o.id, Updater: u.Name(), Tick: f.tick, Err: err})
				}
			}
		}
	}
}

// render asks every renderer to process every live object. A failure is
// reported for that object and renderer only; the loop always continues.
func (s *System) render(f *Frame) {
	n := len(s.objects)
	for i := 0; i < n; i++ {
		o := s.objects[i]
		for _, r := range s.renderers {
			if o.Removed() {
				break
			}
			if !r.Filter().Match(o) {
				continue
			}
			err := s.protect(func(f *Frame) error { return r.Render(f, o) }, f)
			if err != nil {
				s.onError(&RenderError{Object: o.id, Renderer: r.Name(), Tick: f.tick, Err: err})
			}
		}
	}
}

// compact drops removed objects from the collection and lets renderers
// forget per-object state.
func (s *System) compact() {
	var gone []*Object

	s.mu.Lock()
	s.objects = slices.DeleteFunc(s.objects, func(o *Object) bool {
		if o.Removed() {
			gone = append(gone, o)
			return true
		}
		return false
	})
	s.mu.Unlock()

	for _, o := range gone {
		s.forget(o)
	}
}

// shutdown releases every object. It runs once, with tickMu held.
func (s *System) shutdown() {
	if s.released.Swap(true) {
		return
	}

	s.pendingMu.Lock()
	s.pending = nil
	s.pendingMu.Unlock()
	s.tasks.Clear()

	s.mu.Lock()
	objects := s.objects
	s.objects = nil
	s.index = make(map[uuid.UUID]*Object)
	s.mu.Unlock()

	for _, o := range objects {
		o.release()
		s.forget(o)
	}
	s.log.Debug("pfx: system closed", "objects", len(objects), "ticks", s.tickNumber.Load())
}

func (s *System) forget(o *Object) {
	for _, r := range s.renderers {
		if fg, ok := r.(Forgetter); ok {
			fg.Forget(o)
		}
	}
}

// protect runs fn and turns a panic into an error.
func (s *System) protect(fn any, f *Frame) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v\n%s", r, debug.Stack())
		}
	}()
	switch fn := fn.(type) {
	case func(*Frame):
		fn(f)
	case func(*Frame) error:
		return fn(f)
	}
	return nil
}

func (s *System) enqueue(fn func(*Frame)) {
	s.pendingMu.Lock()
	s.pending = append(s.pending, fn)
	s.pendingMu.Unlock()
}

// newObject validates traits and builds an object that is not yet live.
func (s *System) newObject(traits []any) (*Object, error) {
	values, err := resolveTraits(traits)
	if err != nil {
		return nil, err
	}
	o := newObject(s)
	for _, v := range values {
		o.attach(v.id, v.ptr, v.value)
	}
	return o, nil
}

// insert makes an object live. Objects removed before insertion stay out.
func (s *System) insert(o *Object) {
	if o.Removed() {
		return
	}
	s.mu.Lock()
	s.objects = append(s.objects, o)
	s.index[o.id] = o
	s.mu.Unlock()
}

// remove takes an object out of the live set. It stays in the collection,
// marked removed, until the end of the tick.
func (s *System) remove(o *Object) {
	if !o.release() {
		return
	}
	s.mu.Lock()
	delete(s.index, o.id)
	s.mu.Unlock()
}

func (s *System) checkOwner(o *Object) error {
	if o == nil {
		return fmt.Errorf("%w: object must not be nil", ErrInvalidArgument)
	}
	if o.Removed() {
		return nil
	}
	if o.System() != s {
		return fmt.Errorf("%w: object %s belongs to another system", ErrInvalidArgument, o.id)
	}
	return nil
}

// logError is the default error handler.
func (s *System) logError(err error) {
	var (
		rerr *RenderError
		uerr *UpdateError
	)
	switch {
	case errors.As(err, &rerr):
		s.log.Warn("pfx: render failed", "object", rerr.Object, "renderer", rerr.Renderer, "tick", rerr.Tick, "err", rerr.Err)
	case errors.As(err, &uerr):
		s.log.Warn("pfx: update failed", "object", uerr.Object, "updater", uerr.Updater, "tick", uerr.Tick, "err", uerr.Err)
	default:
		s.log.Warn("pfx: tick error", "err", err)
	}
}
