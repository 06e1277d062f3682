// Package df displays pfx particles in Dragonfly worlds.
package df

import (
	"errors"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pfx"
)

// Sink is a pfx.Sink that spawns particles in a Dragonfly world.
//
// Requests are queued with world.Exec and never waited for, so SpawnParticle
// is safe to call from a pfx tick running on any goroutine. Definitions with
// an amount above one are scattered around the position within the spread.
type Sink struct {
	w   *world.World
	log *slog.Logger

	rand   *rand.Rand
	randMu sync.Mutex
}

var _ pfx.Sink = (*Sink)(nil)

// ErrNoWorld is returned by a Sink created without a world.
var ErrNoWorld = errors.New("df: sink has no world")

// Option configures a Sink.
type Option func(*Sink)

// WithSeed seeds the scatter of particle positions, making it reproducible.
func WithSeed(seed uint64) Option {
	return func(s *Sink) {
		s.rand = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}
}

// WithLogger sets the logger used to report requests with no viewers.
func WithLogger(log *slog.Logger) Option {
	return func(s *Sink) {
		s.log = log
	}
}

// NewSink returns a sink spawning particles in w.
func NewSink(w *world.World, opts ...Option) *Sink {
	s := &Sink{w: w, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	if s.rand == nil {
		s.rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return s
}

// SpawnParticle queues the particles of def at pos for the audience.
func (s *Sink) SpawnParticle(pos mgl64.Vec3, def pfx.ParticleDefinition, audience pfx.Audience) error {
	if s.w == nil {
		return ErrNoWorld
	}
	p, err := Particle(def)
	if err != nil {
		return err
	}

	s.randMu.Lock()
	positions := scatter(s.rand, pos, def.Spread(), def.Amount())
	s.randMu.Unlock()

	s.w.Exec(func(tx *world.Tx) {
		if audience.All() {
			for _, at := range positions {
				tx.AddParticle(at, p)
			}
			return
		}
		shown := false
		for e := range tx.Players() {
			pl, ok := e.(*player.Player)
			if !ok || !audience.Includes(pl.UUID()) {
				continue
			}
			for _, at := range positions {
				pl.ShowParticle(at, p)
			}
			shown = true
		}
		if !shown {
			s.log.Debug("df: no viewers for particle", "kind", def.Kind(), "viewers", len(audience.Viewers()))
		}
	})
	return nil
}

// scatter returns n positions spread uniformly within ±spread of pos on each
// axis. An axis with zero spread is not scattered.
func scatter(r *rand.Rand, pos, spread mgl64.Vec3, n int) []mgl64.Vec3 {
	out := make([]mgl64.Vec3, n)
	for i := range out {
		at := pos
		for axis := 0; axis < 3; axis++ {
			if spread[axis] != 0 {
				at[axis] += (r.Float64()*2 - 1) * spread[axis]
			}
		}
		out[i] = at
	}
	return out
}
