package df

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pfx"
	"github.com/oriumgames/pfx/shape"
)

// DefaultTrailSpacing is the distance in blocks between two trail points.
const DefaultTrailSpacing = 0.5

// Trail is a player.Handler that leaves a short-lived particle object behind
// a player every time they move far enough.
//
//	trail, err := df.NewTrail(sys, flame, 1000)
//	if err != nil {
//	    return err
//	}
//	p.Handle(trail)
//
// Concurrency:
// Dragonfly calls handlers on the world goroutine, so the trail only uses the
// queued System.CreateObject. Each player needs their own Trail.
type Trail struct {
	player.NopHandler

	sys      *pfx.System
	particle pfx.ParticleDefinition
	ttl      float64
	spacing  float64
	log      *slog.Logger

	last mgl64.Vec3
	set  bool
}

// Compile-time check that Trail implements player.Handler.
var _ player.Handler = (*Trail)(nil)

// NewTrail returns a trail dropping particle points that live for ttl, in the
// time unit of sys.
func NewTrail(sys *pfx.System, particle pfx.ParticleDefinition, ttl float64) (*Trail, error) {
	if sys == nil {
		return nil, fmt.Errorf("%w: trail system must not be nil", pfx.ErrInvalidArgument)
	}
	if err := particle.Validate(); err != nil {
		return nil, err
	}
	if _, err := pfx.NewLifetime(ttl); err != nil {
		return nil, err
	}
	return &Trail{sys: sys, particle: particle, ttl: ttl, spacing: DefaultTrailSpacing, log: slog.Default()}, nil
}

// WithSpacing returns the trail with another distance between points.
// Spacing must be finite and > 0.
func (t *Trail) WithSpacing(blocks float64) (*Trail, error) {
	if math.IsNaN(blocks) || math.IsInf(blocks, 0) || blocks <= 0 {
		return t, fmt.Errorf("%w: trail spacing must be > 0, got %v", pfx.ErrInvalidArgument, blocks)
	}
	t.spacing = blocks
	return t, nil
}

// Logger sets the logger trail failures are reported to. Defaults to
// slog.Default().
func (t *Trail) Logger(log *slog.Logger) *Trail {
	if log != nil {
		t.log = log
	}
	return t
}

// HandleMove drops a trail point once the player is spacing away from the last one.
func (t *Trail) HandleMove(ctx *player.Context, newPos mgl64.Vec3, _ cube.Rotation) {
	if ctx.Cancelled() {
		return
	}
	t.moved(newPos)
}

// HandleTeleport restarts the trail at the destination.
func (t *Trail) HandleTeleport(ctx *player.Context, pos mgl64.Vec3) {
	if ctx.Cancelled() {
		return
	}
	t.last, t.set = pos, true
}

// HandleQuit stops the trail.
func (t *Trail) HandleQuit(*player.Player) {
	t.set = false
}

// moved runs move and logs a failure. Handlers have no way to return one.
func (t *Trail) moved(pos mgl64.Vec3) {
	if err := t.move(pos); err != nil {
		t.log.Warn("df: trail point dropped", "pos", pos, "err", err)
	}
}

// move records a position and creates a trail point if it is far enough
// from the previous one. The first position only anchors the trail.
func (t *Trail) move(pos mgl64.Vec3) error {
	if !t.set {
		t.last, t.set = pos, true
		return nil
	}
	if shape.Distance(t.last, pos) < t.spacing {
		return nil
	}
	t.last = pos
	return t.drop(pos)
}

// drop creates one trail point at a world position.
func (t *Trail) drop(pos mgl64.Vec3) error {
	phys, err := pfx.NewPhysics(pos.Sub(t.sys.Origin()), mgl64.Vec3{})
	if err != nil {
		return err
	}
	particles, err := pfx.NewParticles(false, t.particle)
	if err != nil {
		return err
	}
	ttl, err := pfx.NewLifetime(t.ttl)
	if err != nil {
		return err
	}
	_, err = t.sys.CreateObject(phys, particles, ttl)
	return err
}
