package pfx

import (
	"fmt"
	"math"
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pfx/shape"
)

// Built-in traits. Like every trait, their state is owned by the tick: read
// and change them from renderers, updaters or System.Exec callbacks.

// Physics gives an object a position relative to its system's origin and a
// velocity. The PhysicsUpdater moves the position every tick.
type Physics struct {
	position mgl64.Vec3
	velocity mgl64.Vec3
}

// NewPhysics returns a Physics trait. Both vectors must be finite.
func NewPhysics(position, velocity mgl64.Vec3) (*Physics, error) {
	p := &Physics{}
	if err := p.SetPosition(position); err != nil {
		return nil, err
	}
	if err := p.SetVelocity(velocity); err != nil {
		return nil, err
	}
	return p, nil
}

// Position returns the position relative to the system origin.
func (p *Physics) Position() mgl64.Vec3 { return p.position }

// Velocity returns the velocity in blocks per time unit.
func (p *Physics) Velocity() mgl64.Vec3 { return p.velocity }

// Speed returns the length of the velocity.
func (p *Physics) Speed() float64 { return p.velocity.Len() }

// SetPosition moves the object. The position must be finite.
func (p *Physics) SetPosition(pos mgl64.Vec3) error {
	if !shape.Finite(pos) {
		return fmt.Errorf("%w: position must be finite, got %v", ErrInvalidArgument, pos)
	}
	p.position = pos
	return nil
}

// SetVelocity changes the velocity. The velocity must be finite.
func (p *Physics) SetVelocity(vel mgl64.Vec3) error {
	if !shape.Finite(vel) {
		return fmt.Errorf("%w: velocity must be finite, got %v", ErrInvalidArgument, vel)
	}
	p.velocity = vel
	return nil
}

// integrate advances the position by velocity * step.
func (p *Physics) integrate(step float64) {
	p.position = p.position.Add(p.velocity.Mul(step))
}

// Particles attaches particle definitions to an object. The definitions form
// an ordered set: duplicates are dropped and the first occurrence wins.
type Particles struct {
	definitions []ParticleDefinition
	speedBased  bool
}

// NewParticles returns a Particles trait. When speedBased is true the
// ParticleRenderer only emits after the object has travelled far enough.
func NewParticles(speedBased bool, definitions ...ParticleDefinition) (*Particles, error) {
	p := &Particles{speedBased: speedBased}
	for _, d := range definitions {
		if _, err := p.Add(d); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Definitions returns a copy of the definitions in insertion order.
func (p *Particles) Definitions() []ParticleDefinition {
	return slices.Clone(p.definitions)
}

// Len returns the number of definitions.
func (p *Particles) Len() int { return len(p.definitions) }

// SpeedBasedFrequency reports whether emission is gated on movement.
func (p *Particles) SpeedBasedFrequency() bool { return p.speedBased }

// SetSpeedBasedFrequency turns movement gating on or off.
func (p *Particles) SetSpeedBasedFrequency(v bool) { p.speedBased = v }

// Add appends a definition. It returns false if an equal definition is
// already present.
func (p *Particles) Add(d ParticleDefinition) (bool, error) {
	if err := d.Validate(); err != nil {
		return false, err
	}
	if slices.Contains(p.definitions, d) {
		return false, nil
	}
	p.definitions = append(p.definitions, d)
	return true, nil
}

// Remove deletes a definition. It returns false if it was not present.
func (p *Particles) Remove(d ParticleDefinition) bool {
	i := slices.Index(p.definitions, d)
	if i < 0 {
		return false
	}
	p.definitions = slices.Delete(p.definitions, i, i+1)
	return true
}

// Lifetime removes its object once the given amount of simulated time has
// passed. Time is measured in the same unit as the dt passed to Tick.
type Lifetime struct {
	remaining float64
}

// NewLifetime returns a Lifetime that expires after ttl. ttl must be > 0.
func NewLifetime(ttl float64) (*Lifetime, error) {
	if math.IsNaN(ttl) || math.IsInf(ttl, 0) || ttl <= 0 {
		return nil, fmt.Errorf("%w: lifetime must be > 0, got %v", ErrInvalidArgument, ttl)
	}
	return &Lifetime{remaining: ttl}, nil
}

// Remaining returns the time left before the object is removed.
func (l *Lifetime) Remaining() float64 { return l.remaining }

// Expired reports whether the lifetime has run out.
func (l *Lifetime) Expired() bool { return l.remaining <= 0 }

// Extend adds time to the lifetime.
func (l *Lifetime) Extend(d float64) {
	if d > 0 && !math.IsInf(d, 0) {
		l.remaining += d
	}
}

// Outline draws a shape around an object with particles. The shape is
// expressed relative to the object: a sphere at the zero origin is centred
// on the object's absolute position.
type Outline struct {
	shape    shape.Shape
	step     float64
	particle ParticleDefinition
}

// NewOutline returns an Outline that spawns particle at every lattice point
// of s at the given step.
func NewOutline(s shape.Shape, step float64, particle ParticleDefinition) (*Outline, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: outline shape must not be nil", ErrInvalidArgument)
	}
	if _, err := s.Points(step); err != nil {
		return nil, err
	}
	if err := particle.Validate(); err != nil {
		return nil, err
	}
	return &Outline{shape: s, step: step, particle: particle}, nil
}

// Shape returns the outlined shape.
func (o *Outline) Shape() shape.Shape { return o.shape }

// Step returns the lattice resolution.
func (o *Outline) Step() float64 { return o.step }

// Particle returns the definition spawned at each point.
func (o *Outline) Particle() ParticleDefinition { return o.particle }
