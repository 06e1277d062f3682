package pfx

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pfx/shape"
)

// Frame is the view of one tick handed to updaters, renderers and queued
// functions. It must not be retained after the call it was passed to returns.
type Frame struct {
	system *System
	dt     float64
	tick   uint64
}

// System returns the system being ticked.
func (f *Frame) System() *System {
	return f.system
}

// DT returns the elapsed time of the tick.
func (f *Frame) DT() float64 {
	return f.dt
}

// Step returns dt expressed in time units, the factor velocities are scaled by.
func (f *Frame) Step() float64 {
	return f.dt / f.system.timeUnit
}

// Tick returns the number of the running tick, starting at 1.
func (f *Frame) Tick() uint64 {
	return f.tick
}

// CreateObject creates an object that is live immediately. Updater passes
// and the render pass that start after the call see it.
func (f *Frame) CreateObject(traits ...any) (*Object, error) {
	o, err := f.system.newObject(traits)
	if err != nil {
		return nil, err
	}
	f.system.insert(o)
	return o, nil
}

// RemoveObject removes an object immediately. It is skipped by the rest of
// the tick and dropped from the collection when the tick ends.
func (f *Frame) RemoveObject(o *Object) error {
	if err := f.system.checkOwner(o); err != nil {
		return err
	}
	f.system.remove(o)
	return nil
}

// Spawn sends a particle request to the system's sink. The definition must be
// valid and pos must be a finite world position; sink errors are wrapped with
// ErrSinkFailure.
func (f *Frame) Spawn(pos mgl64.Vec3, def ParticleDefinition, audience Audience) error {
	if err := def.Validate(); err != nil {
		return err
	}
	if !shape.Finite(pos) {
		return fmt.Errorf("%w: spawn position must be finite, got %v", ErrInvalidArgument, pos)
	}
	if err := f.system.sink.SpawnParticle(pos, def, audience); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkFailure, err)
	}
	return nil
}
