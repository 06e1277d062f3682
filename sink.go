package pfx

import (
	"slices"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Sink displays particles to viewers. It is implemented by host adapters,
// such as the Dragonfly sink in package df.
//
// SpawnParticle is only ever called with a validated definition and a finite,
// world-absolute position. Delivery is fire-and-forget: an error means the
// request could not be handed to the host, and it is never retried.
type Sink interface {
	SpawnParticle(pos mgl64.Vec3, def ParticleDefinition, audience Audience) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(pos mgl64.Vec3, def ParticleDefinition, audience Audience) error

// SpawnParticle calls f.
func (f SinkFunc) SpawnParticle(pos mgl64.Vec3, def ParticleDefinition, audience Audience) error {
	return f(pos, def, audience)
}

// NopSink discards every request.
type NopSink struct{}

// SpawnParticle discards the request and returns nil.
func (NopSink) SpawnParticle(mgl64.Vec3, ParticleDefinition, Audience) error { return nil }

// Audience selects who sees a particle. The zero value is everyone in the
// world of the sink.
type Audience struct {
	viewers []uuid.UUID
}

// AudienceAll returns the audience of everyone in the world.
func AudienceAll() Audience {
	return Audience{}
}

// AudienceOf returns an audience restricted to the players with the given UUIDs.
// With no UUIDs it is equivalent to AudienceAll.
func AudienceOf(viewers ...uuid.UUID) Audience {
	return Audience{viewers: slices.Clone(viewers)}
}

// All reports whether the audience is everyone in the world.
func (a Audience) All() bool {
	return len(a.viewers) == 0
}

// Viewers returns the UUIDs of a restricted audience.
func (a Audience) Viewers() []uuid.UUID {
	return slices.Clone(a.viewers)
}

// Includes reports whether the player with the given UUID is part of the audience.
func (a Audience) Includes(id uuid.UUID) bool {
	return a.All() || slices.Contains(a.viewers, id)
}
