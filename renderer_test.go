package pfx

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oriumgames/pfx/shape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpeedBasedFrequency(t *testing.T) {
	sink := &recordingSink{}
	r := NewParticleRenderer()
	sys, _ := newTestSystem(t, sink, func(b *Builder) { b.Renderer(r) })
	_, err := sys.CreateObject(emitter(t, mgl64.Vec3{}, mgl64.Vec3{0.2, 0, 0}, true)...)
	require.NoError(t, err)

	var emitted []int
	for tick := 1; tick <= 6; tick++ {
		before := len(sink.positions())
		require.NoError(t, sys.Tick(1))
		if len(sink.positions()) > before {
			emitted = append(emitted, tick)
		}
	}
	assert.Equal(t, []int{3, 6}, emitted, "emits every 0.5 blocks travelled")
	assert.Equal(t, DefaultSpeedThreshold, r.Threshold())
}

func TestSpeedGateAtRest(t *testing.T) {
	sink := &recordingSink{}
	sys, _ := newTestSystem(t, sink, func(b *Builder) { b.Renderer(NewParticleRenderer()) })
	_, err := sys.CreateObject(emitter(t, mgl64.Vec3{}, mgl64.Vec3{}, true)...)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		require.NoError(t, sys.Tick(1))
	}
	assert.Empty(t, sink.positions())
}

func TestSpeedThresholdOption(t *testing.T) {
	sink := &recordingSink{}
	sys, _ := newTestSystem(t, sink, func(b *Builder) {
		b.Renderer(NewParticleRenderer(WithSpeedThreshold(2), WithSpeedThreshold(-1)))
	})
	_, err := sys.CreateObject(emitter(t, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0}, true)...)
	require.NoError(t, err)

	for i := 0; i < 4; i++ {
		require.NoError(t, sys.Tick(1))
	}
	assert.Len(t, sink.positions(), 2)
}

func TestParticleRendererForgetsRemovedObjects(t *testing.T) {
	r := NewParticleRenderer()
	sys, _ := newTestSystem(t, NopSink{}, func(b *Builder) { b.Renderer(r) })
	o, err := sys.CreateObject(emitter(t, mgl64.Vec3{}, mgl64.Vec3{0.1, 0, 0}, true)...)
	require.NoError(t, err)
	require.NoError(t, sys.Tick(1))
	assert.Len(t, r.travelled, 1)

	require.NoError(t, sys.RemoveObject(o))
	require.NoError(t, sys.Tick(1))
	assert.Empty(t, r.travelled)
}

func TestRendererAudience(t *testing.T) {
	sink := &recordingSink{}
	viewer := uuid.New()
	sys, _ := newTestSystem(t, sink, func(b *Builder) {
		b.Renderer(NewParticleRenderer(WithAudience(AudienceOf(viewer))))
	})
	_, err := sys.CreateObject(emitter(t, mgl64.Vec3{}, mgl64.Vec3{}, false)...)
	require.NoError(t, err)

	require.NoError(t, sys.Tick(1))
	require.Len(t, sink.calls, 1)
	assert.Equal(t, []uuid.UUID{viewer}, sink.calls[0].audience.Viewers())
}

func TestOutlineRenderer(t *testing.T) {
	sink := &recordingSink{}
	sys, _ := newTestSystem(t, sink, func(b *Builder) {
		b.Origin(mgl64.Vec3{10, 0, 0}).Renderer(NewOutlineRenderer())
	})
	sphere, err := shape.NewSphere(mgl64.Vec3{}, 1)
	require.NoError(t, err)
	outline, err := NewOutline(sphere, 1, mustParticle(t, ParticleDust))
	require.NoError(t, err)
	phys, err := NewPhysics(mgl64.Vec3{}, mgl64.Vec3{})
	require.NoError(t, err)
	_, err = sys.CreateObject(phys, outline)
	require.NoError(t, err)

	require.NoError(t, sys.Tick(1))
	assert.Equal(t, []mgl64.Vec3{
		{9, 0, 0},
		{10, -1, 0},
		{10, 0, -1},
		{10, 0, 0},
		{10, 0, 1},
		{10, 1, 0},
		{11, 0, 0},
	}, sink.positions())
}

func TestOutlineRendererStopsAtFirstFailure(t *testing.T) {
	calls := 0
	sink := SinkFunc(func(mgl64.Vec3, ParticleDefinition, Audience) error {
		calls++
		return errors.New("dropped")
	})
	sys, log := newTestSystem(t, sink, func(b *Builder) { b.Renderer(NewOutlineRenderer()) })
	box, err := shape.NewCuboid(mgl64.Vec3{}, mgl64.Vec3{2, 2, 2})
	require.NoError(t, err)
	outline, err := NewOutline(box, 1, mustParticle(t, ParticleLava))
	require.NoError(t, err)
	_, err = sys.CreateObject(&Physics{}, outline)
	require.NoError(t, err)

	require.NoError(t, sys.Tick(1))
	assert.Equal(t, 1, calls)
	require.Len(t, log.errs, 1)
	assert.ErrorIs(t, log.errs[0], ErrSinkFailure)
}

func TestNewOutlineValidation(t *testing.T) {
	sphere, err := shape.NewSphere(mgl64.Vec3{}, 1)
	require.NoError(t, err)

	_, err = NewOutline(nil, 1, mustParticle(t, ParticleLava))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewOutline(sphere, 0, mustParticle(t, ParticleLava))
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = NewOutline(sphere, 1, ParticleDefinition{})
	assert.ErrorIs(t, err, ErrInvalidArgument)
}
