package df

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/oriumgames/pfx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrailDropsPointsBySpacing(t *testing.T) {
	var spawned []mgl64.Vec3
	sink := pfx.SinkFunc(func(pos mgl64.Vec3, _ pfx.ParticleDefinition, _ pfx.Audience) error {
		spawned = append(spawned, pos)
		return nil
	})
	sys, err := pfx.NewBuilder().
		Origin(mgl64.Vec3{100, 0, 0}).
		Sink(sink).
		Renderer(pfx.NewParticleRenderer()).
		Build()
	require.NoError(t, err)
	defer sys.Close()

	trail, err := NewTrail(sys, definition(t, pfx.ParticleFlame), 100)
	require.NoError(t, err)
	_, err = trail.WithSpacing(1)
	require.NoError(t, err)

	for _, x := range []float64{100, 100.5, 101, 101.2, 102.5} {
		require.NoError(t, trail.move(mgl64.Vec3{x, 64, 0}))
	}
	require.NoError(t, sys.Tick(50))
	assert.Equal(t, []mgl64.Vec3{{101, 64, 0}, {102.5, 64, 0}}, spawned)
	assert.Equal(t, 2, sys.ObjectCount())

	require.NoError(t, sys.Tick(50))
	assert.Equal(t, 0, sys.ObjectCount(), "trail points expire")
}

func TestNewTrailValidation(t *testing.T) {
	sys, err := pfx.NewBuilder().Sink(pfx.NopSink{}).Build()
	require.NoError(t, err)
	defer sys.Close()

	_, err = NewTrail(nil, definition(t, pfx.ParticleFlame), 1)
	assert.ErrorIs(t, err, pfx.ErrInvalidArgument)
	_, err = NewTrail(sys, pfx.ParticleDefinition{}, 1)
	assert.ErrorIs(t, err, pfx.ErrInvalidArgument)
	_, err = NewTrail(sys, definition(t, pfx.ParticleFlame), 0)
	assert.ErrorIs(t, err, pfx.ErrInvalidArgument)

	trail, err := NewTrail(sys, definition(t, pfx.ParticleFlame), 1)
	require.NoError(t, err)
	_, err = trail.WithSpacing(0)
	assert.ErrorIs(t, err, pfx.ErrInvalidArgument)
}

func TestTrailLogsFailedPoints(t *testing.T) {
	sys, err := pfx.NewBuilder().Sink(pfx.NopSink{}).Build()
	require.NoError(t, err)

	var buf bytes.Buffer
	trail, err := NewTrail(sys, definition(t, pfx.ParticleFlame), 100)
	require.NoError(t, err)
	trail.Logger(slog.New(slog.NewTextHandler(&buf, nil)))

	trail.moved(mgl64.Vec3{0, 64, 0})
	require.NoError(t, sys.Close())
	assert.ErrorIs(t, trail.move(mgl64.Vec3{5, 64, 0}), pfx.ErrClosed)

	trail.moved(mgl64.Vec3{10, 64, 0})
	assert.Contains(t, buf.String(), "trail point dropped")
	assert.Contains(t, buf.String(), pfx.ErrClosed.Error())
}
