package pfx

import (
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	c, err := LoadConfig(strings.NewReader(`
origin: [0, 64, 0]
time_unit: 50
tick_rate: 100ms
speed_threshold: 1.5
renderers: [outline]
`))
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{0, 64, 0}, c.OriginVec())
	assert.Equal(t, 50.0, c.TimeUnit)
	assert.Equal(t, 100*time.Millisecond, c.TickRate)
	assert.Equal(t, 1.5, c.SpeedThreshold)
	assert.Equal(t, []string{"outline"}, c.Renderers)
}

func TestLoadConfigDefaults(t *testing.T) {
	c, err := LoadConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), *c)

	c, err = LoadConfig(strings.NewReader("time_unit: 20\n"))
	require.NoError(t, err)
	assert.Equal(t, 20.0, c.TimeUnit)
	assert.Equal(t, DefaultTickRate, c.TickRate)
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"negative time unit": "time_unit: -1\n",
		"zero threshold":     "speed_threshold: 0\n",
		"unknown field":      "colour: red\n",
		"bad duration":       "tick_rate: soon\n",
		"malformed":          "origin: [1, 2\n",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(strings.NewReader(doc))
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestConfigBuilder(t *testing.T) {
	c := DefaultConfig()
	c.Origin = [3]float64{1, 2, 3}
	c.SpeedThreshold = 4

	b, err := c.Builder(DefaultRenderers())
	require.NoError(t, err)
	sys, err := b.Sink(NopSink{}).Build()
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, sys.Origin())
	require.Len(t, sys.renderers, 2)
	assert.Equal(t, "particles", sys.renderers[0].Name())
	assert.Equal(t, "outline", sys.renderers[1].Name())
	assert.Equal(t, 4.0, sys.renderers[0].(*ParticleRenderer).Threshold())

	c.Renderers = []string{"particles", "sparkles"}
	_, err = c.Builder(DefaultRenderers())
	assert.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, DefaultTickRate, c.Scheduler(nil).TickRate())
}
