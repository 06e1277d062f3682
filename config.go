package pfx

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

// Config describes a system in YAML.
//
//	origin: [0, 64, 0]
//	time_unit: 1000
//	tick_rate: 50ms
//	speed_threshold: 0.5
//	renderers: [particles, outline]
type Config struct {
	Origin         [3]float64    `yaml:"origin"`
	TimeUnit       float64       `yaml:"time_unit"`
	TickRate       time.Duration `yaml:"tick_rate"`
	SpeedThreshold float64       `yaml:"speed_threshold"`
	Renderers      []string      `yaml:"renderers"`
}

// DefaultConfig returns the configuration used for fields a YAML document
// leaves out.
func DefaultConfig() Config {
	return Config{
		TimeUnit:       DefaultTimeUnit,
		TickRate:       DefaultTickRate,
		SpeedThreshold: DefaultSpeedThreshold,
		Renderers:      []string{"particles", "outline"},
	}
}

// LoadConfig loads config from a YAML reader on top of DefaultConfig and
// validates it. An empty document yields the defaults.
func LoadConfig(r io.Reader) (*Config, error) {
	c := DefaultConfig()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: decode config: %w", ErrInvalidArgument, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// OriginVec returns the origin as a vector.
func (c *Config) OriginVec() mgl64.Vec3 {
	return mgl64.Vec3(c.Origin)
}

// Validate checks every field of the configuration.
func (c *Config) Validate() error {
	var errs []error
	for i, v := range c.Origin {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: origin[%d] must be finite, got %v", ErrInvalidArgument, i, v))
		}
	}
	if math.IsNaN(c.TimeUnit) || math.IsInf(c.TimeUnit, 0) || c.TimeUnit <= 0 {
		errs = append(errs, fmt.Errorf("%w: time_unit must be > 0, got %v", ErrInvalidArgument, c.TimeUnit))
	}
	if c.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: tick_rate must be > 0, got %v", ErrInvalidArgument, c.TickRate))
	}
	if math.IsNaN(c.SpeedThreshold) || math.IsInf(c.SpeedThreshold, 0) || c.SpeedThreshold <= 0 {
		errs = append(errs, fmt.Errorf("%w: speed_threshold must be > 0, got %v", ErrInvalidArgument, c.SpeedThreshold))
	}
	return errors.Join(errs...)
}

// RendererRegistry creates renderers by the names used in Config.Renderers.
type RendererRegistry map[string]func(c *Config) Renderer

// DefaultRenderers returns a registry of the built-in renderers:
// "particles" and "outline".
func DefaultRenderers() RendererRegistry {
	return RendererRegistry{
		"particles": func(c *Config) Renderer {
			return NewParticleRenderer(WithSpeedThreshold(c.SpeedThreshold))
		},
		"outline": func(c *Config) Renderer {
			return NewOutlineRenderer()
		},
	}
}

// Builder returns a Builder with the origin, time unit and renderers of the
// configuration. The caller still has to set a sink.
func (c *Config) Builder(reg RendererRegistry) (*Builder, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b := NewBuilder().
		Origin(c.OriginVec()).
		TimeUnit(c.TimeUnit)
	for _, name := range c.Renderers {
		fn, ok := reg[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown renderer %q", ErrInvalidArgument, name)
		}
		b.Renderer(fn(c))
	}
	return b, nil
}

// Scheduler returns a scheduler ticking at the configured rate.
func (c *Config) Scheduler(log *slog.Logger) *Scheduler {
	return NewScheduler(c.TickRate, log)
}
