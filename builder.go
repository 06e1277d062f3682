package pfx

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/oriumgames/pfx/shape"
)

// DefaultTimeUnit makes dt a number of milliseconds and velocities a number
// of blocks per second.
const DefaultTimeUnit = 1000

// Builder configures a System before it is created.
// Use NewBuilder() to create a builder and chain configuration methods.
//
//	sys, err := pfx.NewBuilder().
//	    Origin(mgl64.Vec3{0, 64, 0}).
//	    Sink(df.NewSink(w)).
//	    Renderer(pfx.NewParticleRenderer()).
//	    Build()
type Builder struct {
	origin    mgl64.Vec3
	timeUnit  float64
	sink      Sink
	log       *slog.Logger
	onError   func(error)
	renderers []Renderer
	updaters  []updaterRegistration
}

// NewBuilder creates a new system builder.
func NewBuilder() *Builder {
	return &Builder{timeUnit: DefaultTimeUnit}
}

// Origin sets the world position object positions are relative to.
func (b *Builder) Origin(origin mgl64.Vec3) *Builder {
	b.origin = origin
	return b
}

// TimeUnit sets how much dt makes up one velocity unit. It must be > 0.
func (b *Builder) TimeUnit(unit float64) *Builder {
	b.timeUnit = unit
	return b
}

// Sink sets the sink particle requests are sent to. It is required.
func (b *Builder) Sink(s Sink) *Builder {
	b.sink = s
	return b
}

// Logger sets the logger of the system. Defaults to slog.Default().
func (b *Builder) Logger(log *slog.Logger) *Builder {
	b.log = log
	return b
}

// ErrorHandler sets the function render and update failures are passed to.
// It receives *RenderError and *UpdateError values and runs on the ticking
// goroutine. The default handler logs them at warn level.
func (b *Builder) ErrorHandler(fn func(error)) *Builder {
	b.onError = fn
	return b
}

// Renderer adds a renderer. Renderers run in the order they are added.
func (b *Builder) Renderer(r Renderer) *Builder {
	b.renderers = append(b.renderers, r)
	return b
}

// Updater adds an updater to a stage. Within a stage, updaters run in the
// order they are added, after the built-in updater of that stage.
func (b *Builder) Updater(u Updater, stage Stage) *Builder {
	b.updaters = append(b.updaters, updaterRegistration{updater: u, stage: stage})
	return b
}

// Bundle adds every renderer and updater of a bundle.
func (b *Builder) Bundle(bund *Bundle) *Builder {
	if bund == nil {
		return b
	}
	b.renderers = append(b.renderers, bund.renderers...)
	b.updaters = append(b.updaters, bund.updaters...)
	return b
}

// Build validates the configuration and creates the system.
func (b *Builder) Build() (*System, error) {
	var errs []error
	if !shape.Finite(b.origin) {
		errs = append(errs, fmt.Errorf("%w: origin must be finite, got %v", ErrInvalidArgument, b.origin))
	}
	if math.IsNaN(b.timeUnit) || math.IsInf(b.timeUnit, 0) || b.timeUnit <= 0 {
		errs = append(errs, fmt.Errorf("%w: time unit must be > 0, got %v", ErrInvalidArgument, b.timeUnit))
	}
	if b.sink == nil {
		errs = append(errs, fmt.Errorf("%w: sink is required", ErrInvalidArgument))
	}
	for i, r := range b.renderers {
		if r == nil {
			errs = append(errs, fmt.Errorf("%w: renderer %d is nil", ErrInvalidArgument, i))
		}
	}
	for i, reg := range b.updaters {
		if reg.updater == nil {
			errs = append(errs, fmt.Errorf("%w: updater %d is nil", ErrInvalidArgument, i))
		}
		if !reg.stage.valid() {
			errs = append(errs, fmt.Errorf("%w: updater %d has unknown stage %v", ErrInvalidArgument, i, reg.stage))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	s := &System{
		origin:    b.origin,
		timeUnit:  b.timeUnit,
		renderers: append([]Renderer(nil), b.renderers...),
		sink:      b.sink,
		log:       b.log,
		onError:   b.onError,
		index:     make(map[uuid.UUID]*Object),
		tasks:     newTaskQueue(),
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	if s.onError == nil {
		s.onError = s.logError
	}

	s.updaters[Default] = append(s.updaters[Default], PhysicsUpdater{})
	s.updaters[After] = append(s.updaters[After], LifetimeUpdater{})
	for _, reg := range b.updaters {
		s.updaters[reg.stage] = append(s.updaters[reg.stage], reg.updater)
	}
	return s, nil
}
