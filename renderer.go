package pfx

import (
	"errors"
	"fmt"
	"math"
	"sync"
)

// Renderer turns the traits of an object into particle requests, once per
// tick. The system only calls Render for objects matching Filter; an object
// lacking a required trait is skipped silently.
type Renderer interface {
	Name() string
	Filter() Filter
	Render(f *Frame, o *Object) error
}

// Forgetter is implemented by renderers that keep per-object state. Forget is
// called once an object has left the system.
type Forgetter interface {
	Forget(o *Object)
}

// RendererFunc adapts a function to the Renderer interface.
type RendererFunc struct {
	name   string
	filter Filter
	fn     func(f *Frame, o *Object) error
}

// NewRendererFunc returns a Renderer calling fn for every object matching filter.
func NewRendererFunc(name string, filter Filter, fn func(f *Frame, o *Object) error) RendererFunc {
	return RendererFunc{name: name, filter: filter, fn: fn}
}

func (r RendererFunc) Name() string   { return r.name }
func (r RendererFunc) Filter() Filter { return r.filter }

func (r RendererFunc) Render(f *Frame, o *Object) error {
	return r.fn(f, o)
}

// DefaultSpeedThreshold is the distance, in blocks, a speed-gated object
// travels between two emissions.
const DefaultSpeedThreshold = 0.5

// RendererOption configures the built-in renderers.
type RendererOption func(*rendererOptions)

type rendererOptions struct {
	threshold float64
	audience  Audience
}

func defaultRendererOptions() rendererOptions {
	return rendererOptions{threshold: DefaultSpeedThreshold}
}

// WithSpeedThreshold sets the distance a speed-gated object travels between
// emissions. Values that are not finite and > 0 are ignored.
func WithSpeedThreshold(blocks float64) RendererOption {
	return func(o *rendererOptions) {
		if blocks > 0 && !math.IsInf(blocks, 0) {
			o.threshold = blocks
		}
	}
}

// WithAudience restricts who sees the particles of a renderer.
func WithAudience(a Audience) RendererOption {
	return func(o *rendererOptions) {
		o.audience = a
	}
}

// ParticleRenderer emits the particle definitions of every object carrying
// both Physics and Particles, at the object's absolute position.
//
// When Particles.SpeedBasedFrequency is set, the renderer tracks how far the
// object has moved since it last emitted and only emits once that distance
// reaches the speed threshold. Objects at rest never emit while gated.
type ParticleRenderer struct {
	opts rendererOptions

	travelled map[*Object]float64
	mu        sync.Mutex
}

// NewParticleRenderer returns a ParticleRenderer.
func NewParticleRenderer(opts ...RendererOption) *ParticleRenderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &ParticleRenderer{opts: o, travelled: make(map[*Object]float64)}
}

func (*ParticleRenderer) Name() string { return "particles" }

func (*ParticleRenderer) Filter() Filter {
	return Query(With[Physics]{}, With[Particles]{})
}

// Threshold returns the speed gate distance.
func (r *ParticleRenderer) Threshold() float64 {
	return r.opts.threshold
}

// Render spawns every definition of the object. All definitions are
// attempted; their errors are joined.
func (r *ParticleRenderer) Render(f *Frame, o *Object) error {
	phys, particles, ok := Get2[Physics, Particles](o)
	if !ok {
		return nil
	}
	if particles.SpeedBasedFrequency() && !r.due(o, phys.Speed()*f.Step()) {
		return nil
	}
	pos, ok := o.AbsolutePosition()
	if !ok {
		return nil
	}

	var errs []error
	for _, def := range particles.definitions {
		if err := f.Spawn(pos, def, r.opts.audience); err != nil {
			errs = append(errs, fmt.Errorf("%v: %w", def.Kind(), err))
		}
	}
	return errors.Join(errs...)
}

// due adds distance to the object's accumulator and reports whether it has
// reached the threshold, resetting it if so.
func (r *ParticleRenderer) due(o *Object, distance float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	d := r.travelled[o] + distance
	if d >= r.opts.threshold {
		r.travelled[o] = 0
		return true
	}
	r.travelled[o] = d
	return false
}

// Forget drops the accumulator of a removed object.
func (r *ParticleRenderer) Forget(o *Object) {
	r.mu.Lock()
	delete(r.travelled, o)
	r.mu.Unlock()
}

// OutlineRenderer draws the Outline shape of every object carrying both
// Physics and Outline. The shape is translated to the object's absolute
// position and enumerated lazily; rendering stops at the first failure.
type OutlineRenderer struct {
	opts rendererOptions
}

// NewOutlineRenderer returns an OutlineRenderer. The speed threshold option
// has no effect on it.
func NewOutlineRenderer(opts ...RendererOption) *OutlineRenderer {
	o := defaultRendererOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &OutlineRenderer{opts: o}
}

func (*OutlineRenderer) Name() string { return "outline" }

func (*OutlineRenderer) Filter() Filter {
	return Query(With[Physics]{}, With[Outline]{})
}

func (r *OutlineRenderer) Render(f *Frame, o *Object) error {
	outline := Get[Outline](o)
	pos, ok := o.AbsolutePosition()
	if outline == nil || !ok {
		return nil
	}
	points, err := outline.shape.Points(outline.step)
	if err != nil {
		return err
	}
	for p := range points {
		if err := f.Spawn(pos.Add(p), outline.particle, r.opts.audience); err != nil {
			return err
		}
	}
	return nil
}
