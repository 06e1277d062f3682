// Package pfx provides particle effect objects for Dragonfly servers.
//
// pfx is a small entity/trait layer on top of a particle display sink:
//   - Objects carry traits such as Physics, Particles, Lifetime and Outline
//   - Updaters mutate traits once per tick, stage by stage
//   - Renderers turn traits into particle requests for a Sink
//   - A Scheduler ticks systems at a fixed rate
//
// # Quick Start
//
// Build a system and tick it from a scheduler:
//
//	sys, err := pfx.NewBuilder().
//	    Origin(mgl64.Vec3{0, 64, 0}).
//	    Sink(df.NewSink(srv.World())).
//	    Renderer(pfx.NewParticleRenderer()).
//	    Build()
//	if err != nil {
//	    return err
//	}
//	sched := pfx.NewScheduler(pfx.DefaultTickRate, log)
//	_ = sched.Add(sys)
//	sched.Start()
//	defer sched.Stop()
//
// # Traits
//
// Traits are plain Go structs attached to objects by pointer:
//
//	flame, _ := pfx.NewParticle(pfx.ParticleFlame)
//	phys, _ := pfx.NewPhysics(mgl64.Vec3{}, mgl64.Vec3{0, 2, 0})
//	particles, _ := pfx.NewParticles(true, flame)
//
//	obj, err := sys.CreateObject(phys, particles)
//	p := pfx.Get[pfx.Physics](obj)
//	pfx.Remove[pfx.Particles](obj)
//
// Custom traits work the same way. A trait implementing Attachable or
// Detachable is notified when it is added to or removed from an object.
//
// # Renderers
//
// A renderer declares the traits it needs with a Filter. Objects that do not
// match are skipped without error:
//
//	trail := pfx.NewRendererFunc("trail",
//	    pfx.Query(pfx.With[pfx.Physics]{}, pfx.With[Trail]{}),
//	    func(f *pfx.Frame, o *pfx.Object) error {
//	        pos, _ := o.AbsolutePosition()
//	        return f.Spawn(pos, pfx.Get[Trail](o).Particle, pfx.Audience{})
//	    })
//
// # Ticks
//
// Each tick applies queued work, runs updaters (Before, Default, After), and
// then every renderer against every live object in insertion order. A failing
// renderer is reported to the error handler and does not affect other objects.
//
// # Thread Safety
//
// Tick runs on one goroutine at a time. Changes from other goroutines go
// through System.CreateObject, System.RemoveObject or System.Exec, which are
// applied when the next tick starts.
package pfx

// Version is the pfx version.
const Version = "1.0.0"
