package pfx

// Updater mutates traits once per tick for every object that matches its
// filter. Updaters are how traits get autonomous behaviour; renderers only read.
type Updater interface {
	Name() string
	Filter() Filter
	Update(f *Frame, o *Object) error
}

// PhysicsUpdater integrates velocity into position:
//
//	position += velocity * dt / timeUnit
//
// Every system runs it as the first Default stage updater.
type PhysicsUpdater struct{}

func (PhysicsUpdater) Name() string { return "physics" }

func (PhysicsUpdater) Filter() Filter { return Query(With[Physics]{}) }

func (PhysicsUpdater) Update(f *Frame, o *Object) error {
	if p := Get[Physics](o); p != nil {
		p.integrate(f.Step())
	}
	return nil
}

// LifetimeUpdater counts lifetimes down by dt and removes objects whose
// lifetime has run out. Every system runs it as the first After stage updater.
type LifetimeUpdater struct{}

func (LifetimeUpdater) Name() string { return "lifetime" }

func (LifetimeUpdater) Filter() Filter { return Query(With[Lifetime]{}) }

func (LifetimeUpdater) Update(f *Frame, o *Object) error {
	l := Get[Lifetime](o)
	if l == nil {
		return nil
	}
	l.remaining -= f.DT()
	if l.Expired() {
		return f.RemoveObject(o)
	}
	return nil
}

// UpdaterFunc adapts a function to the Updater interface.
type UpdaterFunc struct {
	name   string
	filter Filter
	fn     func(f *Frame, o *Object) error
}

// NewUpdaterFunc returns an Updater calling fn for every object matching filter.
func NewUpdaterFunc(name string, filter Filter, fn func(f *Frame, o *Object) error) UpdaterFunc {
	return UpdaterFunc{name: name, filter: filter, fn: fn}
}

func (u UpdaterFunc) Name() string   { return u.name }
func (u UpdaterFunc) Filter() Filter { return u.filter }

func (u UpdaterFunc) Update(f *Frame, o *Object) error {
	return u.fn(f, o)
}
