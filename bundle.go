package pfx

// Bundle groups renderers and updaters that belong to one effect feature.
// Bundles are registered with the Builder and keep their internal order.
//
//	fire := pfx.NewBundle("fire").
//	    Renderer(pfx.NewParticleRenderer()).
//	    Updater(&FlickerUpdater{}, pfx.Before)
type Bundle struct {
	name string

	renderers []Renderer
	updaters  []updaterRegistration
}

// updaterRegistration holds an updater and the stage it runs in.
type updaterRegistration struct {
	updater Updater
	stage   Stage
}

// NewBundle creates a new bundle with the given name.
func NewBundle(name string) *Bundle {
	return &Bundle{name: name}
}

// Name returns the bundle name.
func (b *Bundle) Name() string {
	return b.name
}

// Renderer adds a renderer to the bundle.
func (b *Bundle) Renderer(r Renderer) *Bundle {
	b.renderers = append(b.renderers, r)
	return b
}

// Updater adds an updater that runs in the given stage.
func (b *Bundle) Updater(u Updater, stage Stage) *Bundle {
	b.updaters = append(b.updaters, updaterRegistration{updater: u, stage: stage})
	return b
}
