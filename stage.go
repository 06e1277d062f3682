package pfx

// Stage orders updaters within a tick.
// Updaters run in stage order: Before → Default → After, and all of them run
// before any renderer.
type Stage int

const (
	// Before stage runs first. Use for steering and input that physics
	// integration should see in the same tick.
	Before Stage = iota

	// Default stage runs second. The PhysicsUpdater is the first updater of
	// this stage.
	Default

	// After stage runs last. The LifetimeUpdater is the first updater of this
	// stage, so expired objects are removed before rendering.
	After

	// stageCount is the total number of stages.
	stageCount
)

// String returns the string representation of the stage.
func (s Stage) String() string {
	switch s {
	case Before:
		return "Before"
	case Default:
		return "Default"
	case After:
		return "After"
	default:
		return "Unknown"
	}
}

func (s Stage) valid() bool {
	return s >= Before && s < stageCount
}
