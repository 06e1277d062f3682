package pfx

import (
	"reflect"
	"strings"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Object is a bag of traits owned by a System.
// Objects are created with System.CreateObject or Frame.CreateObject and
// the *Object returned is the only handle callers hold.
//
// An object is live from the moment its system inserts it until it is
// removed; removal is terminal.
type Object struct {
	id uuid.UUID

	// mask tracks which traits are present
	mask Bitmask

	// traits stores trait pointers indexed by TraitID
	traits [MaxTraits]unsafe.Pointer

	// mu protects mask and traits
	mu sync.RWMutex

	// system is the system that owns this object. Cleared on removal so a
	// removed handle does not keep its system alive.
	system atomic.Pointer[System]

	removed atomic.Bool
}

// newObject creates an object owned by s.
func newObject(s *System) *Object {
	o := &Object{id: uuid.New()}
	o.system.Store(s)
	return o
}

// ID returns the unique identifier of the object.
func (o *Object) ID() uuid.UUID {
	return o.id
}

// System returns the system that owns the object, or nil once removed.
func (o *Object) System() *System {
	return o.system.Load()
}

// Removed returns true once the object has been removed from its system.
func (o *Object) Removed() bool {
	return o.removed.Load()
}

// Mask returns a copy of the object's trait bitmask.
func (o *Object) Mask() Bitmask {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.mask
}

// AbsolutePosition returns the world position of the object: the origin of
// its system plus the position of its Physics trait. ok is false when the
// object has no Physics trait or has been removed.
func (o *Object) AbsolutePosition() (pos mgl64.Vec3, ok bool) {
	s := o.System()
	phys := Get[Physics](o)
	if s == nil || phys == nil {
		return mgl64.Vec3{}, false
	}
	return s.Origin().Add(phys.Position()), true
}

// String returns a string representation of the object for debugging.
func (o *Object) String() string {
	names := make([]string, 0, MaxTraits)
	for _, id := range o.Mask().IDs() {
		names = append(names, TraitName(id))
	}
	return "Object{ID: " + o.id.String() + ", Traits: [" + strings.Join(names, ", ") + "]}"
}

// attach stores a trait, detaching the previous trait of the same type.
func (o *Object) attach(id TraitID, ptr unsafe.Pointer, value any) {
	o.mu.Lock()
	old := o.traits[id]
	o.traits[id] = ptr
	o.mask.Set(id)
	o.mu.Unlock()

	if old != nil && old != ptr {
		if d, ok := traitAt(id, old).(Detachable); ok {
			d.Detach(o)
		}
	}
	if a, ok := value.(Attachable); ok {
		a.Attach(o)
	}
}

// detach clears a trait and calls its Detach hook.
func (o *Object) detach(id TraitID) {
	o.mu.Lock()
	ptr := o.traits[id]
	if ptr == nil {
		o.mu.Unlock()
		return
	}
	// Clear before calling Detach to prevent re-entrancy issues
	o.traits[id] = nil
	o.mask.Clear(id)
	o.mu.Unlock()

	if d, ok := traitAt(id, ptr).(Detachable); ok {
		d.Detach(o)
	}
}

// release marks the object removed, detaches every trait and drops the
// back-reference to its system. It returns false if the object was already
// removed.
func (o *Object) release() bool {
	if o.removed.Swap(true) {
		return false
	}

	// Collect Detachable traits while the object is still intact so the
	// hooks can read sibling traits.
	var toDetach []Detachable
	o.mu.RLock()
	for _, id := range o.mask.IDs() {
		if d, ok := traitAt(id, o.traits[id]).(Detachable); ok {
			toDetach = append(toDetach, d)
		}
	}
	o.mu.RUnlock()

	for _, d := range toDetach {
		d.Detach(o)
	}

	o.mu.Lock()
	o.traits = [MaxTraits]unsafe.Pointer{}
	o.mask = 0
	o.mu.Unlock()

	o.system.Store(nil)
	return true
}

// traitAt rebuilds a typed pointer for a stored trait.
func traitAt(id TraitID, ptr unsafe.Pointer) any {
	t := traitType(id)
	if t == nil || ptr == nil {
		return nil
	}
	return reflect.NewAt(t, ptr).Interface()
}
