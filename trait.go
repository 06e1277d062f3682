package pfx

import (
	"fmt"
	"reflect"
	"sync"
	"sync/atomic"
	"unsafe"
)

// TraitID is a unique identifier for a trait type.
// Valid IDs range from 0 to 63.
type TraitID uint8

// MaxTraits is the maximum number of trait types supported.
const MaxTraits = 64

// traitRegistry manages trait type registration with lock-free reads.
// IDs are assigned sequentially the first time a type is used.
type traitRegistry struct {
	// types maps reflect.Type to TraitID. Types are registered once but
	// looked up on every Get, so reads must not take a lock.
	types sync.Map // map[reflect.Type]TraitID

	// names and typesArr are indexed by TraitID and written once per ID.
	names    [MaxTraits]string
	typesArr [MaxTraits]reflect.Type

	nextID atomic.Uint32

	// arrMu protects writes to names and typesArr.
	arrMu sync.RWMutex
}

var globalRegistry = &traitRegistry{}

// registerTraitType registers a trait type and returns its ID.
func registerTraitType(t reflect.Type) TraitID {
	if id, ok := globalRegistry.types.Load(t); ok {
		return id.(TraitID)
	}

	// Allocate before storing so every registration attempt gets a unique ID.
	// A goroutine that loses the LoadOrStore race wastes its ID.
	n := globalRegistry.nextID.Add(1) - 1
	if n >= MaxTraits {
		panic(fmt.Sprintf("pfx: trait limit exceeded (max %d types)", MaxTraits))
	}
	newID := TraitID(n)

	actual, loaded := globalRegistry.types.LoadOrStore(t, newID)
	if loaded {
		return actual.(TraitID)
	}

	globalRegistry.arrMu.Lock()
	globalRegistry.names[newID] = t.Name()
	globalRegistry.typesArr[newID] = t
	globalRegistry.arrMu.Unlock()

	return newID
}

// traitID returns the TraitID for type T, registering it if needed.
func traitID[T any]() TraitID {
	return registerTraitType(reflect.TypeOf((*T)(nil)).Elem())
}

// TraitIDOf returns the TraitID of T, registering T if it has not been seen yet.
func TraitIDOf[T any]() TraitID {
	return traitID[T]()
}

// TraitName returns the name of the trait type with the given ID.
func TraitName(id TraitID) string {
	globalRegistry.arrMu.RLock()
	defer globalRegistry.arrMu.RUnlock()
	return globalRegistry.names[id]
}

// traitType returns the reflect.Type registered under id.
func traitType(id TraitID) reflect.Type {
	globalRegistry.arrMu.RLock()
	defer globalRegistry.arrMu.RUnlock()
	return globalRegistry.typesArr[id]
}

// Attachable is implemented by traits that need initialization logic
// when attached to an object.
type Attachable interface {
	Attach(o *Object)
}

// Detachable is implemented by traits that need cleanup logic when detached
// from an object, when the object is removed or when its system closes.
type Detachable interface {
	Detach(o *Object)
}

// Add attaches a trait to the object.
// If a trait of this type already exists, it is detached and replaced.
// If the trait implements Attachable, its Attach method is called.
//
// Concurrency:
// Add is safe to call from renderers and updaters during a tick. From other
// goroutines, wrap the call in System.Exec so it runs between ticks.
func Add[T any](o *Object, trait *T) {
	if o == nil || trait == nil {
		return
	}
	o.attach(traitID[T](), unsafe.Pointer(trait), trait)
}

// Remove detaches a trait from the object.
// If the trait implements Detachable, its Detach method is called.
func Remove[T any](o *Object) {
	if o == nil {
		return
	}
	o.detach(traitID[T]())
}

// Get retrieves a trait from the object.
// Returns nil if the trait is not present.
func Get[T any](o *Object) *T {
	if o == nil {
		return nil
	}
	id := traitID[T]()

	o.mu.RLock()
	ptr := o.traits[id]
	o.mu.RUnlock()

	if ptr == nil {
		return nil
	}
	return (*T)(ptr)
}

// Has checks if a trait type is present on the object.
func Has[T any](o *Object) bool {
	if o == nil {
		return false
	}
	id := traitID[T]()

	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.mask.Has(id)
}

// Get2 returns two traits of the object, or ok == false unless both are present.
//
//	phys, particles, ok := pfx.Get2[pfx.Physics, pfx.Particles](o)
//	if !ok {
//	    return nil
//	}
func Get2[A, B any](o *Object) (a *A, b *B, ok bool) {
	if a = Get[A](o); a == nil {
		return nil, nil, false
	}
	if b = Get[B](o); b == nil {
		return nil, nil, false
	}
	return a, b, true
}

// Get3 returns three traits of the object, or ok == false unless all are present.
func Get3[A, B, C any](o *Object) (a *A, b *B, c *C, ok bool) {
	var ab bool
	if a, b, ab = Get2[A, B](o); !ab {
		return nil, nil, nil, false
	}
	if c = Get[C](o); c == nil {
		return nil, nil, nil, false
	}
	return a, b, c, true
}

// traitValue is a trait passed through an untyped API, resolved with reflection.
type traitValue struct {
	id    TraitID
	ptr   unsafe.Pointer
	value any
}

// resolveTraits validates untyped traits for CreateObject.
// Every trait must be a non-nil pointer to a struct and each type may appear once.
func resolveTraits(traits []any) ([]traitValue, error) {
	out := make([]traitValue, 0, len(traits))
	var seen Bitmask
	for i, trait := range traits {
		val := reflect.ValueOf(trait)
		if !val.IsValid() || val.Kind() != reflect.Ptr || val.IsNil() {
			return nil, fmt.Errorf("%w: trait %d must be a non-nil pointer, got %T", ErrInvalidArgument, i, trait)
		}
		if val.Elem().Kind() != reflect.Struct {
			return nil, fmt.Errorf("%w: trait %d must point to a struct, got %T", ErrInvalidArgument, i, trait)
		}
		id := registerTraitType(val.Type().Elem())
		if seen.Has(id) {
			return nil, fmt.Errorf("%w: duplicate trait %T", ErrInvalidArgument, trait)
		}
		seen.Set(id)
		out = append(out, traitValue{id: id, ptr: val.UnsafePointer(), value: trait})
	}
	return out, nil
}
