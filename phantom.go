package pfx

// With is a phantom type that requires a trait to be present.
// The trait is not fetched - it's only used for filtering.
//
// Usage:
//
//	func (r *MyRenderer) Filter() pfx.Filter {
//	    return pfx.Query(pfx.With[pfx.Physics]{}, pfx.With[Glow]{})
//	}
type With[T any] struct{}

// Without is a phantom type that requires a trait to be absent.
// A renderer or updater is skipped for objects that carry the trait.
//
// Usage:
//
//	pfx.Query(pfx.With[pfx.Physics]{}, pfx.Without[Frozen]{})
type Without[T any] struct{}

// Term is implemented by With and Without.
type Term interface {
	apply(f *Filter)
}

func (With[T]) apply(f *Filter)    { f.require.Set(traitID[T]()) }
func (Without[T]) apply(f *Filter) { f.exclude.Set(traitID[T]()) }

// Filter selects objects by the traits they carry. The zero Filter matches
// every object.
type Filter struct {
	require Bitmask
	exclude Bitmask
}

// Query builds a Filter from With and Without terms.
func Query(terms ...Term) Filter {
	var f Filter
	for _, t := range terms {
		t.apply(&f)
	}
	return f
}

// Require returns the mask of traits that must be present.
func (f Filter) Require() Bitmask { return f.require }

// Exclude returns the mask of traits that must be absent.
func (f Filter) Exclude() Bitmask { return f.exclude }

// Match reports whether the object passes the filter.
func (f Filter) Match(o *Object) bool {
	if o == nil {
		return false
	}
	return f.matchMask(o.Mask())
}

func (f Filter) matchMask(m Bitmask) bool {
	return m.ContainsAll(f.require) && !m.ContainsAny(f.exclude)
}
