// Package shape provides immutable geometric volumes for laying out particle
// effects in a voxel world.
//
// Every shape can test containment, report its axis-aligned bounds and walk
// the lattice of points it contains at a chosen resolution:
//
//	s, err := shape.NewSphere(mgl64.Vec3{0, 64, 0}, 3)
//	if err != nil {
//	    return err
//	}
//	points, err := s.Points(0.5)
//	if err != nil {
//	    return err
//	}
//	for p := range points {
//	    // p is inside the sphere.
//	}
//
// # Enumeration order
//
// Points are produced with X as the outermost axis, then Y, then Z. Each
// coordinate is computed as min + i*step rather than accumulated, and clamped
// to the far face of the bounds, so two walks over the same shape and step
// always yield the same sequence.
package shape

import (
	"errors"
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ErrInvalidArgument is returned when a caller passes a value outside the
	// domain of an operation, such as a non-positive step.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConstruction is returned when a shape cannot be built from the given
	// values. It wraps ErrInvalidArgument.
	ErrConstruction = fmt.Errorf("%w: construction failed", ErrInvalidArgument)
)

// Shape is a closed geometric volume.
type Shape interface {
	// Contains reports whether p is inside the shape. Boundaries are inclusive.
	Contains(p mgl64.Vec3) bool
	// Bounds returns the axis-aligned box enclosing the shape.
	Bounds() Cuboid
	// Center returns the centre of the shape.
	Center() mgl64.Vec3
	// Points returns the lattice points at the given step that lie inside the shape.
	Points(step float64) (iter.Seq[mgl64.Vec3], error)
}

var (
	_ Shape = Sphere{}
	_ Shape = Cuboid{}
	_ Shape = Cylinder{}
)

// countTolerance absorbs rounding error when dividing an extent by the step,
// so that e.g. an extent of 0.3 at step 0.1 yields four points, not three.
const countTolerance = 1e-9

// Points walks the lattice of s.Bounds() at the given step and yields every
// point s contains. The returned sequence is lazy and may be ranged over any
// number of times.
func Points(s Shape, step float64) (iter.Seq[mgl64.Vec3], error) {
	lattice, err := s.Bounds().lattice(step)
	if err != nil {
		return nil, err
	}
	return func(yield func(mgl64.Vec3) bool) {
		for p := range lattice {
			if s.Contains(p) && !yield(p) {
				return
			}
		}
	}, nil
}

// Count returns the number of points Points would yield for s at step.
func Count(s Shape, step float64) (int, error) {
	seq, err := s.Points(step)
	if err != nil {
		return 0, err
	}
	n := 0
	for range seq {
		n++
	}
	return n, nil
}

// validStep checks the step argument shared by all enumerations.
func validStep(step float64) error {
	if !finite(step) || step <= 0 {
		return fmt.Errorf("%w: step must be > 0, got %v", ErrInvalidArgument, step)
	}
	return nil
}

// maxAxisPoints caps the number of lattice points along a single axis.
const maxAxisPoints = math.MaxInt32

// axisCount returns how many lattice points fit in [lo, hi] at step.
func axisCount(lo, hi, step float64) (int, error) {
	f := math.Floor((hi-lo)/step + countTolerance)
	if f >= maxAxisPoints {
		return 0, fmt.Errorf("%w: step %v is too small for an extent of %v", ErrInvalidArgument, step, hi-lo)
	}
	return int(f) + 1, nil
}
