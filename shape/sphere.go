package shape

import (
	"fmt"
	"iter"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Sphere is a ball around an origin.
type Sphere struct {
	origin mgl64.Vec3
	radius float64
}

// NewSphere returns a sphere centred on origin. The radius must be finite and
// not negative; a radius of zero describes a single point.
func NewSphere(origin mgl64.Vec3, radius float64) (Sphere, error) {
	if !Finite(origin) {
		return Sphere{}, fmt.Errorf("%w: sphere origin must be finite, got %v", ErrConstruction, origin)
	}
	if !finite(radius) || radius < 0 {
		return Sphere{}, fmt.Errorf("%w: sphere radius must be >= 0, got %v", ErrConstruction, radius)
	}
	return Sphere{origin: origin, radius: radius}, nil
}

// Origin returns the centre of the sphere.
func (s Sphere) Origin() mgl64.Vec3 { return s.origin }

// Radius returns the radius of the sphere.
func (s Sphere) Radius() float64 { return s.radius }

// Center returns the centre of the sphere.
func (s Sphere) Center() mgl64.Vec3 { return s.origin }

// BlockCenter returns the block that contains the centre of the sphere.
func (s Sphere) BlockCenter() cube.Pos { return Block(s.origin) }

// WithOrigin returns a copy of the sphere moved to origin.
func (s Sphere) WithOrigin(origin mgl64.Vec3) (Sphere, error) {
	return NewSphere(origin, s.radius)
}

// WithRadius returns a copy of the sphere with a different radius.
func (s Sphere) WithRadius(radius float64) (Sphere, error) {
	return NewSphere(s.origin, radius)
}

// Contains reports whether p is within the radius of the origin, surface included.
func (s Sphere) Contains(p mgl64.Vec3) bool {
	return InSphere(p, s.origin, s.radius)
}

// Bounds returns the cube spanning origin ± radius on every axis.
func (s Sphere) Bounds() Cuboid {
	r := mgl64.Vec3{s.radius, s.radius, s.radius}
	return Cuboid{min: s.origin.Sub(r), max: s.origin.Add(r)}
}

// Points returns the lattice points of the bounding box that lie in the sphere.
func (s Sphere) Points(step float64) (iter.Seq[mgl64.Vec3], error) {
	return Points(s, step)
}

func (s Sphere) String() string {
	return fmt.Sprintf("Sphere{Origin: %v, Radius: %v}", s.origin, s.radius)
}
