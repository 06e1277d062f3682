package shape

import (
	"fmt"
	"iter"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cylinder is an upright cylinder standing on the centre of its base.
type Cylinder struct {
	base   mgl64.Vec3
	radius float64
	height float64
}

// NewCylinder returns a cylinder whose base is centred on base and which
// extends height blocks upwards.
func NewCylinder(base mgl64.Vec3, radius, height float64) (Cylinder, error) {
	if !Finite(base) {
		return Cylinder{}, fmt.Errorf("%w: cylinder base must be finite, got %v", ErrConstruction, base)
	}
	if !finite(radius) || radius < 0 {
		return Cylinder{}, fmt.Errorf("%w: cylinder radius must be >= 0, got %v", ErrConstruction, radius)
	}
	if !finite(height) || height < 0 {
		return Cylinder{}, fmt.Errorf("%w: cylinder height must be >= 0, got %v", ErrConstruction, height)
	}
	return Cylinder{base: base, radius: radius, height: height}, nil
}

// Base returns the centre of the bottom cap.
func (c Cylinder) Base() mgl64.Vec3 { return c.base }

// Radius returns the radius of the cylinder.
func (c Cylinder) Radius() float64 { return c.radius }

// Height returns the distance from the bottom cap to the top cap.
func (c Cylinder) Height() float64 { return c.height }

// Center returns the point halfway up the axis.
func (c Cylinder) Center() mgl64.Vec3 {
	return c.base.Add(mgl64.Vec3{0, c.height / 2, 0})
}

// Contains reports whether p is between the base and top planes and within
// radius of the axis. Both caps and the mantle are inclusive.
func (c Cylinder) Contains(p mgl64.Vec3) bool {
	if p[1] < c.base[1] || p[1] > c.base[1]+c.height {
		return false
	}
	return math.Hypot(p[0]-c.base[0], p[2]-c.base[2]) <= c.radius
}

// Bounds returns the box enclosing the cylinder.
func (c Cylinder) Bounds() Cuboid {
	return Cuboid{
		min: mgl64.Vec3{c.base[0] - c.radius, c.base[1], c.base[2] - c.radius},
		max: mgl64.Vec3{c.base[0] + c.radius, c.base[1] + c.height, c.base[2] + c.radius},
	}
}

// Points returns the lattice points of the bounding box that lie in the cylinder.
func (c Cylinder) Points(step float64) (iter.Seq[mgl64.Vec3], error) {
	return Points(c, step)
}

func (c Cylinder) String() string {
	return fmt.Sprintf("Cylinder{Base: %v, Radius: %v, Height: %v}", c.base, c.radius, c.height)
}
