package shape

import (
	"fmt"
	"iter"
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Cuboid is an axis-aligned box. The zero value is the single point at the
// world origin.
type Cuboid struct {
	min, max mgl64.Vec3
}

// NewCuboid returns the box spanned by two opposite corners. The corners may
// be given in any order; they are normalised per axis.
func NewCuboid(a, b mgl64.Vec3) (Cuboid, error) {
	if !Finite(a) || !Finite(b) {
		return Cuboid{}, fmt.Errorf("%w: cuboid corners must be finite, got %v and %v", ErrConstruction, a, b)
	}
	return Cuboid{
		min: mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])},
		max: mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])},
	}, nil
}

// FromBBox converts a Dragonfly bounding box to a Cuboid.
func FromBBox(box cube.BBox) (Cuboid, error) {
	return NewCuboid(box.Min(), box.Max())
}

// Min returns the corner with the smallest coordinates.
func (c Cuboid) Min() mgl64.Vec3 { return c.min }

// Max returns the corner with the largest coordinates.
func (c Cuboid) Max() mgl64.Vec3 { return c.max }

// Size returns the extent of the box on every axis.
func (c Cuboid) Size() mgl64.Vec3 { return c.max.Sub(c.min) }

// Center returns the midpoint of the box.
func (c Cuboid) Center() mgl64.Vec3 {
	return c.min.Add(c.max).Mul(0.5)
}

// Translate returns a copy of the box moved by offset.
func (c Cuboid) Translate(offset mgl64.Vec3) Cuboid {
	return Cuboid{min: c.min.Add(offset), max: c.max.Add(offset)}
}

// Contains reports whether p lies inside the box, faces included.
func (c Cuboid) Contains(p mgl64.Vec3) bool {
	return p[0] >= c.min[0] && p[0] <= c.max[0] &&
		p[1] >= c.min[1] && p[1] <= c.max[1] &&
		p[2] >= c.min[2] && p[2] <= c.max[2]
}

// Bounds returns c.
func (c Cuboid) Bounds() Cuboid { return c }

// BBox converts c to a Dragonfly bounding box.
// Note that cube.BBox treats its faces as exclusive in Vec3Within.
func (c Cuboid) BBox() cube.BBox {
	return cube.Box(c.min[0], c.min[1], c.min[2], c.max[0], c.max[1], c.max[2])
}

// Points returns every lattice point of the box at the given step.
func (c Cuboid) Points(step float64) (iter.Seq[mgl64.Vec3], error) {
	return c.lattice(step)
}

// lattice yields min + (i, j, k)*step for every index that stays within the
// box, X outermost and Z innermost. Coordinates are clamped to max so that
// rounding never carries the last point of an axis outside the box.
func (c Cuboid) lattice(step float64) (iter.Seq[mgl64.Vec3], error) {
	if err := validStep(step); err != nil {
		return nil, err
	}
	var n [3]int
	for a := range n {
		count, err := axisCount(c.min[a], c.max[a], step)
		if err != nil {
			return nil, err
		}
		n[a] = count
	}
	coord := func(a, i int) float64 {
		return math.Min(c.min[a]+float64(i)*step, c.max[a])
	}

	return func(yield func(mgl64.Vec3) bool) {
		for i := 0; i < n[0]; i++ {
			x := coord(0, i)
			for j := 0; j < n[1]; j++ {
				y := coord(1, j)
				for k := 0; k < n[2]; k++ {
					if !yield(mgl64.Vec3{x, y, coord(2, k)}) {
						return
					}
				}
			}
		}
	}, nil
}

func (c Cuboid) String() string {
	return fmt.Sprintf("Cuboid{Min: %v, Max: %v}", c.min, c.max)
}
