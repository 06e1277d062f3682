package shape

import (
	"math"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/go-gl/mathgl/mgl64"
)

// Vectors are plain mgl64.Vec3 values, the same type Dragonfly uses for world
// positions. Add, Sub, Mul and Len come from mgl64 and never modify their
// receiver. The helpers below cover what mgl64 lacks.

// Distance returns the Euclidean distance between a and b.
func Distance(a, b mgl64.Vec3) float64 {
	return a.Sub(b).Len()
}

// InSphere reports whether p lies within radius of centre.
// The boundary is inclusive.
func InSphere(p, centre mgl64.Vec3, radius float64) bool {
	return Distance(p, centre) <= radius
}

// Finite reports whether every component of v is a finite number.
func Finite(v mgl64.Vec3) bool {
	return finite(v[0]) && finite(v[1]) && finite(v[2])
}

// Block returns the block position that contains v.
func Block(v mgl64.Vec3) cube.Pos {
	return cube.PosFromVec3(v)
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
