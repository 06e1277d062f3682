package shape

import (
	"iter"
	"math"
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s Shape, step float64) []mgl64.Vec3 {
	t.Helper()
	seq, err := s.Points(step)
	require.NoError(t, err)
	return slices.Collect(seq)
}

func TestUnitSpherePoints(t *testing.T) {
	s, err := NewSphere(mgl64.Vec3{}, 1)
	require.NoError(t, err)

	got := collect(t, s, 1)
	want := []mgl64.Vec3{
		{-1, 0, 0},
		{0, -1, 0},
		{0, 0, -1},
		{0, 0, 0},
		{0, 0, 1},
		{0, 1, 0},
		{1, 0, 0},
	}
	assert.Equal(t, want, got)
}

func TestSphereBoundaryInclusive(t *testing.T) {
	s, err := NewSphere(mgl64.Vec3{}, 5)
	require.NoError(t, err)

	for _, p := range []mgl64.Vec3{
		{5, 0, 0}, {-5, 0, 0}, {0, 5, 0}, {0, 0, -5},
		{3, 4, 0}, {0, -3, 4}, {4, 0, 3},
	} {
		assert.Equal(t, 5.0, Distance(p, s.Origin()))
		assert.True(t, s.Contains(p), "%v should be on the surface", p)
	}
	assert.False(t, s.Contains(mgl64.Vec3{5.0001, 0, 0}))
}

func TestZeroRadiusSphere(t *testing.T) {
	s, err := NewSphere(mgl64.Vec3{2, 3, 4}, 0)
	require.NoError(t, err)
	assert.Equal(t, []mgl64.Vec3{{2, 3, 4}}, collect(t, s, 0.5))
}

func TestSphereConstruction(t *testing.T) {
	_, err := NewSphere(mgl64.Vec3{}, -1)
	assert.ErrorIs(t, err, ErrConstruction)

	_, err = NewSphere(mgl64.Vec3{math.NaN(), 0, 0}, 1)
	assert.ErrorIs(t, err, ErrConstruction)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = NewSphere(mgl64.Vec3{}, math.Inf(1))
	assert.ErrorIs(t, err, ErrConstruction)

	s, err := NewSphere(mgl64.Vec3{1, 1, 1}, 2)
	require.NoError(t, err)
	moved, err := s.WithOrigin(mgl64.Vec3{5, 5, 5})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{5, 5, 5}, moved.Origin())
	assert.Equal(t, 2.0, moved.Radius())
	assert.Equal(t, mgl64.Vec3{1, 1, 1}, s.Origin(), "original must not change")

	_, err = s.WithRadius(-3)
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestCuboidNormalisesCorners(t *testing.T) {
	c, err := NewCuboid(mgl64.Vec3{3, -1, 2}, mgl64.Vec3{-3, 1, -2})
	require.NoError(t, err)
	assert.Equal(t, mgl64.Vec3{-3, -1, -2}, c.Min())
	assert.Equal(t, mgl64.Vec3{3, 1, 2}, c.Max())
	assert.Equal(t, mgl64.Vec3{6, 2, 4}, c.Size())
	assert.Equal(t, mgl64.Vec3{}, c.Center())
	assert.Equal(t, c, c.Bounds())
}

func TestCuboidContainsFaces(t *testing.T) {
	c, err := NewCuboid(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 2, 3})
	require.NoError(t, err)

	assert.True(t, c.Contains(mgl64.Vec3{0, 0, 0}))
	assert.True(t, c.Contains(mgl64.Vec3{1, 2, 3}))
	assert.True(t, c.Contains(mgl64.Vec3{0.5, 2, 1}))
	assert.False(t, c.Contains(mgl64.Vec3{1.01, 1, 1}))
	assert.False(t, c.Contains(mgl64.Vec3{0.5, -0.01, 1}))
}

func TestCuboidRejectsNonFinite(t *testing.T) {
	for _, v := range []mgl64.Vec3{
		{math.NaN(), 0, 0},
		{0, math.Inf(1), 0},
		{0, 0, math.Inf(-1)},
	} {
		_, err := NewCuboid(v, mgl64.Vec3{})
		assert.ErrorIs(t, err, ErrConstruction)
	}
}

func TestCuboidLattice(t *testing.T) {
	c, err := NewCuboid(mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 0.3})
	require.NoError(t, err)

	n, err := Count(c, 0.1)
	require.NoError(t, err)
	// 11 * 11 * 4: the 0.3 extent must not lose its last point to rounding.
	assert.Equal(t, 484, n)

	got := collect(t, c, 0.5)
	assert.Len(t, got, 3*3*1)
	assert.Equal(t, mgl64.Vec3{0, 0, 0}, got[0])
	assert.Equal(t, mgl64.Vec3{0, 0.5, 0}, got[1], "Z is innermost, then Y")
	assert.Equal(t, mgl64.Vec3{1, 1, 0}, got[len(got)-1])
}

func TestCuboidLatticeStaysInside(t *testing.T) {
	for _, far := range []mgl64.Vec3{
		{0, 0, 0.3},
		{0.7, 0.3, 0.9},
		{1, 1, 0.3},
	} {
		c, err := NewCuboid(mgl64.Vec3{}, far)
		require.NoError(t, err)

		got := collect(t, c, 0.1)
		for _, p := range got {
			assert.True(t, c.Contains(p), "%v outside %v", p, c)
		}
		filtered, err := Points(c, 0.1)
		require.NoError(t, err)
		assert.Equal(t, got, slices.Collect(filtered), "the box walk and the filtered walk agree")
	}

	c, err := NewCuboid(mgl64.Vec3{}, mgl64.Vec3{0, 0, 0.3})
	require.NoError(t, err)
	got := collect(t, c, 0.1)
	require.Len(t, got, 4)
	assert.Equal(t, mgl64.Vec3{0, 0, 0.3}, got[3], "last point sits on the face")
}

func TestSphereKeepsBoundaryPoints(t *testing.T) {
	s, err := NewSphere(mgl64.Vec3{}, 0.3)
	require.NoError(t, err)

	got := collect(t, s, 0.1)
	for _, p := range got {
		assert.True(t, s.Contains(p), "%v outside %v", p, s)
	}
	onFarFace := slices.ContainsFunc(got, func(p mgl64.Vec3) bool {
		return math.Abs(p[0]-0.3) < 1e-9
	})
	assert.True(t, onFarFace, "the +X pole of the sphere is a lattice point")
}

func TestLatticeTooFine(t *testing.T) {
	c, err := NewCuboid(mgl64.Vec3{}, mgl64.Vec3{1e6, 1e6, 1e6})
	require.NoError(t, err)

	_, err = c.Points(1e-14)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	s, err := NewSphere(mgl64.Vec3{}, 1e6)
	require.NoError(t, err)
	_, err = s.Points(1e-14)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestInvalidStep(t *testing.T) {
	s, err := NewSphere(mgl64.Vec3{}, 1)
	require.NoError(t, err)

	for _, step := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := s.Points(step)
		assert.ErrorIs(t, err, ErrInvalidArgument, "step %v", step)
		_, err = s.Bounds().Points(step)
		assert.ErrorIs(t, err, ErrInvalidArgument, "step %v", step)
	}
}

func TestPointsAreLazy(t *testing.T) {
	c, err := NewCuboid(mgl64.Vec3{}, mgl64.Vec3{1e6, 1e6, 1e6})
	require.NoError(t, err)

	seq, err := c.Points(0.001)
	require.NoError(t, err)

	var first []mgl64.Vec3
	for p := range seq {
		first = append(first, p)
		if len(first) == 3 {
			break
		}
	}
	assert.Equal(t, []mgl64.Vec3{{0, 0, 0}, {0, 0, 0.001}, {0, 0, 0.002}}, first)
}

func TestPointsRestartable(t *testing.T) {
	s, err := NewSphere(mgl64.Vec3{0.3, -2, 7}, 2.5)
	require.NoError(t, err)

	seq, err := s.Points(0.5)
	require.NoError(t, err)
	first := slices.Collect(seq)
	second := slices.Collect(seq)
	require.NotEmpty(t, first)
	assert.Equal(t, first, second)

	again := collect(t, s, 0.5)
	assert.Equal(t, first, again)
}

func shapes(t *testing.T) []Shape {
	t.Helper()
	sphere, err := NewSphere(mgl64.Vec3{1, 2, 3}, 2.2)
	require.NoError(t, err)
	cuboid, err := NewCuboid(mgl64.Vec3{-1, 0, 1}, mgl64.Vec3{2, 1.5, -1})
	require.NoError(t, err)
	cylinder, err := NewCylinder(mgl64.Vec3{0, 64, 0}, 1.5, 3)
	require.NoError(t, err)
	return []Shape{sphere, cuboid, cylinder}
}

func TestBoundsSoundness(t *testing.T) {
	for _, s := range shapes(t) {
		bounds := s.Bounds()
		for _, step := range []float64{0.25, 0.5, 1} {
			for p := range mustPoints(t, s, step) {
				assert.True(t, bounds.Contains(p), "%v: %v outside bounds", s, p)
			}
		}
		assert.True(t, bounds.Contains(s.Center()), "%v: centre outside bounds", s)
	}
}

func TestEnumerationFilterLaw(t *testing.T) {
	for _, s := range shapes(t) {
		for _, step := range []float64{0.25, 0.5, 0.7, 1} {
			var want []mgl64.Vec3
			for p := range mustPoints(t, s.Bounds(), step) {
				if s.Contains(p) {
					want = append(want, p)
				}
			}
			got := slices.Collect(mustPoints(t, s, step))
			assert.Equal(t, want, got, "%v at step %v", s, step)
		}
	}
}

func TestCylinder(t *testing.T) {
	c, err := NewCylinder(mgl64.Vec3{0, 10, 0}, 2, 4)
	require.NoError(t, err)

	assert.True(t, c.Contains(mgl64.Vec3{0, 10, 0}))
	assert.True(t, c.Contains(mgl64.Vec3{2, 14, 0}))
	assert.True(t, c.Contains(mgl64.Vec3{0, 12, -2}))
	assert.False(t, c.Contains(mgl64.Vec3{0, 9.9, 0}))
	assert.False(t, c.Contains(mgl64.Vec3{0, 14.1, 0}))
	assert.False(t, c.Contains(mgl64.Vec3{1.5, 12, 1.5}))
	assert.Equal(t, mgl64.Vec3{0, 12, 0}, c.Center())

	_, err = NewCylinder(mgl64.Vec3{}, 1, -1)
	assert.ErrorIs(t, err, ErrConstruction)
}

func TestBBoxConversion(t *testing.T) {
	c, err := NewCuboid(mgl64.Vec3{-1, 2, -3}, mgl64.Vec3{4, 5, 6})
	require.NoError(t, err)

	box := c.BBox()
	assert.Equal(t, c.Min(), box.Min())
	assert.Equal(t, c.Max(), box.Max())

	back, err := FromBBox(box)
	require.NoError(t, err)
	assert.Equal(t, c, back)
}

func TestVectorHelpers(t *testing.T) {
	assert.Equal(t, 0.0, mgl64.Vec3{}.Len())
	assert.Equal(t, 5.0, Distance(mgl64.Vec3{1, 1, 1}, mgl64.Vec3{4, 5, 1}))
	assert.True(t, InSphere(mgl64.Vec3{1, 0, 0}, mgl64.Vec3{}, 1))
	assert.False(t, InSphere(mgl64.Vec3{1, 1, 0}, mgl64.Vec3{}, 1))
	assert.True(t, Finite(mgl64.Vec3{1, -2, 3}))
	assert.False(t, Finite(mgl64.Vec3{0, math.NaN(), 0}))

	pos := Block(mgl64.Vec3{1.5, -0.5, 2.9})
	assert.Equal(t, 1, pos.X())
	assert.Equal(t, -1, pos.Y())
	assert.Equal(t, 2, pos.Z())

	a := mgl64.Vec3{1, 2, 3}
	_ = a.Add(mgl64.Vec3{1, 1, 1})
	assert.Equal(t, mgl64.Vec3{1, 2, 3}, a, "vector operations return new values")
}

func mustPoints(t *testing.T, s Shape, step float64) iter.Seq[mgl64.Vec3] {
	t.Helper()
	seq, err := s.Points(step)
	require.NoError(t, err)
	return seq
}
