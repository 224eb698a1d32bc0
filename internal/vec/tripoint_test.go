package vec

import (
	"math"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTripoints(r int) []Tripoint {
	out := make([]Tripoint, 0, (2*r+1)*(2*r+1)*(2*r+1))
	for x := -r; x <= r; x++ {
		for y := -r; y <= r; y++ {
			for z := -r; z <= r; z++ {
				out = append(out, Tripoint{X: x, Y: y, Z: z})
			}
		}
	}
	return out
}

func TestTripoint_Arithmetic(t *testing.T) {
	a := Tripoint{X: 1, Y: -2, Z: 3}
	b := Tripoint{X: -4, Y: 5, Z: -6}

	assert.Equal(t, Tripoint{X: -3, Y: 3, Z: -3}, a.Add(b))
	assert.Equal(t, Tripoint{X: 5, Y: -7, Z: 9}, a.Sub(b))
	assert.Equal(t, Tripoint{X: -1, Y: 2, Z: -3}, a.Neg())
	assert.Equal(t, TripointZero, a.Add(a.Neg()))

	c := a
	c.AddAssign(b)
	assert.Equal(t, a.Add(b), c)
	c.SubAssign(b)
	assert.Equal(t, a, c)
}

func TestTripoint_AdditiveRoundTrip(t *testing.T) {
	points := sampleTripoints(2)
	for _, a := range points {
		for _, b := range points {
			if got := a.Add(b).Sub(b); got != a {
				t.Fatalf("a+b-b != a: a=%v b=%v got=%v", a, b, got)
			}
			if got := a.Sub(b).Add(b); got != a {
				t.Fatalf("a-b+b != a: a=%v b=%v got=%v", a, b, got)
			}
		}
	}
}

func TestTripoint_MixedArity(t *testing.T) {
	for _, tp := range sampleTripoints(2) {
		for _, d := range samplePoints(2) {
			sum := tp.AddPoint(d)
			assert.Equal(t, Tripoint{X: tp.X + d.X, Y: tp.Y + d.Y, Z: tp.Z}, sum)
			assert.Equal(t, tp.Z, sum.Z, "смещение Point не должно менять уровень")

			diff := tp.SubPoint(d)
			assert.Equal(t, Tripoint{X: tp.X - d.X, Y: tp.Y - d.Y, Z: tp.Z}, diff)

			inPlace := tp
			inPlace.AddAssignPoint(d)
			assert.Equal(t, sum, inPlace)
			inPlace.SubAssignPoint(d)
			assert.Equal(t, tp, inPlace)
		}
	}
}

func TestTripoint_FromPoint(t *testing.T) {
	p := Point{X: 7, Y: -3}
	tp := FromPoint(p, -1)
	assert.Equal(t, Tripoint{X: 7, Y: -3, Z: -1}, tp)
	assert.Equal(t, p, tp.XY())
}

func TestTripoint_HashConsistentWithEquals(t *testing.T) {
	points := sampleTripoints(4)
	seen := make(map[uint64]Tripoint, len(points))
	for _, a := range points {
		b := Tripoint{X: a.X, Y: a.Y, Z: a.Z}
		require.True(t, a.Equals(b))
		require.Equal(t, a.Hash(), b.Hash())

		if prev, ok := seen[a.Hash()]; ok {
			t.Fatalf("коллизия хеша в малом диапазоне: %v и %v", prev, a)
		}
		seen[a.Hash()] = a
	}

	t.Run("Sentinels", func(t *testing.T) {
		assert.Equal(t, uint64(0), TripointZero.Hash())
		assert.Equal(t, TripointMin.Hash(), Tripoint{X: math.MinInt, Y: math.MinInt, Z: math.MinInt}.Hash())
		assert.NotEqual(t, TripointMin.Hash(), TripointZero.Hash())
	})

	t.Run("Single axis neighbours", func(t *testing.T) {
		base := Tripoint{X: 10, Y: 20, Z: 0}
		for _, d := range []Tripoint{{X: 1}, {Y: 1}, {Z: 1}, {X: -1}, {Y: -1}, {Z: -1}} {
			assert.NotEqual(t, base.Hash(), base.Add(d).Hash(), "сосед %v", d)
		}
	})

	t.Run("Fold order", func(t *testing.T) {
		// Z == 0 даёт тот же хеш, что и плоская проекция
		for _, p := range samplePoints(3) {
			assert.Equal(t, p.Hash(), FromPoint(p, 0).Hash())
		}
		// переменная, а не константа: произведение переполняет uint64
		mul := hashMultiplier
		want := (3*mul+2)*mul + 1
		assert.Equal(t, want, Tripoint{X: 1, Y: 2, Z: 3}.Hash())
	})
}

func TestTripoint_Ordering(t *testing.T) {
	t.Run("Axis priority", func(t *testing.T) {
		// отличаются только младшей осью
		assert.True(t, Tripoint{X: 1, Y: 1, Z: 0}.Less(Tripoint{X: 1, Y: 1, Z: 1}))
		assert.False(t, Tripoint{X: 1, Y: 1, Z: 1}.Less(Tripoint{X: 1, Y: 1, Z: 0}))
		// Y важнее Z
		assert.True(t, Tripoint{X: 1, Y: 0, Z: 9}.Less(Tripoint{X: 1, Y: 1, Z: -9}))
		// X важнее Y и Z
		assert.True(t, Tripoint{X: 0, Y: 9, Z: 9}.Less(Tripoint{X: 1, Y: -9, Z: -9}))
	})

	t.Run("Strict total order", func(t *testing.T) {
		points := sampleTripoints(1)
		for _, a := range points {
			require.False(t, a.Less(a))
			for _, b := range points {
				n := 0
				if a.Less(b) {
					n++
				}
				if b.Less(a) {
					n++
				}
				if a == b {
					n++
				}
				require.Equal(t, 1, n, "трихотомия для %v и %v", a, b)
				require.Equal(t, a.Less(b), a.Compare(b) < 0)
				for _, c := range points {
					if a.Less(b) && b.Less(c) {
						require.True(t, a.Less(c), "транзитивность %v < %v < %v", a, b, c)
					}
				}
			}
		}
	})

	t.Run("Sort is deterministic", func(t *testing.T) {
		points := []Tripoint{{2, 0, 0}, {0, 0, 1}, {0, 1, -1}, {0, 0, -1}, TripointMin, {-1, 5, 5}}
		slices.SortFunc(points, Tripoint.Compare)
		assert.Equal(t, []Tripoint{TripointMin, {-1, 5, 5}, {0, 0, -1}, {0, 0, 1}, {0, 1, -1}, {2, 0, 0}}, points)
	})
}

func TestTripoint_Sentinels(t *testing.T) {
	assert.True(t, TripointMin.IsMin())
	assert.False(t, TripointZero.IsMin())
	assert.Equal(t, Tripoint{}, TripointZero)
	// сентинел не обрабатывается особо арифметикой
	assert.Equal(t, Tripoint{X: math.MinInt + 1, Y: math.MinInt, Z: math.MinInt}, TripointMin.Add(Tripoint{X: 1}))
}

func TestTripoint_String(t *testing.T) {
	assert.Equal(t, "1,-2,3", Tripoint{X: 1, Y: -2, Z: 3}.String())
	assert.Equal(t, "4,5", Point{X: 4, Y: 5}.String())
}

func TestSphere(t *testing.T) {
	center := Tripoint{X: 1, Y: 2, Z: 0}

	s := NewSphere(center)
	assert.Equal(t, 1, s.Radius, "радиус по умолчанию равен 1")
	assert.Equal(t, center, s.Center)

	s = NewSphereRadius(center, 5)
	assert.Equal(t, 5, s.Radius)
	assert.False(t, s.Empty())

	assert.True(t, NewSphereRadius(center, -1).Empty())
	assert.Equal(t, Sphere{}, Sphere{Radius: 0, Center: TripointZero})
}
