package world

import (
	"sync"
	"testing"

	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpatialIndex_InsertValidation(t *testing.T) {
	si := NewSpatialIndex()

	err := si.Insert(Object{ID: 1, Kind: tags.ObjectMonster, Pos: vec.TripointMin})
	assert.ErrorIs(t, err, ErrNoPosition)

	err = si.Insert(Object{ID: 1, Kind: tags.ObjectNone, Pos: vec.TripointZero})
	assert.ErrorIs(t, err, ErrInvalidKind)

	err = si.Insert(Object{ID: 1, Kind: tags.NumObjects, Pos: vec.TripointZero})
	assert.ErrorIs(t, err, ErrInvalidKind)

	assert.Equal(t, 0, si.GetObjectCount())
	assert.Equal(t, 0, si.GetCellCount())
}

func TestSpatialIndex_QuerySphere(t *testing.T) {
	si := NewSpatialIndex()

	objects := []Object{
		{ID: 1, Kind: tags.ObjectMonster, Pos: vec.Tripoint{X: 0, Y: 0, Z: 0}},
		{ID: 2, Kind: tags.ObjectItem, Pos: vec.Tripoint{X: 2, Y: 2, Z: 0}},
		{ID: 3, Kind: tags.ObjectNPC, Pos: vec.Tripoint{X: -1, Y: 1, Z: 0}},
		{ID: 4, Kind: tags.ObjectVehicle, Pos: vec.Tripoint{X: 0, Y: 0, Z: 3}},
		// на границе ячейки: -1 и 0 лежат в разных ячейках
		{ID: 5, Kind: tags.ObjectTrap, Pos: vec.Tripoint{X: -16, Y: 0, Z: 0}},
		{ID: 6, Kind: tags.ObjectItem, Pos: vec.Tripoint{X: 0, Y: 0, Z: 0}},
	}
	for _, obj := range objects {
		require.NoError(t, si.Insert(obj))
	}
	assert.Equal(t, len(objects), si.GetObjectCount())

	t.Run("Chebyshev", func(t *testing.T) {
		got := si.QuerySphere(vec.NewSphereRadius(vec.TripointZero, 2), MetricChebyshev)
		ids := objectIDs(got)
		// порядок по позиции, при равной позиции - по ID
		assert.Equal(t, []uint64{3, 1, 6, 2}, ids)
	})

	t.Run("Manhattan", func(t *testing.T) {
		got := si.QuerySphere(vec.NewSphereRadius(vec.TripointZero, 2), MetricManhattan)
		assert.Equal(t, []uint64{3, 1, 6}, objectIDs(got))
	})

	t.Run("Vertical", func(t *testing.T) {
		got := si.QuerySphere(vec.NewSphereRadius(vec.TripointZero, 3), MetricEuclidean)
		assert.Contains(t, objectIDs(got), uint64(4))
	})

	t.Run("Far west", func(t *testing.T) {
		got := si.QuerySphere(vec.NewSphereRadius(vec.Tripoint{X: -17, Y: 0, Z: 0}, 1), MetricChebyshev)
		assert.Equal(t, []uint64{5}, objectIDs(got))
	})

	t.Run("Empty sphere", func(t *testing.T) {
		assert.Empty(t, si.QuerySphere(vec.NewSphereRadius(vec.TripointZero, -1), MetricChebyshev))
	})
}

func TestSpatialIndex_MoveRemove(t *testing.T) {
	si := NewSpatialIndex()
	require.NoError(t, si.Insert(Object{ID: 7, Kind: tags.ObjectMonster, Pos: vec.Tripoint{X: 1, Y: 1, Z: 0}}))

	// перемещение внутри ячейки
	require.NoError(t, si.Move(7, vec.Tripoint{X: 2, Y: 3, Z: 0}))
	assert.Equal(t, 1, si.GetCellCount())

	// перемещение в другую ячейку
	require.NoError(t, si.Move(7, vec.Tripoint{X: 100, Y: -40, Z: 2}))
	assert.Equal(t, 1, si.GetCellCount(), "старая ячейка должна освободиться")

	obj, ok := si.Get(7)
	require.True(t, ok)
	assert.Equal(t, vec.Tripoint{X: 100, Y: -40, Z: 2}, obj.Pos)

	assert.Empty(t, si.QuerySphere(vec.NewSphereRadius(vec.TripointZero, 5), MetricChebyshev))
	got := si.QuerySphere(vec.NewSphere(vec.Tripoint{X: 100, Y: -40, Z: 2}), MetricChebyshev)
	assert.Equal(t, []uint64{7}, objectIDs(got))

	assert.ErrorIs(t, si.Move(8, vec.TripointZero), ErrUnknownObject)
	assert.ErrorIs(t, si.Move(7, vec.TripointMin), ErrNoPosition)

	// повторная вставка перемещает объект
	require.NoError(t, si.Insert(Object{ID: 7, Kind: tags.ObjectMonster, Pos: vec.TripointZero}))
	assert.Equal(t, 1, si.GetObjectCount())
	assert.Equal(t, 1, si.GetCellCount())

	assert.True(t, si.Remove(7))
	assert.False(t, si.Remove(7))
	assert.Equal(t, 0, si.GetCellCount())
	assert.Contains(t, si.GetStats(), "0 objects")
}

func TestSpatialIndex_Concurrent(t *testing.T) {
	si := NewSpatialIndex()

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				id := uint64(w*1000 + i)
				pos := vec.Tripoint{X: i - 50, Y: w * 20, Z: w % 3}
				assert.NoError(t, si.Insert(Object{ID: id, Kind: tags.ObjectItem, Pos: pos}))
				si.QuerySphere(vec.NewSphereRadius(pos, 4), MetricManhattan)
			}
		}(w)
	}
	wg.Wait()

	assert.Equal(t, 800, si.GetObjectCount())
}

func objectIDs(objs []Object) []uint64 {
	ids := make([]uint64, 0, len(objs))
	for _, o := range objs {
		ids = append(ids, o.ID)
	}
	return ids
}
