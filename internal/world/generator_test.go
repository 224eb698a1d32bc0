package world

import (
	"testing"

	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerrainGenerator_Deterministic(t *testing.T) {
	s := vec.NewSphereRadius(vec.Tripoint{X: 100, Y: -40, Z: 2}, 6)

	a := NewTerrainGenerator(42).Generate(s)
	b := NewTerrainGenerator(42).Generate(s)
	require.Len(t, a, 13*13)
	assert.Equal(t, a, b, "одинаковый сид - одинаковый рельеф")

	for _, tile := range a {
		assert.Equal(t, 2, tile.Pos.Z, "генерация только на уровне центра")
		assert.True(t, tile.Phase.IsValid())
		assert.True(t, tile.Object.IsValid())
		assert.True(t, tile.Visibility.IsValid())
		assert.NotEqual(t, tags.PNull, tile.Phase)
	}
}

func TestTerrainGenerator_Classification(t *testing.T) {
	g := NewTerrainGenerator(7)
	s := vec.NewSphereRadius(vec.TripointZero, 20)

	for _, tile := range g.Generate(s) {
		h := g.Height(tile.Pos.X, tile.Pos.Y)
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, 1.0)

		switch {
		case h < ShallowWaterMax:
			assert.Equal(t, tags.Liquid, tile.Phase, "вода в %v", tile.Pos)
			assert.Equal(t, tags.ObjectNone, tile.Object)
		case h >= MountainStart:
			assert.Equal(t, tags.VisHidden, tile.Visibility, "скалы в %v", tile.Pos)
		default:
			assert.Contains(t, []tags.PhaseID{tags.Solid, tags.Gas}, tile.Phase)
		}
	}
}

func TestTerrainGenerator_EmptySphere(t *testing.T) {
	assert.Empty(t, NewTerrainGenerator(1).Generate(vec.NewSphereRadius(vec.TripointZero, -1)))
}
