package world

import (
	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/aquilax/go-perlin"
)

// Пороговые высоты рельефа (шум нормирован в [0, 1])
const (
	DeepWaterMax    = 0.20 // Ниже - глубинная вода
	ShallowWaterMax = 0.30 // Ниже - мелководье
	MountainStart   = 0.80 // Выше - скалы
	VentStart       = 0.85 // Порог шума газовых выходов на суше
)

// GeneratedTile - результат генерации одного тайла
type GeneratedTile struct {
	Pos        vec.Tripoint
	Visibility tags.VisibilityType
	Object     tags.ObjectType
	Phase      tags.PhaseID
}

// TerrainGenerator заполняет уровень тайлами по шуму Перлина.
// При одинаковом Seed результат один и тот же.
type TerrainGenerator struct {
	Seed       int64
	NoiseScale float64 // Масштаб шума высоты
	VentScale  float64 // Масштаб шума газовых выходов

	height *perlin.Perlin
	vents  *perlin.Perlin
}

// NewTerrainGenerator создаёт генератор с настройками по умолчанию
func NewTerrainGenerator(seed int64) *TerrainGenerator {
	alpha := 2.0  // Сглаживание шума
	beta := 2.0   // Частота шума
	n := int32(3) // Количество октав

	return &TerrainGenerator{
		Seed:       seed,
		NoiseScale: 0.05,
		VentScale:  0.15,
		height:     perlin.NewPerlin(alpha, beta, n, seed),
		vents:      perlin.NewPerlin(alpha, beta, n, seed+1),
	}
}

// Height возвращает высоту рельефа в точке (от 0 до 1)
func (g *TerrainGenerator) Height(x, y int) float64 {
	return normalize(g.height.Noise2D(float64(x)*g.NoiseScale, float64(y)*g.NoiseScale))
}

// Generate возвращает тайлы уровня центра сферы в порядке vec.Tripoint.Less.
// Уровень берется квадратом Chebyshev, остальные уровни сферы не трогаются.
func (g *TerrainGenerator) Generate(s vec.Sphere) []GeneratedTile {
	positions := LevelTiles(s, MetricChebyshev)
	result := make([]GeneratedTile, 0, len(positions))
	for _, p := range positions {
		result = append(result, g.classify(p))
	}
	return result
}

func (g *TerrainGenerator) classify(p vec.Tripoint) GeneratedTile {
	h := g.Height(p.X, p.Y)
	tile := GeneratedTile{Pos: p}

	switch {
	case h < DeepWaterMax:
		tile.Phase = tags.Liquid
		tile.Visibility = tags.VisDark
	case h < ShallowWaterMax:
		tile.Phase = tags.Liquid
		tile.Visibility = tags.VisClear
	case h >= MountainStart:
		tile.Phase = tags.Solid
		tile.Object = tags.ObjectTerrain
		tile.Visibility = tags.VisHidden
	default:
		tile.Phase = tags.Solid
		tile.Object = tags.ObjectTerrain
		tile.Visibility = tags.VisLit

		v := normalize(g.vents.Noise2D(float64(p.X)*g.VentScale, float64(p.Y)*g.VentScale))
		if v >= VentStart {
			tile.Phase = tags.Gas
			tile.Object = tags.ObjectField
		}
	}
	return tile
}

// normalize переводит шум из [-1, 1] в [0, 1]
func normalize(noise float64) float64 {
	v := (noise + 1.0) / 2.0
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
