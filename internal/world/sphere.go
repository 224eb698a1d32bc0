package world

import "github.com/annel0/tileworld/internal/vec"

// InSphere проверяет, лежит ли p в замкнутой области s по метрике m.
// Отрицательный радиус - пустая область.
func InSphere(s vec.Sphere, p vec.Tripoint, m Metric) bool {
	if s.Empty() {
		return false
	}
	return m.within(p.Sub(s.Center), s.Radius)
}

// SphereTiles перечисляет все тайлы области в порядке vec.Tripoint.Less.
// Область охватывает уровни Center.Z-Radius..Center.Z+Radius.
func SphereTiles(s vec.Sphere, m Metric) []vec.Tripoint {
	if s.Empty() {
		return nil
	}

	r := s.Radius
	side := 2*r + 1
	result := make([]vec.Tripoint, 0, side*side)

	// x, y, z по возрастанию дают порядок Less без сортировки
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			for dz := -r; dz <= r; dz++ {
				d := vec.Tripoint{X: dx, Y: dy, Z: dz}
				if m.within(d, r) {
					result = append(result, s.Center.Add(d))
				}
			}
		}
	}
	return result
}

// LevelTiles перечисляет тайлы области только на уровне центра
func LevelTiles(s vec.Sphere, m Metric) []vec.Tripoint {
	if s.Empty() {
		return nil
	}

	r := s.Radius
	result := make([]vec.Tripoint, 0, (2*r+1)*(2*r+1))
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			d := vec.Point{X: dx, Y: dy}
			if m.within(vec.FromPoint(d, 0), r) {
				result = append(result, s.Center.AddPoint(d))
			}
		}
	}
	return result
}
