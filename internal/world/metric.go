package world

import (
	"fmt"
	"math"
	"strings"

	"github.com/annel0/tileworld/internal/vec"
)

// Metric определяет, как считается расстояние при запросах по Sphere
type Metric uint8

const (
	MetricChebyshev Metric = iota // квадрат/куб: max(|dx|, |dy|, |dz|)
	MetricManhattan               // ромб: |dx| + |dy| + |dz|
	MetricEuclidean               // круг: sqrt(dx² + dy² + dz²)

	NumMetrics
)

var metricNames = [NumMetrics]string{"chebyshev", "manhattan", "euclidean"}

func (m Metric) String() string {
	if m < NumMetrics {
		return metricNames[m]
	}
	return fmt.Sprintf("Metric(%d)", m)
}

// ParseMetric разбирает имя метрики; пустая строка означает Chebyshev
func ParseMetric(name string) (Metric, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return MetricChebyshev, nil
	}
	for i, n := range metricNames {
		if n == name {
			return Metric(i), nil
		}
	}
	return 0, fmt.Errorf("неизвестная метрика %q", name)
}

// Distance возвращает расстояние между a и b в метрике m
func (m Metric) Distance(a, b vec.Tripoint) float64 {
	dx, dy, dz := absInt(a.X-b.X), absInt(a.Y-b.Y), absInt(a.Z-b.Z)
	switch m {
	case MetricManhattan:
		return float64(dx + dy + dz)
	case MetricEuclidean:
		return math.Sqrt(float64(dx*dx + dy*dy + dz*dz))
	default:
		return float64(max(dx, dy, dz))
	}
}

// within сравнивает без плавающей точки: радиус и дельты - целые
func (m Metric) within(d vec.Tripoint, radius int) bool {
	dx, dy, dz := absInt(d.X), absInt(d.Y), absInt(d.Z)
	switch m {
	case MetricManhattan:
		return dx+dy+dz <= radius
	case MetricEuclidean:
		return dx*dx+dy*dy+dz*dz <= radius*radius
	default:
		return dx <= radius && dy <= radius && dz <= radius
	}
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
