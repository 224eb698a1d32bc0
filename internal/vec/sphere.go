package vec

// Sphere - параметр пространственного запроса: центр и радиус.
// Метрика расстояния и перебор тайлов живут в пакете world.
// Радиус не проверяется; отрицательный радиус потребители трактуют как пустую область.
type Sphere struct {
	Radius int
	Center Tripoint
}

// NewSphere создает сферу с радиусом 1 вокруг center
func NewSphere(center Tripoint) Sphere {
	return Sphere{Radius: 1, Center: center}
}

// NewSphereRadius создает сферу с заданным радиусом
func NewSphereRadius(center Tripoint, radius int) Sphere {
	return Sphere{Radius: radius, Center: center}
}

// Empty сообщает, что область не содержит ни одной точки
func (s Sphere) Empty() bool {
	return s.Radius < 0
}
