package vec

import (
	"math"
	"strconv"
)

// Tripoint представляет позицию в мире: X, Y в плоскости и Z - дискретный
// уровень (0 - поверхность, -1 - подвал и т.д.), а не высота.
type Tripoint struct {
	X int
	Y int
	Z int
}

var (
	// TripointMin означает "нет позиции" / "не инициализировано".
	// Ни одна операция не обрабатывает его особо: проверка на стороне вызывающего.
	TripointMin = Tripoint{X: math.MinInt, Y: math.MinInt, Z: math.MinInt}

	// TripointZero - начало координат
	TripointZero = Tripoint{}
)

// FromPoint создает Tripoint из Point на уровне z.
// Обратного неявного преобразования нет: у Point нет уровня.
func FromPoint(p Point, z int) Tripoint {
	return Tripoint{X: p.X, Y: p.Y, Z: z}
}

// XY возвращает проекцию на плоскость, отбрасывая Z
func (t Tripoint) XY() Point {
	return Point{X: t.X, Y: t.Y}
}

// Add складывает два вектора
func (t Tripoint) Add(other Tripoint) Tripoint {
	return Tripoint{
		X: t.X + other.X,
		Y: t.Y + other.Y,
		Z: t.Z + other.Z,
	}
}

// Sub вычитает вектор
func (t Tripoint) Sub(other Tripoint) Tripoint {
	return Tripoint{
		X: t.X - other.X,
		Y: t.Y - other.Y,
		Z: t.Z - other.Z,
	}
}

// Neg возвращает противоположный вектор
func (t Tripoint) Neg() Tripoint {
	return Tripoint{X: -t.X, Y: -t.Y, Z: -t.Z}
}

// AddAssign прибавляет other на месте
func (t *Tripoint) AddAssign(other Tripoint) {
	t.X += other.X
	t.Y += other.Y
	t.Z += other.Z
}

// SubAssign вычитает other на месте
func (t *Tripoint) SubAssign(other Tripoint) {
	t.X -= other.X
	t.Y -= other.Y
	t.Z -= other.Z
}

// AddPoint смещает позицию в плоскости, уровень не меняется
func (t Tripoint) AddPoint(p Point) Tripoint {
	return Tripoint{X: t.X + p.X, Y: t.Y + p.Y, Z: t.Z}
}

// SubPoint смещает позицию в плоскости, уровень не меняется
func (t Tripoint) SubPoint(p Point) Tripoint {
	return Tripoint{X: t.X - p.X, Y: t.Y - p.Y, Z: t.Z}
}

// AddAssignPoint прибавляет плоское смещение на месте
func (t *Tripoint) AddAssignPoint(p Point) {
	t.X += p.X
	t.Y += p.Y
}

// SubAssignPoint вычитает плоское смещение на месте
func (t *Tripoint) SubAssignPoint(p Point) {
	t.X -= p.X
	t.Y -= p.Y
}

// Equals проверяет равенство векторов
func (t Tripoint) Equals(other Tripoint) bool {
	return t.X == other.X && t.Y == other.Y && t.Z == other.Z
}

// Less - строгий лексикографический порядок по (X, Y, Z).
// Упорядоченные очереди тайлов полагаются именно на этот приоритет осей.
func (t Tripoint) Less(other Tripoint) bool {
	if t.X != other.X {
		return t.X < other.X
	}
	if t.Y != other.Y {
		return t.Y < other.Y
	}
	return t.Z < other.Z
}

// Compare возвращает -1, 0 или 1 в порядке Less
func (t Tripoint) Compare(other Tripoint) int {
	if c := cmpInt(t.X, other.X); c != 0 {
		return c
	}
	if c := cmpInt(t.Y, other.Y); c != 0 {
		return c
	}
	return cmpInt(t.Z, other.Z)
}

// Hash сворачивает поля в порядке Z, Y, X той же константой, что и Point.Hash,
// поэтому для Z == 0 хеш совпадает с хешем плоской проекции.
func (t Tripoint) Hash() uint64 {
	result := uint64(t.Z)
	result *= hashMultiplier
	result += uint64(t.Y)
	result *= hashMultiplier
	result += uint64(t.X)
	return result
}

// IsMin сообщает, является ли значение сентинелом TripointMin
func (t Tripoint) IsMin() bool {
	return t == TripointMin
}

// String возвращает представление "x,y,z"
func (t Tripoint) String() string {
	return strconv.Itoa(t.X) + "," + strconv.Itoa(t.Y) + "," + strconv.Itoa(t.Z)
}
