// Package vec содержит целочисленные координаты мира: Point (плоскость),
// Tripoint (плоскость + уровень) и параметр запроса Sphere.
//
// Все типы являются значениями без общего изменяемого состояния, поэтому
// их можно свободно копировать между горутинами. Переполнение при сложении
// и вычитании оборачивается по правилам int в Go: координаты мира на
// практике на много порядков меньше границы, проверки диапазона нет.
package vec

import "strconv"

// hashMultiplier - нечётная 64-битная константа, общая для Point и Tripoint.
// Порядок свёртки полей фиксирован: от него зависит раскладка по бакетам
// уже построенных пространственных индексов.
const hashMultiplier uint64 = 2862933555777941757

// Point представляет 2D координаты или смещение в горизонтальной плоскости
type Point struct {
	X, Y int
}

// Add складывает две точки
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub вычитает точку
func (p Point) Sub(other Point) Point {
	return Point{X: p.X - other.X, Y: p.Y - other.Y}
}

// AddAssign прибавляет other на месте
func (p *Point) AddAssign(other Point) {
	p.X += other.X
	p.Y += other.Y
}

// SubAssign вычитает other на месте
func (p *Point) SubAssign(other Point) {
	p.X -= other.X
	p.Y -= other.Y
}

// Equals проверяет равенство точек
func (p Point) Equals(other Point) bool {
	return p.X == other.X && p.Y == other.Y
}

// Less задаёт строгий лексикографический порядок: сначала X, затем Y
func (p Point) Less(other Point) bool {
	return p.X < other.X || (p.X == other.X && p.Y < other.Y)
}

// Compare возвращает -1, 0 или 1 в том же порядке, что и Less.
// Подходит для slices.SortFunc и slices.BinarySearchFunc.
func (p Point) Compare(other Point) int {
	if c := cmpInt(p.X, other.X); c != 0 {
		return c
	}
	return cmpInt(p.Y, other.Y)
}

// Hash согласован с Equals: равные точки всегда дают равный хеш.
// Y умножается на константу, затем добавляется X.
func (p Point) Hash() uint64 {
	result := uint64(p.Y)
	result *= hashMultiplier
	result += uint64(p.X)
	return result
}

// String возвращает представление "x,y"
func (p Point) String() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

// Sgn возвращает знак числа: -1, 0 или 1
func Sgn(x int) int {
	switch {
	case x < 0:
		return -1
	case x > 0:
		return 1
	default:
		return 0
	}
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
