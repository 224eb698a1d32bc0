package vec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/annel0/tileworld/internal/jsonio"
)

// MarshalJSON сериализует Point как упорядоченную пару [x, y]
func (p Point) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 24)
	buf = append(buf, '[')
	buf = strconv.AppendInt(buf, int64(p.X), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(p.Y), 10)
	buf = append(buf, ']')
	return buf, nil
}

// UnmarshalJSON принимает ровно два целых числа, иначе jsonio.ErrMalformedData.
// null тоже отклоняется; необязательная точка задается указателем.
func (p *Point) UnmarshalJSON(data []byte) error {
	v, err := jsonio.DecodeInts(data, 2)
	if err != nil {
		return err
	}
	p.X, p.Y = v[0], v[1]
	return nil
}

// MarshalJSON сериализует Tripoint как упорядоченную тройку [x, y, z]
func (t Tripoint) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 36)
	buf = append(buf, '[')
	buf = strconv.AppendInt(buf, int64(t.X), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(t.Y), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(t.Z), 10)
	buf = append(buf, ']')
	return buf, nil
}

// UnmarshalJSON принимает ровно три целых числа, иначе jsonio.ErrMalformedData.
// null тоже отклоняется.
func (t *Tripoint) UnmarshalJSON(data []byte) error {
	v, err := jsonio.DecodeInts(data, 3)
	if err != nil {
		return err
	}
	t.X, t.Y, t.Z = v[0], v[1], v[2]
	return nil
}

// ToArray возвращает координаты в порядке сериализации
func (t Tripoint) ToArray() [3]int { return [3]int{t.X, t.Y, t.Z} }

// ParseTripoint разбирает строку вида "x,y,z" (формат String)
func ParseTripoint(s string) (Tripoint, error) {
	v, err := parseCSV(s, 3)
	if err != nil {
		return Tripoint{}, err
	}
	return Tripoint{X: v[0], Y: v[1], Z: v[2]}, nil
}

// ParsePoint разбирает строку вида "x,y"
func ParsePoint(s string) (Point, error) {
	v, err := parseCSV(s, 2)
	if err != nil {
		return Point{}, err
	}
	return Point{X: v[0], Y: v[1]}, nil
}

func parseCSV(s string, n int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("%w: %q: ожидалось %d координат", jsonio.ErrMalformedData, s, n)
	}
	out := make([]int, n)
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: %q: координата %d не целое число", jsonio.ErrMalformedData, s, i)
		}
		out[i] = v
	}
	return out, nil
}
