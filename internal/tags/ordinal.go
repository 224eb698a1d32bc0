// Package tags содержит закрытые наборы тегов мира: состояния правил,
// классы видимости, особые режимы игры, пассивные эффекты артефактов,
// природные свойства артефактов, фазы вещества, типы объектов и причины
// прерывания действий.
//
// Ординал тега - часть формата сохранений. Правила расширения:
//   - новый тег добавляется перед завершающим сентинелом Num*/Max;
//   - устаревший тег остаётся на месте как неиспользуемый;
//   - сериализуется только число, никогда не имя.
package tags

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/annel0/tileworld/internal/jsonio"
)

// ErrInvalidTag возвращается при попытке сериализовать сентинел или значение вне набора
var ErrInvalidTag = errors.New("invalid tag")

func marshalOrdinal[T ~uint8](v T, limit T, kind string) ([]byte, error) {
	if v >= limit {
		return nil, fmt.Errorf("%w: %s(%d) вне диапазона [0, %d)", ErrInvalidTag, kind, v, limit)
	}
	return strconv.AppendUint(nil, uint64(v), 10), nil
}

// unmarshalOrdinal принимает только целый ординал, null отклоняется
func unmarshalOrdinal[T ~uint8](data []byte, limit T, kind string, dst *T) error {
	v, err := jsonio.DecodeOrdinal(data, int(limit))
	if err != nil {
		return fmt.Errorf("%s: %w", kind, err)
	}
	*dst = T(v)
	return nil
}

func tagName[T ~uint8](names []string, v T, kind string) string {
	if int(v) < len(names) {
		return names[int(v)]
	}
	return kind + "(" + strconv.Itoa(int(v)) + ")"
}

func parseTag[T ~uint8](names []string, name string) (T, bool) {
	for i, n := range names {
		if n == name {
			return T(i), true
		}
	}
	return 0, false
}

func allTags[T ~uint8](limit T) []T {
	out := make([]T, 0, int(limit))
	for v := T(0); v < limit; v++ {
		out = append(out, v)
	}
	return out
}
