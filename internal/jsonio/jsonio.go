// Package jsonio содержит общие помощники разбора структурированных данных,
// которыми пользуются координаты и наборы тегов при загрузке сохранений.
package jsonio

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrMalformedData возвращается, когда входные данные имеют неверную форму
// (не массив, неверная арность, не целые числа, ординал вне диапазона).
var ErrMalformedData = errors.New("malformed data")

// DecodeInts разбирает JSON-массив ровно из n целых чисел.
func DecodeInts(data []byte, n int) ([]int, error) {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: ожидался массив из %d целых: %v", ErrMalformedData, n, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: ожидался массив из %d целых, получен null", ErrMalformedData, n)
	}
	if len(raw) != n {
		return nil, fmt.Errorf("%w: ожидалось %d элементов, получено %d", ErrMalformedData, n, len(raw))
	}

	out := make([]int, n)
	for i, item := range raw {
		v, err := decodeInt(item)
		if err != nil {
			return nil, fmt.Errorf("элемент %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

// DecodeOrdinal разбирает одиночное целое в диапазоне [0, limit).
func DecodeOrdinal(data []byte, limit int) (int, error) {
	v, err := decodeInt(data)
	if err != nil {
		return 0, err
	}
	if v < 0 || v >= limit {
		return 0, fmt.Errorf("%w: ординал %d вне диапазона [0, %d)", ErrMalformedData, v, limit)
	}
	return v, nil
}

// decodeInt читает JSON-число без потери точности: float64 не годится
// для значений около math.MinInt/math.MaxInt.
func decodeInt(data []byte) (int, error) {
	data = bytes.TrimSpace(data)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return 0, fmt.Errorf("%w: ожидалось целое число: %v", ErrMalformedData, err)
	}
	// json.Number принял бы и строку "5", поэтому проверяем тип явно
	num, ok := decoded.(json.Number)
	if !ok {
		return 0, fmt.Errorf("%w: ожидалось целое число, получено %T", ErrMalformedData, decoded)
	}
	if dec.More() {
		return 0, fmt.Errorf("%w: лишние данные после числа", ErrMalformedData)
	}

	v, err := strconv.ParseInt(num.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q не является целым числом", ErrMalformedData, num.String())
	}
	if v < math.MinInt || v > math.MaxInt {
		return 0, fmt.Errorf("%w: %d вне диапазона int", ErrMalformedData, v)
	}
	return int(v), nil
}
