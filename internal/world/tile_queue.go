package world

import (
	"slices"

	"github.com/annel0/tileworld/internal/vec"
)

// TileQueue - упорядоченное множество тайлов для детерминированной обработки
// (распространение полей, пересчёт освещения). Pop всегда отдаёт наименьший
// тайл в порядке vec.Tripoint.Less, поэтому два прогона с одинаковым
// входом обрабатывают тайлы в одинаковом порядке.
//
// Не потокобезопасна: принадлежит одному обработчику.
type TileQueue struct {
	items []vec.Tripoint
}

// NewTileQueue создает очередь и заполняет её начальными тайлами
func NewTileQueue(initial ...vec.Tripoint) *TileQueue {
	q := &TileQueue{items: make([]vec.Tripoint, 0, len(initial))}
	for _, p := range initial {
		q.Push(p)
	}
	return q
}

// Push добавляет тайл; повторное добавление ничего не меняет.
// Возвращает true, если тайл был добавлен.
func (q *TileQueue) Push(p vec.Tripoint) bool {
	i, found := slices.BinarySearchFunc(q.items, p, vec.Tripoint.Compare)
	if found {
		return false
	}
	q.items = slices.Insert(q.items, i, p)
	return true
}

// Pop извлекает наименьший тайл
func (q *TileQueue) Pop() (vec.Tripoint, bool) {
	if len(q.items) == 0 {
		return vec.TripointMin, false
	}
	p := q.items[0]
	q.items = q.items[1:]
	return p, true
}

// Contains проверяет наличие тайла в очереди
func (q *TileQueue) Contains(p vec.Tripoint) bool {
	_, found := slices.BinarySearchFunc(q.items, p, vec.Tripoint.Compare)
	return found
}

// Len возвращает количество тайлов в очереди
func (q *TileQueue) Len() int {
	return len(q.items)
}

// Drain извлекает все тайлы по порядку
func (q *TileQueue) Drain() []vec.Tripoint {
	out := q.items
	q.items = nil
	return out
}
