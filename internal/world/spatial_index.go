package world

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
)

const (
	cellShift  = 4  // ячейка 16x16 тайлов на одном уровне
	shardCount = 16 // степень двойки: шард выбирается маской по Hash
)

var (
	// ErrNoPosition - попытка индексировать объект в vec.TripointMin
	ErrNoPosition = errors.New("object has no position")
	// ErrUnknownObject - объект с таким ID не индексирован
	ErrUnknownObject = errors.New("unknown object")
	// ErrInvalidKind - тип объекта ObjectNone или сентинел
	ErrInvalidKind = errors.New("invalid object kind")
)

// Object - запись пространственного индекса
type Object struct {
	ID   uint64          `json:"id"`
	Kind tags.ObjectType `json:"kind"`
	Pos  vec.Tripoint    `json:"pos"`
}

// SpatialIndex представляет пространственный индекс для быстрого поиска объектов.
// Ячейки распределены по шардам по vec.Tripoint.Hash ключа ячейки, чтобы
// запросы в разных областях мира не конкурировали за одну блокировку.
type SpatialIndex struct {
	objMu   sync.RWMutex
	objects map[uint64]Object

	shards [shardCount]cellShard
}

// cellShard хранит часть ячеек сетки
type cellShard struct {
	mu    sync.RWMutex
	cells map[vec.Tripoint]map[uint64]struct{}
}

// NewSpatialIndex создаёт новый пространственный индекс
func NewSpatialIndex() *SpatialIndex {
	si := &SpatialIndex{objects: make(map[uint64]Object)}
	for i := range si.shards {
		si.shards[i].cells = make(map[vec.Tripoint]map[uint64]struct{})
	}
	return si
}

// cellOf возвращает ключ ячейки для позиции. Арифметический сдвиг
// округляет вниз и для отрицательных координат.
func cellOf(p vec.Tripoint) vec.Tripoint {
	return vec.Tripoint{X: p.X >> cellShift, Y: p.Y >> cellShift, Z: p.Z}
}

func (si *SpatialIndex) shardFor(cell vec.Tripoint) *cellShard {
	return &si.shards[cell.Hash()&(shardCount-1)]
}

// Insert добавляет объект в индекс; существующий объект с тем же ID перемещается
func (si *SpatialIndex) Insert(obj Object) error {
	if obj.Pos.IsMin() {
		return fmt.Errorf("%w: объект %d", ErrNoPosition, obj.ID)
	}
	if obj.Kind == tags.ObjectNone || !obj.Kind.IsValid() {
		return fmt.Errorf("%w: объект %d имеет тип %s", ErrInvalidKind, obj.ID, obj.Kind)
	}

	si.objMu.Lock()
	defer si.objMu.Unlock()

	if prev, exists := si.objects[obj.ID]; exists {
		si.unlinkLocked(prev)
	}
	si.linkLocked(obj)
	si.objects[obj.ID] = obj
	return nil
}

// Move перемещает объект в новую позицию
func (si *SpatialIndex) Move(id uint64, pos vec.Tripoint) error {
	if pos.IsMin() {
		return fmt.Errorf("%w: объект %d", ErrNoPosition, id)
	}

	si.objMu.Lock()
	defer si.objMu.Unlock()

	obj, exists := si.objects[id]
	if !exists {
		return fmt.Errorf("%w: %d", ErrUnknownObject, id)
	}

	// Ячейка не изменилась - достаточно обновить позицию
	if cellOf(obj.Pos) != cellOf(pos) {
		si.unlinkLocked(obj)
		obj.Pos = pos
		si.linkLocked(obj)
	} else {
		obj.Pos = pos
	}
	si.objects[id] = obj
	return nil
}

// Remove удаляет объект из индекса
func (si *SpatialIndex) Remove(id uint64) bool {
	si.objMu.Lock()
	defer si.objMu.Unlock()

	obj, exists := si.objects[id]
	if !exists {
		return false
	}
	si.unlinkLocked(obj)
	delete(si.objects, id)
	return true
}

// Get возвращает объект по ID
func (si *SpatialIndex) Get(id uint64) (Object, bool) {
	si.objMu.RLock()
	defer si.objMu.RUnlock()
	obj, exists := si.objects[id]
	return obj, exists
}

// QuerySphere возвращает объекты внутри s по метрике m,
// отсортированные по позиции, затем по ID.
func (si *SpatialIndex) QuerySphere(s vec.Sphere, m Metric) []Object {
	if s.Empty() {
		return nil
	}

	minCell := cellOf(s.Center.Sub(vec.Tripoint{X: s.Radius, Y: s.Radius, Z: s.Radius}))
	maxCell := cellOf(s.Center.Add(vec.Tripoint{X: s.Radius, Y: s.Radius, Z: s.Radius}))

	si.objMu.RLock()
	defer si.objMu.RUnlock()

	result := make([]Object, 0)
	for cx := minCell.X; cx <= maxCell.X; cx++ {
		for cy := minCell.Y; cy <= maxCell.Y; cy++ {
			for z := minCell.Z; z <= maxCell.Z; z++ {
				cell := vec.Tripoint{X: cx, Y: cy, Z: z}
				shard := si.shardFor(cell)

				shard.mu.RLock()
				for id := range shard.cells[cell] {
					obj := si.objects[id]
					if InSphere(s, obj.Pos, m) {
						result = append(result, obj)
					}
				}
				shard.mu.RUnlock()
			}
		}
	}

	slices.SortFunc(result, func(a, b Object) int {
		if c := a.Pos.Compare(b.Pos); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
		return 0
	})
	return result
}

// GetObjectCount возвращает количество индексированных объектов
func (si *SpatialIndex) GetObjectCount() int {
	si.objMu.RLock()
	defer si.objMu.RUnlock()
	return len(si.objects)
}

// GetCellCount возвращает количество непустых ячеек
func (si *SpatialIndex) GetCellCount() int {
	total := 0
	for i := range si.shards {
		shard := &si.shards[i]
		shard.mu.RLock()
		total += len(shard.cells)
		shard.mu.RUnlock()
	}
	return total
}

// GetStats возвращает статистику индекса
func (si *SpatialIndex) GetStats() string {
	return fmt.Sprintf("SpatialIndex Stats: %d objects, %d cells",
		si.GetObjectCount(), si.GetCellCount())
}

// Вспомогательные методы; вызываются под objMu.Lock

func (si *SpatialIndex) linkLocked(obj Object) {
	cell := cellOf(obj.Pos)
	shard := si.shardFor(cell)

	shard.mu.Lock()
	ids, exists := shard.cells[cell]
	if !exists {
		ids = make(map[uint64]struct{})
		shard.cells[cell] = ids
	}
	ids[obj.ID] = struct{}{}
	shard.mu.Unlock()
}

func (si *SpatialIndex) unlinkLocked(obj Object) {
	cell := cellOf(obj.Pos)
	shard := si.shardFor(cell)

	shard.mu.Lock()
	if ids, exists := shard.cells[cell]; exists {
		delete(ids, obj.ID)
		if len(ids) == 0 {
			delete(shard.cells, cell)
		}
	}
	shard.mu.Unlock()
}
