package storage

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
)

// TileRecord - сохраняемое состояние тайла. Теги пишутся ординалами.
type TileRecord struct {
	Visibility tags.VisibilityType `json:"visibility"`
	Object     tags.ObjectType     `json:"object"`
	Phase      tags.PhaseID        `json:"phase"`
}

// Validate проверяет, что все теги в допустимом диапазоне
func (t TileRecord) Validate() error {
	if !t.Visibility.IsValid() {
		return fmt.Errorf("%w: visibility %d", tags.ErrInvalidTag, t.Visibility)
	}
	if !t.Object.IsValid() {
		return fmt.Errorf("%w: object %d", tags.ErrInvalidTag, t.Object)
	}
	if !t.Phase.IsValid() {
		return fmt.Errorf("%w: phase %d", tags.ErrInvalidTag, t.Phase)
	}
	return nil
}

// TileEntry - тайл вместе с позицией, результат Scan
type TileEntry struct {
	Pos  vec.Tripoint `json:"pos"`
	Tile TileRecord   `json:"tile"`
}

// TileRepo - хранилище тайлов, упорядоченное по vec.Tripoint.Less
type TileRepo interface {
	// Put записывает тайл; vec.TripointMin отклоняется с ErrNoPosition
	Put(ctx context.Context, pos vec.Tripoint, tile TileRecord) error
	// Get возвращает тайл или ErrNotFound
	Get(ctx context.Context, pos vec.Tripoint) (TileRecord, error)
	// Delete удаляет тайл; отсутствие тайла - ErrNotFound
	Delete(ctx context.Context, pos vec.Tripoint) error
	// Scan возвращает тайлы в замкнутом диапазоне [from, to] в порядке Less
	Scan(ctx context.Context, from, to vec.Tripoint) ([]TileEntry, error)
}

func validateTile(pos vec.Tripoint, tile TileRecord) error {
	if pos.IsMin() {
		return fmt.Errorf("%w: тайл", ErrNoPosition)
	}
	return tile.Validate()
}

// MemoryTileStore реализует TileRepo в памяти (тесты, режим без диска)
type MemoryTileStore struct {
	mu    sync.RWMutex
	tiles map[vec.Tripoint]TileRecord
}

// NewMemoryTileStore создает пустое хранилище тайлов в памяти
func NewMemoryTileStore() *MemoryTileStore {
	return &MemoryTileStore{tiles: make(map[vec.Tripoint]TileRecord)}
}

func (m *MemoryTileStore) Put(ctx context.Context, pos vec.Tripoint, tile TileRecord) error {
	if err := validateTile(pos, tile); err != nil {
		return err
	}
	if err := checkCtx(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	m.tiles[pos] = tile
	m.mu.Unlock()

	storageOps.WithLabelValues("memory", "tile_put").Inc()
	return nil
}

func (m *MemoryTileStore) Get(ctx context.Context, pos vec.Tripoint) (TileRecord, error) {
	if err := checkCtx(ctx); err != nil {
		return TileRecord{}, err
	}

	m.mu.RLock()
	tile, ok := m.tiles[pos]
	m.mu.RUnlock()

	if !ok {
		return TileRecord{}, fmt.Errorf("тайл %s: %w", pos, ErrNotFound)
	}
	return tile, nil
}

func (m *MemoryTileStore) Delete(ctx context.Context, pos vec.Tripoint) error {
	if err := checkCtx(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tiles[pos]; !ok {
		return fmt.Errorf("тайл %s: %w", pos, ErrNotFound)
	}
	delete(m.tiles, pos)
	return nil
}

func (m *MemoryTileStore) Scan(ctx context.Context, from, to vec.Tripoint) ([]TileEntry, error) {
	if err := checkCtx(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	result := make([]TileEntry, 0)
	for pos, tile := range m.tiles {
		if from.Compare(pos) <= 0 && pos.Compare(to) <= 0 {
			result = append(result, TileEntry{Pos: pos, Tile: tile})
		}
	}
	m.mu.RUnlock()

	slices.SortFunc(result, func(a, b TileEntry) int { return a.Pos.Compare(b.Pos) })
	return result, nil
}

// Len возвращает количество тайлов
func (m *MemoryTileStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tiles)
}
