package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/annel0/tileworld/internal/vec"
)

// MemoryPositionRepo реализует PositionRepo в памяти.
// Используется как fallback, когда MariaDB и Redis недоступны,
// или для CI/локальной разработки без БД.
// ВНИМАНИЕ: Данные теряются при перезапуске сервера!
type MemoryPositionRepo struct {
	mu   sync.RWMutex
	data map[uint64]vec.Tripoint // userID -> позиция
}

// NewMemoryPositionRepo создает новый репозиторий позиций в памяти.
func NewMemoryPositionRepo() *MemoryPositionRepo {
	return &MemoryPositionRepo{
		data: make(map[uint64]vec.Tripoint),
	}
}

// Save сохраняет позицию игрока в памяти.
func (r *MemoryPositionRepo) Save(ctx context.Context, userID uint64, pos vec.Tripoint) error {
	if err := validatePosition(userID, pos); err != nil {
		return err
	}
	if err := checkCtx(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.data[userID] = pos
	storageOps.WithLabelValues("memory", "save").Inc()
	return nil
}

// Load загружает позицию игрока из памяти.
func (r *MemoryPositionRepo) Load(ctx context.Context, userID uint64) (vec.Tripoint, bool, error) {
	if userID == 0 {
		return vec.TripointMin, false, fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}
	if err := checkCtx(ctx); err != nil {
		return vec.TripointMin, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	storageOps.WithLabelValues("memory", "load").Inc()
	pos, exists := r.data[userID]
	if !exists {
		return vec.TripointMin, false, nil
	}
	return pos, true, nil
}

// Delete удаляет сохраненную позицию игрока из памяти.
func (r *MemoryPositionRepo) Delete(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}
	if err := checkCtx(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.data[userID]; !exists {
		return fmt.Errorf("позиция пользователя %d: %w", userID, ErrNotFound)
	}

	delete(r.data, userID)
	storageOps.WithLabelValues("memory", "delete").Inc()
	return nil
}

// BatchSave сохраняет позиции нескольких игроков в памяти.
func (r *MemoryPositionRepo) BatchSave(ctx context.Context, positions map[uint64]vec.Tripoint) error {
	if len(positions) == 0 {
		return nil // Нечего сохранять
	}
	if err := checkCtx(ctx); err != nil {
		return err
	}

	// Валидация всех записей перед сохранением
	if err := validateBatch(positions); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for userID, pos := range positions {
		r.data[userID] = pos
	}
	storageOps.WithLabelValues("memory", "batch_save").Inc()
	return nil
}

// GetAllPositions возвращает копию всех сохраненных позиций (для отладки).
func (r *MemoryPositionRepo) GetAllPositions() map[uint64]vec.Tripoint {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[uint64]vec.Tripoint, len(r.data))
	for userID, pos := range r.data {
		result[userID] = pos
	}
	return result
}

// Count возвращает количество сохраненных позиций
func (r *MemoryPositionRepo) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// Clear очищает все сохраненные позиции (для тестов).
func (r *MemoryPositionRepo) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data = make(map[uint64]vec.Tripoint)
}
