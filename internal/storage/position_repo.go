package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/annel0/tileworld/internal/vec"
)

var (
	// ErrNotFound - запись отсутствует в хранилище
	ErrNotFound = errors.New("not found")
	// ErrNoPosition - попытка сохранить vec.TripointMin как реальную позицию
	ErrNoPosition = errors.New("position is TripointMin")
	// ErrInvalidUser - нулевой userID
	ErrInvalidUser = errors.New("invalid user id")
)

// PositionRepo определяет интерфейс для сохранения и загрузки позиций игроков.
// Позиции привязаны к UserID (постоянный идентификатор аккаунта) и хранятся
// как vec.Tripoint (x, y, уровень z).
type PositionRepo interface {
	// Save сохраняет позицию игрока. vec.TripointMin отклоняется с ErrNoPosition.
	Save(ctx context.Context, userID uint64, pos vec.Tripoint) error

	// Load загружает позицию игрока.
	// Возвращает:
	//   vec.Tripoint - позиция игрока (vec.TripointMin, если не найдена)
	//   bool - true если позиция найдена, false если первый вход
	//   error - ошибка при загрузке
	Load(ctx context.Context, userID uint64) (vec.Tripoint, bool, error)

	// Delete удаляет сохраненную позицию; отсутствие позиции - ErrNotFound
	Delete(ctx context.Context, userID uint64) error

	// BatchSave сохраняет позиции нескольких игроков одновременно (для автосохранения).
	// Если хотя бы одна запись недействительна, не сохраняется ничего.
	BatchSave(ctx context.Context, positions map[uint64]vec.Tripoint) error
}

// validatePosition - общая проверка перед записью для всех реализаций
func validatePosition(userID uint64, pos vec.Tripoint) error {
	if userID == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}
	if pos.IsMin() {
		return fmt.Errorf("%w: пользователь %d", ErrNoPosition, userID)
	}
	return nil
}

func validateBatch(positions map[uint64]vec.Tripoint) error {
	for userID, pos := range positions {
		if err := validatePosition(userID, pos); err != nil {
			return fmt.Errorf("batch: %w", err)
		}
	}
	return nil
}

// checkCtx возвращает ошибку контекста, если он уже отменён
func checkCtx(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
