package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/annel0/tileworld/internal/vec"
	_ "github.com/go-sql-driver/mysql"
)

// upsertPositionQuery общий для Save и BatchSave
const upsertPositionQuery = `
	INSERT INTO player_positions (user_id, x, y, z)
	VALUES (?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		x = VALUES(x),
		y = VALUES(y),
		z = VALUES(z),
		updated_at = CURRENT_TIMESTAMP
`

// MariaPositionRepo реализует PositionRepo для MariaDB/MySQL.
// Позиции лежат в таблице player_positions; координаты - BIGINT,
// так что через базу проходит полный диапазон int, кроме TripointMin.
type MariaPositionRepo struct {
	db *sql.DB
}

// NewMariaPositionRepo подключается по dsn (user:pass@tcp(host:port)/dbname)
// и создает таблицу, если она не существует.
func NewMariaPositionRepo(ctx context.Context, dsn string) (*MariaPositionRepo, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaPositionRepo{db: db}
	if err := repo.createTable(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return repo, nil
}

func (r *MariaPositionRepo) createTable(ctx context.Context) error {
	query := `
		CREATE TABLE IF NOT EXISTS player_positions (
			user_id    BIGINT UNSIGNED PRIMARY KEY,
			x          BIGINT          NOT NULL,
			y          BIGINT          NOT NULL,
			z          BIGINT          NOT NULL DEFAULT 0,
			updated_at TIMESTAMP       DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE       CURRENT_TIMESTAMP,
			INDEX idx_updated_at (updated_at)
		) ENGINE=InnoDB
	`

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("ошибка создания таблицы player_positions: %w", err)
	}
	return nil
}

// Save сохраняет позицию игрока (INSERT ... ON DUPLICATE KEY UPDATE).
func (r *MariaPositionRepo) Save(ctx context.Context, userID uint64, pos vec.Tripoint) error {
	if err := validatePosition(userID, pos); err != nil {
		return err
	}

	_, err := r.db.ExecContext(ctx, upsertPositionQuery, userID, pos.X, pos.Y, pos.Z)
	if err != nil {
		storageErrors.WithLabelValues("maria", "save").Inc()
		return fmt.Errorf("ошибка сохранения позиции для пользователя %d: %w", userID, err)
	}
	storageOps.WithLabelValues("maria", "save").Inc()
	return nil
}

// Load загружает позицию игрока из базы данных.
func (r *MariaPositionRepo) Load(ctx context.Context, userID uint64) (vec.Tripoint, bool, error) {
	if userID == 0 {
		return vec.TripointMin, false, fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}

	query := `SELECT x, y, z FROM player_positions WHERE user_id = ?`

	var pos vec.Tripoint
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&pos.X, &pos.Y, &pos.Z)
	if errors.Is(err, sql.ErrNoRows) {
		// Первый вход пользователя
		return vec.TripointMin, false, nil
	}
	if err != nil {
		storageErrors.WithLabelValues("maria", "load").Inc()
		return vec.TripointMin, false, fmt.Errorf("ошибка загрузки позиции для пользователя %d: %w", userID, err)
	}

	storageOps.WithLabelValues("maria", "load").Inc()
	return pos, true, nil
}

// Delete удаляет сохраненную позицию игрока.
func (r *MariaPositionRepo) Delete(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM player_positions WHERE user_id = ?`, userID)
	if err != nil {
		storageErrors.WithLabelValues("maria", "delete").Inc()
		return fmt.Errorf("ошибка удаления позиции для пользователя %d: %w", userID, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка получения количества затронутых строк: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("позиция пользователя %d: %w", userID, ErrNotFound)
	}

	storageOps.WithLabelValues("maria", "delete").Inc()
	return nil
}

// BatchSave сохраняет позиции нескольких игроков в одной транзакции.
func (r *MariaPositionRepo) BatchSave(ctx context.Context, positions map[uint64]vec.Tripoint) error {
	if len(positions) == 0 {
		return nil // Нечего сохранять
	}
	if err := validateBatch(positions); err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка начала транзакции: %w", err)
	}
	defer tx.Rollback() // после Commit ничего не делает

	stmt, err := tx.PrepareContext(ctx, upsertPositionQuery)
	if err != nil {
		return fmt.Errorf("ошибка подготовки запроса: %w", err)
	}
	defer stmt.Close()

	for userID, pos := range positions {
		if _, err := stmt.ExecContext(ctx, userID, pos.X, pos.Y, pos.Z); err != nil {
			storageErrors.WithLabelValues("maria", "batch_save").Inc()
			return fmt.Errorf("ошибка сохранения позиции для пользователя %d в batch: %w", userID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	storageOps.WithLabelValues("maria", "batch_save").Inc()
	return nil
}

// Close закрывает соединение с базой данных.
func (r *MariaPositionRepo) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
