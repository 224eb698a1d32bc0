package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/go-redis/redis/v8"
)

// RedisPositionRepo хранит позиции игроков в Redis для быстрого доступа.
// Значение ключа - JSON-тройка [x,y,z], тот же формат, что и в API.
type RedisPositionRepo struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
	log       *logging.Logger
}

// RedisConfig содержит настройки подключения к Redis
type RedisConfig struct {
	Addr      string        // Адрес Redis сервера
	Password  string        // Пароль (пустой если не требуется)
	DB        int           // Номер базы данных
	KeyPrefix string        // Префикс для ключей
	TTL       time.Duration // Время жизни записей; 0 - без истечения
}

// DefaultRedisConfig возвращает конфигурацию по умолчанию
func DefaultRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      "localhost:6379",
		KeyPrefix: "tileworld:pos:",
	}
}

// NewRedisPositionRepo подключается к Redis и проверяет соединение
func NewRedisPositionRepo(ctx context.Context, config *RedisConfig) (*RedisPositionRepo, error) {
	if config == nil {
		config = DefaultRedisConfig()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     config.Addr,
		Password: config.Password,
		DB:       config.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	repo := &RedisPositionRepo{
		client:    client,
		keyPrefix: config.KeyPrefix,
		ttl:       config.TTL,
		log:       logging.GetStorageLogger(),
	}

	repo.log.Info("🔴 Connected to Redis at %s", config.Addr)
	return repo, nil
}

func (r *RedisPositionRepo) key(userID uint64) string {
	return r.keyPrefix + strconv.FormatUint(userID, 10)
}

// Save сохраняет позицию игрока
func (r *RedisPositionRepo) Save(ctx context.Context, userID uint64, pos vec.Tripoint) error {
	if err := validatePosition(userID, pos); err != nil {
		return err
	}

	data, err := pos.MarshalJSON()
	if err != nil {
		return err
	}

	if err := r.client.Set(ctx, r.key(userID), data, r.ttl).Err(); err != nil {
		storageErrors.WithLabelValues("redis", "save").Inc()
		return fmt.Errorf("failed to save position: %w", err)
	}
	storageOps.WithLabelValues("redis", "save").Inc()
	return nil
}

// Load получает позицию игрока
func (r *RedisPositionRepo) Load(ctx context.Context, userID uint64) (vec.Tripoint, bool, error) {
	if userID == 0 {
		return vec.TripointMin, false, fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}

	data, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return vec.TripointMin, false, nil // Позиция не найдена
	}
	if err != nil {
		storageErrors.WithLabelValues("redis", "load").Inc()
		return vec.TripointMin, false, fmt.Errorf("failed to get position: %w", err)
	}

	pos := vec.TripointMin
	if err := pos.UnmarshalJSON(data); err != nil {
		return vec.TripointMin, false, fmt.Errorf("позиция пользователя %d: %w", userID, err)
	}

	storageOps.WithLabelValues("redis", "load").Inc()
	return pos, true, nil
}

// LoadMany получает позиции нескольких игроков одним пайплайном.
// Отсутствующие и повреждённые записи пропускаются.
func (r *RedisPositionRepo) LoadMany(ctx context.Context, userIDs []uint64) (map[uint64]vec.Tripoint, error) {
	result := make(map[uint64]vec.Tripoint, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	pipe := r.client.Pipeline()
	cmds := make([]*redis.StringCmd, len(userIDs))
	for i, id := range userIDs {
		cmds[i] = pipe.Get(ctx, r.key(id))
	}

	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}

	for i, cmd := range cmds {
		data, err := cmd.Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		} else if err != nil {
			r.log.Warn("⚠️ Failed to get position for %d: %v", userIDs[i], err)
			continue
		}

		var pos vec.Tripoint
		if err := pos.UnmarshalJSON(data); err != nil {
			r.log.Warn("⚠️ Failed to decode position for %d: %v", userIDs[i], err)
			continue
		}
		result[userIDs[i]] = pos
	}

	return result, nil
}

// Delete удаляет позицию игрока
func (r *RedisPositionRepo) Delete(ctx context.Context, userID uint64) error {
	if userID == 0 {
		return fmt.Errorf("%w: %d", ErrInvalidUser, userID)
	}

	n, err := r.client.Del(ctx, r.key(userID)).Result()
	if err != nil {
		storageErrors.WithLabelValues("redis", "delete").Inc()
		return fmt.Errorf("failed to delete position: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("позиция пользователя %d: %w", userID, ErrNotFound)
	}

	storageOps.WithLabelValues("redis", "delete").Inc()
	return nil
}

// BatchSave записывает позиции в одной транзакции MULTI/EXEC
func (r *RedisPositionRepo) BatchSave(ctx context.Context, positions map[uint64]vec.Tripoint) error {
	if len(positions) == 0 {
		return nil
	}
	if err := validateBatch(positions); err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	for userID, pos := range positions {
		data, err := pos.MarshalJSON()
		if err != nil {
			return err
		}
		pipe.Set(ctx, r.key(userID), data, r.ttl)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		storageErrors.WithLabelValues("redis", "batch_save").Inc()
		return fmt.Errorf("failed to execute batch: %w", err)
	}

	storageOps.WithLabelValues("redis", "batch_save").Inc()
	return nil
}

// Count возвращает количество сохраненных позиций (SCAN по префиксу)
func (r *RedisPositionRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	iter := r.client.Scan(ctx, 0, r.keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to count positions: %w", err)
	}
	return count, nil
}

// Close закрывает соединение с Redis
func (r *RedisPositionRepo) Close() error {
	return r.client.Close()
}
