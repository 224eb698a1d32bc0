package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/logging"
)

// Backends - хранилища, выбранные конфигурацией
type Backends struct {
	Positions PositionRepo
	Tiles     TileRepo
	closers   []io.Closer
}

// Open создает хранилища по секции storage конфига
func Open(ctx context.Context, cfg *config.Config) (*Backends, error) {
	log := logging.GetStorageLogger()
	b := &Backends{}

	switch cfg.Storage.Positions {
	case "redis":
		repo, err := NewRedisPositionRepo(ctx, &RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
			TTL:       cfg.Redis.TTL,
		})
		if err != nil {
			return nil, err
		}
		b.Positions = repo
		b.closers = append(b.closers, repo)
	case "maria":
		repo, err := NewMariaPositionRepo(ctx, cfg.Maria.DSN)
		if err != nil {
			return nil, err
		}
		b.Positions = repo
		b.closers = append(b.closers, repo)
	case "mongo":
		repo, err := NewMongoPositionRepo(ctx, MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			return nil, err
		}
		b.Positions = repo
		b.closers = append(b.closers, repo)
	case "memory", "":
		log.Warn("⚠️ Позиции хранятся в памяти и будут потеряны при перезапуске")
		b.Positions = NewMemoryPositionRepo()
	default:
		return nil, fmt.Errorf("неизвестный бэкенд позиций %q", cfg.Storage.Positions)
	}

	switch cfg.Storage.Tiles {
	case "badger":
		store, err := NewBadgerTileStore(cfg.Storage.DataPath)
		if err != nil {
			b.Close()
			return nil, err
		}
		b.Tiles = store
		b.closers = append(b.closers, store)
	case "memory", "":
		b.Tiles = NewMemoryTileStore()
	default:
		b.Close()
		return nil, fmt.Errorf("неизвестный бэкенд тайлов %q", cfg.Storage.Tiles)
	}

	log.Info("💾 Хранилища: позиции=%s, тайлы=%s", cfg.Storage.Positions, cfg.Storage.Tiles)
	return b, nil
}

// Close закрывает все открытые бэкенды
func (b *Backends) Close() error {
	var errs []error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	b.closers = nil
	return errors.Join(errs...)
}
