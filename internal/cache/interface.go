package cache

import (
	"context"
	"time"

	"github.com/annel0/tileworld/internal/vec"
)

// Invalidator рассылает уведомления об изменении тайлов между узлами.
//
// Использование:
//
//	inv, _ := NewNATSInvalidator(cfg, nodeID)
//	tiles := NewTileCache(backing, inv, time.Minute)
//	_ = tiles.Start(ctx)
type Invalidator interface {
	// PublishInvalidation сообщает остальным узлам, что тайл изменился.
	PublishInvalidation(ctx context.Context, pos vec.Tripoint) error

	// SubscribeInvalidations подписывается на уведомления других узлов.
	SubscribeInvalidations(ctx context.Context, handler InvalidationHandler) error

	// Close закрывает соединение.
	Close() error
}

// InvalidationHandler обрабатывает уведомление об изменении тайла.
type InvalidationHandler func(pos vec.Tripoint) error

// Metrics содержит метрики кеша тайлов.
type Metrics struct {
	TotalRequests int64   `json:"total_requests"`
	CacheHits     int64   `json:"cache_hits"`
	CacheMisses   int64   `json:"cache_misses"`
	HitRatio      float64 `json:"hit_ratio"`
	Invalidations int64   `json:"invalidations"`
	PublishErrors int64   `json:"publish_errors"`
	TotalKeys     int     `json:"total_keys"`

	LastUpdate time.Time `json:"last_update"`
}
