package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/storage"
	"github.com/annel0/tileworld/internal/vec"
)

// DefaultTTL - время жизни записи в кеше, если не задано
const DefaultTTL = 30 * time.Second

// TileCache - read-through кеш тайлов поверх storage.TileRepo.
// Запись идет сквозь кеш в хранилище, после чего остальные узлы
// получают уведомление через Invalidator и сбрасывают свою копию.
type TileCache struct {
	backing     storage.TileRepo
	invalidator Invalidator
	ttl         time.Duration
	now         func() time.Time
	log         *logging.Logger

	// gens растет при каждой записи, удалении и инвалидации ключа;
	// промах кладет результат в кеш, только если поколение не сдвинулось
	mu      sync.RWMutex
	entries map[vec.Tripoint]cacheEntry
	gens    map[vec.Tripoint]uint64

	totalRequests int64
	hits          int64
	misses        int64
	invalidations int64
	publishErrors int64
}

var _ storage.TileRepo = (*TileCache)(nil)

type cacheEntry struct {
	tile    storage.TileRecord
	expires time.Time
}

// NewTileCache оборачивает хранилище тайлов. invalidator может быть nil
// (один узел без рассылки).
func NewTileCache(backing storage.TileRepo, invalidator Invalidator, ttl time.Duration) *TileCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TileCache{
		backing:     backing,
		invalidator: invalidator,
		ttl:         ttl,
		now:         time.Now,
		log:         logging.GetComponentLogger("cache"),
		entries:     make(map[vec.Tripoint]cacheEntry),
		gens:        make(map[vec.Tripoint]uint64),
	}
}

// Start подписывается на уведомления других узлов
func (c *TileCache) Start(ctx context.Context) error {
	if c.invalidator == nil {
		return nil
	}
	return c.invalidator.SubscribeInvalidations(ctx, func(pos vec.Tripoint) error {
		c.Invalidate(pos)
		return nil
	})
}

// Get возвращает тайл из кеша или из хранилища
func (c *TileCache) Get(ctx context.Context, pos vec.Tripoint) (storage.TileRecord, error) {
	atomic.AddInt64(&c.totalRequests, 1)

	c.mu.RLock()
	entry, ok := c.entries[pos]
	gen := c.gens[pos]
	c.mu.RUnlock()

	if ok && c.now().Before(entry.expires) {
		atomic.AddInt64(&c.hits, 1)
		return entry.tile, nil
	}
	atomic.AddInt64(&c.misses, 1)

	tile, err := c.backing.Get(ctx, pos)
	if err != nil {
		return storage.TileRecord{}, err
	}

	c.mu.Lock()
	if c.gens[pos] == gen {
		c.entries[pos] = cacheEntry{tile: tile, expires: c.now().Add(c.ttl)}
	}
	c.mu.Unlock()
	return tile, nil
}

// Put записывает тайл в хранилище и рассылает уведомление
func (c *TileCache) Put(ctx context.Context, pos vec.Tripoint, tile storage.TileRecord) error {
	if err := c.backing.Put(ctx, pos, tile); err != nil {
		return err
	}

	c.mu.Lock()
	c.gens[pos]++
	c.entries[pos] = cacheEntry{tile: tile, expires: c.now().Add(c.ttl)}
	c.mu.Unlock()

	c.publish(ctx, pos)
	return nil
}

// Delete удаляет тайл из хранилища и кеша
func (c *TileCache) Delete(ctx context.Context, pos vec.Tripoint) error {
	err := c.backing.Delete(ctx, pos)

	c.mu.Lock()
	c.gens[pos]++
	delete(c.entries, pos)
	c.mu.Unlock()

	if err != nil {
		return err
	}
	c.publish(ctx, pos)
	return nil
}

// Scan всегда читает хранилище
func (c *TileCache) Scan(ctx context.Context, from, to vec.Tripoint) ([]storage.TileEntry, error) {
	return c.backing.Scan(ctx, from, to)
}

// Invalidate сбрасывает локальную копию тайла
func (c *TileCache) Invalidate(pos vec.Tripoint) {
	c.mu.Lock()
	c.gens[pos]++
	delete(c.entries, pos)
	c.mu.Unlock()
	atomic.AddInt64(&c.invalidations, 1)
}

// publish не проваливает запись: хранилище уже обновлено, а чужие
// копии в худшем случае доживут до истечения ttl
func (c *TileCache) publish(ctx context.Context, pos vec.Tripoint) {
	if c.invalidator == nil {
		return
	}
	if err := c.invalidator.PublishInvalidation(ctx, pos); err != nil {
		atomic.AddInt64(&c.publishErrors, 1)
		c.log.Warn("⚠️ Не удалось разослать инвалидацию %s: %v", pos, err)
	}
}

// GetMetrics возвращает метрики кеша
func (c *TileCache) GetMetrics() Metrics {
	c.mu.RLock()
	keys := len(c.entries)
	c.mu.RUnlock()

	m := Metrics{
		TotalRequests: atomic.LoadInt64(&c.totalRequests),
		CacheHits:     atomic.LoadInt64(&c.hits),
		CacheMisses:   atomic.LoadInt64(&c.misses),
		Invalidations: atomic.LoadInt64(&c.invalidations),
		PublishErrors: atomic.LoadInt64(&c.publishErrors),
		TotalKeys:     keys,
		LastUpdate:    c.now(),
	}
	if total := m.CacheHits + m.CacheMisses; total > 0 {
		m.HitRatio = float64(m.CacheHits) / float64(total)
	}
	return m
}

// Close закрывает invalidator; хранилище закрывает его владелец
func (c *TileCache) Close() error {
	if c.invalidator == nil {
		return nil
	}
	return c.invalidator.Close()
}
