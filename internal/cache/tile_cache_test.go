package cache

import (
	"context"
	"errors"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/annel0/tileworld/internal/storage"
	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// localBus доставляет уведомления между кешами одного процесса
type localBus struct {
	mu       sync.Mutex
	handlers map[string]InvalidationHandler
	fail     bool
}

func newLocalBus() *localBus {
	return &localBus{handlers: make(map[string]InvalidationHandler)}
}

type busNode struct {
	bus  *localBus
	node string
}

func (b *localBus) node(name string) *busNode { return &busNode{bus: b, node: name} }

func (n *busNode) PublishInvalidation(_ context.Context, pos vec.Tripoint) error {
	n.bus.mu.Lock()
	defer n.bus.mu.Unlock()
	if n.bus.fail {
		return errors.New("bus down")
	}
	for name, h := range n.bus.handlers {
		if name != n.node {
			_ = h(pos)
		}
	}
	return nil
}

func (n *busNode) SubscribeInvalidations(_ context.Context, handler InvalidationHandler) error {
	n.bus.mu.Lock()
	defer n.bus.mu.Unlock()
	n.bus.handlers[n.node] = handler
	return nil
}

func (n *busNode) Close() error { return nil }

var lit = storage.TileRecord{Visibility: tags.VisLit, Object: tags.ObjectTerrain, Phase: tags.Solid}

func TestTileCache_ReadThrough(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemoryTileStore()
	pos := vec.Tripoint{X: 4, Y: -2, Z: 0}
	require.NoError(t, backing.Put(ctx, pos, lit))

	c := NewTileCache(backing, nil, time.Minute)
	require.NoError(t, c.Start(ctx))

	for i := 0; i < 3; i++ {
		got, err := c.Get(ctx, pos)
		require.NoError(t, err)
		assert.Equal(t, lit, got)
	}

	m := c.GetMetrics()
	assert.Equal(t, int64(3), m.TotalRequests)
	assert.Equal(t, int64(1), m.CacheMisses)
	assert.Equal(t, int64(2), m.CacheHits)
	assert.InDelta(t, 2.0/3.0, m.HitRatio, 1e-9)
	assert.Equal(t, 1, m.TotalKeys)

	_, err := c.Get(ctx, vec.TripointZero)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.Equal(t, 1, c.GetMetrics().TotalKeys, "промахи хранилища не кешируются")
}

func TestTileCache_Expiry(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemoryTileStore()
	pos := vec.Tripoint{X: 1}
	require.NoError(t, backing.Put(ctx, pos, lit))

	now := time.Unix(1000, 0)
	c := NewTileCache(backing, nil, 10*time.Second)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, pos)
	require.NoError(t, err)

	// другой писатель в обход кеша
	gas := storage.TileRecord{Phase: tags.Gas}
	require.NoError(t, backing.Put(ctx, pos, gas))

	got, _ := c.Get(ctx, pos)
	assert.Equal(t, lit, got)

	now = now.Add(11 * time.Second)
	got, _ = c.Get(ctx, pos)
	assert.Equal(t, gas, got)
}

func TestTileCache_Invalidation(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemoryTileStore()
	bus := newLocalBus()

	a := NewTileCache(backing, bus.node("a"), time.Hour)
	b := NewTileCache(backing, bus.node("b"), time.Hour)
	require.NoError(t, a.Start(ctx))
	require.NoError(t, b.Start(ctx))

	pos := vec.Tripoint{X: 7, Y: 7, Z: 7}
	require.NoError(t, a.Put(ctx, pos, lit))

	got, err := b.Get(ctx, pos)
	require.NoError(t, err)
	assert.Equal(t, lit, got)

	gas := storage.TileRecord{Phase: tags.Gas}
	require.NoError(t, a.Put(ctx, pos, gas))
	assert.Equal(t, int64(2), b.GetMetrics().Invalidations)

	got, err = b.Get(ctx, pos)
	require.NoError(t, err)
	assert.Equal(t, gas, got)

	require.NoError(t, b.Delete(ctx, pos))
	_, err = a.Get(ctx, pos)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.ErrorIs(t, a.Delete(ctx, pos), storage.ErrNotFound)
}

func TestTileCache_PublishFailureKeepsWrite(t *testing.T) {
	ctx := context.Background()
	backing := storage.NewMemoryTileStore()
	bus := newLocalBus()
	bus.fail = true

	c := NewTileCache(backing, bus.node("a"), time.Minute)
	require.NoError(t, c.Put(ctx, vec.TripointZero, lit))

	got, err := backing.Get(ctx, vec.TripointZero)
	require.NoError(t, err)
	assert.Equal(t, lit, got)
	assert.Equal(t, int64(1), c.GetMetrics().PublishErrors)
}

func TestTileCache_ScanPassThrough(t *testing.T) {
	ctx := context.Background()
	c := NewTileCache(storage.NewMemoryTileStore(), nil, 0)
	require.NoError(t, c.Put(ctx, vec.Tripoint{X: 2}, lit))
	require.NoError(t, c.Put(ctx, vec.Tripoint{X: 1}, lit))

	entries, err := c.Scan(ctx, vec.Tripoint{X: 0}, vec.Tripoint{X: 5})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, vec.Tripoint{X: 1}, entries[0].Pos)
}

// gatedRepo останавливает одно чтение после обращения к хранилищу,
// пока тест не отпустит release
type gatedRepo struct {
	storage.TileRepo
	armed   int32
	read    chan struct{}
	release chan struct{}
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{
		TileRepo: storage.NewMemoryTileStore(),
		armed:    1,
		read:     make(chan struct{}, 1),
		release:  make(chan struct{}),
	}
}

func (g *gatedRepo) Get(ctx context.Context, pos vec.Tripoint) (storage.TileRecord, error) {
	tile, err := g.TileRepo.Get(ctx, pos)
	if atomic.CompareAndSwapInt32(&g.armed, 1, 0) {
		g.read <- struct{}{}
		<-g.release
	}
	return tile, err
}

func TestTileCache_SlowMissDoesNotOverwriteNewerTile(t *testing.T) {
	ctx := context.Background()
	pos := vec.Tripoint{X: 2, Y: 3, Z: -1}
	liquid := storage.TileRecord{Visibility: tags.VisLit, Object: tags.ObjectTerrain, Phase: tags.Liquid}

	tests := []struct {
		name  string
		write func(c *TileCache, backing storage.TileRepo) error
		want  storage.TileRecord
		found bool
	}{
		{
			name: "put",
			write: func(c *TileCache, _ storage.TileRepo) error {
				return c.Put(ctx, pos, liquid)
			},
			want:  liquid,
			found: true,
		},
		{
			name: "invalidate",
			write: func(c *TileCache, backing storage.TileRepo) error {
				if err := backing.Put(ctx, pos, liquid); err != nil {
					return err
				}
				c.Invalidate(pos)
				return nil
			},
			want:  liquid,
			found: true,
		},
		{
			name: "delete",
			write: func(c *TileCache, _ storage.TileRepo) error {
				return c.Delete(ctx, pos)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backing := newGatedRepo()
			require.NoError(t, backing.TileRepo.Put(ctx, pos, lit))
			c := NewTileCache(backing, nil, time.Hour)

			type result struct {
				tile storage.TileRecord
				err  error
			}
			slow := make(chan result, 1)
			go func() {
				tile, err := c.Get(ctx, pos)
				slow <- result{tile, err}
			}()

			<-backing.read
			require.NoError(t, tt.write(c, backing.TileRepo))
			close(backing.release)

			r := <-slow
			require.NoError(t, r.err)
			assert.Equal(t, lit, r.tile, "медленное чтение видит старый тайл")

			got, err := c.Get(ctx, pos)
			if !tt.found {
				assert.ErrorIs(t, err, storage.ErrNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNATSInvalidator_CloseTwice(t *testing.T) {
	n := &NATSInvalidator{stopCh: make(chan struct{})}
	assert.NoError(t, n.Close())
	assert.NotPanics(t, func() { _ = n.Close() })
}

func TestNATSInvalidator(t *testing.T) {
	url := os.Getenv("TILEWORLD_TEST_NATS")
	if url == "" {
		t.Skip("TILEWORLD_TEST_NATS не задан")
	}

	a, err := NewNATSInvalidator(&InvalidatorConfig{NATSURL: url, Subject: "tileworld.test"}, "node-a")
	require.NoError(t, err)
	defer a.Close()
	b, err := NewNATSInvalidator(&InvalidatorConfig{NATSURL: url, Subject: "tileworld.test"}, "node-b")
	require.NoError(t, err)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan vec.Tripoint, 1)
	require.NoError(t, b.SubscribeInvalidations(ctx, func(pos vec.Tripoint) error {
		received <- pos
		return nil
	}))
	require.NoError(t, b.conn.Flush())

	pos := vec.Tripoint{X: -3, Y: 9, Z: 1}
	require.NoError(t, a.PublishInvalidation(ctx, pos))

	select {
	case got := <-received:
		assert.Equal(t, pos, got)
	case <-time.After(5 * time.Second):
		t.Fatal("уведомление не пришло")
	}

	require.NoError(t, b.Close())
	assert.NoError(t, b.Close())
}
