package storage

import (
	"context"
	"testing"

	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_MemoryAndBadger(t *testing.T) {
	cfg := config.Default()
	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &MemoryPositionRepo{}, b.Positions)
	assert.IsType(t, &MemoryTileStore{}, b.Tiles)
	require.NoError(t, b.Close())

	cfg.Storage.Tiles = "badger"
	cfg.Storage.DataPath = t.TempDir()
	b, err = Open(context.Background(), cfg)
	require.NoError(t, err)
	defer b.Close()

	assert.IsType(t, &BadgerTileStore{}, b.Tiles)
	require.NoError(t, b.Tiles.Put(context.Background(), vec.TripointZero, TileRecord{}))
}

func TestOpen_Unknown(t *testing.T) {
	cfg := config.Default()
	cfg.Storage.Tiles = "sqlite"
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}
