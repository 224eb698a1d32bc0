package storage

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/dgraph-io/badger/v3"
)

const (
	tileKeyPrefix = "tile:"
	tileKeyLen    = len(tileKeyPrefix) + 24
	signFlip      = uint64(1) << 63
)

// EncodeTileKey кодирует позицию в 24 байта big-endian с инвертированным
// знаковым битом. Побайтовый порядок ключей совпадает с vec.Tripoint.Less.
func EncodeTileKey(pos vec.Tripoint) []byte {
	key := make([]byte, tileKeyLen)
	copy(key, tileKeyPrefix)
	off := len(tileKeyPrefix)
	binary.BigEndian.PutUint64(key[off:], uint64(pos.X)^signFlip)
	binary.BigEndian.PutUint64(key[off+8:], uint64(pos.Y)^signFlip)
	binary.BigEndian.PutUint64(key[off+16:], uint64(pos.Z)^signFlip)
	return key
}

// DecodeTileKey - обратное преобразование EncodeTileKey
func DecodeTileKey(key []byte) (vec.Tripoint, error) {
	if len(key) != tileKeyLen || !bytes.HasPrefix(key, []byte(tileKeyPrefix)) {
		return vec.TripointMin, fmt.Errorf("некорректный ключ тайла %q", key)
	}
	off := len(tileKeyPrefix)
	return vec.Tripoint{
		X: int(binary.BigEndian.Uint64(key[off:]) ^ signFlip),
		Y: int(binary.BigEndian.Uint64(key[off+8:]) ^ signFlip),
		Z: int(binary.BigEndian.Uint64(key[off+16:]) ^ signFlip),
	}, nil
}

// BadgerTileStore хранит тайлы в BadgerDB; значения - JSON TileRecord
type BadgerTileStore struct {
	db      *badger.DB
	dbPath  string
	mutex   sync.RWMutex
	isReady bool
}

// NewBadgerTileStore открывает (или создает) базу в каталоге dataPath
func NewBadgerTileStore(dataPath string) (*BadgerTileStore, error) {
	opts := badger.DefaultOptions(dataPath)
	opts.Logger = nil // Отключаем логирование BadgerDB

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть BadgerDB: %w", err)
	}

	return &BadgerTileStore{
		db:      db,
		dbPath:  dataPath,
		isReady: true,
	}, nil
}

// Close закрывает хранилище
func (s *BadgerTileStore) Close() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.isReady {
		return nil
	}
	s.isReady = false
	return s.db.Close()
}

// checkReady вызывается под s.mutex
func (s *BadgerTileStore) checkReady(ctx context.Context) error {
	if !s.isReady {
		return fmt.Errorf("хранилище не готово")
	}
	return checkCtx(ctx)
}

func (s *BadgerTileStore) Put(ctx context.Context, pos vec.Tripoint, tile TileRecord) error {
	if err := validateTile(pos, tile); err != nil {
		return err
	}
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if err := s.checkReady(ctx); err != nil {
		return err
	}

	data, err := json.Marshal(tile)
	if err != nil {
		return fmt.Errorf("ошибка сериализации тайла: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(EncodeTileKey(pos), data)
	})
	if err != nil {
		storageErrors.WithLabelValues("badger", "tile_put").Inc()
		return fmt.Errorf("ошибка сохранения в BadgerDB: %w", err)
	}

	storageOps.WithLabelValues("badger", "tile_put").Inc()
	return nil
}

func (s *BadgerTileStore) Get(ctx context.Context, pos vec.Tripoint) (TileRecord, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if err := s.checkReady(ctx); err != nil {
		return TileRecord{}, err
	}

	var tile TileRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(EncodeTileKey(pos))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &tile)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return TileRecord{}, fmt.Errorf("тайл %s: %w", pos, ErrNotFound)
	}
	if err != nil {
		storageErrors.WithLabelValues("badger", "tile_get").Inc()
		return TileRecord{}, fmt.Errorf("ошибка чтения тайла %s: %w", pos, err)
	}

	storageOps.WithLabelValues("badger", "tile_get").Inc()
	return tile, nil
}

func (s *BadgerTileStore) Delete(ctx context.Context, pos vec.Tripoint) error {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if err := s.checkReady(ctx); err != nil {
		return err
	}

	key := EncodeTileKey(pos)
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(key); err != nil {
			return err
		}
		return txn.Delete(key)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("тайл %s: %w", pos, ErrNotFound)
	}
	if err != nil {
		storageErrors.WithLabelValues("badger", "tile_delete").Inc()
		return fmt.Errorf("ошибка удаления тайла %s: %w", pos, err)
	}

	storageOps.WithLabelValues("badger", "tile_delete").Inc()
	return nil
}

// Scan проходит итератором Badger от from до to включительно.
// Сортировка не нужна: порядок ключей уже совпадает с Less.
func (s *BadgerTileStore) Scan(ctx context.Context, from, to vec.Tripoint) ([]TileEntry, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if err := s.checkReady(ctx); err != nil {
		return nil, err
	}

	result := make([]TileEntry, 0)
	if to.Less(from) {
		return result, nil
	}

	last := EncodeTileKey(to)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(tileKeyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(EncodeTileKey(from)); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			item := it.Item()
			key := item.Key()
			if bytes.Compare(key, last) > 0 {
				break
			}

			pos, err := DecodeTileKey(key)
			if err != nil {
				return err
			}

			var tile TileRecord
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &tile)
			}); err != nil {
				return fmt.Errorf("тайл %s: %w", pos, err)
			}
			result = append(result, TileEntry{Pos: pos, Tile: tile})
		}
		return nil
	})
	if err != nil {
		storageErrors.WithLabelValues("badger", "tile_scan").Inc()
		return nil, fmt.Errorf("ошибка сканирования тайлов: %w", err)
	}

	storageOps.WithLabelValues("badger", "tile_scan").Inc()
	return result, nil
}
