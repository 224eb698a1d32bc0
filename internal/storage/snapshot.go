package storage

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/annel0/tileworld/internal/jsonio"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/klauspost/compress/zstd"
)

// Снапшот тайлов - JSONL, сжатый zstd. Одна строка на тайл:
//
//	{"pos":[x,y,z],"tile":{"visibility":0,"object":0,"phase":1}}
//
// Строки идут в порядке vec.Tripoint.Less.

const maxSnapshotLine = 1 << 20

var tripointMax = vec.Tripoint{X: math.MaxInt, Y: math.MaxInt, Z: math.MaxInt}

// ExportTiles записывает все тайлы repo в w. Возвращает количество тайлов.
func ExportTiles(ctx context.Context, repo TileRepo, w io.Writer) (int, error) {
	entries, err := repo.Scan(ctx, vec.TripointMin, tripointMax)
	if err != nil {
		return 0, err
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return 0, fmt.Errorf("zstd writer: %w", err)
	}

	enc := json.NewEncoder(zw)
	for i, e := range entries {
		if err := enc.Encode(e); err != nil {
			zw.Close()
			return i, fmt.Errorf("ошибка записи тайла %s: %w", e.Pos, err)
		}
	}

	if err := zw.Close(); err != nil {
		return len(entries), fmt.Errorf("zstd close: %w", err)
	}
	return len(entries), nil
}

// ImportTiles читает снапшот из r и записывает тайлы в repo.
// Повреждённая строка прерывает импорт с jsonio.ErrMalformedData;
// тайлы до неё уже записаны.
func ImportTiles(ctx context.Context, repo TileRepo, r io.Reader) (int, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return 0, fmt.Errorf("%w: zstd: %w", jsonio.ErrMalformedData, err)
	}
	defer zr.Close()

	scanner := bufio.NewScanner(zr)
	scanner.Buffer(make([]byte, 0, 4096), maxSnapshotLine)

	count, line := 0, 0
	for scanner.Scan() {
		line++
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 {
			continue
		}

		entry, err := decodeSnapshotLine(raw)
		if err != nil {
			return count, fmt.Errorf("%w: строка %d: %w", jsonio.ErrMalformedData, line, err)
		}

		if err := repo.Put(ctx, entry.Pos, entry.Tile); err != nil {
			return count, fmt.Errorf("строка %d: %w", line, err)
		}
		count++
	}

	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("%w: %w", jsonio.ErrMalformedData, err)
	}
	return count, nil
}

func decodeSnapshotLine(raw []byte) (TileEntry, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return TileEntry{}, err
	}

	posRaw, ok := fields["pos"]
	if !ok {
		return TileEntry{}, fmt.Errorf("нет поля pos")
	}
	tileRaw, ok := fields["tile"]
	if !ok {
		return TileEntry{}, fmt.Errorf("нет поля tile")
	}

	var entry TileEntry
	if err := entry.Pos.UnmarshalJSON(posRaw); err != nil {
		return TileEntry{}, err
	}
	if err := json.Unmarshal(tileRaw, &entry.Tile); err != nil {
		return TileEntry{}, err
	}
	return entry, nil
}
