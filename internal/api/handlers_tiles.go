package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annel0/tileworld/internal/jsonio"
	"github.com/annel0/tileworld/internal/middleware"
	"github.com/annel0/tileworld/internal/storage"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/gin-gonic/gin"
)

// parseTilePath читает :x/:y/:z из пути
func parseTilePath(c *gin.Context) (vec.Tripoint, bool) {
	var coords [3]int
	for i, name := range []string{"x", "y", "z"} {
		v, err := strconv.Atoi(c.Param(name))
		if err != nil {
			respondError(c, http.StatusBadRequest, fmt.Sprintf("Координата %s не целое число", name))
			return vec.TripointMin, false
		}
		coords[i] = v
	}
	return vec.Tripoint{X: coords[0], Y: coords[1], Z: coords[2]}, true
}

// parseTripointQuery читает обязательный параметр вида "x,y,z"
func parseTripointQuery(c *gin.Context, name string) (vec.Tripoint, bool) {
	raw, ok := c.GetQuery(name)
	if !ok {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Отсутствует параметр %s", name))
		return vec.TripointMin, false
	}
	p, err := vec.ParseTripoint(raw)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return vec.TripointMin, false
	}
	return p, true
}

// handleGetTile возвращает тайл
func (rs *RestServer) handleGetTile(c *gin.Context) {
	pos, ok := parseTilePath(c)
	if !ok {
		return
	}

	tile, err := rs.tiles.Get(c.Request.Context(), pos)
	if err != nil {
		rs.respondStorageError(c, err)
		return
	}

	respondOK(c, "Тайл получен", storage.TileEntry{Pos: pos, Tile: tile})
}

// handlePutTile записывает тайл; тело - TileRecord с ординалами
func (rs *RestServer) handlePutTile(c *gin.Context) {
	pos, ok := parseTilePath(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Не удалось прочитать тело запроса")
		return
	}

	var tile storage.TileRecord
	if err := json.Unmarshal(body, &tile); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := rs.tiles.Put(c.Request.Context(), pos, tile); err != nil {
		rs.respondStorageError(c, err)
		return
	}

	respondOK(c, "Тайл сохранен", storage.TileEntry{Pos: pos, Tile: tile})
}

// handleDeleteTile удаляет тайл
func (rs *RestServer) handleDeleteTile(c *gin.Context) {
	pos, ok := parseTilePath(c)
	if !ok {
		return
	}

	if err := rs.tiles.Delete(c.Request.Context(), pos); err != nil {
		rs.respondStorageError(c, err)
		return
	}

	respondOK(c, "Тайл удален", nil)
}

// handleScanTiles возвращает тайлы в диапазоне [from, to] в порядке x, y, z
func (rs *RestServer) handleScanTiles(c *gin.Context) {
	from, ok := parseTripointQuery(c, "from")
	if !ok {
		return
	}
	to, ok := parseTripointQuery(c, "to")
	if !ok {
		return
	}

	entries, err := rs.tiles.Scan(c.Request.Context(), from, to)
	if err != nil {
		rs.respondStorageError(c, err)
		return
	}

	middleware.SetTilesTouched(c, len(entries))
	respondOK(c, fmt.Sprintf("Найдено тайлов: %d", len(entries)), entries)
}

// handleExportSnapshot отдает zstd JSONL снапшот всех тайлов
func (rs *RestServer) handleExportSnapshot(c *gin.Context) {
	c.Header("Content-Type", "application/zstd")
	c.Header("Content-Disposition", `attachment; filename="tiles.jsonl.zst"`)
	c.Status(http.StatusOK)

	n, err := storage.ExportTiles(c.Request.Context(), rs.tiles, c.Writer)
	if err != nil {
		// заголовки уже отправлены, остается только лог
		_ = c.Error(err)
		rs.log.Error("❌ Экспорт снапшота прерван после %d тайлов: %v", n, err)
		return
	}
	middleware.SetTilesTouched(c, n)
	rs.log.Info("📦 Экспортировано тайлов: %d", n)
}

// handleImportSnapshot загружает снапшот из тела запроса
func (rs *RestServer) handleImportSnapshot(c *gin.Context) {
	n, err := storage.ImportTiles(c.Request.Context(), rs.tiles, c.Request.Body)
	if err != nil {
		if errors.Is(err, jsonio.ErrMalformedData) {
			c.JSON(http.StatusBadRequest, GenericResponse{
				Success: false,
				Message: err.Error(),
				Data:    gin.H{"imported": n},
			})
			return
		}
		rs.respondStorageError(c, err)
		return
	}

	middleware.SetTilesTouched(c, n)
	rs.log.Info("📦 Импортировано тайлов: %d", n)
	respondOK(c, "Снапшот загружен", gin.H{"imported": n})
}
