package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/annel0/tileworld/internal/middleware"
	"github.com/annel0/tileworld/internal/storage"
	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/vec"
	"github.com/annel0/tileworld/internal/world"
	"github.com/gin-gonic/gin"
)

// SphereResponse - тайлы сферы в порядке x, y, z
type SphereResponse struct {
	Center vec.Tripoint   `json:"center"`
	Radius int            `json:"radius"`
	Metric string         `json:"metric"`
	Tiles  []vec.Tripoint `json:"tiles"`
}

// parseSphereQuery читает center, radius (по умолчанию 1) и metric
func (rs *RestServer) parseSphereQuery(c *gin.Context) (vec.Sphere, world.Metric, bool) {
	center, ok := parseTripointQuery(c, "center")
	if !ok {
		return vec.Sphere{}, 0, false
	}
	s := vec.NewSphere(center)

	if raw, exists := c.GetQuery("radius"); exists {
		r, err := strconv.Atoi(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "Радиус не целое число")
			return vec.Sphere{}, 0, false
		}
		s.Radius = r
	}
	if s.Radius > rs.maxRadius {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Радиус больше %d", rs.maxRadius))
		return vec.Sphere{}, 0, false
	}

	metric, err := world.ParseMetric(c.Query("metric"))
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return vec.Sphere{}, 0, false
	}
	return s, metric, true
}

// handleSphere перечисляет тайлы сферы; отрицательный радиус - пустой список
func (rs *RestServer) handleSphere(c *gin.Context) {
	s, metric, ok := rs.parseSphereQuery(c)
	if !ok {
		return
	}

	tiles := world.SphereTiles(s, metric)
	if tiles == nil {
		tiles = []vec.Tripoint{}
	}

	middleware.SetTilesTouched(c, len(tiles))
	respondOK(c, fmt.Sprintf("Тайлов в сфере: %d", len(tiles)), SphereResponse{
		Center: s.Center,
		Radius: s.Radius,
		Metric: metric.String(),
		Tiles:  tiles,
	})
}

// handleTags возвращает таблицы ординалов всех наборов тегов
func (rs *RestServer) handleTags(c *gin.Context) {
	respondOK(c, "Каталог тегов", gin.H{
		"sets":      tags.Catalogue(),
		"aep_split": int(tags.AEPSplit),
	})
}

// GenerateRequest - параметры генерации рельефа
type GenerateRequest struct {
	Center *vec.Tripoint `json:"center"`
	Radius int           `json:"radius"`
	Seed   int64         `json:"seed"`
}

// handleGenerate генерирует уровень вокруг center и сохраняет тайлы
func (rs *RestServer) handleGenerate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Не удалось прочитать тело запроса")
		return
	}

	var req GenerateRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Center == nil {
		respondError(c, http.StatusBadRequest, "Отсутствует center")
		return
	}
	if req.Radius < 0 || req.Radius > rs.maxRadius {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("Радиус должен быть в [0, %d]", rs.maxRadius))
		return
	}

	gen := world.NewTerrainGenerator(req.Seed)
	generated := gen.Generate(vec.NewSphereRadius(*req.Center, req.Radius))

	ctx := c.Request.Context()
	for _, t := range generated {
		record := storage.TileRecord{Visibility: t.Visibility, Object: t.Object, Phase: t.Phase}
		if err := rs.tiles.Put(ctx, t.Pos, record); err != nil {
			rs.respondStorageError(c, err)
			return
		}
	}

	middleware.SetTilesTouched(c, len(generated))
	rs.log.Info("🗺️ Сгенерировано тайлов: %d (seed=%d, center=%s)", len(generated), req.Seed, *req.Center)
	respondOK(c, "Рельеф сгенерирован", gin.H{"generated": len(generated)})
}

// ObjectRequest - тело PUT /api/objects/:id
type ObjectRequest struct {
	Kind tags.ObjectType `json:"kind"`
	Pos  *vec.Tripoint   `json:"pos"`
}

func parseObjectID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		respondError(c, http.StatusBadRequest, "Неверный ID объекта")
		return 0, false
	}
	return id, true
}

// handlePutObject добавляет или перемещает объект в пространственном индексе
func (rs *RestServer) handlePutObject(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Не удалось прочитать тело запроса")
		return
	}

	var req ObjectRequest
	if err := json.Unmarshal(body, &req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Pos == nil {
		respondError(c, http.StatusBadRequest, "Отсутствует pos")
		return
	}

	obj := world.Object{ID: id, Kind: req.Kind, Pos: *req.Pos}
	if err := rs.objects.Insert(obj); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	respondOK(c, "Объект сохранен", obj)
}

// handleGetObject возвращает объект по ID
func (rs *RestServer) handleGetObject(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	obj, exists := rs.objects.Get(id)
	if !exists {
		respondError(c, http.StatusNotFound, "Объект не найден")
		return
	}
	respondOK(c, "Объект получен", obj)
}

// handleDeleteObject удаляет объект из индекса
func (rs *RestServer) handleDeleteObject(c *gin.Context) {
	id, ok := parseObjectID(c)
	if !ok {
		return
	}

	if !rs.objects.Remove(id) {
		respondError(c, http.StatusNotFound, "Объект не найден")
		return
	}
	respondOK(c, "Объект удален", nil)
}

// handleQueryObjects возвращает объекты внутри сферы
func (rs *RestServer) handleQueryObjects(c *gin.Context) {
	s, metric, ok := rs.parseSphereQuery(c)
	if !ok {
		return
	}

	objects := rs.objects.QuerySphere(s, metric)
	if objects == nil {
		objects = []world.Object{}
	}
	respondOK(c, fmt.Sprintf("Объектов в сфере: %d", len(objects)), objects)
}
