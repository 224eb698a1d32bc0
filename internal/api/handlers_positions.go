package api

import (
	"net/http"
	"strconv"

	"github.com/annel0/tileworld/internal/vec"
	"github.com/gin-gonic/gin"
)

// PositionResponse - позиция пользователя
type PositionResponse struct {
	User uint64       `json:"user"`
	Pos  vec.Tripoint `json:"pos"`
}

func parseUserID(c *gin.Context) (uint64, bool) {
	userID, err := strconv.ParseUint(c.Param("user"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, http.StatusBadRequest, "Неверный ID пользователя")
		return 0, false
	}
	return userID, true
}

// handleGetPosition возвращает сохраненную позицию
func (rs *RestServer) handleGetPosition(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	pos, found, err := rs.positions.Load(c.Request.Context(), userID)
	if err != nil {
		rs.respondStorageError(c, err)
		return
	}
	if !found {
		respondError(c, http.StatusNotFound, "Позиция не найдена")
		return
	}

	respondOK(c, "Позиция получена", PositionResponse{User: userID, Pos: pos})
}

// handlePutPosition сохраняет позицию; тело - [x,y,z]
func (rs *RestServer) handlePutPosition(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		respondError(c, http.StatusBadRequest, "Не удалось прочитать тело запроса")
		return
	}

	pos := vec.TripointMin
	if err := pos.UnmarshalJSON(body); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := rs.positions.Save(c.Request.Context(), userID, pos); err != nil {
		rs.respondStorageError(c, err)
		return
	}

	respondOK(c, "Позиция сохранена", PositionResponse{User: userID, Pos: pos})
}

// handleDeletePosition удаляет позицию
func (rs *RestServer) handleDeletePosition(c *gin.Context) {
	userID, ok := parseUserID(c)
	if !ok {
		return
	}

	if err := rs.positions.Delete(c.Request.Context(), userID); err != nil {
		rs.respondStorageError(c, err)
		return
	}

	respondOK(c, "Позиция удалена", nil)
}
