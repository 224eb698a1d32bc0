package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/annel0/tileworld/internal/auth"
	"github.com/annel0/tileworld/internal/jsonio"
	"github.com/annel0/tileworld/internal/storage"
	"github.com/annel0/tileworld/internal/tags"
	"github.com/annel0/tileworld/internal/world"
	"github.com/gin-gonic/gin"
)

// authMiddleware проверяет JWT токен в заголовке Authorization.
// Без настроенной аутентификации пропускает все запросы.
func (rs *RestServer) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rs.auth == nil {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			respondError(c, http.StatusUnauthorized, "Отсутствует токен авторизации")
			c.Abort()
			return
		}

		// Проверяем формат "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			respondError(c, http.StatusUnauthorized, "Неверный формат токена")
			c.Abort()
			return
		}

		claims, err := rs.auth.Verify(parts[1])
		if err != nil {
			respondError(c, http.StatusUnauthorized, "Недействительный токен")
			c.Abort()
			return
		}

		c.Set("subject", claims.Subject)
		c.Next()
	}
}

// LoginRequest представляет запрос на вход
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// handleLogin обменивает пароль редактора на токен
func (rs *RestServer) handleLogin(c *gin.Context) {
	if rs.auth == nil {
		respondError(c, http.StatusNotFound, "Аутентификация отключена")
		return
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Неверный формат запроса")
		return
	}

	token, err := rs.auth.Login(req.Password)
	if errors.Is(err, auth.ErrBadPassword) {
		respondError(c, http.StatusUnauthorized, "Неверный пароль")
		return
	}
	if err != nil {
		rs.log.Error("❌ Ошибка выпуска токена: %v", err)
		respondError(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}

	respondOK(c, "Вход выполнен", gin.H{"token": token})
}

// isClientError - ошибки, вызванные содержимым запроса
func isClientError(err error) bool {
	return errors.Is(err, jsonio.ErrMalformedData) ||
		errors.Is(err, tags.ErrInvalidTag) ||
		errors.Is(err, storage.ErrNoPosition) ||
		errors.Is(err, storage.ErrInvalidUser) ||
		errors.Is(err, world.ErrNoPosition) ||
		errors.Is(err, world.ErrInvalidKind)
}
