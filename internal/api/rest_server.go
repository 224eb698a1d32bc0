package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/annel0/tileworld/internal/auth"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/middleware"
	"github.com/annel0/tileworld/internal/storage"
	"github.com/annel0/tileworld/internal/world"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// DefaultMaxRadius ограничивает радиус запросов по сфере: перечисление растет как r³
const DefaultMaxRadius = 64

// RestServer представляет REST API сервер
type RestServer struct {
	router     *gin.Engine
	httpServer *http.Server
	positions  storage.PositionRepo
	tiles      storage.TileRepo
	objects    *world.SpatialIndex
	auth       *auth.Authenticator
	backends   map[string]string
	maxRadius  int
	metrics    *ServerMetrics
	log        *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port      string               // адрес для запуска сервера
	Positions storage.PositionRepo // репозиторий позиций
	Tiles     storage.TileRepo     // хранилище тайлов
	Objects   *world.SpatialIndex  // индекс объектов; nil - создается пустой
	Auth      *auth.Authenticator  // nil - изменяющие маршруты открыты
	Backends  map[string]string    // имена бэкендов для /api/stats
	MaxRadius int                  // 0 - DefaultMaxRadius
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.MaxRadius <= 0 {
		config.MaxRadius = DefaultMaxRadius
	}
	if config.Objects == nil {
		config.Objects = world.NewSpatialIndex()
	}

	gin.SetMode(gin.ReleaseMode)

	router := gin.New()        // без стандартного logger/recovery
	router.Use(gin.Recovery()) // добавим только recovery

	// === Observability middleware ===
	router.Use(otelgin.Middleware("tileworld"))

	loggerMw := middleware.NewRequestLogger()
	router.Use(loggerMw.Handler())

	promMw := middleware.NewPrometheusMiddleware("tileworld_api")
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	server := &RestServer{
		router:    router,
		positions: config.Positions,
		tiles:     config.Tiles,
		objects:   config.Objects,
		auth:      config.Auth,
		backends:  config.Backends,
		maxRadius: config.MaxRadius,
		metrics:   NewServerMetrics(),
		log:       logging.GetAPILogger(),
	}
	server.httpServer = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	server.setupRoutes()
	return server
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	api := rs.router.Group("/api")

	api.POST("/auth/login", rs.handleLogin)

	// Чтение открыто всегда
	api.GET("/positions/:user", rs.handleGetPosition)
	api.GET("/tiles", rs.handleScanTiles)
	api.GET("/tiles/:x/:y/:z", rs.handleGetTile)
	api.GET("/snapshot", rs.handleExportSnapshot)
	api.GET("/sphere", rs.handleSphere)
	api.GET("/objects", rs.handleQueryObjects)
	api.GET("/objects/:id", rs.handleGetObject)
	api.GET("/tags", rs.handleTags)
	api.GET("/stats", rs.handleStats)

	// Изменяющие маршруты требуют токен, если настроена аутентификация
	protected := api.Group("/")
	protected.Use(rs.authMiddleware())
	{
		protected.PUT("/positions/:user", rs.handlePutPosition)
		protected.DELETE("/positions/:user", rs.handleDeletePosition)
		protected.PUT("/tiles/:x/:y/:z", rs.handlePutTile)
		protected.DELETE("/tiles/:x/:y/:z", rs.handleDeleteTile)
		protected.POST("/snapshot", rs.handleImportSnapshot)
		protected.POST("/generate", rs.handleGenerate)
		protected.PUT("/objects/:id", rs.handlePutObject)
		protected.DELETE("/objects/:id", rs.handleDeleteObject)
	}
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, GenericResponse{Success: true, Message: message, Data: data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, GenericResponse{Success: false, Message: message})
}

// respondStorageError переводит ошибку хранилища в HTTP-статус
func (rs *RestServer) respondStorageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		respondError(c, http.StatusNotFound, err.Error())
	case isClientError(err):
		respondError(c, http.StatusBadRequest, err.Error())
	default:
		_ = c.Error(err)
		rs.log.Error("❌ Ошибка хранилища: %v", err)
		respondError(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
	}
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// Handler возвращает http.Handler сервера (для httptest)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// Start запускает REST сервер и блокируется до Shutdown
func (rs *RestServer) Start() error {
	rs.log.Info("🌐 REST API слушает %s", rs.httpServer.Addr)
	if err := rs.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown корректно останавливает сервер, дожидаясь активных запросов
func (rs *RestServer) Shutdown(ctx context.Context) error {
	return rs.httpServer.Shutdown(ctx)
}
