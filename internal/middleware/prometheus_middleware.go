package middleware

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusMiddleware регистрирует базовые HTTP-метрики для Gin.
// Маршрут /metrics добавляется отдельно с помощью метода RegisterMetricsEndpoint.
// Использование:
//   mw := middleware.NewPrometheusMiddleware("tileworld_api")
//   r.Use(mw.Handler())
//   mw.RegisterMetricsEndpoint(r)
//
// Метрики:
// * http_request_duration_seconds{method,path,status} - histogram
// * http_requests_inflight - gauge
// * http_request_errors_total{method,path,status} - counter (4xx/5xx)
// * tiles_per_request{method,path} - histogram, сколько тайлов отдал или записал запрос
//
// Обработчик сообщает число тайлов через SetTilesTouched.

type PrometheusMiddleware struct {
	reqDuration *prometheus.HistogramVec
	reqInflight prometheus.Gauge
	reqErrors   *prometheus.CounterVec
	reqTiles    *prometheus.HistogramVec
}

// TilesTouchedKey - ключ gin.Context с числом тайлов, затронутых запросом
const TilesTouchedKey = "tileworld.tiles_touched"

// SetTilesTouched отмечает, сколько тайлов отдал или записал обработчик
func SetTilesTouched(c *gin.Context, n int) {
	c.Set(TilesTouchedKey, n)
}

// sphereVolumeBuckets - объемы кубических сфер (2r+1)^3 для r = 0..maxRadius
func sphereVolumeBuckets(maxRadius int) []float64 {
	buckets := make([]float64, 0, maxRadius+1)
	for r := 0; r <= maxRadius; r++ {
		side := float64(2*r + 1)
		buckets = append(buckets, side*side*side)
	}
	return buckets
}

// NewPrometheusMiddleware создаёт middleware и регистрирует метрики в дефолтном регистре.
// Повторное создание с тем же service переиспользует уже зарегистрированные метрики.
func NewPrometheusMiddleware(service string) *PrometheusMiddleware {
	pm := &PrometheusMiddleware{
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "http_request_duration_seconds",
			Help:      "Длительность HTTP-запросов.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "path", "status"}),
		reqInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: service,
			Name:      "http_requests_inflight",
			Help:      "Текущее количество обрабатываемых HTTP-запросов.",
		}),
		reqErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: service,
			Name:      "http_request_errors_total",
			Help:      "Общее число запросов, завершившихся ошибкой (4xx/5xx).",
		}, []string{"method", "path", "status"}),
		reqTiles: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: service,
			Name:      "tiles_per_request",
			Help:      "Число тайлов, отданных или записанных одним запросом.",
			Buckets:   sphereVolumeBuckets(16),
		}, []string{"method", "path"}),
	}

	pm.reqDuration = register(pm.reqDuration)
	pm.reqInflight = register(pm.reqInflight)
	pm.reqErrors = register(pm.reqErrors)
	pm.reqTiles = register(pm.reqTiles)
	return pm
}

func register[C prometheus.Collector](c C) C {
	if err := prometheus.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}

// Handler возвращает gin.HandlerFunc, которую нужно добавить через router.Use().
func (pm *PrometheusMiddleware) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		pm.reqInflight.Inc()
		c.Next()
		pm.reqInflight.Dec()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		path := c.FullPath()
		if path == "" {
			// не-матченные маршруты сводятся к одной метке
			path = "unmatched"
		}
		method := c.Request.Method

		pm.reqDuration.WithLabelValues(method, path, status).Observe(duration)

		if c.Writer.Status() >= 400 {
			pm.reqErrors.WithLabelValues(method, path, status).Inc()
		}
		if n, ok := c.Get(TilesTouchedKey); ok {
			if tiles, ok := n.(int); ok {
				pm.reqTiles.WithLabelValues(method, path).Observe(float64(tiles))
			}
		}
	}
}

// RegisterMetricsEndpoint добавляет GET /metrics в указанный router.
func (pm *PrometheusMiddleware) RegisterMetricsEndpoint(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
