package storage

import "github.com/prometheus/client_golang/prometheus"

// Метрики операций хранилища:
// * tileworld_storage_ops_total{backend,op} - counter
// * tileworld_storage_errors_total{backend,op} - counter (ошибки бэкенда, не валидации)
var (
	storageOps = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tileworld",
		Subsystem: "storage",
		Name:      "ops_total",
		Help:      "Количество успешных операций хранилища.",
	}, []string{"backend", "op"})

	storageErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tileworld",
		Subsystem: "storage",
		Name:      "errors_total",
		Help:      "Количество операций хранилища, завершившихся ошибкой бэкенда.",
	}, []string{"backend", "op"})
)

func init() {
	prometheus.MustRegister(storageOps, storageErrors)
}
