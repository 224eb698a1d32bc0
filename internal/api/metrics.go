package api

import (
	"fmt"
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/annel0/tileworld/internal/cache"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"
)

// ServerMetrics содержит метрики сервера
type ServerMetrics struct {
	StartTime time.Time
}

// NewServerMetrics создает новый экземпляр метрик
func NewServerMetrics() *ServerMetrics {
	return &ServerMetrics{
		StartTime: time.Now(),
	}
}

// GetUptime возвращает время работы сервера
func (sm *ServerMetrics) GetUptime() string {
	uptime := time.Since(sm.StartTime)

	days := int(uptime.Hours()) / 24
	hours := int(uptime.Hours()) % 24
	minutes := int(uptime.Minutes()) % 60
	seconds := int(uptime.Seconds()) % 60

	switch {
	case days > 0:
		return fmt.Sprintf("%dд %dч %dм %dс", days, hours, minutes, seconds)
	case hours > 0:
		return fmt.Sprintf("%dч %dм %dс", hours, minutes, seconds)
	case minutes > 0:
		return fmt.Sprintf("%dм %dс", minutes, seconds)
	default:
		return fmt.Sprintf("%dс", seconds)
	}
}

// GetMemoryUsage возвращает использование кучи в MB
func (sm *ServerMetrics) GetMemoryUsage() float64 {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return float64(m.Alloc) / 1024 / 1024
}

// GetProcessStats возвращает CPU% и RSS процесса через gopsutil
func (sm *ServerMetrics) GetProcessStats() (cpuPercent float64, rssMB float64, err error) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0, 0, err
	}

	cpuPercent, err = proc.CPUPercent()
	if err != nil {
		return 0, 0, err
	}

	mem, err := proc.MemoryInfo()
	if err != nil {
		return cpuPercent, 0, err
	}
	return cpuPercent, float64(mem.RSS) / 1024 / 1024, nil
}

// handleStats возвращает статистику сервера
func (rs *RestServer) handleStats(c *gin.Context) {
	server := map[string]interface{}{
		"uptime":      rs.metrics.GetUptime(),
		"memory_mb":   fmt.Sprintf("%.2f", rs.metrics.GetMemoryUsage()),
		"goroutines":  runtime.NumGoroutine(),
		"server_time": time.Now().Unix(),
	}

	if cpuPercent, rssMB, err := rs.metrics.GetProcessStats(); err == nil {
		server["cpu_percent"] = fmt.Sprintf("%.2f", cpuPercent)
		server["rss_mb"] = fmt.Sprintf("%.2f", rssMB)
	} else {
		rs.log.Debug("gopsutil недоступен: %v", err)
	}

	data := map[string]interface{}{
		"server":  server,
		"storage": rs.backends,
		"objects": rs.objects.GetObjectCount(),
		"index":   rs.objects.GetStats(),
	}
	if tc, ok := rs.tiles.(*cache.TileCache); ok {
		data["cache"] = tc.GetMetrics()
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Статистика получена",
		Data:    data,
	})
}
