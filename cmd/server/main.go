package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/annel0/tileworld/internal/api"
	"github.com/annel0/tileworld/internal/auth"
	"github.com/annel0/tileworld/internal/cache"
	"github.com/annel0/tileworld/internal/config"
	"github.com/annel0/tileworld/internal/logging"
	"github.com/annel0/tileworld/internal/observability"
	"github.com/annel0/tileworld/internal/storage"
	"github.com/google/uuid"
)

func main() {
	configPath := flag.String("config", "", "путь к YAML конфигу (или TILEWORLD_CONFIG)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Ошибка загрузки конфигурации: %v", err)
	}

	level, err := logging.ParseLevel(cfg.Logging.Level)
	if err != nil {
		log.Fatalf("❌ %v", err)
	}
	if err := logging.InitLogger(logging.Options{Level: level, Format: cfg.Logging.Format}); err != nil {
		log.Fatalf("❌ Ошибка инициализации логирования: %v", err)
	}
	defer logging.CloseLogger()

	logging.LogInfo("🌍 Запуск TileWorld сервера...")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := observability.InitTelemetry(ctx, cfg.Telemetry)
	if err != nil {
		logging.LogError("❌ Ошибка инициализации трейсинга: %v", err)
		os.Exit(1)
	}

	backends, err := storage.Open(ctx, cfg)
	if err != nil {
		logging.LogError("❌ Ошибка открытия хранилищ: %v", err)
		os.Exit(1)
	}

	var authenticator *auth.Authenticator
	if cfg.Auth.Enabled() {
		authenticator, err = auth.NewAuthenticator(cfg.Auth.PasswordHash, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		if err != nil {
			logging.LogError("❌ Ошибка настройки аутентификации: %v", err)
			os.Exit(1)
		}
		logging.LogInfo("🔐 JWT аутентификация активирована")
	} else {
		logging.LogWarn("⚠️ Аутентификация отключена, изменяющие маршруты открыты")
	}

	tiles, closeCache, err := setupTileCache(ctx, cfg.Cache, backends.Tiles)
	if err != nil {
		logging.LogError("❌ Ошибка настройки кеша тайлов: %v", err)
		os.Exit(1)
	}

	restPort := fmt.Sprintf(":%d", cfg.Server.GetRESTPort())
	server := api.NewRestServer(api.Config{
		Port:      restPort,
		Positions: backends.Positions,
		Tiles:     tiles,
		Auth:      authenticator,
		Backends: map[string]string{
			"positions": cfg.Storage.Positions,
			"tiles":     cfg.Storage.Tiles,
		},
	})

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	logging.LogInfo("✅ REST API: http://localhost%s", restPort)
	logging.LogInfo("   ❤️  Health check: http://localhost%s/health", restPort)

	select {
	case <-ctx.Done():
		logging.LogInfo("📡 Получен сигнал завершения, останавливаемся...")
	case err := <-serverErr:
		if err != nil {
			logging.LogError("❌ REST API остановился с ошибкой: %v", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.LogError("❌ Ошибка остановки REST API: %v", err)
	}
	if err := closeCache(); err != nil {
		logging.LogError("❌ Ошибка закрытия кеша: %v", err)
	}
	if err := backends.Close(); err != nil {
		logging.LogError("❌ Ошибка закрытия хранилищ: %v", err)
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logging.LogError("❌ Ошибка остановки трейсинга: %v", err)
	}

	logging.LogInfo("👋 Сервер успешно остановлен")
}

// setupTileCache оборачивает хранилище тайлов кешем, если он включен
func setupTileCache(ctx context.Context, cfg config.CacheConfig, backing storage.TileRepo) (storage.TileRepo, func() error, error) {
	noop := func() error { return nil }
	if !cfg.Enabled {
		return backing, noop, nil
	}

	var invalidator cache.Invalidator
	if cfg.NATSURL != "" {
		nodeID := cfg.NodeID
		if nodeID == "" {
			nodeID = uuid.NewString()
		}
		inv, err := cache.NewNATSInvalidator(&cache.InvalidatorConfig{
			NATSURL: cfg.NATSURL,
			Subject: cfg.Subject,
		}, nodeID)
		if err != nil {
			return nil, noop, err
		}
		invalidator = inv
	}

	tc := cache.NewTileCache(backing, invalidator, cfg.TTL)
	if err := tc.Start(ctx); err != nil {
		tc.Close()
		return nil, noop, err
	}
	logging.LogInfo("⚡ Кеш тайлов включен (ttl=%s, nats=%v)", cfg.TTL, invalidator != nil)
	return tc, tc.Close, nil
}
