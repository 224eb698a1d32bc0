package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config корневая структура конфигурации приложения
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Redis     RedisConfig     `yaml:"redis"`
	Maria     MariaConfig     `yaml:"maria"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Logging   LoggingConfig   `yaml:"logging"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Auth      AuthConfig      `yaml:"auth"`
	Cache     CacheConfig     `yaml:"cache"`
}

type ServerConfig struct {
	RESTPort        int           `yaml:"rest_port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// StorageConfig выбирает бэкенды хранилища
type StorageConfig struct {
	Positions string `yaml:"positions"` // memory | redis | maria | mongo
	Tiles     string `yaml:"tiles"`     // memory | badger
	DataPath  string `yaml:"data_path"` // каталог BadgerDB
}

type RedisConfig struct {
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	KeyPrefix string        `yaml:"key_prefix"`
	TTL       time.Duration `yaml:"ttl"`
}

type MariaConfig struct {
	DSN string `yaml:"dsn"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// TelemetryConfig - OTLP/HTTP экспорт трейсов; пустой Endpoint отключает трейсинг
type TelemetryConfig struct {
	ServiceName string `yaml:"service_name"`
	Endpoint    string `yaml:"endpoint"`
}

// AuthConfig включает проверку токенов на изменяющих маршрутах.
// Пустые поля оставляют API открытым.
type AuthConfig struct {
	PasswordHash string        `yaml:"password_hash"` // bcrypt
	JWTSecret    string        `yaml:"jwt_secret"`    // base64, >= 32 байт
	TokenTTL     time.Duration `yaml:"token_ttl"`
}

// CacheConfig - кеш тайлов; с NATSURL узлы рассылают друг другу инвалидации
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
	NATSURL string        `yaml:"nats_url"`
	Subject string        `yaml:"subject"`
	NodeID  string        `yaml:"node_id"` // пустой - генерируется при старте
}

// Enabled сообщает, задана ли аутентификация
func (a AuthConfig) Enabled() bool {
	return a.PasswordHash != "" || a.JWTSecret != ""
}

// Default возвращает конфигурацию, с которой сервер стартует без файла
func Default() *Config {
	return &Config{
		Server: ServerConfig{ShutdownTimeout: 10 * time.Second},
		Storage: StorageConfig{
			Positions: "memory",
			Tiles:     "memory",
			DataPath:  "data/tiles",
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: "tileworld:pos:",
		},
		Logging:   LoggingConfig{Level: "info", Format: "json"},
		Telemetry: TelemetryConfig{ServiceName: "tileworld"},
		Auth:      AuthConfig{TokenTTL: 24 * time.Hour},
		Cache:     CacheConfig{TTL: 30 * time.Second, Subject: "tileworld.tiles.invalidate"},
	}
}

// GetRESTPort возвращает REST API порт с поддержкой fallback значений
func (s *ServerConfig) GetRESTPort() int {
	return getPortWithEnvFallback(s.RESTPort, "TILEWORLD_REST_PORT", 8088)
}

// getPortWithEnvFallback возвращает порт с приоритетом: config -> env -> default
func getPortWithEnvFallback(configPort int, envVar string, defaultPort int) int {
	if configPort > 0 {
		return configPort
	}

	if envVal := os.Getenv(envVar); envVal != "" {
		if port, err := strconv.Atoi(envVal); err == nil && port > 0 {
			return port
		}
	}

	return defaultPort
}

// Validate проверяет имена бэкендов
func (c *Config) Validate() error {
	switch c.Storage.Positions {
	case "memory", "redis", "maria", "mongo":
	default:
		return fmt.Errorf("storage.positions: неизвестный бэкенд %q", c.Storage.Positions)
	}
	switch c.Storage.Tiles {
	case "memory", "badger":
	default:
		return fmt.Errorf("storage.tiles: неизвестный бэкенд %q", c.Storage.Tiles)
	}
	if c.Storage.Positions == "maria" && c.Maria.DSN == "" {
		return fmt.Errorf("maria.dsn обязателен для storage.positions=maria")
	}
	if c.Storage.Positions == "mongo" && c.Mongo.URI == "" {
		return fmt.Errorf("mongo.uri обязателен для storage.positions=mongo")
	}
	if c.Auth.Enabled() && (c.Auth.PasswordHash == "" || c.Auth.JWTSecret == "") {
		return fmt.Errorf("auth: нужны и password_hash, и jwt_secret")
	}
	if c.Cache.NATSURL != "" && !c.Cache.Enabled {
		return fmt.Errorf("cache.nats_url задан, но cache.enabled=false")
	}
	if c.Storage.Tiles == "badger" && c.Storage.DataPath == "" {
		return fmt.Errorf("storage.data_path обязателен для storage.tiles=badger")
	}
	return nil
}

// Load читает YAML файл конфигурации поверх Default().
// Если path == "", берется ENV TILEWORLD_CONFIG; без файла возвращаются дефолты.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = os.Getenv("TILEWORLD_CONFIG")
		if path == "" {
			return cfg, nil // конфиг не задан - использовать дефолты
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение конфига %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("разбор конфига %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
