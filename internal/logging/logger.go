package logging

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel определяет уровни логирования
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
)

// String возвращает строковое представление уровня логирования
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel разбирает имя уровня без учёта регистра
func ParseLevel(name string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBUG":
		return DEBUG, nil
	case "", "INFO":
		return INFO, nil
	case "WARN", "WARNING":
		return WARN, nil
	case "ERROR":
		return ERROR, nil
	}
	return INFO, fmt.Errorf("неизвестный уровень логирования %q", name)
}

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zap.DebugLevel
	case WARN:
		return zap.WarnLevel
	case ERROR:
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Options - настройки базового логгера
type Options struct {
	Level       LogLevel
	Format      string   // "json" или "console"
	OutputPaths []string // по умолчанию stderr
}

// Logger - логгер компонента поверх zap
type Logger struct {
	component string
	level     zap.AtomicLevel
	sugar     *zap.SugaredLogger
}

var (
	baseMu     sync.RWMutex
	baseLogger *zap.Logger
	baseLevel  = zap.NewAtomicLevelAt(zap.InfoLevel)
)

// InitLogger строит базовый zap-логгер; компонентные логгеры создаются от него
func InitLogger(opts Options) error {
	encoding := opts.Format
	if encoding == "" {
		encoding = "json"
	}
	if encoding != "json" && encoding != "console" {
		return fmt.Errorf("неизвестный формат логов %q", opts.Format)
	}
	outputs := opts.OutputPaths
	if len(outputs) == 0 {
		outputs = []string{"stderr"}
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	level := zap.NewAtomicLevelAt(opts.Level.zapLevel())
	cfg := zap.Config{
		Level:            level,
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		DisableCaller:    true,
	}

	zl, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("ошибка создания логгера: %w", err)
	}

	SetBase(zl, level)
	return nil
}

// SetBase подменяет базовый логгер (тесты подставляют сюда observer-core).
// Уже выданные компонентные логгеры сбрасываются.
func SetBase(zl *zap.Logger, level zap.AtomicLevel) {
	baseMu.Lock()
	baseLogger = zl
	baseLevel = level
	baseMu.Unlock()

	GetLoggerManager().reset()
}

func base() (*zap.Logger, zap.AtomicLevel) {
	baseMu.RLock()
	defer baseMu.RUnlock()
	if baseLogger == nil {
		return zap.NewNop(), baseLevel
	}
	return baseLogger, baseLevel
}

// NewLogger создает логгер компонента
func NewLogger(component string) (*Logger, error) {
	if component == "" {
		return nil, fmt.Errorf("пустое имя компонента")
	}
	zl, level := base()
	return &Logger{
		component: component,
		level:     level,
		sugar:     zl.Named(component).Sugar(),
	}, nil
}

// Component возвращает имя компонента
func (l *Logger) Component() string { return l.component }

// With возвращает логгер с дополнительными полями (key, value, ...)
func (l *Logger) With(keysAndValues ...interface{}) *Logger {
	return &Logger{
		component: l.component,
		level:     l.level,
		sugar:     l.sugar.With(keysAndValues...),
	}
}

// Debug логирует сообщение уровня DEBUG
func (l *Logger) Debug(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

// Info логирует сообщение уровня INFO
func (l *Logger) Info(format string, args ...interface{}) {
	l.sugar.Infof(format, args...)
}

// Warn логирует сообщение уровня WARN
func (l *Logger) Warn(format string, args ...interface{}) {
	l.sugar.Warnf(format, args...)
}

// Error логирует сообщение уровня ERROR
func (l *Logger) Error(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}

// Sync сбрасывает буферы zap
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

// CloseLogger сбрасывает базовый логгер
func CloseLogger() {
	zl, _ := base()
	// stderr на части платформ возвращает EINVAL на Sync
	_ = zl.Sync()
}

// Глобальные функции пишут через логгер компонента "server"

func LogDebug(format string, args ...interface{}) { GetServerLogger().Debug(format, args...) }
func LogInfo(format string, args ...interface{}) { GetServerLogger().Info(format, args...) }
func LogWarn(format string, args ...interface{}) { GetServerLogger().Warn(format, args...) }
func LogError(format string, args ...interface{}) { GetServerLogger().Error(format, args...) }
