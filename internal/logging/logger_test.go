package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	atom := zap.NewAtomicLevelAt(level)
	core, logs := observer.New(atom)
	SetBase(zap.New(core), atom)
	t.Cleanup(func() { SetBase(nil, zap.NewAtomicLevelAt(zap.InfoLevel)) })
	return logs
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DEBUG,
		"INFO":    INFO,
		"":        INFO,
		"warning": WARN,
		" error ": ERROR,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("trace-all")
	assert.Error(t, err)
}

func TestComponentLogger(t *testing.T) {
	logs := observe(t, zap.DebugLevel)

	storage := GetStorageLogger()
	storage.Info("сохранено %d тайлов", 3)
	storage.With("user", 42).Warn("позиция отсутствует")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "storage", entries[0].LoggerName)
	assert.Equal(t, "сохранено 3 тайлов", entries[0].Message)
	assert.Equal(t, zap.WarnLevel, entries[1].Level)
	assert.Equal(t, int64(42), entries[1].ContextMap()["user"])

	// логгер кешируется менеджером
	assert.Same(t, storage, GetStorageLogger())
	assert.Contains(t, GetLoggerManager().ListComponents(), "storage")
}

func TestSetLogLevel(t *testing.T) {
	logs := observe(t, zap.InfoLevel)

	api := GetAPILogger()
	api.Debug("не должно попасть")
	require.Equal(t, 0, logs.Len())

	require.NoError(t, GetLoggerManager().SetLogLevel("api", DEBUG))
	api.Debug("теперь видно")
	assert.Equal(t, 1, logs.Len())

	assert.Error(t, GetLoggerManager().SetLogLevel("unknown", DEBUG))
}

func TestGlobalFunctions(t *testing.T) {
	logs := observe(t, zap.InfoLevel)

	LogInfo("сервер запущен на %s", ":8080")
	LogError("ошибка: %v", assert.AnError)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "server", entries[0].LoggerName)
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
}

func TestNewLogger_EmptyComponent(t *testing.T) {
	_, err := NewLogger("")
	assert.Error(t, err)

	// MustGetLogger не падает
	l := GetLoggerManager().MustGetLogger("")
	l.Info("ничего не произойдет")
}
