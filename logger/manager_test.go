package logger

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestManagerConfig() ManagerConfig {
	return ManagerConfig{
		BaseLogDir:            "logs",
		Level:                 "info",
		Encoding:              "json",
		EnableConsole:         false,
		EnableLevelInFilename: true,
		EnableDateInFilename:  false,
		MaxSize:               10,
		EnableTraceID:         true,
	}
}

func TestManager_MultipleModules(t *testing.T) {
	os.RemoveAll("logs")
	defer os.RemoveAll("logs")

	m := NewManager(newTestManagerConfig())
	defer m.CloseAll()

	m.GetLogger("session").Info("session started", zap.String("user_id", "u-1"))
	m.GetLogger("token").Info("token issued")
	m.GetLogger("token").Error("verify failed")

	// 每个模块有独立的日志目录
	assert.DirExists(t, filepath.Join("logs", "session"))
	assert.DirExists(t, filepath.Join("logs", "token"))

	data, err := os.ReadFile(filepath.Join("logs", "token", "token.error.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "verify failed")
	assert.Contains(t, string(data), `"module":"token"`)
}

func TestManager_GetLoggerReturnsSameInstance(t *testing.T) {
	os.RemoveAll("logs")
	defer os.RemoveAll("logs")

	m := NewManager(newTestManagerConfig())
	defer m.CloseAll()

	l1 := m.GetLogger("session")
	l2 := m.GetLogger("session")
	assert.Same(t, l1, l2)
}

func TestManager_GetLoggerConcurrent(t *testing.T) {
	os.RemoveAll("logs")
	defer os.RemoveAll("logs")

	m := NewManager(newTestManagerConfig())
	defer m.CloseAll()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.GetLogger("session").Info("concurrent write")
		}()
	}
	wg.Wait()
}

func TestManager_TraceIDFromContext(t *testing.T) {
	os.RemoveAll("logs")
	defer os.RemoveAll("logs")

	m := NewManager(newTestManagerConfig())
	defer m.CloseAll()

	ctx := context.WithValue(context.Background(), "trace_id", "trace-abc-123")
	m.GetLogger("session").InfoCtx(ctx, "with trace")

	data, err := os.ReadFile(filepath.Join("logs", "session", "session.info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"trace_id":"trace-abc-123"`)
}

func TestManager_AppNameInjected(t *testing.T) {
	os.RemoveAll("logs")
	defer os.RemoveAll("logs")

	cfg := newTestManagerConfig()
	cfg.AppName = "authapi"
	m := NewManager(cfg)
	defer m.CloseAll()

	m.GetLogger("session").Info("hello")

	data, err := os.ReadFile(filepath.Join("logs", "session", "session.info.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"app_name":"authapi"`)
}

func TestManager_LevelFiltering(t *testing.T) {
	os.RemoveAll("logs")
	defer os.RemoveAll("logs")

	m := NewManager(newTestManagerConfig())
	defer m.CloseAll()

	log := m.GetLogger("session")
	log.Debug("debug message should be dropped")
	log.Info("info message kept")

	data, err := os.ReadFile(filepath.Join("logs", "session", "session.info.log"))
	require.NoError(t, err)
	assert.NotContains(t, string(data), "debug message should be dropped")
	assert.Contains(t, string(data), "info message kept")
}

func TestManagerConfig_ApplyDefaults(t *testing.T) {
	var cfg ManagerConfig
	cfg.ApplyDefaults()

	assert.Equal(t, "logs", cfg.BaseLogDir)
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Encoding)
	assert.Equal(t, "trace_id", cfg.TraceIDKey)
	assert.Equal(t, "trace_id", cfg.TraceIDFieldName)
}

func TestManagerConfig_Validate(t *testing.T) {
	cfg := DefaultManagerConfig()
	assert.NoError(t, cfg.Validate())

	cfg.Level = "verbose"
	err := cfg.Validate()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "invalid level"))

	cfg = DefaultManagerConfig()
	cfg.Encoding = "xml"
	assert.Error(t, cfg.Validate())
}

func TestNewCtxZapLogger_ConsoleOnly(t *testing.T) {
	log := NewCtxZapLogger("test")
	require.NotNil(t, log)
	log.Info("console only, no files created")
	assert.NoFileExists(t, filepath.Join("logs", "test", "test.info.log"))
}
