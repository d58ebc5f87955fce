package application

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())
	return port
}

func writeTestConfig(t *testing.T, cacheAddr, blacklistAddr string, port int) string {
	t.Helper()
	dir := t.TempDir()

	content := fmt.Sprintf(`app:
  name: authapi
  env: test

logger:
  base_log_dir: %s
  level: error
  app_name: authapi

server:
  port: %d
  mode: test

redis:
  instances:
    cache:
      addr: %s
    blacklist:
      addr: %s

database:
  connections:
    default:
      driver: sqlite
      dsn: "file::memory:?cache=shared"

token:
  secret: app-test-secret

directory:
  base_url: http://127.0.0.1:1
`, filepath.Join(dir, "logs"), port, cacheAddr, blacklistAddr)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))
	return dir
}

func TestApp_Lifecycle(t *testing.T) {
	cacheSrv := miniredis.RunT(t)
	blSrv := miniredis.RunT(t)
	port := freePort(t)
	configDir := writeTestConfig(t, cacheSrv.Addr(), blSrv.Addr(), port)

	app := New(configDir, "AUTHAPI_TEST")
	ctx := context.Background()

	require.NoError(t, app.Setup(ctx))
	require.NoError(t, app.GetRegistry().Start(ctx))
	t.Cleanup(func() {
		_ = app.GetRegistry().Stop(context.Background())
	})

	assert.NotNil(t, app.GetSessionComponent().GetSessions())
	assert.NotNil(t, app.GetSessionComponent().GetHandlers())
	assert.Equal(t, "test", app.configComp.GetAppConfig().Env)

	// 服务已监听
	resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/healthz", port))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// 未知路由统一 404 响应
	resp2, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/nope", port))
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp2.StatusCode)
}

func TestApp_SetupFailsWithoutConfig(t *testing.T) {
	app := New(t.TempDir(), "AUTHAPI_TEST")

	// 缺少 redis/token 等必要配置时初始化失败
	err := app.Setup(context.Background())
	assert.Error(t, err)
}

func TestConfigComponent_InitIdempotent(t *testing.T) {
	cacheSrv := miniredis.RunT(t)
	blSrv := miniredis.RunT(t)
	configDir := writeTestConfig(t, cacheSrv.Addr(), blSrv.Addr(), freePort(t))

	comp := NewConfigComponent(configDir, "AUTHAPI_TEST")
	ctx := context.Background()
	require.NoError(t, comp.Init(ctx, nil))
	loader := comp.GetLoader()

	require.NoError(t, comp.Init(ctx, nil))
	assert.Same(t, loader, comp.GetLoader())
}

func TestServerConfig_Defaults(t *testing.T) {
	var cfg ServerConfig
	cfg.ApplyDefaults()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "release", cfg.Mode)
	assert.Equal(t, 30*time.Second, cfg.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
