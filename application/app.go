// Package application 负责组件装配与应用生命周期。
// 启动顺序由组件依赖关系决定：配置、日志先行，Redis 与数据库就绪后
// 组装会话业务，最后对外启动 HTTP 服务；关闭按相反顺序执行。
package application

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-auth-service/component"
	"github.com/KOMKZ/go-auth-service/database"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/redis"
	"github.com/KOMKZ/go-auth-service/registry"
)

// App 认证服务应用
type App struct {
	configPath string
	envPrefix  string

	configComp  *ConfigComponent
	registry    *registry.Registry
	sessionComp *SessionComponent
	httpComp    *HTTPServerComponent

	stopTimeout time.Duration
}

// New 创建应用
func New(configPath, envPrefix string) *App {
	return &App{
		configPath:  configPath,
		envPrefix:   envPrefix,
		stopTimeout: 30 * time.Second,
	}
}

// Setup 装配并初始化所有组件
func (a *App) Setup(ctx context.Context) error {
	a.configComp = NewConfigComponent(a.configPath, a.envPrefix)
	if err := a.configComp.Init(ctx, nil); err != nil {
		return fmt.Errorf("init config failed: %w", err)
	}

	loggerComp := NewLoggerComponent()
	redisComp := redis.NewComponent()
	dbComp := database.NewComponent()
	a.sessionComp = NewSessionComponent(redisComp, dbComp)
	a.httpComp = NewHTTPServerComponent(a.sessionComp, redisComp, dbComp)

	reg := registry.NewRegistry()
	reg.MustRegister(a.configComp)
	reg.MustRegister(loggerComp)
	reg.MustRegister(redisComp)
	reg.MustRegister(dbComp)
	reg.MustRegister(a.sessionComp)
	reg.MustRegister(a.httpComp)
	a.registry = reg

	if err := reg.Init(ctx, a.configComp.GetLoader()); err != nil {
		return fmt.Errorf("init components failed: %w", err)
	}

	// 日志组件 Init 后才有 Logger，注入后 Start/Stop 阶段可落日志
	reg.SetLogger(loggerComp.GetLogger())

	return nil
}

// Run 启动应用并阻塞直到收到退出信号
func (a *App) Run(ctx context.Context) error {
	if err := a.Setup(ctx); err != nil {
		return err
	}

	if err := a.registry.Start(ctx); err != nil {
		a.shutdown(ctx)
		return fmt.Errorf("start components failed: %w", err)
	}

	log := logger.GetLogger("authapi")
	log.InfoCtx(ctx, "application running",
		zap.String("env", a.configComp.GetAppConfig().Env))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.InfoCtx(ctx, "shutdown signal received", zap.String("signal", sig.String()))
	case <-ctx.Done():
		log.InfoCtx(ctx, "context cancelled")
	}

	a.shutdown(context.Background())
	return nil
}

// GetRegistry 获取组件注册中心
func (a *App) GetRegistry() *registry.Registry {
	return a.registry
}

// GetSessionComponent 获取会话组件
func (a *App) GetSessionComponent() *SessionComponent {
	return a.sessionComp
}

func (a *App) shutdown(ctx context.Context) {
	stopCtx, cancel := context.WithTimeout(ctx, a.stopTimeout)
	defer cancel()

	if err := a.registry.Stop(stopCtx); err != nil {
		logger.Error("authapi", "component shutdown failed", zap.Error(err))
	}
}

// 确保组件实现接口
var (
	_ component.Component = (*ConfigComponent)(nil)
	_ component.Component = (*LoggerComponent)(nil)
	_ component.Component = (*SessionComponent)(nil)
	_ component.Component = (*HTTPServerComponent)(nil)
)
