package application

import (
	"context"
	"fmt"
	"time"

	"github.com/KOMKZ/go-auth-service/api"
	"github.com/KOMKZ/go-auth-service/component"
	"github.com/KOMKZ/go-auth-service/health"
)

// CheckerProvider 暴露健康检查项的组件
type CheckerProvider interface {
	GetHealthChecker() component.HealthChecker
}

// HTTPServerComponent HTTP 服务组件
type HTTPServerComponent struct {
	sessionComp *SessionComponent
	providers   []CheckerProvider
	server      *HTTPServer
}

// NewHTTPServerComponent 创建 HTTP 服务组件。
// providers 的健康检查项注册到 /healthz 端点，
// 检查项在依赖组件初始化完成后才可用，因此延迟到 Init 收集。
func NewHTTPServerComponent(sessionComp *SessionComponent, providers ...CheckerProvider) *HTTPServerComponent {
	return &HTTPServerComponent{
		sessionComp: sessionComp,
		providers:   providers,
	}
}

// Name 组件名称
func (h *HTTPServerComponent) Name() string {
	return component.ComponentHTTPServer
}

// DependsOn 依赖的组件
func (h *HTTPServerComponent) DependsOn() []string {
	return []string{
		component.ComponentConfig,
		component.ComponentLogger,
		component.ComponentSession,
	}
}

// Init 构建引擎并注册路由
func (h *HTTPServerComponent) Init(ctx context.Context, loader component.ConfigLoader) error {
	var serverCfg ServerConfig
	if err := loader.Unmarshal("server", &serverCfg); err != nil {
		return fmt.Errorf("load server config failed: %w", err)
	}

	middlewareCfg := DefaultMiddlewareConfig()
	if loader.IsSet("middleware") {
		if err := loader.Unmarshal("middleware", &middlewareCfg); err != nil {
			return fmt.Errorf("load middleware config failed: %w", err)
		}
	}

	h.server = NewHTTPServer(serverCfg, middlewareCfg)

	handlers := h.sessionComp.GetHandlers()
	if handlers == nil {
		return fmt.Errorf("session component not initialized")
	}
	api.RegisterRoutes(h.server.GetEngine(), handlers)

	aggregator := health.NewAggregator(5 * time.Second)
	for _, provider := range h.providers {
		if provider == nil {
			continue
		}
		if checker := provider.GetHealthChecker(); checker != nil {
			aggregator.Register(checker)
		}
	}
	h.server.GetEngine().GET("/healthz", health.Handler(aggregator))

	return nil
}

// Start 启动监听
func (h *HTTPServerComponent) Start(ctx context.Context) error {
	return h.server.Start()
}

// Stop 优雅关闭
func (h *HTTPServerComponent) Stop(ctx context.Context) error {
	return h.server.Stop(ctx)
}

// GetServer 获取底层 HTTP 服务
func (h *HTTPServerComponent) GetServer() *HTTPServer {
	return h.server
}
