package application

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-auth-service/httpx"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/middleware"
)

// HTTPServer Gin HTTP 服务封装
type HTTPServer struct {
	engine     *gin.Engine
	httpServer *http.Server
	config     ServerConfig
}

// NewHTTPServer 创建 HTTP 服务。
// 不使用 gin.Default()，日志与恢复中间件用自定义版本接管。
func NewHTTPServer(cfg ServerConfig, middlewareCfg MiddlewareConfig) *HTTPServer {
	cfg.ApplyDefaults()

	gin.DefaultWriter = logger.NewGinLogWriter("authapi")
	gin.DefaultErrorWriter = logger.NewGinLogWriter("authapi")
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	engine.HandleMethodNotAllowed = true

	// CORS 在最前，保证预检请求直接响应
	if middlewareCfg.CORS.Enable {
		corsCfg := middleware.DefaultCORSConfig()
		corsCfg.AllowOrigins = middlewareCfg.CORS.AllowOrigins
		corsCfg.AllowCredentials = middlewareCfg.CORS.AllowCredentials
		engine.Use(middleware.CORSWithConfig(corsCfg))
	}

	// TraceID 必须在日志中间件之前
	engine.Use(middleware.TraceID(middleware.DefaultTraceConfig()))

	if middlewareCfg.RequestLog.Enable {
		requestLogCfg := middleware.DefaultRequestLogConfig()
		if len(middlewareCfg.RequestLog.SkipPaths) > 0 {
			requestLogCfg.SkipPaths = middlewareCfg.RequestLog.SkipPaths
		}
		engine.Use(middleware.RequestLogWithConfig(requestLogCfg))
	}

	engine.Use(middleware.Recovery())

	engine.NoRoute(httpx.NoRouteHandler())
	engine.NoMethod(httpx.NoMethodHandler())

	return &HTTPServer{
		engine: engine,
		config: cfg,
	}
}

// GetEngine 获取 Gin 引擎（业务层注册路由用）
func (s *HTTPServer) GetEngine() *gin.Engine {
	return s.engine
}

// Start 非阻塞启动，等待确认端口绑定成功
func (s *HTTPServer) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	if err := s.checkPortAvailable(addr); err != nil {
		return fmt.Errorf("port %d unavailable: %w", s.config.Port, err)
	}

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.engine,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		logger.Debug("authapi", "http server starting",
			zap.Int("port", s.config.Port),
			zap.String("mode", s.config.Mode))

		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// 短暂等待，足以捕获端口绑定类错误
	select {
	case err := <-errChan:
		logger.Error("authapi", "http server start failed", zap.Error(err))
		return fmt.Errorf("http server start failed: %w", err)
	case <-time.After(50 * time.Millisecond):
		logger.Debug("authapi", "http server started", zap.Int("port", s.config.Port))
		return nil
	}
}

// Stop 优雅关闭
func (s *HTTPServer) Stop(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown failed: %w", err)
	}
	return nil
}

func (s *HTTPServer) checkPortAvailable(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return ln.Close()
}
