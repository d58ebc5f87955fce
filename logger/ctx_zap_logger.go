package logger

import (
	"context"

	"go.uber.org/zap"
)

// CtxZapLogger 带 context 感知的模块日志器。
// 所有 *Ctx 方法会自动从 context 中提取 trace_id 并附加到日志字段。
type CtxZapLogger struct {
	base   *zap.Logger
	module string
	config *ManagerConfig
}

// NewCtxZapLogger 创建仅输出到控制台的模块日志器（测试和简单场景使用）。
// 生产代码应通过 Manager.GetLogger 获取，以复用文件写入器。
func NewCtxZapLogger(module string) *CtxZapLogger {
	cfg := DefaultManagerConfig()
	base := newConsoleLogger(cfg).
		With(zap.String("module", module)).
		WithOptions(zap.AddCallerSkip(1))
	return &CtxZapLogger{
		base:   base,
		module: module,
		config: &cfg,
	}
}

// InfoCtx 记录 Info 级别日志（带 context）
func (l *CtxZapLogger) InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Info(msg, l.enrichFields(ctx, fields)...)
}

// Info 记录 Info 级别日志
func (l *CtxZapLogger) Info(msg string, fields ...zap.Field) {
	l.base.Info(msg, l.enrichFields(context.Background(), fields)...)
}

// ErrorCtx 记录 Error 级别日志（带 context）
func (l *CtxZapLogger) ErrorCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Error(msg, l.enrichFields(ctx, fields)...)
}

// Error 记录 Error 级别日志
func (l *CtxZapLogger) Error(msg string, fields ...zap.Field) {
	l.base.Error(msg, l.enrichFields(context.Background(), fields)...)
}

// DebugCtx 记录 Debug 级别日志（带 context）
func (l *CtxZapLogger) DebugCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Debug(msg, l.enrichFields(ctx, fields)...)
}

// Debug 记录 Debug 级别日志
func (l *CtxZapLogger) Debug(msg string, fields ...zap.Field) {
	l.base.Debug(msg, l.enrichFields(context.Background(), fields)...)
}

// WarnCtx 记录 Warn 级别日志（带 context）
func (l *CtxZapLogger) WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Warn(msg, l.enrichFields(ctx, fields)...)
}

// Warn 记录 Warn 级别日志
func (l *CtxZapLogger) Warn(msg string, fields ...zap.Field) {
	l.base.Warn(msg, l.enrichFields(context.Background(), fields)...)
}

// FatalCtx 记录 Fatal 级别日志并退出进程
func (l *CtxZapLogger) FatalCtx(ctx context.Context, msg string, fields ...zap.Field) {
	l.base.Fatal(msg, l.enrichFields(ctx, fields)...)
}

// With 返回附加了固定字段的新日志器
func (l *CtxZapLogger) With(fields ...zap.Field) *CtxZapLogger {
	return &CtxZapLogger{
		base:   l.base.With(fields...),
		module: l.module,
		config: l.config,
	}
}

// GetZapLogger 返回底层 zap.Logger（供需要原生接口的库使用）
func (l *CtxZapLogger) GetZapLogger() *zap.Logger {
	return l.base
}

// enrichFields 统一注入 app_name 和 trace_id 字段
func (l *CtxZapLogger) enrichFields(ctx context.Context, fields []zap.Field) []zap.Field {
	if l.config == nil {
		return fields
	}
	enriched := make([]zap.Field, 0, len(fields)+2)
	if l.config.AppName != "" {
		enriched = append(enriched, zap.String("app_name", l.config.AppName))
	}
	if l.config.EnableTraceID {
		if traceID := extractTraceIDFromContext(ctx, l.config); traceID != "" {
			enriched = append(enriched, zap.String(l.config.TraceIDFieldName, traceID))
		}
	}
	return append(enriched, fields...)
}

// extractTraceIDFromContext 从 context 中提取 trace_id（由 trace 中间件写入）
func extractTraceIDFromContext(ctx context.Context, cfg *ManagerConfig) string {
	if ctx == nil {
		return ""
	}
	if v := ctx.Value(cfg.TraceIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
