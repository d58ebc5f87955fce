package logger

import "strings"

// GinLogWriter 把 gin 框架内部的日志输出重定向到模块日志器
type GinLogWriter struct {
	logger *CtxZapLogger
}

// NewGinLogWriter 创建 gin 日志适配器
func NewGinLogWriter(module string) *GinLogWriter {
	return &GinLogWriter{
		logger: GetLogger(module),
	}
}

// Write 实现 io.Writer 接口
func (w *GinLogWriter) Write(p []byte) (n int, err error) {
	msg := strings.TrimSpace(string(p))
	if msg != "" {
		w.logger.Info(msg)
	}
	return len(p), nil
}
