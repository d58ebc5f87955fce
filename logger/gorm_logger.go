package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 自定义 GORM 日志器（实现 gorm logger.Interface）。
// 所有数据库日志统一走 sql 模块。
type GormLogger struct {
	slowThreshold time.Duration
	logLevel      gormlogger.LogLevel
}

// GormLoggerConfig GORM 日志器配置
type GormLoggerConfig struct {
	SlowThreshold time.Duration // 慢查询阈值，默认 200ms
	LogLevel      gormlogger.LogLevel
}

// DefaultGormLoggerConfig 默认配置
func DefaultGormLoggerConfig() GormLoggerConfig {
	return GormLoggerConfig{
		SlowThreshold: 200 * time.Millisecond,
		LogLevel:      gormlogger.Warn,
	}
}

// NewGormLogger 创建 GORM 日志器
func NewGormLogger(cfg GormLoggerConfig) *GormLogger {
	return &GormLogger{
		slowThreshold: cfg.SlowThreshold,
		logLevel:      cfg.LogLevel,
	}
}

// LogMode 设置日志级别
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	newLogger := *l
	newLogger.logLevel = level
	return &newLogger
}

// Info 记录 Info 级别日志
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Info {
		InfoCtx(ctx, "sql", fmt.Sprintf(msg, data...))
	}
}

// Warn 记录 Warn 级别日志
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Warn {
		WarnCtx(ctx, "sql", fmt.Sprintf(msg, data...))
	}
}

// Error 记录 Error 级别日志
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if l.logLevel >= gormlogger.Error {
		ErrorCtx(ctx, "sql", fmt.Sprintf(msg, data...))
	}
}

// Trace 记录 SQL 执行日志
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []zap.Field{
		zap.String("sql", sql),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	}

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.logLevel >= gormlogger.Error:
		ErrorCtx(ctx, "sql", "sql execution failed", append(fields, zap.Error(err))...)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.logLevel >= gormlogger.Warn:
		WarnCtx(ctx, "sql", "slow sql", fields...)
	case l.logLevel >= gormlogger.Info:
		DebugCtx(ctx, "sql", "sql executed", fields...)
	}
}
