package logger

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Manager 多模块日志管理器。
// 每个业务模块（session、token、directory 等）拥有独立的日志文件，
// 共享同一份基础配置。
type Manager struct {
	mu         sync.RWMutex
	baseConfig ManagerConfig
	loggers    map[string]*CtxZapLogger
	writers    []*lumberjack.Logger
}

var (
	globalManager *Manager
	globalMu      sync.RWMutex
)

// NewManager 创建日志管理器
func NewManager(cfg ManagerConfig) *Manager {
	cfg.ApplyDefaults()
	return &Manager{
		baseConfig: cfg,
		loggers:    make(map[string]*CtxZapLogger),
	}
}

// InitManager 初始化全局日志管理器
func InitManager(cfg ManagerConfig) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalManager = NewManager(cfg)
}

// GetLogger 获取指定模块的日志器（懒加载，线程安全）
func (m *Manager) GetLogger(moduleName string) *CtxZapLogger {
	m.mu.RLock()
	if logger, ok := m.loggers[moduleName]; ok {
		m.mu.RUnlock()
		return logger
	}
	m.mu.RUnlock()

	m.mu.Lock()
	defer m.mu.Unlock()

	// double-check：可能已被其他 goroutine 创建
	if logger, ok := m.loggers[moduleName]; ok {
		return logger
	}

	cfg := m.buildModuleConfig(moduleName)
	zapLogger := m.createLogger(cfg)

	// 自动附加 module 字段，并跳过 CtxZapLogger 包装层
	zapLogger = zapLogger.With(zap.String("module", moduleName)).
		WithOptions(zap.AddCallerSkip(1))

	ctxLogger := &CtxZapLogger{
		base:   zapLogger,
		module: moduleName,
		config: &m.baseConfig,
	}
	m.loggers[moduleName] = ctxLogger
	return ctxLogger
}

// buildModuleConfig 为指定模块构建配置
func (m *Manager) buildModuleConfig(moduleName string) Config {
	return Config{
		Level:                 m.baseConfig.Level,
		Encoding:              m.baseConfig.Encoding,
		moduleName:            moduleName,
		logDir:                m.baseConfig.BaseLogDir,
		EnableFile:            true,
		EnableConsole:         m.baseConfig.EnableConsole,
		EnableLevelInFilename: m.baseConfig.EnableLevelInFilename,
		EnableDateInFilename:  m.baseConfig.EnableDateInFilename,
		DateFormat:            m.baseConfig.DateFormat,
		MaxSize:               m.baseConfig.MaxSize,
		MaxBackups:            m.baseConfig.MaxBackups,
		MaxAge:                m.baseConfig.MaxAge,
		Compress:              m.baseConfig.Compress,
		EnableCaller:          m.baseConfig.EnableCaller,
	}
}

// createLogger 创建底层 zap.Logger 实例
func (m *Manager) createLogger(cfg Config) *zap.Logger {
	encoder := createEncoder(cfg)
	configuredLevel := ParseLevel(cfg.Level)
	var cores []zapcore.Core

	if cfg.EnableConsole {
		cores = append(cores, zapcore.NewCore(
			encoder,
			zapcore.AddSync(os.Stdout),
			configuredLevel,
		))
	}

	if cfg.EnableFile {
		// info 文件：配置级别以上、Error 以下
		infoWriter, infoLumber := createFileWriter(cfg.getInfoFilePath(), cfg)
		m.writers = append(m.writers, infoLumber)
		cores = append(cores, zapcore.NewCore(
			encoder,
			infoWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= configuredLevel && lvl < zapcore.ErrorLevel
			}),
		))

		// error 文件：Error 及以上
		errorWriter, errorLumber := createFileWriter(cfg.getErrorFilePath(), cfg)
		m.writers = append(m.writers, errorLumber)
		cores = append(cores, zapcore.NewCore(
			encoder,
			errorWriter,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= zapcore.ErrorLevel
			}),
		))
	}

	var opts []zap.Option
	if cfg.EnableCaller {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(zapcore.NewTee(cores...), opts...)
}

// CloseAll 关闭所有日志文件写入器
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, w := range m.writers {
		_ = w.Close()
	}
	m.writers = nil
	m.loggers = make(map[string]*CtxZapLogger)
}

// newConsoleLogger 创建仅有控制台输出的 zap.Logger
func newConsoleLogger(cfg ManagerConfig) *zap.Logger {
	core := zapcore.NewCore(
		createEncoder(Config{Encoding: cfg.Encoding}),
		zapcore.AddSync(os.Stdout),
		ParseLevel(cfg.Level),
	)
	return zap.New(core, zap.AddCaller())
}

func createEncoder(cfg Config) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	if cfg.Encoding == "console" {
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

func createFileWriter(filename string, cfg Config) (zapcore.WriteSyncer, *lumberjack.Logger) {
	lumber := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	return zapcore.AddSync(lumber), lumber
}

// ===== 全局便捷函数 =====

// GetLogger 从全局管理器获取模块日志器。
// 未初始化时退化为控制台日志器，保证调用方永远拿到可用实例。
func GetLogger(moduleName string) *CtxZapLogger {
	globalMu.RLock()
	m := globalManager
	globalMu.RUnlock()
	if m == nil {
		globalMu.Lock()
		if globalManager == nil {
			cfg := DefaultManagerConfig()
			globalManager = NewManager(cfg)
		}
		m = globalManager
		globalMu.Unlock()
	}
	return m.GetLogger(moduleName)
}

// MustResetManager 用新配置重建全局管理器，配置非法时 panic
func MustResetManager(cfg ManagerConfig) {
	if err := cfg.Validate(); err != nil {
		panic(err)
	}
	globalMu.Lock()
	defer globalMu.Unlock()
	if globalManager != nil {
		globalManager.CloseAll()
	}
	globalManager = NewManager(cfg)
}

// CloseAll 关闭全局管理器的所有写入器
func CloseAll() {
	globalMu.RLock()
	m := globalManager
	globalMu.RUnlock()
	if m != nil {
		m.CloseAll()
	}
}

// Info 通过全局管理器记录 Info 日志
func Info(module string, msg string, fields ...zap.Field) {
	GetLogger(module).Info(msg, fields...)
}

// Debug 通过全局管理器记录 Debug 日志
func Debug(module string, msg string, fields ...zap.Field) {
	GetLogger(module).Debug(msg, fields...)
}

// Warn 通过全局管理器记录 Warn 日志
func Warn(module string, msg string, fields ...zap.Field) {
	GetLogger(module).Warn(msg, fields...)
}

// Error 通过全局管理器记录 Error 日志
func Error(module string, msg string, fields ...zap.Field) {
	GetLogger(module).Error(msg, fields...)
}

// InfoCtx 通过全局管理器记录 Info 日志（带 context）
func InfoCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).InfoCtx(ctx, msg, fields...)
}

// DebugCtx 通过全局管理器记录 Debug 日志（带 context）
func DebugCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).DebugCtx(ctx, msg, fields...)
}

// WarnCtx 通过全局管理器记录 Warn 日志（带 context）
func WarnCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).WarnCtx(ctx, msg, fields...)
}

// ErrorCtx 通过全局管理器记录 Error 日志（带 context）
func ErrorCtx(ctx context.Context, module string, msg string, fields ...zap.Field) {
	GetLogger(module).ErrorCtx(ctx, msg, fields...)
}
