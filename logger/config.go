package logger

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap/zapcore"
)

// Config 模块日志配置（内部使用）
type Config struct {
	Level    string
	Encoding string // json 或 console

	// 内部字段（由 Manager 自动设置，无需用户操作）
	moduleName string // 业务模块名（如 session, token, directory）
	logDir     string // 日志根目录（默认 logs/）

	EnableFile    bool
	EnableConsole bool

	// 文件名格式配置
	EnableLevelInFilename bool   // 文件名是否包含级别（info/error）
	EnableDateInFilename  bool   // 文件名是否包含日期
	DateFormat            string // 日期格式（默认 2006-01-02）

	// 文件切割配置
	MaxSize    int  // 单个文件最大体积（MB）
	MaxBackups int  // 保留旧文件数量
	MaxAge     int  // 保留天数
	Compress   bool // 是否压缩

	EnableCaller bool
}

// ManagerConfig 全局管理器配置（所有模块共享）
type ManagerConfig struct {
	BaseLogDir            string `mapstructure:"base_log_dir"` // 日志根目录（默认 logs/）
	Level                 string `mapstructure:"level"`
	AppName               string `mapstructure:"app_name"` // 应用名称（自动注入所有日志）
	Encoding              string `mapstructure:"encoding"`
	EnableConsole         bool   `mapstructure:"enable_console"`
	EnableLevelInFilename bool   `mapstructure:"enable_level_in_filename"`
	EnableDateInFilename  bool   `mapstructure:"enable_date_in_filename"`
	DateFormat            string `mapstructure:"date_format"`
	MaxSize               int    `mapstructure:"max_size"`
	MaxBackups            int    `mapstructure:"max_backups"`
	MaxAge                int    `mapstructure:"max_age"`
	Compress              bool   `mapstructure:"compress"`
	EnableCaller          bool   `mapstructure:"enable_caller"`
	LoggerName            string `mapstructure:"logger_name"`

	// Trace ID 配置
	EnableTraceID    bool   `mapstructure:"enable_trace_id"`     // 是否自动提取 traceID
	TraceIDKey       string `mapstructure:"trace_id_key"`        // context 中的 key（默认 "trace_id"）
	TraceIDFieldName string `mapstructure:"trace_id_field_name"` // 日志字段名（默认 "trace_id"）
}

// DefaultManagerConfig 返回默认管理器配置
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		BaseLogDir:            "logs",
		LoggerName:            "logger",
		Level:                 "info",
		Encoding:              "json",
		EnableConsole:         true,
		EnableLevelInFilename: true,
		EnableDateInFilename:  true,
		DateFormat:            "2006-01-02",
		MaxSize:               100,
		MaxBackups:            10,
		MaxAge:                30,
		Compress:              true,
		EnableCaller:          true,
		EnableTraceID:         true,
		TraceIDKey:            "trace_id",
		TraceIDFieldName:      "trace_id",
	}
}

// ApplyDefaults 填充空缺的配置项
func (c *ManagerConfig) ApplyDefaults() {
	def := DefaultManagerConfig()
	if c.BaseLogDir == "" {
		c.BaseLogDir = def.BaseLogDir
	}
	if c.LoggerName == "" {
		c.LoggerName = def.LoggerName
	}
	if c.Level == "" {
		c.Level = def.Level
	}
	if c.Encoding == "" {
		c.Encoding = def.Encoding
	}
	if c.DateFormat == "" {
		c.DateFormat = def.DateFormat
	}
	if c.MaxSize == 0 {
		c.MaxSize = def.MaxSize
	}
	if c.MaxBackups == 0 {
		c.MaxBackups = def.MaxBackups
	}
	if c.MaxAge == 0 {
		c.MaxAge = def.MaxAge
	}
	if c.TraceIDKey == "" {
		c.TraceIDKey = def.TraceIDKey
	}
	if c.TraceIDFieldName == "" {
		c.TraceIDFieldName = def.TraceIDFieldName
	}
}

// Validate 校验配置合法性
func (c *ManagerConfig) Validate() error {
	switch strings.ToLower(c.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logger: invalid level %q", c.Level)
	}
	switch c.Encoding {
	case "", "json", "console":
	default:
		return fmt.Errorf("logger: invalid encoding %q", c.Encoding)
	}
	return nil
}

// ParseLevel 解析日志级别字符串
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// getInfoFilePath 生成 info 级别日志文件路径
func (c Config) getInfoFilePath() string {
	return c.buildFilePath("info")
}

// getErrorFilePath 生成 error 级别日志文件路径
func (c Config) getErrorFilePath() string {
	return c.buildFilePath("error")
}

func (c Config) buildFilePath(level string) string {
	parts := []string{c.moduleName}
	if c.EnableLevelInFilename {
		parts = append(parts, level)
	}
	if c.EnableDateInFilename {
		format := c.DateFormat
		if format == "" {
			format = "2006-01-02"
		}
		parts = append(parts, time.Now().Format(format))
	}
	filename := strings.Join(parts, ".") + ".log"
	return filepath.Join(c.logDir, c.moduleName, filename)
}
