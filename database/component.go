package database

import (
	"context"
	"fmt"

	"github.com/KOMKZ/go-auth-service/component"
	"github.com/KOMKZ/go-auth-service/logger"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// Component 数据库组件
//
// 实现 component.Component 接口，提供数据库管理能力
// 依赖：config, logger
type Component struct {
	manager *Manager
	logger  *logger.CtxZapLogger
}

// NewComponent 创建数据库组件
func NewComponent() *Component {
	return &Component{}
}

// Name 组件名称
func (c *Component) Name() string {
	return component.ComponentDatabase
}

// DependsOn 数据库组件依赖配置和日志组件
func (c *Component) DependsOn() []string {
	return []string{component.ComponentConfig, component.ComponentLogger}
}

// Init 初始化数据库管理器
func (c *Component) Init(ctx context.Context, loader component.ConfigLoader) error {
	c.logger = logger.GetLogger("database")

	var dbConfigs map[string]Config
	if err := loader.Unmarshal("database.connections", &dbConfigs); err != nil {
		return fmt.Errorf("读取数据库配置失败: %w", err)
	}

	if len(dbConfigs) == 0 {
		c.logger.DebugCtx(ctx, "未配置数据库，跳过初始化")
		return nil
	}

	gormLoggerFactory := func(dbCfg Config) gormlogger.Interface {
		if dbCfg.EnableLog {
			loggerCfg := logger.DefaultGormLoggerConfig()
			loggerCfg.SlowThreshold = dbCfg.SlowThreshold
			return logger.NewGormLogger(loggerCfg)
		}
		return gormlogger.Default.LogMode(gormlogger.Silent)
	}

	manager, err := NewManager(dbConfigs, gormLoggerFactory, c.logger)
	if err != nil {
		return fmt.Errorf("创建数据库管理器失败: %w", err)
	}

	c.manager = manager
	c.logger.DebugCtx(ctx, "数据库初始化成功", zap.Int("connections", len(dbConfigs)))
	return nil
}

// Start 启动数据库组件（无需启动动作）
func (c *Component) Start(ctx context.Context) error {
	return nil
}

// Stop 停止数据库组件（关闭连接）
func (c *Component) Stop(ctx context.Context) error {
	if c.manager != nil {
		if err := c.manager.Close(); err != nil {
			return fmt.Errorf("关闭数据库连接失败: %w", err)
		}
	}
	return nil
}

// GetManager 获取数据库管理器
func (c *Component) GetManager() *Manager {
	return c.manager
}

// GetHealthChecker 获取健康检查器
func (c *Component) GetHealthChecker() component.HealthChecker {
	if c.manager == nil {
		return nil
	}
	return NewHealthChecker(c.manager)
}
