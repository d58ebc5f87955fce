package application

import (
	"context"
	"fmt"

	"github.com/KOMKZ/go-auth-service/component"
	"github.com/KOMKZ/go-auth-service/config"
)

// ConfigComponent 配置组件（支持多数据源）
type ConfigComponent struct {
	configPath string
	envPrefix  string
	loader     *config.Loader
	appConfig  *AppConfig
}

// NewConfigComponent 创建配置组件
func NewConfigComponent(configPath, envPrefix string) *ConfigComponent {
	if configPath == "" {
		configPath = "./configs"
	}
	if envPrefix == "" {
		envPrefix = "AUTHAPI"
	}
	return &ConfigComponent{
		configPath: configPath,
		envPrefix:  envPrefix,
	}
}

// Name 组件名称
func (c *ConfigComponent) Name() string {
	return component.ComponentConfig
}

// DependsOn 配置组件无依赖
func (c *ConfigComponent) DependsOn() []string {
	return []string{}
}

// Init 初始化配置加载器。可在注册中心之外提前调用，重复调用无副作用。
func (c *ConfigComponent) Init(ctx context.Context, _ component.ConfigLoader) error {
	if c.loader != nil {
		return nil
	}

	loader, err := config.NewLoaderBuilder().
		WithConfigPath(c.configPath).
		WithEnvPrefix(c.envPrefix).
		Build()
	if err != nil {
		return fmt.Errorf("build config loader failed: %w", err)
	}
	c.loader = loader

	var appCfg AppConfig
	if err := loader.Unmarshal("app", &appCfg); err != nil {
		return fmt.Errorf("load app config failed: %w", err)
	}
	c.appConfig = &appCfg

	return nil
}

// Start 配置组件无需启动
func (c *ConfigComponent) Start(ctx context.Context) error {
	return nil
}

// Stop 配置组件无需停止
func (c *ConfigComponent) Stop(ctx context.Context) error {
	return nil
}

// GetLoader 获取配置加载器
func (c *ConfigComponent) GetLoader() *config.Loader {
	return c.loader
}

// GetAppConfig 获取应用配置
func (c *ConfigComponent) GetAppConfig() *AppConfig {
	return c.appConfig
}
