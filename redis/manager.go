package redis

import (
	"context"
	"fmt"
	"sync"

	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Manager Redis 管理器（支持多个命名实例）。
// 令牌缓存和黑名单各自使用独立的实例（通常是同一服务器的不同 DB）。
type Manager struct {
	mu        sync.RWMutex
	instances map[string]*redis.Client
	configs   map[string]Config
	logger    *logger.CtxZapLogger
}

// NewManager 创建 Redis 管理器
// configs: 命名实例配置（如 "cache"、"blacklist"）
// log: 业务日志器（不能为 nil）
func NewManager(configs map[string]Config, log *logger.CtxZapLogger) (*Manager, error) {
	if log == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	ctx := context.Background()
	m := &Manager{
		instances: make(map[string]*redis.Client),
		configs:   make(map[string]Config),
		logger:    log,
	}

	for name, cfg := range configs {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("invalid config for %s: %w", name, err)
		}

		client, err := m.createClient(cfg)
		if err != nil {
			m.closeAll()
			return nil, fmt.Errorf("failed to create client %s: %w", name, err)
		}
		m.instances[name] = client
		m.configs[name] = cfg

		m.logger.DebugCtx(ctx, "Redis connection successful",
			zap.String("name", name),
			zap.String("addr", cfg.Addr),
			zap.Int("db", cfg.DB))
	}

	return m, nil
}

func (m *Manager) createClient(cfg Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		MaxRetries:   cfg.MaxRetries,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	return client, nil
}

// Client 获取命名实例
// 实例不存在时返回 nil
func (m *Manager) Client(name string) *redis.Client {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.instances[name]
}

// Ping 检查所有连接
func (m *Manager) Ping(ctx context.Context) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for name, client := range m.instances {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("ping %s failed: %w", name, err)
		}
	}

	return nil
}

// GetInstanceNames 获取所有实例名称
func (m *Manager) GetInstanceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.instances))
	for name := range m.instances {
		names = append(names, name)
	}
	return names
}

// Close 关闭所有连接
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctx := context.Background()
	for name, client := range m.instances {
		if err := client.Close(); err != nil {
			m.logger.ErrorCtx(ctx, "failed to close Redis connection",
				zap.String("name", name),
				zap.Error(err))
		} else {
			m.logger.DebugCtx(ctx, "Redis connection closed",
				zap.String("name", name))
		}
	}
	m.instances = make(map[string]*redis.Client)

	return nil
}

func (m *Manager) closeAll() {
	for _, client := range m.instances {
		client.Close()
	}
	m.instances = make(map[string]*redis.Client)
}
