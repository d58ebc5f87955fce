package config

import (
	"os"
	"strings"
)

// EnvSource 环境变量数据源
type EnvSource struct {
	prefix   string // 环境变量前缀，如 "AUTHAPI"
	priority int
}

// NewEnvSource 创建环境变量数据源
func NewEnvSource(prefix string, priority int) *EnvSource {
	return &EnvSource{
		prefix:   prefix,
		priority: priority,
	}
}

// Name 数据源名称
func (s *EnvSource) Name() string {
	return "env:" + s.prefix
}

// Priority 优先级
func (s *EnvSource) Priority() int {
	return s.priority
}

// Load 扫描带前缀的环境变量
// AUTHAPI_REDIS_ADDR -> redis.addr
func (s *EnvSource) Load() (map[string]interface{}, error) {
	result := make(map[string]interface{})
	if s.prefix == "" {
		return result, nil
	}

	prefix := s.prefix + "_"
	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key, value := parts[0], parts[1]
		if strings.HasPrefix(key, prefix) {
			configKey := strings.TrimPrefix(key, prefix)
			configKey = strings.ToLower(configKey)
			configKey = strings.ReplaceAll(configKey, "_", ".")
			result[configKey] = value
		}
	}

	return result, nil
}
