package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/viper"
)

// Loader configuration loader (supporting multiple data sources)
type Loader struct {
	sources      []ConfigSource         // data source list
	mergedConfig map[string]interface{} // merged configuration (flat keys)
	v            *viper.Viper
	loadedFiles  []string // List of loaded files (for logging)
}

// NewLoader Create configuration loader
func NewLoader() *Loader {
	return &Loader{
		sources:      make([]ConfigSource, 0),
		mergedConfig: make(map[string]interface{}),
		v:            viper.New(),
		loadedFiles:  make([]string, 0),
	}
}

// AddSource add configuration data source
func (l *Loader) AddSource(source ConfigSource) {
	l.sources = append(l.sources, source)
}

// Load and merge all data sources
func (l *Loader) Load() error {
	// 1. Sort by priority (from low to high)
	sort.Slice(l.sources, func(i, j int) bool {
		return l.sources[i].Priority() < l.sources[j].Priority()
	})

	// 2. Load and merge in sequence (higher priority overrides lower)
	l.mergedConfig = make(map[string]interface{})
	for _, source := range l.sources {
		data, err := source.Load()
		if err != nil {
			return fmt.Errorf("加载数据源 %s 失败: %w", source.Name(), err)
		}

		if fileSource, ok := source.(*FileSource); ok {
			l.loadedFiles = append(l.loadedFiles, fileSource.path)
		}

		for key, value := range data {
			l.mergedConfig[key] = value
		}
	}

	// 3. Sync the merged configuration to Viper
	l.syncToViper()

	return nil
}

// syncToViper synchronizes the merged configuration to Viper
func (l *Loader) syncToViper() {
	l.v = viper.New()
	for key, value := range l.mergedConfig {
		l.v.Set(key, value)
	}
}

// Unmarshal parse a configuration section into a struct
func (l *Loader) Unmarshal(key string, v interface{}) error {
	if key == "" {
		return l.v.Unmarshal(v)
	}
	return l.v.UnmarshalKey(key, v)
}

// Get configuration value
func (l *Loader) Get(key string) interface{} {
	return l.v.Get(key)
}

// GetString Get string configuration
func (l *Loader) GetString(key string) string {
	return l.v.GetString(key)
}

// GetInt Get integer configuration
func (l *Loader) GetInt(key string) int {
	return l.v.GetInt(key)
}

// GetBool Get boolean configuration
func (l *Loader) GetBool(key string) bool {
	return l.v.GetBool(key)
}

// IsSet Check if the configuration item exists
func (l *Loader) IsSet(key string) bool {
	if l.v.IsSet(key) {
		return true
	}
	// 区段判断：存在以 key. 开头的扁平键也算存在
	prefix := key + "."
	for k := range l.mergedConfig {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}

// AllSettings Get all settings
func (l *Loader) AllSettings() map[string]interface{} {
	return l.v.AllSettings()
}

// GetLoadedFiles Retrieve the list of loaded configuration files
func (l *Loader) GetLoadedFiles() []string {
	return l.loadedFiles
}

// GetViper 获取底层 Viper 实例
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// Set 覆盖单个配置项（测试用）
func (l *Loader) Set(key string, value interface{}) {
	l.mergedConfig[key] = value
	l.v.Set(key, value)
}
