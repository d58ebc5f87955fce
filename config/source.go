package config

// ConfigSource interface for configuration data sources
// All configuration sources (files, environment variables, ...) implement this interface
type ConfigSource interface {
	// Data source name (for logs and debugging)
	Name() string

	// Priority (higher numerical value means higher priority)
	// Suggested values:
	// - Configuration file (config.yaml): 10
	// - Environment configuration file (dev.yaml): 20
	// - Environment variable: 50
	Priority() int

	// Load configuration data
	// The returned map uses keys separated by dots, such as "redis.addr"
	Load() (map[string]interface{}, error)
}
