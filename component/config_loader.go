package component

// ConfigLoader configuration loader interface
//
// Provides unified configuration reading capability, components read their
// own configurations through this interface. Avoids component dependencies
// on one concrete application config struct.
type ConfigLoader interface {
	// Get configuration item by key (e.g., "redis.addr")
	Get(key string) interface{}

	// Unmarshal deserializes the configuration section into a struct
	//
	// Example:
	//   var redisCfg redis.Config
	//   if err := loader.Unmarshal("redis", &redisCfg); err != nil {
	//       return err
	//   }
	Unmarshal(key string, v interface{}) error

	// GetString Get string configuration
	GetString(key string) string

	// GetInt Get integer configuration
	GetInt(key string) int

	// GetBool Get boolean configuration
	GetBool(key string) bool

	// IsSet Check if the configuration item exists
	IsSet(key string) bool
}
