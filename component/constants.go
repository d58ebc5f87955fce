package component

// 组件名称常量
const (
	ComponentConfig     = "config"
	ComponentLogger     = "logger"
	ComponentDatabase   = "database"
	ComponentRedis      = "redis"
	ComponentSession    = "session" // 会话管理组件
	ComponentHTTPServer = "http_server"
)
