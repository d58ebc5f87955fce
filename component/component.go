// Package component 提供组件接口定义
// 这是最底层的包，不依赖任何业务包，避免循环依赖
package component

import "context"

// Component 组件接口（统一生命周期管理）
//
// 所有组件（核心组件、业务组件）都必须实现此接口
// 组件生命周期：Init → Start → Stop
type Component interface {
	// Name 组件名称（唯一标识）
	Name() string

	// DependsOn 声明依赖的组件名称
	// 注册中心会根据依赖关系进行拓扑排序，确定初始化顺序
	DependsOn() []string

	// Init 初始化组件（创建资源，不启动对外服务）
	//
	// 职责：
	// - 从 loader 读取配置
	// - 创建资源（连接池、客户端等）
	// - 不启动监听端口或对外服务
	Init(ctx context.Context, loader ConfigLoader) error

	// Start 启动组件（对外提供服务或开始监听）
	Start(ctx context.Context) error

	// Stop 停止组件（释放资源，允许重复调用）
	Stop(ctx context.Context) error
}

// HealthChecker 健康检查接口
// 组件可选实现此接口，提供健康检查能力
type HealthChecker interface {
	// Check 执行健康检查
	// 返回 nil 表示健康，返回 error 表示不健康
	Check(ctx context.Context) error

	// Name 返回检查项名称（如 "database", "redis"）
	Name() string
}
