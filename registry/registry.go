// Package registry 提供组件注册中心实现
// 作为独立内核组件，不依赖任何业务组件
package registry

import (
	"context"
	"fmt"
	"sync"

	"github.com/KOMKZ/go-auth-service/component"
	"github.com/KOMKZ/go-auth-service/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Registry 组件注册中心实现
//
// 职责：
// - 注册和管理组件
// - 解析组件依赖关系（拓扑排序，按层分组）
// - 按依赖顺序执行组件生命周期方法
type Registry struct {
	mu         sync.RWMutex
	components map[string]component.Component
	order      []string             // 注册顺序（保证同层内的确定性）
	logger     *logger.CtxZapLogger // 可选的日志组件（后注入）
}

// NewRegistry 创建组件注册中心
func NewRegistry() *Registry {
	return &Registry{
		components: make(map[string]component.Component),
	}
}

// Register 注册组件
func (r *Registry) Register(comp component.Component) error {
	if comp == nil {
		return fmt.Errorf("组件不能为空")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	name := comp.Name()
	if name == "" {
		return fmt.Errorf("组件名称不能为空")
	}

	if _, exists := r.components[name]; exists {
		return fmt.Errorf("组件 '%s' 已存在", name)
	}

	r.components[name] = comp
	r.order = append(r.order, name)

	return nil
}

// MustRegister 注册组件（失败则 panic）
// 适用于核心组件注册，失败时采用 Fail Fast 策略
func (r *Registry) MustRegister(comp component.Component) {
	if err := r.Register(comp); err != nil {
		panic(fmt.Sprintf("注册核心组件 '%s' 失败: %v", comp.Name(), err))
	}
}

// SetLogger 设置日志组件（只允许设置一次）
func (r *Registry) SetLogger(l *logger.CtxZapLogger) {
	if r.logger != nil {
		panic("Registry logger 已设置，禁止重复设置")
	}
	r.logger = l
}

// Get 获取组件
func (r *Registry) Get(name string) (component.Component, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	comp, ok := r.components[name]
	return comp, ok
}

// MustGet 获取组件（不存在则 panic）
func (r *Registry) MustGet(name string) component.Component {
	comp, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("组件 '%s' 不存在", name))
	}
	return comp
}

// GetTyped 泛型函数获取组件并自动类型转换（包级别函数）
func GetTyped[T component.Component](r *Registry, name string) (T, bool) {
	var zero T
	comp, ok := r.Get(name)
	if !ok {
		return zero, false
	}
	typed, ok := comp.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}

// Has 检查组件是否已注册
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.components[name]
	return ok
}

// ResolveLayers 返回拓扑排序后的组件分层列表
//
// Layer 0（无依赖组件）→ Layer 1 → Layer 2 → ...
// 检测到循环依赖或依赖组件未注册时返回错误
func (r *Registry) ResolveLayers() ([][]component.Component, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// 计算每个组件的入度（未满足的依赖数）
	depth := make(map[string]int, len(r.components))
	resolved := make(map[string]bool, len(r.components))

	for name, comp := range r.components {
		for _, dep := range comp.DependsOn() {
			if _, ok := r.components[dep]; !ok {
				return nil, fmt.Errorf("组件 '%s' 依赖的组件 '%s' 未注册", name, dep)
			}
		}
	}

	var layers [][]component.Component
	for len(resolved) < len(r.components) {
		var layer []component.Component
		for _, name := range r.order {
			if resolved[name] {
				continue
			}
			comp := r.components[name]
			ready := true
			for _, dep := range comp.DependsOn() {
				if !resolved[dep] {
					ready = false
					break
				}
			}
			if ready {
				layer = append(layer, comp)
				depth[name] = len(layers)
			}
		}
		if len(layer) == 0 {
			return nil, fmt.Errorf("检测到循环依赖（剩余 %d 个组件无法解析）", len(r.components)-len(resolved))
		}
		for _, comp := range layer {
			resolved[comp.Name()] = true
		}
		layers = append(layers, layer)
	}

	return layers, nil
}

// Init 按依赖顺序初始化所有组件（同层级组件并发执行）
func (r *Registry) Init(ctx context.Context, loader component.ConfigLoader) error {
	layers, err := r.ResolveLayers()
	if err != nil {
		return err
	}

	for i, layer := range layers {
		g, gctx := errgroup.WithContext(ctx)
		for _, comp := range layer {
			g.Go(func() error {
				if err := comp.Init(gctx, loader); err != nil {
					return fmt.Errorf("组件 '%s' 初始化失败: %w", comp.Name(), err)
				}
				r.logDebug(gctx, "component initialized",
					zap.String("component", comp.Name()),
					zap.Int("layer", i))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	return nil
}

// Start 按依赖顺序启动所有组件（同层级组件并发执行）
func (r *Registry) Start(ctx context.Context) error {
	layers, err := r.ResolveLayers()
	if err != nil {
		return err
	}

	for _, layer := range layers {
		g, gctx := errgroup.WithContext(ctx)
		for _, comp := range layer {
			g.Go(func() error {
				if err := comp.Start(gctx); err != nil {
					return fmt.Errorf("组件 '%s' 启动失败: %w", comp.Name(), err)
				}
				r.logDebug(gctx, "component started", zap.String("component", comp.Name()))
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}
	}

	return nil
}

// Stop 反向顺序停止所有组件
// 忽略 Stop 错误，确保所有组件都尝试停止
func (r *Registry) Stop(ctx context.Context) error {
	layers, err := r.ResolveLayers()
	if err != nil {
		return err
	}

	for i := len(layers) - 1; i >= 0; i-- {
		for _, comp := range layers[i] {
			if err := comp.Stop(ctx); err != nil {
				r.logWarn(ctx, "component stop failed",
					zap.String("component", comp.Name()),
					zap.Error(err))
			}
		}
	}

	return nil
}

// logDebug 安全的 Debug 日志（Logger 未注入时静默忽略）
func (r *Registry) logDebug(ctx context.Context, msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.DebugCtx(ctx, msg, fields...)
	}
}

// logWarn 安全的 Warn 日志
func (r *Registry) logWarn(ctx context.Context, msg string, fields ...zap.Field) {
	if r.logger != nil {
		r.logger.WarnCtx(ctx, msg, fields...)
	}
}
