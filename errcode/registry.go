// Package errcode 提供分层错误码的基础类型和功能
package errcode

import (
	"fmt"
	"sync"
)

// Registry 错误码注册表（防止错误码冲突）
type Registry struct {
	mu    sync.RWMutex
	codes map[int]string // code -> module:wireCode
}

// globalRegistry 全局错误码注册表
var globalRegistry = &Registry{
	codes: make(map[int]string),
}

// Register 注册错误码（防止冲突）
// 如果错误码已存在且 wireCode 不同，则 panic
func Register(err *LayeredError) *LayeredError {
	return globalRegistry.Register(err)
}

// Register 注册错误码到注册表
func (r *Registry) Register(err *LayeredError) *LayeredError {
	r.mu.Lock()
	defer r.mu.Unlock()

	code := err.Code()
	key := fmt.Sprintf("%s:%s", err.Module(), err.WireCode())

	if existingKey, exists := r.codes[code]; exists {
		if existingKey != key {
			panic(fmt.Sprintf(
				"error code conflict: code %d is already registered as %s, cannot register as %s",
				code, existingKey, key,
			))
		}
		// 相同错误码和键，允许重复注册（幂等）
		return err
	}

	r.codes[code] = key
	return err
}

// GetAll 获取所有已注册的错误码
func (r *Registry) GetAll() map[int]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	codes := make(map[int]string, len(r.codes))
	for k, v := range r.codes {
		codes[k] = v
	}
	return codes
}

// Count 获取已注册错误码数量
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.codes)
}

// GetAllRegisteredCodes 获取所有已注册的错误码
func GetAllRegisteredCodes() map[int]string {
	return globalRegistry.GetAll()
}
