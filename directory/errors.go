package directory

import "errors"

var (
	// ErrUserNotFound 用户不存在
	ErrUserNotFound = errors.New("directory: user not found")

	// ErrUnavailable 目录服务不可达或返回异常
	ErrUnavailable = errors.New("directory: service unavailable")

	// ErrBadRequest 目录服务拒绝了请求
	ErrBadRequest = errors.New("directory: request rejected")
)
