package tokencache

import "errors"

var (
	// ErrNotCached 令牌不在缓存中
	ErrNotCached = errors.New("tokencache: token not cached")
)
