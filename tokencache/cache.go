package tokencache

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/token"
)

// Cache 访问令牌缓存。
// 以访问令牌字符串为 key 缓存已验证的负载，避免热路径重复验签。
// SYSTEM 令牌为一次性：命中即从缓存删除。
type Cache struct {
	client *redis.Client
	config *Config
	log    *logger.CtxZapLogger
}

// NewCache 创建令牌缓存
func NewCache(client *redis.Client, config *Config, log *logger.CtxZapLogger) *Cache {
	config.ApplyDefaults()
	return &Cache{
		client: client,
		config: config,
		log:    log,
	}
}

// buildKey 构建完整的 Key
func (c *Cache) buildKey(accessToken string) string {
	return c.config.KeyPrefix + accessToken
}

// Put 缓存访问令牌负载，TTL 与令牌剩余生命周期一致
func (c *Cache) Put(ctx context.Context, accessToken string, payload *token.AccessTokenPayload, ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("tokencache: non-positive ttl %v", ttl)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("tokencache: marshal payload failed: %w", err)
	}

	if err := c.client.Set(ctx, c.buildKey(accessToken), data, ttl).Err(); err != nil {
		return fmt.Errorf("tokencache: set failed: %w", err)
	}
	return nil
}

// Get 读取缓存负载。未命中返回 ErrNotCached。
// SYSTEM 令牌命中后立即删除，实现一次性使用。
func (c *Cache) Get(ctx context.Context, accessToken string) (*token.AccessTokenPayload, error) {
	key := c.buildKey(accessToken)
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotCached
		}
		return nil, fmt.Errorf("tokencache: get failed: %w", err)
	}

	var payload token.AccessTokenPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("tokencache: unmarshal payload failed: %w", err)
	}

	if payload.IsSystem() {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			c.log.WarnCtx(ctx, "failed to evict one-shot system token", zap.Error(err))
		}
	}

	return &payload, nil
}

// TTL 返回缓存条目的剩余生存时间。未命中返回 ErrNotCached。
func (c *Cache) TTL(ctx context.Context, accessToken string) (time.Duration, error) {
	ttl, err := c.client.TTL(ctx, c.buildKey(accessToken)).Result()
	if err != nil {
		return 0, fmt.Errorf("tokencache: ttl failed: %w", err)
	}
	// -2: key 不存在；-1: 无过期时间
	if ttl < 0 {
		return 0, ErrNotCached
	}
	return ttl, nil
}

// Delete 从缓存删除令牌
func (c *Cache) Delete(ctx context.Context, accessToken string) error {
	if err := c.client.Del(ctx, c.buildKey(accessToken)).Err(); err != nil {
		return fmt.Errorf("tokencache: delete failed: %w", err)
	}
	return nil
}

// GenerateSystemToken 生成一次性系统令牌并写入缓存。
// 令牌为随机字符串而非签名令牌，仅能通过缓存命中验证。
func (c *Cache) GenerateSystemToken(ctx context.Context, ttl time.Duration) (string, error) {
	buf := make([]byte, c.config.SystemTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("tokencache: generate random token failed: %w", err)
	}
	systemToken := hex.EncodeToString(buf)

	payload := &token.AccessTokenPayload{AccessType: token.AccessTypeSystem}
	if err := c.Put(ctx, systemToken, payload, ttl); err != nil {
		return "", err
	}

	c.log.DebugCtx(ctx, "system token generated", zap.Duration("ttl", ttl))
	return systemToken, nil
}
