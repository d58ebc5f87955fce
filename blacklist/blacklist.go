package blacklist

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KOMKZ/go-auth-service/database"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/tokenstore"
)

// Blacklist 访问令牌黑名单。
// 条目的 TTL 与令牌剩余生命周期一致：令牌自然过期后条目随之消失，
// 黑名单只需要覆盖令牌仍然有效的窗口。
// 加入黑名单同时吊销持久化记录，保证重启后状态一致。
type Blacklist struct {
	client *redis.Client
	store  *tokenstore.Store
	config *Config
	log    *logger.CtxZapLogger
}

// NewBlacklist 创建黑名单
func NewBlacklist(client *redis.Client, store *tokenstore.Store, config *Config, log *logger.CtxZapLogger) *Blacklist {
	config.ApplyDefaults()
	return &Blacklist{
		client: client,
		store:  store,
		config: config,
		log:    log,
	}
}

func (b *Blacklist) buildKey(accessToken string) string {
	return b.config.KeyPrefix + accessToken
}

// IsBlacklisted 检查访问令牌是否已被拉黑
func (b *Blacklist) IsBlacklisted(ctx context.Context, accessToken string) (bool, error) {
	n, err := b.client.Exists(ctx, b.buildKey(accessToken)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist: exists failed: %w", err)
	}
	return n > 0, nil
}

// Add 拉黑访问令牌并吊销其持久化记录。
// ttl 为令牌剩余生命周期；ttl <= 0 时令牌已自然过期，只吊销记录。
// 没有匹配记录（如系统令牌）不视为错误。
func (b *Blacklist) Add(ctx context.Context, accessToken string, ttl time.Duration) error {
	if ttl > 0 {
		if err := b.client.Set(ctx, b.buildKey(accessToken), "1", ttl).Err(); err != nil {
			return fmt.Errorf("blacklist: set failed: %w", err)
		}
	}

	if err := b.store.RevokeByAccessToken(ctx, accessToken); err != nil {
		if !errors.Is(err, database.ErrRecordNotFound) {
			return fmt.Errorf("blacklist: revoke record failed: %w", err)
		}
	}

	b.log.DebugCtx(ctx, "access token blacklisted", zap.Duration("ttl", ttl))
	return nil
}

// AddAllForUser 拉黑用户所有活跃令牌并吊销记录。
// 已在黑名单中的令牌跳过拉黑但仍吊销，操作幂等。
// 返回本次新拉黑的令牌数。
func (b *Blacklist) AddAllForUser(ctx context.Context, userID uint) (int, error) {
	records, err := b.store.FindActiveByUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("blacklist: list active tokens failed: %w", err)
	}

	added := 0
	for _, record := range records {
		blacklisted, err := b.IsBlacklisted(ctx, record.AccessToken)
		if err != nil {
			return added, err
		}

		if !blacklisted {
			ttl := time.Until(record.AccessTokenExpDate)
			if ttl > 0 {
				if err := b.client.Set(ctx, b.buildKey(record.AccessToken), "1", ttl).Err(); err != nil {
					return added, fmt.Errorf("blacklist: set failed: %w", err)
				}
				added++
			}
		}

		if err := b.store.Revoke(ctx, record.ID); err != nil {
			if !errors.Is(err, database.ErrRecordNotFound) {
				return added, fmt.Errorf("blacklist: revoke record failed: %w", err)
			}
		}
	}

	b.log.InfoCtx(ctx, "all user tokens blacklisted",
		zap.Uint("user_id", userID),
		zap.Int("records", len(records)),
		zap.Int("added", added))
	return added, nil
}
