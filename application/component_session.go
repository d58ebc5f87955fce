package application

import (
	"context"
	"fmt"

	"github.com/KOMKZ/go-auth-service/api"
	"github.com/KOMKZ/go-auth-service/blacklist"
	"github.com/KOMKZ/go-auth-service/component"
	"github.com/KOMKZ/go-auth-service/database"
	"github.com/KOMKZ/go-auth-service/directory"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/oauth"
	"github.com/KOMKZ/go-auth-service/redis"
	"github.com/KOMKZ/go-auth-service/session"
	"github.com/KOMKZ/go-auth-service/token"
	"github.com/KOMKZ/go-auth-service/tokencache"
	"github.com/KOMKZ/go-auth-service/tokenstore"
)

// Redis 实例与数据库连接的固定名称
const (
	redisCacheInstance     = "cache"
	redisBlacklistInstance = "blacklist"
	databaseConnection     = "default"
)

// SessionComponent 会话业务组件。
// 组装令牌编解码、缓存、黑名单、持久化存储、用户目录客户端
// 与可选的 Google OAuth，对外暴露会话管理器与 HTTP 处理器。
type SessionComponent struct {
	redisComp *redis.Component
	dbComp    *database.Component

	store    *tokenstore.Store
	sessions *session.Manager
	handlers *api.Handlers
	log      *logger.CtxZapLogger
}

// NewSessionComponent 创建会话组件
func NewSessionComponent(redisComp *redis.Component, dbComp *database.Component) *SessionComponent {
	return &SessionComponent{
		redisComp: redisComp,
		dbComp:    dbComp,
	}
}

// Name 组件名称
func (s *SessionComponent) Name() string {
	return component.ComponentSession
}

// DependsOn 依赖的组件
func (s *SessionComponent) DependsOn() []string {
	return []string{
		component.ComponentConfig,
		component.ComponentLogger,
		component.ComponentRedis,
		component.ComponentDatabase,
	}
}

// Init 初始化会话组件
func (s *SessionComponent) Init(ctx context.Context, loader component.ConfigLoader) error {
	s.log = logger.GetLogger("session")

	var tokenCfg token.Config
	if err := loader.Unmarshal("token", &tokenCfg); err != nil {
		return fmt.Errorf("load token config failed: %w", err)
	}
	codec, err := token.NewCodec(&tokenCfg, logger.GetLogger("token"))
	if err != nil {
		return fmt.Errorf("create token codec failed: %w", err)
	}

	redisManager := s.redisComp.GetManager()
	if redisManager == nil {
		return fmt.Errorf("redis manager not initialized")
	}
	cacheClient := redisManager.Client(redisCacheInstance)
	if cacheClient == nil {
		return fmt.Errorf("redis instance %q not configured", redisCacheInstance)
	}
	blacklistClient := redisManager.Client(redisBlacklistInstance)
	if blacklistClient == nil {
		return fmt.Errorf("redis instance %q not configured", redisBlacklistInstance)
	}

	dbManager := s.dbComp.GetManager()
	if dbManager == nil {
		return fmt.Errorf("database manager not initialized")
	}
	db := dbManager.DB(databaseConnection)
	if db == nil {
		return fmt.Errorf("database connection %q not configured", databaseConnection)
	}

	var cacheCfg tokencache.Config
	if loader.IsSet("token_cache") {
		if err := loader.Unmarshal("token_cache", &cacheCfg); err != nil {
			return fmt.Errorf("load token_cache config failed: %w", err)
		}
	}
	cache := tokencache.NewCache(cacheClient, &cacheCfg, logger.GetLogger("tokencache"))

	s.store = tokenstore.NewStore(db, logger.GetLogger("tokenstore"))

	var blacklistCfg blacklist.Config
	if loader.IsSet("blacklist") {
		if err := loader.Unmarshal("blacklist", &blacklistCfg); err != nil {
			return fmt.Errorf("load blacklist config failed: %w", err)
		}
	}
	bl := blacklist.NewBlacklist(blacklistClient, s.store, &blacklistCfg, logger.GetLogger("blacklist"))

	var directoryCfg directory.Config
	if err := loader.Unmarshal("directory", &directoryCfg); err != nil {
		return fmt.Errorf("load directory config failed: %w", err)
	}
	directoryClient, err := directory.NewClient(&directoryCfg, cache, logger.GetLogger("directory"))
	if err != nil {
		return fmt.Errorf("create directory client failed: %w", err)
	}

	// Google 登录可选，缺少配置时相关接口不可用
	var google session.GoogleOAuth
	if loader.IsSet("oauth") {
		var oauthCfg oauth.Config
		if err := loader.Unmarshal("oauth", &oauthCfg); err != nil {
			return fmt.Errorf("load oauth config failed: %w", err)
		}
		provider, err := oauth.NewGoogleProvider(&oauthCfg, logger.GetLogger("oauth"))
		if err != nil {
			return fmt.Errorf("create google provider failed: %w", err)
		}
		google = provider
	}

	s.sessions = session.NewManager(codec, cache, bl, s.store, directoryClient, google, s.log)

	var cookieCfg api.CookieConfig
	if loader.IsSet("cookie") {
		if err := loader.Unmarshal("cookie", &cookieCfg); err != nil {
			return fmt.Errorf("load cookie config failed: %w", err)
		}
	}
	s.handlers = api.NewHandlers(s.sessions, &cookieCfg, logger.GetLogger("api"))

	return nil
}

// Start 执行数据库迁移
func (s *SessionComponent) Start(ctx context.Context) error {
	if err := s.store.Migrate(); err != nil {
		return err
	}
	s.log.InfoCtx(ctx, "session component started")
	return nil
}

// Stop 会话组件无需停止操作
func (s *SessionComponent) Stop(ctx context.Context) error {
	return nil
}

// GetSessions 获取会话管理器
func (s *SessionComponent) GetSessions() *session.Manager {
	return s.sessions
}

// GetHandlers 获取 HTTP 处理器
func (s *SessionComponent) GetHandlers() *api.Handlers {
	return s.handlers
}
