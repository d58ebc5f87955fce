package session

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-auth-service/blacklist"
	"github.com/KOMKZ/go-auth-service/database"
	"github.com/KOMKZ/go-auth-service/directory"
	"github.com/KOMKZ/go-auth-service/errcode"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/oauth"
	"github.com/KOMKZ/go-auth-service/token"
	"github.com/KOMKZ/go-auth-service/tokencache"
	"github.com/KOMKZ/go-auth-service/tokenstore"
)

// UserDirectory 会话流程需要的用户目录操作
type UserDirectory interface {
	FindByEmail(ctx context.Context, email string) (*directory.User, error)
	FindByID(ctx context.Context, id uint) (*directory.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*directory.User, error)
	Create(ctx context.Context, input *directory.CreateUserInput) (*directory.User, error)
	Update(ctx context.Context, id uint, input *directory.UpdateUserInput) (*directory.User, error)
}

// GoogleOAuth Google 授权码流程
type GoogleOAuth interface {
	ConsentURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.Profile, error)
}

// Session 一次成功签发的会话
type Session struct {
	AccessToken         string
	AccessTokenExpDate  time.Time
	RefreshToken        string
	RefreshTokenExpDate time.Time
	User                *token.AuthenticatedUser
}

// AuthorizeResult 鉴权结果。
// err 非空时 ClearRefreshCookie 仍可能为 true（已拉黑的令牌要求
// 调用方清除刷新 Cookie），调用方在处理错误前先检查该标志。
type AuthorizeResult struct {
	Payload             *token.AccessTokenPayload
	RefreshToken        string
	RefreshTokenExpDate time.Time
	ClearRefreshCookie  bool
}

// Manager 会话编排：登录、鉴权、刷新、登出。
// 组合编解码器、缓存、黑名单、持久化存储与用户目录。
type Manager struct {
	codec     *token.Codec
	cache     *tokencache.Cache
	blacklist *blacklist.Blacklist
	store     *tokenstore.Store
	directory UserDirectory
	google    GoogleOAuth
	log       *logger.CtxZapLogger
}

// NewManager 创建会话管理器。google 可为 nil（未启用 Google 登录）。
func NewManager(
	codec *token.Codec,
	cache *tokencache.Cache,
	bl *blacklist.Blacklist,
	store *tokenstore.Store,
	dir UserDirectory,
	google GoogleOAuth,
	log *logger.CtxZapLogger,
) *Manager {
	return &Manager{
		codec:     codec,
		cache:     cache,
		blacklist: bl,
		store:     store,
		directory: dir,
		google:    google,
		log:       log,
	}
}

// SignIn 邮箱密码登录
func (m *Manager) SignIn(ctx context.Context, email, password, requesterData string) (*Session, error) {
	if email == "" || password == "" {
		return nil, errcode.ErrMissingCredentials
	}

	user, err := m.directory.FindByEmail(ctx, email)
	if err != nil {
		if directory.IsNotFound(err) {
			return nil, errcode.ErrBadCredentials
		}
		return nil, m.directoryError(ctx, err)
	}

	if !user.CheckPassword(password) {
		return nil, errcode.ErrBadCredentials
	}

	if !user.EmailConfirmed {
		return nil, errcode.ErrEmailNotConfirmed
	}

	session, err := m.issueSession(ctx, user, requesterData)
	if err != nil {
		return nil, err
	}

	m.log.InfoCtx(ctx, "user signed in", zap.Uint("user_id", user.ID))
	return session, nil
}

// Authorize 验证访问令牌。
// 顺序：黑名单、缓存、编解码器。缓存未命中但验签成功时回填缓存。
// refreshCookiePresent 为 false 且为用户令牌时，尝试从存储找回
// 刷新令牌，供调用方重建 Cookie。
func (m *Manager) Authorize(ctx context.Context, accessToken string, refreshCookiePresent bool) (*AuthorizeResult, error) {
	blacklisted, err := m.blacklist.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, errcode.ErrInternal.Wrap(err)
	}
	if blacklisted {
		// 已拉黑的令牌对应的会话彻底失效，顺带清掉刷新 Cookie
		return &AuthorizeResult{ClearRefreshCookie: true}, errcode.ErrTokenInvalid
	}

	payload, err := m.cache.Get(ctx, accessToken)
	if err != nil && !errors.Is(err, tokencache.ErrNotCached) {
		return nil, errcode.ErrInternal.Wrap(err)
	}

	if err != nil {
		// 缓存未命中，走完整验签
		claims, verifyErr := m.codec.VerifyAccess(ctx, accessToken)
		if verifyErr != nil {
			// 过期令牌保留刷新 Cookie（还能换新），其余验签失败一并清除
			if errors.Is(verifyErr, token.ErrTokenExpired) {
				return nil, m.tokenError(verifyErr)
			}
			return &AuthorizeResult{ClearRefreshCookie: true}, m.tokenError(verifyErr)
		}
		payload = &claims.Payload

		// 回填缓存，TTL 取剩余生命周期
		if remaining := claims.Remaining(); remaining > 0 {
			if cacheErr := m.cache.Put(ctx, accessToken, payload, remaining); cacheErr != nil {
				m.log.WarnCtx(ctx, "failed to re-cache verified token", zap.Error(cacheErr))
			}
		}
	}

	result := &AuthorizeResult{Payload: payload}

	if !refreshCookiePresent && !payload.IsSystem() {
		record, findErr := m.store.FindByAccessToken(ctx, accessToken)
		if findErr == nil && record.RefreshTokenExpDate.After(time.Now()) {
			result.RefreshToken = record.RefreshToken
			result.RefreshTokenExpDate = record.RefreshTokenExpDate
		} else if findErr != nil && !errors.Is(findErr, database.ErrRecordNotFound) {
			m.log.WarnCtx(ctx, "refresh cookie recovery lookup failed", zap.Error(findErr))
		}
	}

	return result, nil
}

// Refresh 用刷新令牌换取新令牌对。
// 访问令牌允许已过期但签名必须有效，且两者必须是同一次签发的配对。
// 始终签发全新令牌对；旧令牌对不吊销，其访问令牌自然过期。
func (m *Manager) Refresh(ctx context.Context, accessToken, refreshToken, requesterData string) (*Session, error) {
	if refreshToken == "" {
		return nil, errcode.ErrRefreshTokenInvalid
	}

	blacklisted, err := m.blacklist.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, errcode.ErrInternal.Wrap(err)
	}
	if blacklisted {
		return nil, errcode.ErrTokenInvalid
	}

	if _, err := m.codec.VerifyRefresh(ctx, refreshToken); err != nil {
		return nil, errcode.ErrRefreshTokenInvalid.Wrap(err)
	}

	accessClaims, err := m.codec.DecodeAccess(ctx, accessToken)
	if err != nil {
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}
	if accessClaims.Payload.IsSystem() || accessClaims.Payload.AuthenticatedUser == nil {
		return nil, errcode.ErrTokenInvalid
	}

	record, err := m.store.FindPair(ctx, accessToken, refreshToken)
	if err != nil {
		if errors.Is(err, database.ErrRecordNotFound) {
			return nil, errcode.ErrInvalidTokenPairing
		}
		return nil, errcode.ErrInternal.Wrap(err)
	}

	user, err := m.directory.FindByID(ctx, record.UserID)
	if err != nil {
		if directory.IsNotFound(err) {
			return nil, errcode.ErrTokenInvalid
		}
		return nil, m.directoryError(ctx, err)
	}

	session, err := m.issueSession(ctx, user, requesterData)
	if err != nil {
		return nil, err
	}

	m.log.InfoCtx(ctx, "token pair refreshed", zap.Uint("user_id", user.ID))
	return session, nil
}

// SignOut 登出当前令牌：拉黑访问令牌并吊销记录。
// 重复登出按无效令牌处理。
func (m *Manager) SignOut(ctx context.Context, accessToken string) error {
	blacklisted, err := m.blacklist.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return errcode.ErrInternal.Wrap(err)
	}
	if blacklisted {
		return errcode.ErrTokenInvalid
	}

	// 缓存命中时直接用缓存剩余 TTL 作为黑名单窗口
	ttl, err := m.cache.TTL(ctx, accessToken)
	if err == nil {
		if addErr := m.blacklist.Add(ctx, accessToken, ttl); addErr != nil {
			return errcode.ErrInternal.Wrap(addErr)
		}
		if delErr := m.cache.Delete(ctx, accessToken); delErr != nil {
			m.log.WarnCtx(ctx, "failed to evict token from cache on sign-out", zap.Error(delErr))
		}
		m.log.InfoCtx(ctx, "token signed out")
		return nil
	}
	if !errors.Is(err, tokencache.ErrNotCached) {
		return errcode.ErrInternal.Wrap(err)
	}

	claims, err := m.codec.VerifyAccess(ctx, accessToken)
	if err != nil {
		return m.tokenError(err)
	}

	if err := m.blacklist.Add(ctx, accessToken, claims.Lifetime()); err != nil {
		return errcode.ErrInternal.Wrap(err)
	}

	m.log.InfoCtx(ctx, "token signed out")
	return nil
}

// SignOutAll 登出用户的所有设备。
// 以当前令牌识别用户，拉黑该用户全部活跃令牌并吊销记录。
// 返回本次新拉黑的令牌数。
func (m *Manager) SignOutAll(ctx context.Context, accessToken string) (int, error) {
	result, err := m.Authorize(ctx, accessToken, true)
	if err != nil {
		return 0, err
	}
	if result.Payload.IsSystem() || result.Payload.AuthenticatedUser == nil {
		return 0, errcode.ErrTokenInvalid
	}

	userID := result.Payload.AuthenticatedUser.ID

	added, err := m.blacklist.AddAllForUser(ctx, userID)
	if err != nil {
		return added, errcode.ErrInternal.Wrap(err)
	}

	// 当前令牌的缓存条目已失去意义
	if delErr := m.cache.Delete(ctx, accessToken); delErr != nil {
		m.log.WarnCtx(ctx, "failed to evict token from cache on sign-out-all", zap.Error(delErr))
	}

	m.log.InfoCtx(ctx, "user signed out everywhere",
		zap.Uint("user_id", userID),
		zap.Int("blacklisted", added))
	return added, nil
}

// GoogleConsentURL 构建 Google 同意页地址
func (m *Manager) GoogleConsentURL(state string) string {
	return m.google.ConsentURL(state)
}

// GoogleSignIn 处理 Google 授权回调。
// 账号匹配顺序：google_id、邮箱（补写 google_id）、新建用户。
func (m *Manager) GoogleSignIn(ctx context.Context, code, requesterData string) (*Session, error) {
	if code == "" {
		return nil, errcode.ErrMissingAuthCode
	}

	profile, err := m.google.Exchange(ctx, code)
	if err != nil {
		return nil, errcode.ErrTokenInvalid.Wrap(err)
	}

	user, err := m.resolveGoogleUser(ctx, profile)
	if err != nil {
		return nil, err
	}

	session, err := m.issueSession(ctx, user, requesterData)
	if err != nil {
		return nil, err
	}

	m.log.InfoCtx(ctx, "user signed in via google", zap.Uint("user_id", user.ID))
	return session, nil
}

func (m *Manager) resolveGoogleUser(ctx context.Context, profile *oauth.Profile) (*directory.User, error) {
	user, err := m.directory.FindByGoogleID(ctx, profile.ID)
	if err == nil {
		return user, nil
	}
	if !directory.IsNotFound(err) {
		return nil, m.directoryError(ctx, err)
	}

	// 已有同邮箱账号则关联 Google ID
	user, err = m.directory.FindByEmail(ctx, profile.Email)
	if err == nil {
		updated, updateErr := m.directory.Update(ctx, user.ID, &directory.UpdateUserInput{
			GoogleID: &profile.ID,
		})
		if updateErr != nil {
			return nil, m.directoryError(ctx, updateErr)
		}
		return updated, nil
	}
	if !directory.IsNotFound(err) {
		return nil, m.directoryError(ctx, err)
	}

	created, err := m.directory.Create(ctx, &directory.CreateUserInput{
		Email:          profile.Email,
		EmailConfirmed: profile.VerifiedEmail,
		GoogleID:       profile.ID,
	})
	if err != nil {
		return nil, m.directoryError(ctx, err)
	}
	return created, nil
}

// issueSession 签发令牌对并登记缓存与存储。
// 存储写入失败视为整个请求失败，已写入的缓存条目回滚。
func (m *Manager) issueSession(ctx context.Context, user *directory.User, requesterData string) (*Session, error) {
	payload := token.AccessTokenPayload{
		AccessType: token.AccessTypeUser,
		AuthenticatedUser: &token.AuthenticatedUser{
			ID:          user.ID,
			AccessLevel: user.AccessLevel,
		},
	}

	access, err := m.codec.IssueAccess(ctx, payload)
	if err != nil {
		return nil, errcode.ErrInternal.Wrap(err)
	}

	refresh, err := m.codec.IssueRefresh(ctx, token.RefreshTokenPayload{UserID: user.ID})
	if err != nil {
		return nil, errcode.ErrInternal.Wrap(err)
	}

	if err := m.cache.Put(ctx, access.Token, &payload, m.codec.AccessTTL()); err != nil {
		return nil, errcode.ErrInternal.Wrap(err)
	}

	record := &tokenstore.TokenRecord{
		UserID:              user.ID,
		AccessToken:         access.Token,
		RefreshToken:        refresh.Token,
		AccessTokenExpDate:  access.ExpDate,
		RefreshTokenExpDate: refresh.ExpDate,
		RequesterData:       requesterData,
	}
	if err := m.store.Create(ctx, record); err != nil {
		if delErr := m.cache.Delete(ctx, access.Token); delErr != nil {
			m.log.WarnCtx(ctx, "failed to roll back cache entry", zap.Error(delErr))
		}
		return nil, errcode.ErrInternal.Wrap(err)
	}

	return &Session{
		AccessToken:         access.Token,
		AccessTokenExpDate:  access.ExpDate,
		RefreshToken:        refresh.Token,
		RefreshTokenExpDate: refresh.ExpDate,
		User:                payload.AuthenticatedUser,
	}, nil
}

// tokenError 将编解码错误映射为对外错误码
func (m *Manager) tokenError(err error) error {
	switch {
	case errors.Is(err, token.ErrTokenExpired):
		return errcode.ErrTokenExpired.Wrap(err)
	default:
		return errcode.ErrTokenInvalid.Wrap(err)
	}
}

// directoryError 将目录客户端错误映射为对外错误码
func (m *Manager) directoryError(ctx context.Context, err error) error {
	if errors.Is(err, directory.ErrUnavailable) {
		m.log.ErrorCtx(ctx, "user directory unavailable", zap.Error(err))
		return errcode.ErrDirectoryUnavailable.Wrap(err)
	}
	return errcode.ErrInternal.Wrap(err)
}
