package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/KOMKZ/go-auth-service/errcode"
	"github.com/KOMKZ/go-auth-service/httpx"
	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/session"
	"github.com/KOMKZ/go-auth-service/token"
)

const oauthStateCookie = "_authapi_state"

// Handlers 认证接口处理器
type Handlers struct {
	sessions  *session.Manager
	cookieCfg *CookieConfig
	log       *logger.CtxZapLogger
}

// NewHandlers 创建处理器
func NewHandlers(sessions *session.Manager, cookieCfg *CookieConfig, log *logger.CtxZapLogger) *Handlers {
	cookieCfg.ApplyDefaults()
	return &Handlers{
		sessions:  sessions,
		cookieCfg: cookieCfg,
		log:       log,
	}
}

// requesterData 记录请求来源，随令牌记录持久化
func requesterData(c *gin.Context) string {
	data, _ := json.Marshal(map[string]string{
		"ip":         c.ClientIP(),
		"user_agent": c.Request.UserAgent(),
	})
	return string(data)
}

// bearerToken 提取 Authorization 头中的 Bearer 令牌
func bearerToken(c *gin.Context) (string, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return "", errcode.ErrMissingBearerToken
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", errcode.ErrMissingBearerToken
	}
	return parts[1], nil
}

// SignIn POST /sign-in 邮箱密码登录
func (h *Handlers) SignIn() gin.HandlerFunc {
	return httpx.Wrap(func(c *gin.Context, req *SignInRequest) (*SessionResponse, error) {
		sess, err := h.sessions.SignIn(c.Request.Context(), req.Email, req.Password, requesterData(c))
		if err != nil {
			return nil, err
		}

		setRefreshCookie(c, h.cookieCfg, sess.RefreshToken, sess.RefreshTokenExpDate)
		return sessionResponse(sess), nil
	})
}

// sessionResponse 构建登录/刷新成功响应
func sessionResponse(sess *session.Session) *SessionResponse {
	return &SessionResponse{
		AccessToken:       sess.AccessToken,
		AccessType:        token.AccessTypeUser,
		AuthenticatedUser: sess.User,
	}
}

// Authorize GET /authorize 验证访问令牌。
// 刷新 Cookie 丢失时从存储找回并重新下发。
func (h *Handlers) Authorize(c *gin.Context) {
	accessToken, err := bearerToken(c)
	if err != nil {
		httpx.HandleError(c, err)
		return
	}

	cookiePresent := refreshCookieValue(c, h.cookieCfg) != ""

	result, err := h.sessions.Authorize(c.Request.Context(), accessToken, cookiePresent)
	if err != nil {
		if result != nil && result.ClearRefreshCookie {
			clearRefreshCookie(c, h.cookieCfg)
		}
		httpx.HandleError(c, err)
		return
	}

	if result.RefreshToken != "" {
		setRefreshCookie(c, h.cookieCfg, result.RefreshToken, result.RefreshTokenExpDate)
	}

	httpx.OkJson(c, &AuthorizeResponse{
		AccessType:        result.Payload.AccessType,
		AuthenticatedUser: result.Payload.AuthenticatedUser,
	})
}

// Refresh GET /refresh 刷新令牌对
func (h *Handlers) Refresh(c *gin.Context) {
	accessToken, err := bearerToken(c)
	if err != nil {
		httpx.HandleError(c, err)
		return
	}

	refreshToken := refreshCookieValue(c, h.cookieCfg)
	if refreshToken == "" {
		httpx.HandleError(c, errcode.ErrRefreshTokenInvalid)
		return
	}

	sess, err := h.sessions.Refresh(c.Request.Context(), accessToken, refreshToken, requesterData(c))
	if err != nil {
		// 配对失败、访问令牌被拉黑或刷新令牌失效时该 Cookie 已无法再用
		if errors.Is(err, errcode.ErrInvalidTokenPairing) ||
			errors.Is(err, errcode.ErrRefreshTokenInvalid) ||
			errors.Is(err, errcode.ErrTokenInvalid) {
			clearRefreshCookie(c, h.cookieCfg)
		}
		httpx.HandleError(c, err)
		return
	}

	setRefreshCookie(c, h.cookieCfg, sess.RefreshToken, sess.RefreshTokenExpDate)
	httpx.OkJson(c, sessionResponse(sess))
}

// SignOut POST /sign-out 登出当前令牌
func (h *Handlers) SignOut(c *gin.Context) {
	accessToken, err := bearerToken(c)
	if err != nil {
		httpx.HandleError(c, err)
		return
	}

	if err := h.sessions.SignOut(c.Request.Context(), accessToken); err != nil {
		httpx.HandleError(c, err)
		return
	}

	clearRefreshCookie(c, h.cookieCfg)
	c.String(http.StatusOK, signOutSuccessBody)
}

// SignOutAll POST /sign-out-all-devices 全设备登出
func (h *Handlers) SignOutAll(c *gin.Context) {
	accessToken, err := bearerToken(c)
	if err != nil {
		httpx.HandleError(c, err)
		return
	}

	if _, err := h.sessions.SignOutAll(c.Request.Context(), accessToken); err != nil {
		httpx.HandleError(c, err)
		return
	}

	clearRefreshCookie(c, h.cookieCfg)
	c.String(http.StatusOK, signOutSuccessBody)
}

// GoogleSignIn GET /sign-in/google 跳转到 Google 同意页
func (h *Handlers) GoogleSignIn(c *gin.Context) {
	state := uuid.New().String()
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     h.cookieCfg.Path,
		Expires:  time.Now().Add(10 * time.Minute),
		Secure:   h.cookieCfg.Secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	c.Redirect(http.StatusFound, h.sessions.GoogleConsentURL(state))
}

// GoogleRedirect GET /callback/google Google 授权回调
func (h *Handlers) GoogleRedirect(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		httpx.HandleError(c, errcode.ErrMissingAuthCode)
		return
	}

	stateCookie, err := c.Request.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value == "" || stateCookie.Value != c.Query("state") {
		httpx.HandleError(c, errcode.ErrTokenInvalid.Wrap(errors.New("oauth state mismatch")))
		return
	}

	sess, err := h.sessions.GoogleSignIn(c.Request.Context(), code, requesterData(c))
	if err != nil {
		httpx.HandleError(c, err)
		return
	}

	setRefreshCookie(c, h.cookieCfg, sess.RefreshToken, sess.RefreshTokenExpDate)
	httpx.OkJson(c, sessionResponse(sess))
}
