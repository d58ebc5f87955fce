package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/KOMKZ/go-auth-service/retry"
)

// SystemTokenSource 出站系统令牌来源。
// 目录服务收到请求后会带着该令牌回调本服务的鉴权接口，
// 令牌为一次性，每次出站请求都重新生成。
type SystemTokenSource interface {
	GenerateSystemToken(ctx context.Context, ttl time.Duration) (string, error)
}

// Client 用户目录服务客户端
type Client struct {
	config     *Config
	httpClient *http.Client
	tokens     SystemTokenSource
	log        *logger.CtxZapLogger
}

// NewClient 创建目录客户端
func NewClient(config *Config, tokens SystemTokenSource, log *logger.CtxZapLogger) (*Client, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		tokens: tokens,
		log:    log,
	}, nil
}

// FindByEmail 按邮箱查找用户
func (c *Client) FindByEmail(ctx context.Context, email string) (*User, error) {
	query := url.Values{"email": {email}}
	return c.getUser(ctx, "/api/users?"+query.Encode())
}

// FindByID 按 ID 查找用户
func (c *Client) FindByID(ctx context.Context, id uint) (*User, error) {
	return c.getUser(ctx, fmt.Sprintf("/api/users/%d", id))
}

// FindByGoogleID 按 Google 账号 ID 查找用户
func (c *Client) FindByGoogleID(ctx context.Context, googleID string) (*User, error) {
	query := url.Values{"google_id": {googleID}}
	return c.getUser(ctx, "/api/users?"+query.Encode())
}

// Create 创建用户
func (c *Client) Create(ctx context.Context, input *CreateUserInput) (*User, error) {
	return c.sendUser(ctx, http.MethodPost, "/api/users", input)
}

// Update 更新用户
func (c *Client) Update(ctx context.Context, id uint, input *UpdateUserInput) (*User, error) {
	return c.sendUser(ctx, http.MethodPatch, fmt.Sprintf("/api/users/%d", id), input)
}

// getUser 执行带重试的 GET 请求
func (c *Client) getUser(ctx context.Context, path string) (*User, error) {
	return retry.DoWithData(ctx, func() (*User, error) {
		return c.doRequest(ctx, http.MethodGet, path, nil)
	}, c.retryOpts()...)
}

// sendUser 执行带重试的写请求
func (c *Client) sendUser(ctx context.Context, method, path string, body interface{}) (*User, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("directory: marshal request failed: %w", err)
	}

	return retry.DoWithData(ctx, func() (*User, error) {
		return c.doRequest(ctx, method, path, payload)
	}, c.retryOpts()...)
}

func (c *Client) retryOpts() []retry.Option {
	return []retry.Option{
		retry.MaxAttempts(c.config.MaxAttempts),
		retry.Backoff(retry.ExponentialBackoff(100 * time.Millisecond)),
		retry.Condition(retry.RetryOnError(ErrUnavailable)),
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte) (*User, error) {
	systemToken, err := c.tokens.GenerateSystemToken(ctx, c.config.SystemTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("directory: generate system token failed: %w", err)
	}

	fullURL := strings.TrimRight(c.config.BaseURL, "/") + path

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("directory: build request failed: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+systemToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.WarnCtx(ctx, "directory request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, ErrUserNotFound
	case resp.StatusCode >= 500:
		c.log.WarnCtx(ctx, "directory returned server error",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	case resp.StatusCode >= 400:
		return nil, fmt.Errorf("%w: status %d", ErrBadRequest, resp.StatusCode)
	}

	var user User
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return &user, nil
}

// IsNotFound 判断是否为用户不存在
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound)
}
