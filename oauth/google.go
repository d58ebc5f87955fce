package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/KOMKZ/go-auth-service/logger"
)

var (
	// ErrExchangeFailed 授权码换取令牌失败
	ErrExchangeFailed = errors.New("oauth: code exchange failed")

	// ErrUserInfoFailed 拉取用户信息失败
	ErrUserInfoFailed = errors.New("oauth: fetch user info failed")
)

// Profile Google 账号基础信息
type Profile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
}

// GoogleProvider Google OAuth 授权码流程
type GoogleProvider struct {
	config      *Config
	oauthConfig *oauth2.Config
	log         *logger.CtxZapLogger
}

// NewGoogleProvider 创建 Google OAuth 提供方
func NewGoogleProvider(config *Config, log *logger.CtxZapLogger) (*GoogleProvider, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &GoogleProvider{
		config: config,
		oauthConfig: &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			RedirectURL:  config.RedirectURL,
			Scopes:       config.Scopes,
			Endpoint:     google.Endpoint,
		},
		log: log,
	}, nil
}

// SetEndpoint 覆盖授权端点，仅测试使用
func (p *GoogleProvider) SetEndpoint(endpoint oauth2.Endpoint) {
	p.oauthConfig.Endpoint = endpoint
}

// ConsentURL 构建用户同意页地址
func (p *GoogleProvider) ConsentURL(state string) string {
	return p.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// Exchange 用授权码换取令牌并拉取账号信息
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	token, err := p.oauthConfig.Exchange(ctx, code)
	if err != nil {
		p.log.WarnCtx(ctx, "oauth code exchange failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrExchangeFailed, err)
	}

	client := p.oauthConfig.Client(ctx, token)
	resp, err := client.Get(p.config.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUserInfoFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUserInfoFailed, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrUserInfoFailed, err)
	}

	if profile.ID == "" || profile.Email == "" {
		return nil, fmt.Errorf("%w: incomplete profile", ErrUserInfoFailed)
	}

	p.log.DebugCtx(ctx, "google profile fetched", zap.String("google_id", profile.ID))
	return &profile, nil
}
