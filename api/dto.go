package api

import (
	"github.com/KOMKZ/go-auth-service/errcode"
	"github.com/KOMKZ/go-auth-service/token"
)

// SignInRequest 登录请求
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate 校验登录请求
func (r *SignInRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return errcode.ErrMissingCredentials
	}
	return nil
}

// SessionResponse 登录/刷新成功响应，刷新令牌经 Cookie 下发
type SessionResponse struct {
	AccessToken       string                   `json:"access_token"`
	AccessType        token.AccessType         `json:"access_type"`
	AuthenticatedUser *token.AuthenticatedUser `json:"authenticated_user,omitempty"`
}

// AuthorizeResponse 鉴权成功响应，即访问令牌负载
type AuthorizeResponse struct {
	AccessType        token.AccessType         `json:"access_type"`
	AuthenticatedUser *token.AuthenticatedUser `json:"authenticated_user,omitempty"`
}

// signOutSuccessBody 登出成功响应体
const signOutSuccessBody = "SUCCESS"
