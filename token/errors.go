package token

import "errors"

var (
	// ErrTokenInvalid token 无效
	ErrTokenInvalid = errors.New("token: token invalid")

	// ErrTokenExpired token 已过期
	ErrTokenExpired = errors.New("token: token expired")

	// ErrTokenNotYetValid token 尚未生效
	ErrTokenNotYetValid = errors.New("token: token not yet valid")

	// ErrInvalidSignature 签名无效
	ErrInvalidSignature = errors.New("token: invalid signature")

	// ErrInvalidClaims claims 无效
	ErrInvalidClaims = errors.New("token: invalid claims")

	// ErrSecretEmpty 密钥为空
	ErrSecretEmpty = errors.New("token: secret is empty")
)
