package errcode

import "net/http"

// 模块编码分配:
//
//	10 - auth       认证流程相关错误
//	20 - dependency 下游依赖（用户目录、缓存、存储）错误
const (
	ModuleAuth       = 10
	ModuleDependency = 20
)

// Authentication flow errors. WireCode strings are part of the public API
// contract and must stay stable across releases.
var (
	ErrMissingBearerToken = Register(New(ModuleAuth, 1, "auth",
		"MISSING AUTHORIZATION BEARER TOKEN", "authorization header missing or malformed", http.StatusBadRequest))

	ErrTokenInvalid = Register(New(ModuleAuth, 2, "auth",
		"TOKEN INVALID", "access token failed verification", http.StatusUnauthorized))

	ErrTokenExpired = Register(New(ModuleAuth, 3, "auth",
		"TOKEN EXPIRED", "access token has expired", http.StatusUnauthorized))

	ErrMissingCredentials = Register(New(ModuleAuth, 4, "auth",
		"MISSING EMAIL OR PASSWORD", "sign-in request missing email or password", http.StatusBadRequest))

	ErrBadCredentials = Register(New(ModuleAuth, 5, "auth",
		"EMAIL/PASSWORD COMBINATION NOT RECOGNIZED", "credentials did not match a directory user", http.StatusUnauthorized))

	ErrEmailNotConfirmed = Register(New(ModuleAuth, 6, "auth",
		"EMAIL NOT CONFIRMED", "directory user has not confirmed their email", http.StatusUnauthorized))

	ErrRefreshTokenInvalid = Register(New(ModuleAuth, 7, "auth",
		"REFRESH TOKEN INVALID", "refresh token missing or failed verification", http.StatusUnauthorized))

	ErrInvalidTokenPairing = Register(New(ModuleAuth, 8, "auth",
		"INVALID TOKEN PAIRING", "access and refresh tokens were not issued together", http.StatusUnauthorized))

	ErrMissingAuthCode = Register(New(ModuleAuth, 9, "auth",
		"MISSING AUTHORIZATION CODE", "oauth callback missing authorization code", http.StatusBadRequest))
)

// Downstream dependency errors.
var (
	ErrDirectoryUnavailable = Register(New(ModuleDependency, 1, "dependency",
		"SERVICE UNAVAILABLE", "user directory request failed", http.StatusBadGateway))

	ErrInternal = Register(New(ModuleDependency, 2, "dependency",
		"INTERNAL SERVER ERROR", "unexpected internal error", http.StatusInternalServerError))
)
