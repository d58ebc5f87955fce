package token

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/KOMKZ/go-auth-service/logger"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenData 签发结果
// Exp/Iat 为 Unix 秒，ExpDate 为换算后的到期时间
type TokenData struct {
	Token   string
	Iat     int64
	Exp     int64
	ExpDate time.Time
}

// Lifetime 令牌总生命周期（exp - iat）
func (d *TokenData) Lifetime() time.Duration {
	return time.Duration(d.Exp-d.Iat) * time.Second
}

// AccessClaims 验证通过的访问令牌
type AccessClaims struct {
	Payload AccessTokenPayload
	Iat     int64
	Exp     int64
}

// Lifetime 令牌总生命周期（exp - iat）
func (c *AccessClaims) Lifetime() time.Duration {
	return time.Duration(c.Exp-c.Iat) * time.Second
}

// Remaining 距离自然过期的剩余时间
func (c *AccessClaims) Remaining() time.Duration {
	return time.Until(time.Unix(c.Exp, 0))
}

// ExpDate 到期时间
func (c *AccessClaims) ExpDate() time.Time {
	return time.Unix(c.Exp, 0)
}

// RefreshClaims 验证通过的刷新令牌
type RefreshClaims struct {
	Payload RefreshTokenPayload
	Iat     int64
	Exp     int64
}

// Codec 签名令牌编解码器。
// 令牌自包含：负载与 iat/exp 一起签名，验证无需外部状态。
type Codec struct {
	config        *Config
	signingMethod jwt.SigningMethod
	signingKey    []byte
	logger        *logger.CtxZapLogger
}

// NewCodec 创建编解码器
func NewCodec(config *Config, log *logger.CtxZapLogger) (*Codec, error) {
	config.ApplyDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Codec{
		config:        config,
		signingMethod: jwt.SigningMethodHS256,
		signingKey:    []byte(config.Secret),
		logger:        log,
	}, nil
}

// AccessTTL 访问令牌有效期
func (c *Codec) AccessTTL() time.Duration {
	return c.config.AccessTTL
}

// RefreshTTL 刷新令牌有效期
func (c *Codec) RefreshTTL() time.Duration {
	return c.config.RefreshTTL
}

// IssueAccess 签发访问令牌
func (c *Codec) IssueAccess(ctx context.Context, payload AccessTokenPayload) (*TokenData, error) {
	now := time.Now()
	expiresAt := now.Add(c.config.AccessTTL)

	claims := jwt.MapClaims{
		"iat":         now.Unix(),
		"exp":         expiresAt.Unix(),
		"iss":         c.config.Issuer,
		"jti":         uuid.New().String(),
		"access_type": string(payload.AccessType),
	}
	if payload.AuthenticatedUser != nil {
		claims["authenticated_user"] = map[string]interface{}{
			"id":           payload.AuthenticatedUser.ID,
			"access_level": payload.AuthenticatedUser.AccessLevel,
		}
	}

	tokenString, err := jwt.NewWithClaims(c.signingMethod, claims).SignedString(c.signingKey)
	if err != nil {
		c.logger.ErrorCtx(ctx, "failed to sign access token", zap.Error(err))
		return nil, fmt.Errorf("sign access token failed: %w", err)
	}

	c.logger.DebugCtx(ctx, "access token issued",
		zap.String("access_type", string(payload.AccessType)),
		zap.Duration("ttl", c.config.AccessTTL))

	return &TokenData{
		Token:   tokenString,
		Iat:     now.Unix(),
		Exp:     expiresAt.Unix(),
		ExpDate: expiresAt,
	}, nil
}

// IssueRefresh 签发刷新令牌
func (c *Codec) IssueRefresh(ctx context.Context, payload RefreshTokenPayload) (*TokenData, error) {
	now := time.Now()
	expiresAt := now.Add(c.config.RefreshTTL)

	claims := jwt.MapClaims{
		"iat":     now.Unix(),
		"exp":     expiresAt.Unix(),
		"iss":     c.config.Issuer,
		"jti":     uuid.New().String(),
		"user_id": payload.UserID,
	}

	tokenString, err := jwt.NewWithClaims(c.signingMethod, claims).SignedString(c.signingKey)
	if err != nil {
		c.logger.ErrorCtx(ctx, "failed to sign refresh token", zap.Error(err))
		return nil, fmt.Errorf("sign refresh token failed: %w", err)
	}

	c.logger.DebugCtx(ctx, "refresh token issued",
		zap.Uint("user_id", payload.UserID),
		zap.Duration("ttl", c.config.RefreshTTL))

	return &TokenData{
		Token:   tokenString,
		Iat:     now.Unix(),
		Exp:     expiresAt.Unix(),
		ExpDate: expiresAt,
	}, nil
}

// VerifyAccess 验证并解析访问令牌
func (c *Codec) VerifyAccess(ctx context.Context, tokenString string) (*AccessClaims, error) {
	mapClaims, err := c.parse(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	payload, err := parseAccessPayload(mapClaims)
	if err != nil {
		c.logger.WarnCtx(ctx, "failed to parse access claims", zap.Error(err))
		return nil, err
	}

	iat, exp, err := parseTimestamps(mapClaims)
	if err != nil {
		return nil, err
	}

	return &AccessClaims{Payload: *payload, Iat: iat, Exp: exp}, nil
}

// VerifyRefresh 验证并解析刷新令牌
func (c *Codec) VerifyRefresh(ctx context.Context, tokenString string) (*RefreshClaims, error) {
	mapClaims, err := c.parse(ctx, tokenString)
	if err != nil {
		return nil, err
	}

	userID, ok := claimUint(mapClaims, "user_id")
	if !ok {
		return nil, ErrInvalidClaims
	}

	iat, exp, err := parseTimestamps(mapClaims)
	if err != nil {
		return nil, err
	}

	return &RefreshClaims{
		Payload: RefreshTokenPayload{UserID: userID},
		Iat:     iat,
		Exp:     exp,
	}, nil
}

// DecodeAccess 解析访问令牌但不校验过期时间，签名仍然校验。
// 刷新流程用它读取已过期访问令牌的负载。
func (c *Codec) DecodeAccess(ctx context.Context, tokenString string) (*AccessClaims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed, err := parser.Parse(tokenString, c.keyFunc)
	if err != nil {
		c.logger.WarnCtx(ctx, "token decode failed", zap.Error(err))
		return nil, parseJWTError(err)
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	payload, err := parseAccessPayload(mapClaims)
	if err != nil {
		return nil, err
	}

	iat, exp, err := parseTimestamps(mapClaims)
	if err != nil {
		return nil, err
	}

	return &AccessClaims{Payload: *payload, Iat: iat, Exp: exp}, nil
}

func (c *Codec) keyFunc(token *jwt.Token) (interface{}, error) {
	if token.Method != c.signingMethod {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return c.signingKey, nil
}

// parse 解析并校验签名
func (c *Codec) parse(ctx context.Context, tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, c.keyFunc)

	if err != nil {
		c.logger.WarnCtx(ctx, "token verification failed", zap.Error(err))
		return nil, parseJWTError(err)
	}

	if !token.Valid {
		return nil, ErrTokenInvalid
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidClaims
	}

	return mapClaims, nil
}

// parseAccessPayload 从 MapClaims 还原访问令牌负载
func parseAccessPayload(claims jwt.MapClaims) (*AccessTokenPayload, error) {
	accessType, ok := claims["access_type"].(string)
	if !ok {
		return nil, ErrInvalidClaims
	}

	payload := &AccessTokenPayload{AccessType: AccessType(accessType)}

	switch payload.AccessType {
	case AccessTypeSystem:
		return payload, nil
	case AccessTypeUser:
		rawUser, ok := claims["authenticated_user"].(map[string]interface{})
		if !ok {
			return nil, ErrInvalidClaims
		}
		id, ok := toUint(rawUser["id"])
		if !ok {
			return nil, ErrInvalidClaims
		}
		accessLevel, ok := rawUser["access_level"].(string)
		if !ok {
			return nil, ErrInvalidClaims
		}
		payload.AuthenticatedUser = &AuthenticatedUser{ID: id, AccessLevel: accessLevel}
		return payload, nil
	default:
		return nil, ErrInvalidClaims
	}
}

func parseTimestamps(claims jwt.MapClaims) (iat int64, exp int64, err error) {
	iatF, ok := claims["iat"].(float64)
	if !ok {
		return 0, 0, ErrInvalidClaims
	}
	expF, ok := claims["exp"].(float64)
	if !ok {
		return 0, 0, ErrInvalidClaims
	}
	return int64(iatF), int64(expF), nil
}

func claimUint(claims jwt.MapClaims, key string) (uint, bool) {
	return toUint(claims[key])
}

func toUint(v interface{}) (uint, bool) {
	switch n := v.(type) {
	case float64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case int64:
		if n < 0 {
			return 0, false
		}
		return uint(n), true
	case uint:
		return n, true
	default:
		return 0, false
	}
}

// parseJWTError 解析 JWT 库错误为本包的哨兵错误
func parseJWTError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenNotValidYet):
		return ErrTokenNotYetValid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrInvalidSignature
	}

	// golang-jwt/v5 的错误可能被多层包装，退化到字符串匹配
	errStr := err.Error()
	switch {
	case strings.Contains(errStr, "expired"):
		return ErrTokenExpired
	case strings.Contains(errStr, "not valid yet"):
		return ErrTokenNotYetValid
	case strings.Contains(errStr, "signature"):
		return ErrInvalidSignature
	default:
		return ErrTokenInvalid
	}
}
