package token

// AccessType 访问令牌类型
// USER 令牌承载终端用户会话，SYSTEM 令牌仅用于服务自身调用用户目录
type AccessType string

const (
	AccessTypeUser   AccessType = "USER"
	AccessTypeSystem AccessType = "SYSTEM"
)

// AuthenticatedUser 访问令牌中承载的用户身份
type AuthenticatedUser struct {
	ID          uint   `json:"id"`
	AccessLevel string `json:"access_level"`
}

// AccessTokenPayload 访问令牌负载
// SYSTEM 类型的 AuthenticatedUser 为 nil
type AccessTokenPayload struct {
	AccessType        AccessType         `json:"access_type"`
	AuthenticatedUser *AuthenticatedUser `json:"authenticated_user,omitempty"`
}

// IsSystem 是否为系统令牌负载
func (p *AccessTokenPayload) IsSystem() bool {
	return p.AccessType == AccessTypeSystem
}

// RefreshTokenPayload 刷新令牌负载
type RefreshTokenPayload struct {
	UserID uint `json:"user_id"`
}
