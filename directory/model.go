package directory

import "golang.org/x/crypto/bcrypt"

// User 目录服务中的用户。
// Password 为 bcrypt 哈希，目录服务仅对持系统令牌的调用方返回。
type User struct {
	ID             uint   `json:"id"`
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	EmailConfirmed bool   `json:"email_confirmed"`
	AccessLevel    string `json:"access_level"`
	GoogleID       string `json:"google_id,omitempty"`
}

// CheckPassword 比对明文密码与存储的 bcrypt 哈希
func (u *User) CheckPassword(plain string) bool {
	if u.Password == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plain)) == nil
}

// HasPassword 是否设置过密码（纯 Google 账号没有）
func (u *User) HasPassword() bool {
	return u.Password != ""
}

// CreateUserInput 创建用户的入参
type CreateUserInput struct {
	Email          string `json:"email"`
	Password       string `json:"password,omitempty"`
	EmailConfirmed bool   `json:"email_confirmed"`
	GoogleID       string `json:"google_id,omitempty"`
}

// UpdateUserInput 更新用户的入参，nil 字段不修改
type UpdateUserInput struct {
	EmailConfirmed *bool   `json:"email_confirmed,omitempty"`
	GoogleID       *string `json:"google_id,omitempty"`
}

// HashPassword 生成 bcrypt 哈希
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
