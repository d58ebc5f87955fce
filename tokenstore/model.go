package tokenstore

import "time"

// TokenRecord 一次签发的访问/刷新令牌对的持久化记录。
// 访问令牌唯一标识一条记录；吊销以记录为单位。
type TokenRecord struct {
	ID                  uint      `gorm:"primaryKey"`
	UserID              uint      `gorm:"index;not null"`
	AccessToken         string    `gorm:"size:768;uniqueIndex;not null"`
	RefreshToken        string    `gorm:"size:768;not null"`
	AccessTokenExpDate  time.Time `gorm:"not null"`
	RefreshTokenExpDate time.Time `gorm:"not null"`
	Revoked             bool      `gorm:"index;not null;default:false"`
	RevokedAt           *time.Time
	RequesterData       string `gorm:"type:text"`
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// TableName 指定表名
func (TokenRecord) TableName() string {
	return "tokens"
}
