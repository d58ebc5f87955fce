package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KOMKZ/go-auth-service/database"
	"github.com/KOMKZ/go-auth-service/logger"
)

// Store 令牌记录仓储
type Store struct {
	*database.BaseRepository[TokenRecord]
	log *logger.CtxZapLogger
}

// NewStore 创建令牌仓储
func NewStore(db *gorm.DB, log *logger.CtxZapLogger) *Store {
	return &Store{
		BaseRepository: database.NewBaseRepository[TokenRecord](db),
		log:            log,
	}
}

// Migrate 创建或更新表结构
func (s *Store) Migrate() error {
	if err := s.DB().AutoMigrate(&TokenRecord{}); err != nil {
		return fmt.Errorf("migrate tokens table failed: %w", err)
	}
	return nil
}

// FindPair 按访问令牌与刷新令牌精确匹配查找未吊销的记录
func (s *Store) FindPair(ctx context.Context, accessToken, refreshToken string) (*TokenRecord, error) {
	var record TokenRecord
	err := s.DB().WithContext(ctx).
		Where("access_token = ? AND refresh_token = ? AND revoked = ?", accessToken, refreshToken, false).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find token pair failed: %w", err)
	}
	return &record, nil
}

// FindByAccessToken 按访问令牌查找未吊销的记录
func (s *Store) FindByAccessToken(ctx context.Context, accessToken string) (*TokenRecord, error) {
	var record TokenRecord
	err := s.DB().WithContext(ctx).
		Where("access_token = ? AND revoked = ?", accessToken, false).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, database.ErrRecordNotFound
		}
		return nil, fmt.Errorf("find token by access token failed: %w", err)
	}
	return &record, nil
}

// FindActiveByUser 查找用户所有仍然活跃的记录：
// 未吊销且刷新令牌尚未过期。
func (s *Store) FindActiveByUser(ctx context.Context, userID uint) ([]TokenRecord, error) {
	var records []TokenRecord
	err := s.DB().WithContext(ctx).
		Where("user_id = ? AND revoked = ? AND refresh_token_exp_date > ?", userID, false, time.Now()).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("find active tokens failed: %w", err)
	}
	return records, nil
}

// Revoke 按记录 ID 吊销
func (s *Store) Revoke(ctx context.Context, id uint) error {
	now := time.Now()
	result := s.DB().WithContext(ctx).
		Model(&TokenRecord{}).
		Where("id = ? AND revoked = ?", id, false).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": &now})
	if result.Error != nil {
		return fmt.Errorf("revoke token record failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrRecordNotFound
	}

	s.log.DebugCtx(ctx, "token record revoked", zap.Uint("record_id", id))
	return nil
}

// RevokeByAccessToken 按访问令牌吊销
func (s *Store) RevokeByAccessToken(ctx context.Context, accessToken string) error {
	now := time.Now()
	result := s.DB().WithContext(ctx).
		Model(&TokenRecord{}).
		Where("access_token = ? AND revoked = ?", accessToken, false).
		Updates(map[string]interface{}{"revoked": true, "revoked_at": &now})
	if result.Error != nil {
		return fmt.Errorf("revoke token record failed: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrRecordNotFound
	}
	return nil
}
