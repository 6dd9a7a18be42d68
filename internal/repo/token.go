package repo

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
)

var ErrTokenRevoked = errors.New("token expired or revoked")

func (r *GormRepo) AddRefreshToken(ctx context.Context, t *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Create(t).Error
}

func refreshExpiredOrRevoked(tx *gorm.DB, jti string, now time.Time) (*models.RefreshToken, error) {
	var refresh models.RefreshToken
	if err := tx.Where("jti = ?", jti).First(&refresh).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTokenRevoked
		}
		return nil, err
	}
	if refresh.Revoked || refresh.ExpiresAt.Before(now) {
		return nil, ErrTokenRevoked
	}
	return &refresh, nil
}

// RotateRefreshToken revokes oldJTI and stores next atomically. The stored
// hash of the presented token must match.
func (r *GormRepo) RotateRefreshToken(ctx context.Context, oldJTI, presentedHash string, next *models.RefreshToken) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		old, err := refreshExpiredOrRevoked(tx, oldJTI, time.Now())
		if err != nil {
			return err
		}
		if old.Token != presentedHash {
			return ErrTokenRevoked
		}

		res := tx.Model(&models.RefreshToken{}).
			Where("jti = ? AND revoked = ?", oldJTI, false).
			Update("revoked", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrTokenRevoked
		}

		return tx.Create(next).Error
	})
}

func (r *GormRepo) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return r.DB.WithContext(ctx).Model(&models.RefreshToken{}).
		Where("token = ?", tokenHash).
		Update("revoked", true).Error
}
