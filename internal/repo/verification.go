package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
)

func (r *GormRepo) CreateVerification(ctx context.Context, v *models.Verification) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

// ConsumeOTP marks a matching, unexpired, unverified code as verified.
func (r *GormRepo) ConsumeOTP(ctx context.Context, phone, otp string, now time.Time) error {
	res := r.DB.WithContext(ctx).Model(&models.Verification{}).
		Where("phone_number = ? AND otp = ? AND verified = ? AND expires_at > ?", phone, otp, false, now).
		Update("verified", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) PhoneVerified(ctx context.Context, phone string) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&models.Verification{}).
		Where("phone_number = ? AND verified = ?", phone, true).
		Count(&count).Error
	return count > 0, err
}
