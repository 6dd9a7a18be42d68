package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Skotchmaster/techstore/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return translate(r.DB.WithContext(ctx).Create(u).Error)
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByPhone(ctx context.Context, phone string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("phone = ?", phone).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

var providerColumns = map[string]string{
	"google":   "google_id",
	"facebook": "facebook_id",
}

func (r *GormRepo) GetUserByProvider(ctx context.Context, provider, subject string) (*models.User, error) {
	col, ok := providerColumns[provider]
	if !ok {
		return nil, errors.New("unknown provider " + provider)
	}
	var user models.User
	if err := r.DB.WithContext(ctx).Where(col+" = ?", subject).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) LinkProvider(ctx context.Context, userID uuid.UUID, provider, subject, avatar string) error {
	col, ok := providerColumns[provider]
	if !ok {
		return errors.New("unknown provider " + provider)
	}
	updates := map[string]any{col: subject}
	if avatar != "" {
		updates["avatar"] = avatar
	}
	res := r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Updates(updates)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) TouchLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error {
	return r.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("last_login", at).Error
}

// IsActiveUser backs the auth middleware.
func (r *GormRepo) IsActiveUser(ctx context.Context, id string) (bool, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return false, nil
	}
	var user models.User
	err = r.DB.WithContext(ctx).Select("id", "is_active").Where("id = ?", uid).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return user.IsActive, nil
}
