package repo

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

var ErrDuplicate = errors.New("duplicate key")

type GormRepo struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *GormRepo {
	return &GormRepo{DB: db}
}

func isDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}

func translate(err error) error {
	if isDuplicate(err) {
		return errors.Join(ErrDuplicate, err)
	}
	return err
}
