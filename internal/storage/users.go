package storage

import (
	"context"
	"errors"

	"dmchat/backend/internal/apperr"
	"dmchat/backend/internal/models"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// CreateUser inserts a new account. A taken username yields ErrConflict.
func (s *Service) CreateUser(ctx context.Context, user *models.User) error {
	existing, err := s.GetUserByUsername(ctx, user.Username)
	if err == nil && existing != nil {
		return apperr.ErrConflict
	}
	if err != nil && !errors.Is(err, apperr.ErrNotFound) {
		return err
	}

	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return apperr.ErrConflict
		}
		return apperr.Storage("create user", err)
	}
	return nil
}

func (s *Service) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("get user", err)
	}
	return &user, nil
}

func (s *Service) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.ErrNotFound
	}
	if err != nil {
		return nil, apperr.Storage("get user by username", err)
	}
	return &user, nil
}

// UserExists reports whether id names a registered account.
func (s *Service) UserExists(ctx context.Context, id uint) (bool, error) {
	var count int64
	if err := s.DB.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, apperr.Storage("user exists", err)
	}
	return count > 0, nil
}

// ListOtherUsers returns every account except self, ordered by username.
func (s *Service) ListOtherUsers(ctx context.Context, self uint) ([]models.User, error) {
	var users []models.User
	err := s.DB.WithContext(ctx).
		Where("id <> ?", self).
		Order("username asc").
		Find(&users).Error
	if err != nil {
		return nil, apperr.Storage("list users", err)
	}
	return users, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
