// internal/services/user_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/storeapp/store-backend/internal/models"
	"github.com/storeapp/store-backend/internal/utils"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// List returns all accounts. Staff-only; everyone else gets a
// forbidden, not an empty page.
func (s *UserService) List(principal *Principal, params utils.PaginationParams) ([]models.User, int64, error) {
	if principal == nil {
		return nil, 0, ErrUnauthenticated
	}
	if !CanListUsers(principal) {
		return nil, 0, fmt.Errorf("%w: listing users requires staff", ErrForbidden)
	}

	query := s.db.Model(&models.User{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	allowedSortFields := []string{"created_at", "username", "email"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var users []models.User
	if err := query.Preload("Verifications").Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch users: %w", err)
	}

	return users, total, nil
}

// Get retrieves a user profile with the self-view override: a
// non-staff principal is redirected to their own profile regardless of
// the requested id.
func (s *UserService) Get(principal *Principal, requested uuid.UUID) (*models.User, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	id := ResolveUserID(principal, requested)

	var user models.User
	if err := s.db.Preload("Verifications").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	return &user, nil
}

// SetImageURL records the stored avatar URL on the principal's own
// profile.
func (s *UserService) SetImageURL(principal *Principal, url string) (*models.User, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	var user models.User
	if err := s.db.First(&user, "id = ?", principal.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: user", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Model(&user).Update("image_url", url).Error; err != nil {
		return nil, fmt.Errorf("failed to update profile image: %w", err)
	}

	return &user, nil
}
