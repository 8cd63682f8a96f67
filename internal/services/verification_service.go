// internal/services/verification_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/storeapp/store-backend/internal/config"
	"github.com/storeapp/store-backend/internal/models"
)

// VerificationService drives the email verification state machine:
// PENDING -> VERIFIED on a timely verify, PENDING -> EXPIRED once the
// window elapses (checked lazily and by the periodic sweep). Statuses
// never move backwards.
type VerificationService struct {
	db            *gorm.DB
	cfg           *config.Config
	notifications *NotificationService
}

func NewVerificationService(db *gorm.DB, cfg *config.Config, notifications *NotificationService) *VerificationService {
	return &VerificationService{
		db:            db,
		cfg:           cfg,
		notifications: notifications,
	}
}

// IssueTx creates one fresh verification record for the user with the
// configured validity window. It runs on the caller's transaction so
// registration creates the user and the record atomically.
func (s *VerificationService) IssueTx(tx *gorm.DB, user *models.User) (*models.EmailVerification, error) {
	record := &models.EmailVerification{
		Code:       uuid.New(),
		UserID:     user.ID,
		Expiration: time.Now().Add(time.Duration(s.cfg.Verification.TTLHours) * time.Hour),
		Status:     models.VerificationStatusPending,
	}

	if err := tx.Create(record).Error; err != nil {
		return nil, fmt.Errorf("failed to create verification record: %w", err)
	}

	return record, nil
}

// Dispatch sends the verification email. Fire-and-forget: the record's
// state never depends on delivery success.
func (s *VerificationService) Dispatch(user *models.User, record *models.EmailVerification) {
	if err := s.notifications.SendVerificationEmail(user, record); err != nil {
		logrus.WithError(err).WithField("user_id", user.ID).Error("Failed to dispatch verification email")
	}
}

func (s *VerificationService) List(principal *Principal) ([]models.EmailVerification, error) {
	if principal == nil {
		return nil, ErrUnauthenticated
	}

	query := s.db.Model(&models.EmailVerification{}).Order("created_at DESC")
	if !principal.IsStaff {
		query = query.Where("user_id = ?", principal.ID)
	}

	var records []models.EmailVerification
	if err := query.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch verification records: %w", err)
	}

	return records, nil
}

func (s *VerificationService) Get(principal *Principal, id uuid.UUID) (*models.EmailVerification, error) {
	var record models.EmailVerification
	if err := s.db.First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: verification record", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if VerificationDecision(principal, &record, ActionRead) != DecisionAllow {
		return nil, fmt.Errorf("%w: verification record", ErrNotFound)
	}

	return &record, nil
}

// Verify flips the record to VERIFIED and the owning user's
// is_verified_email flag in one transaction. An elapsed window marks
// the record EXPIRED and fails with a conflict.
func (s *VerificationService) Verify(principal *Principal, id uuid.UUID) (*models.EmailVerification, error) {
	var record models.EmailVerification

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := lockForUpdate(tx).
			First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: verification record", ErrNotFound)
			}
			return fmt.Errorf("database error: %w", err)
		}

		if VerificationDecision(principal, &record, ActionWrite) != DecisionAllow {
			return fmt.Errorf("%w: verification record", ErrNotFound)
		}

		switch record.Status {
		case models.VerificationStatusVerified:
			return fmt.Errorf("%w: email already verified", ErrConflict)
		case models.VerificationStatusExpired:
			return fmt.Errorf("%w: verification link has expired", ErrConflict)
		}

		if record.IsExpired(time.Now()) {
			record.Status = models.VerificationStatusExpired
			if err := tx.Save(&record).Error; err != nil {
				return fmt.Errorf("failed to expire verification record: %w", err)
			}
			return fmt.Errorf("%w: verification link has expired", ErrConflict)
		}

		record.Status = models.VerificationStatusVerified
		if err := tx.Save(&record).Error; err != nil {
			return fmt.Errorf("failed to update verification record: %w", err)
		}

		if err := tx.Model(&models.User{}).Where("id = ?", record.UserID).
			Update("is_verified_email", true).Error; err != nil {
			return fmt.Errorf("failed to mark user verified: %w", err)
		}

		return nil
	})

	if err != nil {
		// The lazy expiry transition must survive the rolled-back
		// transaction: re-apply it outside.
		if errors.Is(err, ErrConflict) && record.Status == models.VerificationStatusExpired {
			s.db.Model(&models.EmailVerification{}).
				Where("id = ? AND status = ?", id, models.VerificationStatusPending).
				Update("status", models.VerificationStatusExpired)
		}
		return nil, err
	}

	return &record, nil
}

// Resend re-dispatches the verification email for an existing record.
// Restricted to the record's owner; others see not-found.
func (s *VerificationService) Resend(principal *Principal, id uuid.UUID) error {
	var record models.EmailVerification
	if err := s.db.Preload("User").First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: verification record", ErrNotFound)
		}
		return fmt.Errorf("database error: %w", err)
	}

	if VerificationDecision(principal, &record, ActionWrite) != DecisionAllow {
		return fmt.Errorf("%w: verification record", ErrNotFound)
	}

	if record.Status == models.VerificationStatusVerified {
		return fmt.Errorf("%w: email already verified", ErrConflict)
	}

	if record.User == nil {
		return fmt.Errorf("%w: verification record", ErrNotFound)
	}

	go s.Dispatch(record.User, &record)
	return nil
}

// ExpireStale is the expiry sweep: it advances every pending record
// whose window has elapsed to EXPIRED. Safe to run concurrently with
// Verify because both only move PENDING forward.
func (s *VerificationService) ExpireStale(now time.Time) (int64, error) {
	result := s.db.Model(&models.EmailVerification{}).
		Where("status = ? AND expiration <= ?", models.VerificationStatusPending, now).
		Update("status", models.VerificationStatusExpired)

	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire verification records: %w", result.Error)
	}

	return result.RowsAffected, nil
}
