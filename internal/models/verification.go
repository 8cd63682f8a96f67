// internal/models/verification.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// EmailVerification is a one-time verification attempt. A user may
// accumulate several records over time; the code is unique across all
// of them. Status only moves forward: pending -> verified | expired.
type EmailVerification struct {
	BaseModel
	Code       uuid.UUID          `json:"code" gorm:"type:uuid;uniqueIndex;not null"`
	UserID     uuid.UUID          `json:"user_id" gorm:"type:uuid;not null;index"`
	Expiration time.Time          `json:"expiration" gorm:"not null"`
	Status     VerificationStatus `json:"status" gorm:"type:varchar(20);default:'pending'"`

	User *User `json:"user,omitempty" gorm:"foreignKey:UserID"`
}

func (v *EmailVerification) IsExpired(now time.Time) bool {
	return !now.Before(v.Expiration)
}
