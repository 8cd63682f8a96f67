// internal/models/user.go
package models

import (
	"golang.org/x/crypto/bcrypt"
)

type User struct {
	BaseModel
	Username        string `json:"username" gorm:"uniqueIndex;size:150;not null"`
	Email           string `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash    string `json:"-" gorm:"size:255;not null"`
	FirstName       string `json:"first_name" gorm:"size:150"`
	LastName        string `json:"last_name" gorm:"size:150"`
	IsStaff         bool   `json:"is_staff" gorm:"default:false"`
	IsVerifiedEmail bool   `json:"is_verified_email" gorm:"default:false"`
	ImageURL        string `json:"image_url" gorm:"size:512"`

	// Relationships
	Baskets       []Basket            `json:"baskets,omitempty" gorm:"foreignKey:UserID"`
	Orders        []Order             `json:"orders,omitempty" gorm:"foreignKey:InitiatorID"`
	Verifications []EmailVerification `json:"verifications,omitempty" gorm:"foreignKey:UserID"`
}

func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
}

func (u *User) FullName() string {
	if u.FirstName == "" && u.LastName == "" {
		return u.Username
	}
	return u.FirstName + " " + u.LastName
}
