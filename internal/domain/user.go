package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth providers for User.AuthProvider.
const (
	ProviderPassword = "password"
	ProviderGoogle   = "google"
)

// User is an account holder. Email is stored lowercase and compared
// case-insensitively everywhere. PasswordHash is empty for accounts created
// through Google sign-in.
type User struct {
	UserID        uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname      string         `gorm:"column:fullname;not null" json:"fullname"`
	Email         string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash  string         `gorm:"column:password_hash" json:"-"`
	AuthProvider  string         `gorm:"column:auth_provider;not null;default:password" json:"auth_provider"`
	EmailVerified bool           `gorm:"column:email_verified;not null;default:false" json:"email_verified"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
