package accounts

import (
	"context"
	"strings"

	"huddle-backend/internal/domain"
	"huddle-backend/internal/pkg/validation"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// Service creates accounts and verifies password credentials.
type Service struct {
	DB *gorm.DB
}

// CreateInput for a password-based account.
type CreateInput struct {
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Password string `json:"password"`
	// Verified marks the email as already proven (e.g. the address received
	// an invitation link, which is out-of-band proof of control).
	Verified bool
}

// Create creates a password-based account.
func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	if strings.TrimSpace(in.Fullname) == "" {
		return nil, ErrNameRequired
	}
	trimmed := strings.TrimSpace(in.Fullname)
	if !validation.IsValidFullname(trimmed) {
		return nil, ErrInvalidName
	}
	if !validation.IsValidEmail(in.Email) {
		return nil, ErrInvalidEmailFormat
	}
	if !validation.IsValidPassword(in.Password) {
		return nil, ErrPasswordTooShort
	}
	email := validation.NormalizeEmail(in.Email)

	var existing domain.User
	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrEmailRegistered
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}

	u := &domain.User{
		Fullname:      trimmed,
		Email:         email,
		PasswordHash:  string(hash),
		AuthProvider:  domain.ProviderPassword,
		EmailVerified: in.Verified,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// EnsureExternal finds or creates an externally-authenticated account for
// email. Accounts created here are auto-verified: the provider already
// attested the address.
func (s *Service) EnsureExternal(ctx context.Context, email, fullname string) (*domain.User, error) {
	normalized := validation.NormalizeEmail(email)

	var u domain.User
	err := s.DB.WithContext(ctx).Where("email = ?", normalized).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	created := &domain.User{
		Fullname:      strings.TrimSpace(fullname),
		Email:         normalized,
		AuthProvider:  domain.ProviderGoogle,
		EmailVerified: true,
	}
	if err := s.DB.WithContext(ctx).Create(created).Error; err != nil {
		return nil, err
	}
	return created, nil
}

// VerifyPassword checks a plaintext password against the account's stored
// credential.
func (s *Service) VerifyPassword(u *domain.User, password string) error {
	if u.PasswordHash == "" {
		return ErrNoPasswordCredential
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return ErrIncorrectPassword
	}
	return nil
}
