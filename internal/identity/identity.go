package identity

import (
	"context"

	"huddle-backend/internal/domain"
	"huddle-backend/internal/pkg/validation"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Kind is the closed set of identity classifications for an email address.
type Kind int

const (
	// KindNoAccount: no account exists for the email.
	KindNoAccount Kind = iota
	// KindPassword: an account exists and holds a verifiable password credential.
	KindPassword
	// KindExternal: an account exists but authenticates through an external
	// provider; it has no password to verify.
	KindExternal
)

// Classification pairs a Kind with the matched account (nil for KindNoAccount).
type Classification struct {
	Kind    Kind
	Account *domain.User
}

// Principal is an authenticated identity attached to an operation. Handlers
// extract it from the session; services receive it as an explicit parameter.
type Principal struct {
	UserID   uuid.UUID
	Email    string
	Fullname string
}

// SameEmail reports whether the principal's email matches other,
// case-insensitively.
func (p *Principal) SameEmail(other string) bool {
	return validation.NormalizeEmail(p.Email) == validation.NormalizeEmail(other)
}

// ExternalPrincipal is the identity returned by an external auth handshake.
type ExternalPrincipal struct {
	Email    string
	Fullname string
}

// Resolver classifies emails against the accounts table.
type Resolver struct {
	DB *gorm.DB
}

// Classify looks up the account for email and returns its classification.
// Pure read, no side effects. Callers must re-run this at decision time
// rather than caching an earlier result: an account may appear between an
// invitation being issued and it being accepted.
func (r *Resolver) Classify(ctx context.Context, email string) (Classification, error) {
	normalized := validation.NormalizeEmail(email)

	var u domain.User
	err := r.DB.WithContext(ctx).Where("email = ?", normalized).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return Classification{Kind: KindNoAccount}, nil
	}
	if err != nil {
		return Classification{}, err
	}

	if u.AuthProvider != domain.ProviderPassword || u.PasswordHash == "" {
		return Classification{Kind: KindExternal, Account: &u}, nil
	}
	return Classification{Kind: KindPassword, Account: &u}, nil
}
