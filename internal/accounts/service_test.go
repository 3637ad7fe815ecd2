package accounts

import (
	"context"
	"testing"

	"huddle-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAccountsTest(t *testing.T) *Service {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return &Service{DB: db}
}

func TestCreate_Valid(t *testing.T) {
	s := setupAccountsTest(t)

	u, err := s.Create(context.Background(), CreateInput{
		Fullname: "Nika Newcomer",
		Email:    "Nika@Test.COM",
		Password: "secret1",
		Verified: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "nika@test.com", u.Email)
	assert.Equal(t, domain.ProviderPassword, u.AuthProvider)
	assert.True(t, u.EmailVerified)
	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "secret1", u.PasswordHash)

	require.NoError(t, s.VerifyPassword(u, "secret1"))
	assert.Equal(t, ErrIncorrectPassword, s.VerifyPassword(u, "wrong"))
}

func TestCreate_Validation(t *testing.T) {
	s := setupAccountsTest(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateInput{Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ErrNameRequired, err)

	_, err = s.Create(ctx, CreateInput{Fullname: "N1ka!", Email: "a@b.com", Password: "secret1"})
	assert.Equal(t, ErrInvalidName, err)

	_, err = s.Create(ctx, CreateInput{Fullname: "Nika", Email: "not-an-email", Password: "secret1"})
	assert.Equal(t, ErrInvalidEmailFormat, err)

	_, err = s.Create(ctx, CreateInput{Fullname: "Nika", Email: "a@b.com", Password: "secret"})
	assert.NoError(t, err) // exactly 6 chars passes

	_, err = s.Create(ctx, CreateInput{Fullname: "Nika", Email: "c@d.com", Password: "tiny5"})
	assert.Equal(t, ErrPasswordTooShort, err)
}

func TestCreate_DuplicateEmail(t *testing.T) {
	s := setupAccountsTest(t)
	ctx := context.Background()

	_, err := s.Create(ctx, CreateInput{Fullname: "Nika", Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)

	_, err = s.Create(ctx, CreateInput{Fullname: "Other", Email: "A@B.com", Password: "secret1"})
	assert.Equal(t, ErrEmailRegistered, err)
}

func TestEnsureExternal(t *testing.T) {
	s := setupAccountsTest(t)
	ctx := context.Background()

	u, err := s.EnsureExternal(ctx, "Gia@Test.com", "Gia Google")
	require.NoError(t, err)
	assert.Equal(t, "gia@test.com", u.Email)
	assert.Equal(t, domain.ProviderGoogle, u.AuthProvider)
	assert.True(t, u.EmailVerified)
	assert.Empty(t, u.PasswordHash)

	again, err := s.EnsureExternal(ctx, "gia@test.com", "Ignored Name")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, again.UserID)

	var count int64
	require.NoError(t, s.DB.Model(&domain.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestVerifyPassword_NoCredential(t *testing.T) {
	s := setupAccountsTest(t)
	u := &domain.User{Email: "gia@test.com", AuthProvider: domain.ProviderGoogle}
	assert.Equal(t, ErrNoPasswordCredential, s.VerifyPassword(u, "anything"))
}
