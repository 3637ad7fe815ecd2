package auth

import (
	"context"
	"testing"

	"huddle-backend/internal/accounts"
	"huddle-backend/internal/domain"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupAuthDB(t *testing.T) (*gorm.DB, *accounts.Service) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.User{}))
	return db, &accounts.Service{DB: db}
}

func TestVerifyUser_Nil(t *testing.T) {
	u, err := VerifyUser(nil)
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_EmptyMap(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_NoUserID(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"fullname": "Test",
		"email":    "a@b.com",
	})
	assert.Nil(t, u)
	assert.Equal(t, ErrNotAuthenticated, err)
}

func TestVerifyUser_Valid(t *testing.T) {
	u, err := VerifyUser(map[string]interface{}{
		"user_id":  "550e8400-e29b-41d4-a716-446655440000",
		"fullname": "Test User",
		"email":    "test@example.com",
	})
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", u.UserID)
	assert.Equal(t, "Test User", u.Fullname)
	assert.Equal(t, "test@example.com", u.Email)
}

func TestLoginUser_MissingFields(t *testing.T) {
	db, acc := setupAuthDB(t)

	_, err := LoginUser(context.Background(), db, acc, LoginInput{Email: "a@b.com"})
	assert.Equal(t, ErrEmailPasswordRequired, err)

	_, err = LoginUser(context.Background(), db, acc, LoginInput{Password: "secret"})
	assert.Equal(t, ErrEmailPasswordRequired, err)
}

func TestLoginUser_UnknownEmail(t *testing.T) {
	db, acc := setupAuthDB(t)

	_, err := LoginUser(context.Background(), db, acc, LoginInput{Email: "ghost@b.com", Password: "secret"})
	assert.Equal(t, ErrInvalidEmail, err)
}

func TestLoginUser_PasswordRoundTrip(t *testing.T) {
	db, acc := setupAuthDB(t)

	created, err := acc.Create(context.Background(), accounts.CreateInput{
		Fullname: "Login User",
		Email:    "Login@Test.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)

	// Email lookup is case-insensitive through normalization.
	u, err := LoginUser(context.Background(), db, acc, LoginInput{Email: "login@test.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, created.UserID, u.UserID)

	_, err = LoginUser(context.Background(), db, acc, LoginInput{Email: "login@test.com", Password: "wrong"})
	assert.Equal(t, ErrIncorrectPassword, err)
}

func TestLoginUser_GoogleAccountRejected(t *testing.T) {
	db, acc := setupAuthDB(t)

	_, err := acc.EnsureExternal(context.Background(), "google@test.com", "Goo Gler")
	require.NoError(t, err)

	_, err = LoginUser(context.Background(), db, acc, LoginInput{Email: "google@test.com", Password: "anything"})
	assert.Equal(t, ErrUseGoogleSignIn, err)
}
