package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/sportsmeet/manager/internal/dto"
	"github.com/sportsmeet/manager/internal/model"
)

const testSecret = "test-secret"

func registerInput() dto.RegisterInput {
	return dto.RegisterInput{
		Username:        "arjun",
		Email:           "arjun@example.com",
		Password:        "secret123",
		ConfirmPassword: "secret123",
		FirstName:       "Arjun",
		LastName:        "Rao",
	}
}

func TestRegister_HashesPasswordAndDefaultsRole(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	user, err := svc.Register(context.Background(), registerInput())

	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secret123")))
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Username = "someone-else"
	_, err = svc.Register(context.Background(), dup)

	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_DuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	dup := registerInput()
	dup.Email = "other@example.com"
	_, err = svc.Register(context.Background(), dup)

	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin_Roundtrip(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	registered, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	user, err := svc.Login(context.Background(), dto.LoginInput{
		Username: "arjun",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotNil(t, user.LastLoginAt)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	_, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginInput{
		Username: "arjun",
		Password: "wrong-password",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	_, err := svc.Login(context.Background(), dto.LoginInput{
		Username: "nobody",
		Password: "whatever",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_DisabledAccount(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	user.IsActive = false
	require.NoError(t, repo.Update(context.Background(), user))

	_, err = svc.Login(context.Background(), dto.LoginInput{
		Username: "arjun",
		Password: "secret123",
	})

	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestIssueSessionToken_CarriesUserID(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewAuthService(repo, testSecret, 60)

	user, err := svc.Register(context.Background(), registerInput())
	require.NoError(t, err)

	tokenString, expiresAt, err := svc.IssueSessionToken(user)
	require.NoError(t, err)
	assert.False(t, expiresAt.IsZero())

	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	require.True(t, ok)
	assert.Equal(t, user.ID.String(), claims.Subject)
}
