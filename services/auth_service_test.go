package services

import (
	"context"
	"net/http"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/models"
)

var testJWTSecret = []byte("test-secret")

func registerRequest() *RegisterRequest {
	return &RegisterRequest{
		Name:            "Alice",
		Email:           "alice@example.com",
		Password:        "correct horse",
		ConfirmPassword: "correct horse",
	}
}

func TestRegister_Success(t *testing.T) {
	users := newMockUserRepo()
	svc := NewAuthService(users, testJWTSecret)

	user, svcErr := svc.Register(context.Background(), registerRequest())
	require.Nil(t, svcErr)

	assert.Equal(t, "Alice", user.Name)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role, "self-registration never grants admin")

	stored, err := users.FindByEmail(context.Background(), "alice@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.Password, "password must be stored hashed")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("correct horse")))
}

func TestRegister_PasswordTooShort(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testJWTSecret)

	req := registerRequest()
	req.Password = "short"
	req.ConfirmPassword = "short"

	_, svcErr := svc.Register(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Contains(t, svcErr.Message, "at least 8 characters")
}

func TestRegister_PasswordMismatch(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testJWTSecret)

	req := registerRequest()
	req.ConfirmPassword = "something else"

	_, svcErr := svc.Register(context.Background(), req)
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, "Passwords do not match", svcErr.Message)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	users := newMockUserRepo()
	svc := NewAuthService(users, testJWTSecret)

	_, svcErr := svc.Register(context.Background(), registerRequest())
	require.Nil(t, svcErr)

	_, svcErr = svc.Register(context.Background(), registerRequest())
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusBadRequest, svcErr.StatusCode)
	assert.Equal(t, "Email already registered", svcErr.Message)
}

func TestLogin_Success(t *testing.T) {
	users := newMockUserRepo()
	svc := NewAuthService(users, testJWTSecret)

	_, svcErr := svc.Register(context.Background(), registerRequest())
	require.Nil(t, svcErr)

	resp, svcErr := svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse",
	})
	require.Nil(t, svcErr)
	assert.Equal(t, "alice@example.com", resp.User.Email)

	token, err := jwt.Parse(resp.Token, func(t *jwt.Token) (interface{}, error) {
		return testJWTSecret, nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, resp.User.ID.String(), claims["user_id"])
	assert.Equal(t, "alice@example.com", claims["email"])
	assert.Equal(t, models.RoleUser, claims["role"])
}

func TestLogin_WrongPassword(t *testing.T) {
	users := newMockUserRepo()
	svc := NewAuthService(users, testJWTSecret)

	_, svcErr := svc.Register(context.Background(), registerRequest())
	require.Nil(t, svcErr)

	_, svcErr = svc.Login(context.Background(), &LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong horse",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
	assert.Equal(t, "Invalid email or password", svcErr.Message)
}

func TestLogin_UnknownEmail(t *testing.T) {
	svc := NewAuthService(newMockUserRepo(), testJWTSecret)

	_, svcErr := svc.Login(context.Background(), &LoginRequest{
		Email:    "nobody@example.com",
		Password: "irrelevant",
	})
	require.NotNil(t, svcErr)
	assert.Equal(t, http.StatusUnauthorized, svcErr.StatusCode)
	assert.Equal(t, "Invalid email or password", svcErr.Message)
}
