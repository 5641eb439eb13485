package services

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/common/logger"
	"storefront/models"
	"storefront/repository"
)

const minPasswordLength = 8

type RegisterRequest struct {
	Name            string `json:"name" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// AuthService handles registration and credential login. Sessions are
// represented as signed JWTs carrying user id, email and role.
type AuthService struct {
	users     repository.UserRepository
	jwtSecret []byte
}

func NewAuthService(users repository.UserRepository, jwtSecret []byte) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

// Register creates a new customer account
func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*models.User, *ServiceError) {
	if len(req.Password) < minPasswordLength {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Password must be at least 8 characters long"}
	}
	if req.Password != req.ConfirmPassword {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Passwords do not match"}
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Email already registered"}
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error(ctx, "Failed to look up email", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to register"}
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Error(ctx, "Failed to hash password", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to register"}
	}

	user := &models.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Name:     req.Name,
		Password: string(hashed),
		Role:     models.RoleUser,
	}

	if err := s.users.Create(ctx, user); err != nil {
		logger.Error(ctx, "Failed to create user", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to register"}
	}

	return user, nil
}

// Login verifies credentials and issues a session token
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, *ServiceError) {
	user, err := s.users.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, &ServiceError{StatusCode: http.StatusUnauthorized, Message: "Invalid email or password"}
	}

	token, err := s.generateToken(user)
	if err != nil {
		logger.Error(ctx, "Failed to sign token", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to log in"}
	}

	return &LoginResponse{Token: token, User: *user}, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"email":   user.Email,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}
