package services

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"storefront/common/logger"
	"storefront/models"
	"storefront/repository"
)

type UpdateUserRequest struct {
	Name   string  `json:"name"`
	Role   string  `json:"role"`
	Avatar *string `json:"avatar"`
}

type UpdateProfileRequest struct {
	Name            string  `json:"name"`
	Avatar          *string `json:"avatar"`
	Password        string  `json:"password"`
	ConfirmPassword string  `json:"confirm_password"`
}

type UserListResponse struct {
	Users []models.User `json:"users"`
	Meta  MetaData      `json:"meta"`
}

// UserService covers admin user management and profile updates.
type UserService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// ListUsers returns paginated users (admin only)
func (s *UserService) ListUsers(ctx context.Context, page, limit int) (*UserListResponse, *ServiceError) {
	users, total, err := s.users.FindAll(ctx, page, limit)
	if err != nil {
		logger.Error(ctx, "Failed to fetch users", err)
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch users"}
	}

	return &UserListResponse{
		Users: users,
		Meta:  buildMeta(page, limit, total),
	}, nil
}

// UpdateUser updates a user's name, role or avatar (admin only)
func (s *UserService) UpdateUser(ctx context.Context, id uuid.UUID, req *UpdateUserRequest) (*models.User, *ServiceError) {
	if req.Role != "" && req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Invalid role"}
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		logger.Error(ctx, "Failed to fetch user", err, zap.String("user_id", id.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch user"}
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Role != "" {
		user.Role = req.Role
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if err := s.users.Update(ctx, user); err != nil {
		logger.Error(ctx, "Failed to update user", err, zap.String("user_id", id.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update user"}
	}

	return user, nil
}

// DeleteUser removes a user account (admin only)
func (s *UserService) DeleteUser(ctx context.Context, id uuid.UUID) *ServiceError {
	if err := s.users.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		logger.Error(ctx, "Failed to delete user", err, zap.String("user_id", id.String()))
		return &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to delete user"}
	}
	return nil
}

// UpdateProfile lets a user change their own name, avatar and password.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*models.User, *ServiceError) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ServiceError{StatusCode: http.StatusNotFound, Message: "User not found"}
		}
		logger.Error(ctx, "Failed to fetch user", err, zap.String("user_id", userID.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to fetch user"}
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != nil {
		user.Avatar = *req.Avatar
	}

	if req.Password != "" {
		if len(req.Password) < minPasswordLength {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Password must be at least 8 characters long"}
		}
		if req.Password != req.ConfirmPassword {
			return nil, &ServiceError{StatusCode: http.StatusBadRequest, Message: "Passwords do not match"}
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error(ctx, "Failed to hash password", err)
			return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update profile"}
		}
		user.Password = string(hashed)
	}

	if err := s.users.Update(ctx, user); err != nil {
		logger.Error(ctx, "Failed to update profile", err, zap.String("user_id", userID.String()))
		return nil, &ServiceError{StatusCode: http.StatusInternalServerError, Message: "Failed to update profile"}
	}

	return user, nil
}
