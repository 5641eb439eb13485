package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	apperrors "storefront/common/errors"
	"storefront/middleware"
	"storefront/services"
)

type UserController struct {
	userService *services.UserService
}

func NewUserController(userService *services.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers returns paginated users (admin only)
func (uc *UserController) ListUsers(c *gin.Context) {
	page, limit := parsePaginationParams(c)

	result, svcErr := uc.userService.ListUsers(c, page, limit)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateUser updates a user's name, role or avatar (admin only)
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid user ID format", err))
		return
	}

	var req services.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	user, svcErr := uc.userService.UpdateUser(c, id, &req)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DeleteUser removes a user account (admin only)
func (uc *UserController) DeleteUser(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid user ID format", err))
		return
	}

	if svcErr := uc.userService.DeleteUser(c, id); svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}

// UpdateProfile lets the authenticated user change their own profile
func (uc *UserController) UpdateProfile(c *gin.Context) {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		fail(c, apperrors.ErrUnauthorized)
		return
	}

	var req services.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	user, svcErr := uc.userService.UpdateProfile(c, userID, &req)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": user})
}
