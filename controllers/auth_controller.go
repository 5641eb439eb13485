package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/services"
)

type AuthController struct {
	authService *services.AuthService
}

func NewAuthController(authService *services.AuthService) *AuthController {
	return &AuthController{authService: authService}
}

// Register creates a new customer account
func (ac *AuthController) Register(c *gin.Context) {
	var req services.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	user, svcErr := ac.authService.Register(c, &req)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// Login verifies credentials and returns a session token
func (ac *AuthController) Login(c *gin.Context) {
	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		failBinding(c, err)
		return
	}

	resp, svcErr := ac.authService.Login(c, &req)
	if svcErr != nil {
		failService(c, svcErr)
		return
	}

	c.JSON(http.StatusOK, resp)
}
