package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "storefront/common/errors"
	"storefront/services"
)

// fail attaches an application error to the context; the error middleware
// renders it as the response body.
func fail(c *gin.Context, appErr *apperrors.Error) {
	_ = c.Error(appErr)
	c.Abort()
}

// failService maps a service error onto the application error type.
func failService(c *gin.Context, svcErr *services.ServiceError) {
	fail(c, apperrors.New(svcErr.StatusCode, svcErr.Message, nil))
}

// failBinding reports a malformed request body; the underlying binding
// error is carried for logging, not for the client.
func failBinding(c *gin.Context, err error) {
	fail(c, apperrors.New(http.StatusBadRequest, "Invalid request", err))
}
