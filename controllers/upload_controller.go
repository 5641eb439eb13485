package controllers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "storefront/common/errors"
	"storefront/storage"
)

const presignTimeout = 5 * time.Second

type UploadController struct {
	uploader *storage.Uploader // nil when S3 is not configured
}

func NewUploadController(uploader *storage.Uploader) *UploadController {
	return &UploadController{uploader: uploader}
}

// PresignUpload returns a presigned PUT URL for a product image upload
// plus the public URL the image will be served from (admin only).
func (uc *UploadController) PresignUpload(c *gin.Context) {
	if uc.uploader == nil {
		fail(c, apperrors.New(http.StatusServiceUnavailable, "Image uploads are not configured", nil))
		return
	}

	filename := strings.TrimSpace(c.Query("filename"))
	if filename == "" {
		fail(c, apperrors.New(http.StatusBadRequest, "filename query parameter is required", nil))
		return
	}

	contentType := strings.TrimSpace(c.Query("content_type"))
	if !storage.AllowedImageContentType(contentType) {
		fail(c, apperrors.New(http.StatusBadRequest, "Invalid content type; only image uploads are allowed", nil))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), presignTimeout)
	defer cancel()

	uploadURL, publicURL, err := uc.uploader.PresignUpload(ctx, filename, contentType)
	if err != nil {
		fail(c, apperrors.New(http.StatusInternalServerError, "Failed to generate upload URL", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"upload_url": uploadURL,
		"public_url": publicURL,
	})
}
