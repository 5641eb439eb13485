package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const presignExpiry = 15 * time.Minute

var allowedImageContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// AllowedImageContentType reports whether an upload content type is an
// accepted image format.
func AllowedImageContentType(contentType string) bool {
	return allowedImageContentTypes[strings.ToLower(contentType)]
}

// Uploader generates presigned PUT URLs so product images are uploaded
// directly to S3 and referenced by their public URL.
type Uploader struct {
	presigner     *s3.PresignClient
	bucket        string
	publicBaseURL string
}

// NewUploader creates an Uploader from the ambient AWS configuration.
func NewUploader(ctx context.Context, bucket, publicBaseURL string) (*Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket not set")
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return &Uploader{
		presigner:     s3.NewPresignClient(client),
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// PresignUpload returns a presigned PUT URL for the object plus the public
// URL the uploaded image will be served from.
func (u *Uploader) PresignUpload(ctx context.Context, filename, contentType string) (uploadURL, publicURL string, err error) {
	key := fmt.Sprintf("products/%s%s", uuid.New(), sanitizeExt(filename))

	input := &s3.PutObjectInput{
		Bucket:      &u.bucket,
		Key:         &key,
		ContentType: &contentType,
	}

	presigned, err := u.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = presignExpiry
	})
	if err != nil {
		return "", "", fmt.Errorf("failed to presign put object: %w", err)
	}

	return presigned.URL, fmt.Sprintf("%s/%s", u.publicBaseURL, key), nil
}

func sanitizeExt(filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp", ".gif":
		return ext
	}
	return ""
}
