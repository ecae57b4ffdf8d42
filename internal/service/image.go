package service

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxImageSize is the largest upload accepted
const MaxImageSize = 5 << 20

var imageExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/webp": "webp",
}

// ImageService stores recipe thumbnails and profile photos in S3
type ImageService struct {
	client        ObjectPutter
	bucket        string
	publicBaseURL string
	logger        *zap.Logger
}

// NewImageService creates a new ImageService instance. An empty
// publicBaseURL falls back to the bucket's virtual-hosted S3 URL.
func NewImageService(client ObjectPutter, bucket, publicBaseURL string, logger *zap.Logger) *ImageService {
	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &ImageService{
		client:        client,
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
		logger:        logger,
	}
}

// Upload stores an image under recipe-images/{uid}/ and returns its public
// URL. The content type is taken from the data, not from the client.
func (s *ImageService) Upload(ctx context.Context, userID string, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", NewValidationError("image is empty")
	}
	if len(data) > MaxImageSize {
		return "", NewValidationError("image must be 5MB or smaller")
	}

	detected := http.DetectContentType(data)
	ext, ok := imageExtensions[detected]
	if !ok {
		return "", NewValidationError("only JPEG, PNG and WebP images are supported")
	}
	if contentType != "" && contentType != detected {
		s.logger.Debug("image content type differs from declared",
			zap.String("declared", contentType), zap.String("detected", detected))
	}

	key := fmt.Sprintf("recipe-images/%s/%s.%s", userID, uuid.NewString(), ext)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(detected),
	})
	if err != nil {
		return "", NewBackendError("could not upload image", fmt.Errorf("failed to upload to S3: %w", err))
	}

	url := s.publicBaseURL + "/" + key
	s.logger.Info("image uploaded", zap.String("user_id", userID), zap.String("key", key))
	return url, nil
}
