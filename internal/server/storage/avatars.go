// Package storage keeps user avatars in an S3-compatible bucket (AWS or
// MinIO). Uploaded images are scaled down and re-encoded as JPEG first.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/disintegration/imaging"
	"github.com/dmitrijs2005/phonebook/internal/common"
	sc "github.com/dmitrijs2005/phonebook/internal/server/config"
	"github.com/google/uuid"
)

// AvatarWidth is the width, in pixels, of stored avatars.
const AvatarWidth = 256

type uploader interface {
	Upload(ctx context.Context, in *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newUploader = func(c *s3.Client) uploader {
		return manager.NewUploader(c)
	}
)

// S3AvatarStorage implements services.AvatarStore.
type S3AvatarStorage struct {
	uploader  uploader
	bucket    string
	region    string
	endpoint  string
	publicURL string
}

func NewS3AvatarStorage(ctx context.Context, cfg *sc.Config) (*S3AvatarStorage, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("error loading aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			// MinIO serves buckets by path, not by subdomain
			o.UsePathStyle = true
		}
	})

	return &S3AvatarStorage{
		uploader:  newUploader(client),
		bucket:    cfg.S3Bucket,
		region:    cfg.S3Region,
		endpoint:  cfg.S3BaseEndpoint,
		publicURL: cfg.S3PublicBaseURL,
	}, nil
}

// Upload decodes the image in r, scales it down to at most AvatarWidth keeping
// the aspect ratio, stores it as JPEG under a fresh key and returns its public
// URL. Narrower images keep their size.
func (s *S3AvatarStorage) Upload(ctx context.Context, userID int64, r io.Reader) (string, error) {
	data, err := normalize(r)
	if err != nil {
		return "", err
	}

	key := avatarKey(userID)
	_, err = s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/jpeg"),
	})
	if err != nil {
		return "", fmt.Errorf("error uploading avatar: %w", err)
	}

	return s.objectURL(key), nil
}

func normalize(r io.Reader) ([]byte, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, common.ValidationError("file is not a valid image")
	}

	if img.Bounds().Dx() > AvatarWidth {
		img = imaging.Resize(img, AvatarWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("error encoding avatar: %w", err)
	}
	return buf.Bytes(), nil
}

func avatarKey(userID int64) string {
	return fmt.Sprintf("avatars/%d/%s.jpg", userID, uuid.New())
}

func (s *S3AvatarStorage) objectURL(key string) string {
	switch {
	case s.publicURL != "":
		return strings.TrimRight(s.publicURL, "/") + "/" + key
	case s.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", strings.TrimRight(s.endpoint, "/"), s.bucket, key)
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	}
}
