package media

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
)

// S3Client is the subset of the S3 API the uploader needs. Narrowed to
// an interface so tests can substitute a mock.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type Config struct {
	Bucket         string        `env:"MEDIA_S3_BUCKET,required"`
	Region         string        `env:"MEDIA_S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string        `env:"MEDIA_S3_ACCESS_KEY_ID"`
	SecretKey      string        `env:"MEDIA_S3_SECRET_KEY"`
	Endpoint       string        `env:"MEDIA_S3_ENDPOINT"`         // for S3-compatible services
	BaseURL        string        `env:"MEDIA_S3_BASE_URL"`         // public URL base for serving files
	ForcePathStyle bool          `env:"MEDIA_S3_FORCE_PATH_STYLE"` // for MinIO and friends
	UploadTimeout  time.Duration `env:"MEDIA_UPLOAD_TIMEOUT" envDefault:"30s"`
}

// S3Uploader implements Uploader on top of an S3-compatible bucket.
// It is safe for concurrent use.
type S3Uploader struct {
	client        S3Client
	bucket        string
	baseURL       string
	uploadTimeout time.Duration
}

// NewS3Uploader builds the AWS client from cfg. Static credentials are
// used when provided; otherwise the default chain applies.
func NewS3Uploader(ctx context.Context, cfg Config) (*S3Uploader, error) {
	awsOptions := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
		awsOptions = append(awsOptions,
			awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			),
		)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsOptions...)
	if err != nil {
		return nil, fmt.Errorf("media: load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.ForcePathStyle
	})

	return NewS3UploaderWithClient(client, cfg), nil
}

// NewS3UploaderWithClient wires a pre-built client, used by tests.
func NewS3UploaderWithClient(client S3Client, cfg Config) *S3Uploader {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		if cfg.Endpoint != "" {
			baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(cfg.Endpoint, "/"), cfg.Bucket)
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, cfg.Region)
		}
	}
	baseURL = strings.TrimSuffix(baseURL, "/") + "/"

	return &S3Uploader{
		client:        client,
		bucket:        cfg.Bucket,
		baseURL:       baseURL,
		uploadTimeout: cfg.UploadTimeout,
	}
}

// UploadImage validates the file is an image, stores it under a random
// key in dir and returns the public URL.
func (u *S3Uploader) UploadImage(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	mimeType, err := DetectImageMIME(fh)
	if err != nil {
		return "", err
	}

	if u.uploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, u.uploadTimeout)
		defer cancel()
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer func() { _ = src.Close() }()

	key := strings.Trim(dir, "/") + "/" + uuid.NewString() + strings.ToLower(extOf(fh))
	_, err = u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          src,
		ContentType:   aws.String(mimeType),
		ContentLength: aws.Int64(fh.Size),
	})
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: %s", ErrUploadFailed, apiErr.ErrorCode())
		}
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	return u.baseURL + key, nil
}

func extOf(fh *multipart.FileHeader) string {
	if idx := strings.LastIndex(fh.Filename, "."); idx != -1 {
		return fh.Filename[idx:]
	}
	return ""
}
