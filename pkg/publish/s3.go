package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/df07/go-tinyray/pkg/config"
	"github.com/df07/go-tinyray/pkg/core"
)

// UploadTimeout bounds a single upload
const UploadTimeout = 30 * time.Second

// ErrNotConfigured is returned when publishing is requested without a bucket
var ErrNotConfigured = errors.New("S3 publishing is not configured")

// Uploader publishes rendered images to an S3-compatible bucket
type Uploader struct {
	client    s3iface.S3API
	bucket    string
	prefix    string
	publicURL string
	endpoint  string
	timeout   time.Duration
	logger    core.Logger
}

// NewUploader creates an uploader backed by a real S3 session
func NewUploader(cfg config.S3Config, logger core.Logger) (*Uploader, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	s3Config := &aws.Config{
		Region: aws.String(cfg.Region),
	}
	if cfg.AccessKey != "" {
		s3Config.Credentials = credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, "")
	}
	if cfg.Endpoint != "" {
		// Non-AWS endpoints generally need path-style addressing
		s3Config.Endpoint = aws.String(cfg.Endpoint)
		s3Config.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(s3Config)
	if err != nil {
		return nil, fmt.Errorf("failed to create S3 session: %w", err)
	}

	return NewUploaderWithClient(s3.New(sess), cfg, logger), nil
}

// NewUploaderWithClient creates an uploader around an existing client
func NewUploaderWithClient(client s3iface.S3API, cfg config.S3Config, logger core.Logger) *Uploader {
	return &Uploader{
		client:    client,
		bucket:    cfg.Bucket,
		prefix:    strings.Trim(cfg.Prefix, "/"),
		publicURL: cfg.PublicURL,
		endpoint:  strings.TrimSuffix(cfg.Endpoint, "/"),
		timeout:   UploadTimeout,
		logger:    logger,
	}
}

// Key returns the object key used for name, including the configured prefix
func (u *Uploader) Key(name string) string {
	name = strings.TrimLeft(name, "/")
	if u.prefix == "" {
		return name
	}
	return path.Join(u.prefix, name)
}

// Upload stores data under name and returns the location of the object
func (u *Uploader) Upload(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, u.timeout)
	defer cancel()

	key := u.Key(name)
	size := int64(len(data))
	_, err := u.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}

	if u.logger != nil {
		u.logger.Printf("Uploaded %s to S3 (%d bytes)\n", key, size)
	}
	return u.location(key), nil
}

// location builds the URL reported for an uploaded key
func (u *Uploader) location(key string) string {
	switch {
	case u.publicURL != "":
		return u.publicURL + "/" + key
	case u.endpoint != "":
		return fmt.Sprintf("%s/%s/%s", u.endpoint, u.bucket, key)
	default:
		return fmt.Sprintf("s3://%s/%s", u.bucket, key)
	}
}
