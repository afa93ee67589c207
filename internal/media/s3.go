package media

import (
	"context"
	"errors"
	"fmt"
	"io"

	appconfig "streamvault/internal/platform/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Uploader stores media files and hands back a publicly reachable URL.
type Uploader interface {
	Upload(ctx context.Context, objectKey string, content io.Reader, contentType string) (string, error)
	Exists(ctx context.Context, objectKey string) (bool, error)
}

// Client talks to an S3-compatible object store (MinIO in development).
type Client struct {
	s3Client  *s3.Client
	uploader  *manager.Uploader
	bucket    string
	publicURL string
}

func NewClient(ctx context.Context, cfg *appconfig.Config) (*Client, error) {
	if cfg.MediaAccessKey == "" || cfg.MediaSecretKey == "" || cfg.MediaBucket == "" || cfg.MediaEndpoint == "" {
		return nil, fmt.Errorf("media store credentials (MEDIA_ACCESS_KEY_ID, MEDIA_SECRET_ACCESS_KEY, MEDIA_BUCKET_NAME, MEDIA_ENDPOINT) must be set")
	}

	scheme := "http"
	if cfg.MediaUseSSL {
		scheme = "https"
	}
	endpointURL := fmt.Sprintf("%s://%s", scheme, cfg.MediaEndpoint)

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.MediaRegion),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.MediaAccessKey, cfg.MediaSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for media store: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpointURL)
		o.UsePathStyle = true // MinIO does not serve virtual-hosted buckets
	})

	return &Client{
		s3Client:  s3Client,
		uploader:  manager.NewUploader(s3Client),
		bucket:    cfg.MediaBucket,
		publicURL: cfg.MediaPublicURL,
	}, nil
}

// Upload writes the object and returns its hosted URL.
func (c *Client) Upload(ctx context.Context, objectKey string, content io.Reader, contentType string) (string, error) {
	_, err := c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(objectKey),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to bucket %s: %w", objectKey, c.bucket, err)
	}
	return fmt.Sprintf("%s/%s/%s", c.publicURL, c.bucket, objectKey), nil
}

// Exists reports whether the object is present in the bucket.
func (c *Client) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := c.s3Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		var notFound *types.NotFound
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to head %s in bucket %s: %w", objectKey, c.bucket, err)
	}
	return true, nil
}
