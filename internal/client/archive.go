package client

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dotworkers/api/internal/config"
)

// MessageArchiver stores raw source messages as artifacts.
type MessageArchiver interface {
	ArchiveMessage(ctx context.Context, key, content string) (string, error)
	IsConfigured() bool
}

// R2Archive implements MessageArchiver on Cloudflare R2.
type R2Archive struct {
	s3Client   *s3.Client
	bucketName string
	publicURL  string
}

// NewR2Archive creates a new R2-backed message archive
func NewR2Archive(cfg *config.ArchiveConfig) (*R2Archive, error) {
	if cfg.AccountID == "" || cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, fmt.Errorf("archive configuration incomplete")
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)

	r2Resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL: endpoint,
		}, nil
	})

	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithEndpointResolverWithOptions(r2Resolver),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		)),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &R2Archive{
		s3Client:   s3.NewFromConfig(awsCfg),
		bucketName: cfg.BucketName,
		publicURL:  cfg.PublicURL,
	}, nil
}

// ArchiveMessage uploads a rendered .eml artifact and returns its URL.
func (a *R2Archive) ArchiveMessage(ctx context.Context, key, content string) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      aws.String(a.bucketName),
		Key:         aws.String(key),
		Body:        strings.NewReader(content),
		ContentType: aws.String("message/rfc822"),
	}

	if _, err := a.s3Client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("failed to archive message: %w", err)
	}

	if a.publicURL != "" {
		return fmt.Sprintf("%s/%s", a.publicURL, key), nil
	}
	return fmt.Sprintf("https://%s.r2.cloudflarestorage.com/%s", a.bucketName, key), nil
}

// IsConfigured returns true if the client has valid configuration
func (a *R2Archive) IsConfigured() bool {
	return a.s3Client != nil && a.bucketName != ""
}
