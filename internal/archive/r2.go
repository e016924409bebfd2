package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pressops/wpgate/internal/models"
	"github.com/pressops/wpgate/internal/utils"
)

// R2Config carries the settings for a Cloudflare R2 bucket.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// Endpoint overrides the account-derived endpoint when set.
	Endpoint string
}

// R2Store persists snapshots to a Cloudflare R2 bucket through the
// S3-compatible API.
type R2Store struct {
	client *s3.Client
	bucket string
}

func NewR2Store(ctx context.Context, cfg R2Config) (*R2Store, error) {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.AccountID)
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load R2 credentials: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return &R2Store{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// Save uploads posts as an indented JSON object and returns its key.
// The full content hash rides along as object metadata.
func (s *R2Store) Save(ctx context.Context, label string, posts []models.Post) (string, error) {
	data, err := json.MarshalIndent(posts, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	key := path.Join("snapshots", time.Now().UTC().Format("2006/01/02"),
		fmt.Sprintf("%s_%s.json", label, utils.ShortHash(string(data), 8)))

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"content-sha256": utils.Hash(string(data)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload snapshot %s: %w", key, err)
	}

	return key, nil
}
