// Package storage publishes rendered variants to S3-compatible object
// storage and returns publicly reachable URLs.
package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// PublisherConfig contains the settings for creating a Publisher. Empty
// values fall back to the standard AWS config/credential chain.
type PublisherConfig struct {
	Bucket string
	// Region to use for requests, e.g. "us-east-1". If empty, AWS defaults apply.
	Region string
	// Prefix is prepended to every destination key.
	Prefix string
	// PublicBaseURL overrides the generated public URL base, for
	// S3-compatible providers.
	PublicBaseURL string
	// UsePathStyle forces path-style addressing (useful for some S3-compatible providers).
	UsePathStyle bool
}

// Publisher wraps the AWS SDK for Go v2 S3 client with the narrow publish
// interface the pipeline needs.
type Publisher struct {
	client *s3.Client
	cfg    PublisherConfig
	region string
}

// NewPublisher creates a Publisher using the default AWS configuration
// chain with optional overrides from cfg.
func NewPublisher(ctx context.Context, cfg PublisherConfig) (*Publisher, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})
	return &Publisher{client: client, cfg: cfg, region: awsCfg.Region}, nil
}

// PublishFile uploads a local file under the configured prefix and returns
// its public URL.
func (p *Publisher) PublishFile(ctx context.Context, localPath, key, contentType string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", localPath, err)
	}
	defer f.Close()

	fullKey := key
	if p.cfg.Prefix != "" {
		fullKey = strings.TrimSuffix(p.cfg.Prefix, "/") + "/" + key
	}

	in := &s3.PutObjectInput{
		Bucket: aws.String(p.cfg.Bucket),
		Key:    aws.String(fullKey),
		Body:   f,
	}
	if contentType != "" {
		in.ContentType = aws.String(contentType)
	}

	if _, err := p.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", fullKey, err)
	}
	return p.publicURL(fullKey), nil
}

func (p *Publisher) publicURL(key string) string {
	if p.cfg.PublicBaseURL != "" {
		return strings.TrimSuffix(p.cfg.PublicBaseURL, "/") + "/" + key
	}
	if p.region != "" {
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.region, key)
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", p.cfg.Bucket, key)
}
