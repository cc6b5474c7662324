// backend/shared/go-storage/s3.go
package storage

import (
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
)

// S3Config describes an S3-compatible endpoint (AWS, MinIO, or the storage S3 gateway).
type S3Config struct {
	Region         string
	Endpoint       string
	AccessKey      string
	SecretKey      string
	ForcePathStyle bool
	// KeyPrefix is prepended to every object path, e.g. when buckets are mapped into one S3 bucket.
	KeyPrefix string
}

// S3Signer presigns GetObject requests. Presigning is local; no request is sent.
type S3Signer struct {
	client    *s3.S3
	keyPrefix string
}

func NewS3Signer(cfg S3Config) (*S3Signer, error) {
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("s3 signer requires an access key and a secret key")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg := aws.Config{
		Region:           aws.String(region),
		Credentials:      credentials.NewStaticCredentials(cfg.AccessKey, cfg.SecretKey, ""),
		S3ForcePathStyle: aws.Bool(cfg.ForcePathStyle),
	}
	if cfg.Endpoint != "" {
		awsCfg.Endpoint = aws.String(cfg.Endpoint)
	}

	sess, err := session.NewSession(&awsCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Signer{
		client:    s3.New(sess),
		keyPrefix: strings.Trim(cfg.KeyPrefix, "/"),
	}, nil
}

func (s *S3Signer) SignURL(ctx context.Context, obj ObjectRef, expiresIn time.Duration) (string, error) {
	if obj.Bucket == "" || obj.Path == "" {
		return "", errors.New("s3 presign: bucket and path are required")
	}
	if expiresIn <= 0 {
		return "", fmt.Errorf("s3 presign: expiry must be positive, got %s", expiresIn)
	}

	key := obj.Path
	if s.keyPrefix != "" {
		key = path.Join(s.keyPrefix, obj.Path)
	}

	req, _ := s.client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(obj.Bucket),
		Key:    aws.String(key),
	})
	req.SetContext(ctx)

	signed, err := req.Presign(expiresIn)
	if err != nil {
		return "", fmt.Errorf("s3 presign %s/%s: %w", obj.Bucket, key, err)
	}
	return signed, nil
}
