package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type S3Config struct {
	Bucket  string
	Profile string
	Region  string
	// PublicBaseURL fronts the bucket, a CDN for instance. Defaults to the
	// virtual hosted bucket url.
	PublicBaseURL string
}

type S3 struct {
	client   *s3.Client
	uploader *manager.Uploader

	bucket        string
	publicBaseURL string
}

func NewS3(ctx context.Context, cfg S3Config) (*S3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("no s3 bucket provided")
	}

	var opts []func(*config.LoadOptions) error
	if cfg.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(cfg.Profile))
	}
	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}

	// Load the Shared AWS Configuration (~/.aws/config)
	ctxCfg, cancelCfg := context.WithTimeout(ctx, 3*time.Second)
	awsCfg, err := config.LoadDefaultConfig(ctxCfg, opts...)
	cancelCfg()
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}

	return NewS3FromClient(s3.NewFromConfig(awsCfg), cfg), nil
}

func NewS3FromClient(client *s3.Client, cfg S3Config) *S3 {
	base := cfg.PublicBaseURL
	if base == "" {
		region := client.Options().Region
		if region == "" {
			region = "us-east-1"
		}
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	}
	return &S3{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.Bucket,
		publicBaseURL: base,
	}
}

func (s *S3) URL(key string) string {
	return joinURL(s.publicBaseURL, key)
}

func (s *S3) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	key, err := cleanKey(key)
	if err != nil {
		return "", err
	}

	if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	}); err != nil {
		return "", fmt.Errorf("unable to upload object to s3, %s, %w", key, err)
	}
	slog.Debug("uploaded object", "bucket", s.bucket, "key", key, "bytes", len(body))
	return s.URL(key), nil
}

func (s *S3) Copy(ctx context.Context, srcKey, dstKey string) (string, error) {
	srcKey, err := cleanKey(srcKey)
	if err != nil {
		return "", err
	}
	dstKey, err = cleanKey(dstKey)
	if err != nil {
		return "", err
	}

	if _, err := s.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(s.bucket),
		CopySource: aws.String(copySource(s.bucket, srcKey)),
		Key:        aws.String(dstKey),
	}); err != nil {
		return "", fmt.Errorf("unable to copy object in s3, %s to %s, %w", srcKey, dstKey, err)
	}
	return s.URL(dstKey), nil
}

func copySource(bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return bucket + "/" + strings.Join(segments, "/")
}
