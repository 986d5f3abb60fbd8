package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"scholar-warehouse/config"
	"scholar-warehouse/providers"
)

// SnapshotStore archives the raw work documents of an ETL run to an
// S3-compatible bucket, one gzip-compressed JSONL object per run.
type SnapshotStore struct {
	client *s3.Client
	bucket string
	logger *zap.Logger
}

// NewSnapshotStore builds an S3 client for the configured endpoint. Works
// with AWS itself and with S3-compatible services (MinIO, Scaleway, etc.).
func NewSnapshotStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*SnapshotStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.SnapshotS3Region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.SnapshotS3Key, cfg.SnapshotS3Secret, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.SnapshotS3URL != "" {
			o.BaseEndpoint = aws.String(cfg.SnapshotS3URL)
			o.UsePathStyle = true
		}
	})

	return &SnapshotStore{
		client: client,
		bucket: cfg.SnapshotS3Bucket,
		logger: logger,
	}, nil
}

// UploadWorks writes all documents as gzip JSONL under snapshots/ and
// returns the object key.
func (s *SnapshotStore) UploadWorks(ctx context.Context, works []*providers.Work) (string, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	enc := json.NewEncoder(gz)
	for _, w := range works {
		if err := enc.Encode(w); err != nil {
			return "", fmt.Errorf("encode work %s: %w", w.ID, err)
		}
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("close gzip writer: %w", err)
	}

	key := fmt.Sprintf("snapshots/works-%s.jsonl.gz", time.Now().UTC().Format("20060102-150405"))
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		Body:            bytes.NewReader(buf.Bytes()),
		ContentType:     aws.String("application/jsonl"),
		ContentEncoding: aws.String("gzip"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	s.logger.Info("Snapshot uploaded",
		zap.String("bucket", s.bucket),
		zap.String("key", key),
		zap.Int("works", len(works)),
		zap.Int("bytes", buf.Len()))
	return key, nil
}
