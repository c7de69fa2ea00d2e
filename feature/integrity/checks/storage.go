package checks

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"catalog-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the thumbnail bucket.
type StorageReport struct {
	Bucket          string   `json:"bucket"`
	BucketExists    bool     `json:"bucket_exists"`
	MissingPrefixes []string `json:"missing_prefixes"`
}

// CheckStorage reports whether bucket exists and which prefixes lack their marker object.
func CheckStorage(ctx context.Context, client storage.Client, bucket string, prefixes []string) (*StorageReport, error) {
	report := &StorageReport{Bucket: bucket, MissingPrefixes: []string{}}

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report.BucketExists = exists
	if !exists {
		report.MissingPrefixes = append(report.MissingPrefixes, prefixes...)
		return report, nil
	}

	for _, prefix := range prefixes {
		_, err := client.StatObject(ctx, bucket, marker(prefix), minio.StatObjectOptions{})
		if err == nil {
			continue
		}
		if minio.ToErrorResponse(err).Code != "NoSuchKey" {
			return nil, fmt.Errorf("failed to check prefix %s: %w", prefix, err)
		}
		report.MissingPrefixes = append(report.MissingPrefixes, prefix)
	}
	return report, nil
}

// FixStorage creates the bucket if needed and the missing prefix markers.
func FixStorage(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger, missing []string) error {
	if err := storage.EnsureBucket(ctx, client, bucket, region); err != nil {
		return err
	}
	for _, prefix := range missing {
		_, err := client.PutObject(ctx, bucket, marker(prefix), bytes.NewReader([]byte{}), 0, minio.PutObjectOptions{})
		if err != nil {
			logger.Error("Failed to create prefix", zap.String("prefix", prefix), zap.Error(err))
			return err
		}
		logger.Info("Created missing prefix", zap.String("prefix", prefix))
	}
	return nil
}

func marker(prefix string) string {
	return strings.TrimSuffix(prefix, "/") + "/"
}
