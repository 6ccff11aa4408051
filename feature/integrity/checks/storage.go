package checks

import (
	"context"
	"fmt"

	"collection-pricer/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// StorageReport describes the bucket of the object durable tier.
type StorageReport struct {
	Bucket string `json:"bucket"`
	Exists bool   `json:"exists"`
	Status string `json:"status"` // "ok", "missing", "fixed"
}

// CheckBucket reports whether the durable bucket exists.
func CheckBucket(ctx context.Context, client storage.Client, bucket string) (*StorageReport, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	report := &StorageReport{Bucket: bucket, Exists: exists, Status: "ok"}
	if !exists {
		report.Status = "missing"
	}
	return report, nil
}

// FixBucket creates the durable bucket.
func FixBucket(ctx context.Context, client storage.Client, bucket, region string, logger *zap.Logger) error {
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
		logger.Error("Failed to create bucket", zap.String("bucket", bucket), zap.Error(err))
		return err
	}
	logger.Info("Created missing bucket", zap.String("bucket", bucket))
	return nil
}
