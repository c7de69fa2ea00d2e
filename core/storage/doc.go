// Package storage wraps the MinIO client used to store catalog thumbnails.
//
// It targets any S3 compatible service, AWS S3 as well as self-hosted MinIO. The
// synchronization engine uploads thumbnails through it and the integrity feature
// uses it to verify the bucket layout.
//
// # Client Interface
//
// Client is the narrow set of calls those two consumers need. *minio.Client
// satisfies it directly, and core/storage/mocks provides a testify mock for unit
// tests.
//
// # Operations
//
//   - BucketExists: verifies access to the thumbnail bucket.
//   - MakeBucket: creates the bucket in the configured region.
//   - PutObject: uploads a thumbnail with its size and content type.
//   - ListObjects: lists the objects under a prefix.
//
// EnsureBucket combines the first two and is called once at startup.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
