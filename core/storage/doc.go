// Package storage wraps the MinIO client behind a narrow interface.
//
// It backs the "s3" remote backend, which mirrors agents, tools and tests as JSON
// objects in an S3-compatible bucket (offline mirrors, staging snapshots). The Client
// interface is mocked in core/storage/mocks for unit tests.
//
// # Usage
//
//	client, err := storage.NewClient(cfg.Storage)
//	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket, cfg.Storage.Region); err != nil {
//	    return err
//	}
package storage
