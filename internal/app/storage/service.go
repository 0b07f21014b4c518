/*
Package storage is the S3-compatible bin backend: one object per bin under KeyPrefix.
*/
package storage

import (
	"context"
	"path"
)

// KeyPrefix is the object key prefix of every bin.
const KeyPrefix = "bins"

// ServiceConfig holds the configuration required to connect to the storage service.
type ServiceConfig struct {
	S3BucketName      string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

// ObjectKey returns the object key holding bin id.
func ObjectKey(id string) string {
	return path.Join(KeyPrefix, id+".json")
}

// NewBinRepository connects to the bucket described by cfg.
// Currently, only S3 compatible implementations are supported.
func NewBinRepository(ctx context.Context, cfg ServiceConfig) (*BinRepository, error) {
	api, err := newS3API(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &BinRepository{
		bucket:   cfg.S3BucketName,
		objects:  api,
		uploader: newUploader(api),
	}, nil
}
