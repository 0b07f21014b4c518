package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"digame/internal/app/bin"
	"digame/internal/pkg/logx"
)

const jsonContentType = "application/json"

// ObjectAPI is the subset of *s3.Client used to read bins.
type ObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// Uploader is the subset of *manager.Uploader used to write bins.
type Uploader interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// BinRepository implements bin.Repository on an S3-compatible bucket.
type BinRepository struct {
	bucket   string
	objects  ObjectAPI
	uploader Uploader
}

// NewBinRepositoryWith builds a repository over already constructed clients.
func NewBinRepositoryWith(bucket string, objects ObjectAPI, uploader Uploader) *BinRepository {
	return &BinRepository{bucket: bucket, objects: objects, uploader: uploader}
}

// newS3API initializes the S3 client with a custom endpoint, supporting S3-compatible providers.
func newS3API(ctx context.Context, cfg ServiceConfig) (*s3.Client, error) {
	sdkCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKeyID,
			cfg.S3SecretAccessKey,
			"",
		)),
		config.WithRegion("auto"),
	)
	if err != nil {
		logx.Error(err, "Failed to load AWS SDK config")
		return nil, errors.New("failed to initialize S3 client configuration")
	}

	return s3.NewFromConfig(sdkCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.S3Endpoint)
		o.UsePathStyle = true
	}), nil
}

func newUploader(client *s3.Client) *manager.Uploader {
	return manager.NewUploader(client)
}

// Load implements bin.Repository.
func (r *BinRepository) Load(ctx context.Context, id string) ([]byte, error) {
	key := ObjectKey(id)

	out, err := r.objects.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &r.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return nil, bin.ErrNotFound
		}
		return nil, fmt.Errorf("get object %s: %w", key, err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("read object %s: %w", key, err)
	}
	return body, nil
}

// Save implements bin.Repository.
func (r *BinRepository) Save(ctx context.Context, id string, body []byte) error {
	key := ObjectKey(id)

	_, err := r.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      &r.bucket,
		Key:         &key,
		Body:        bytes.NewReader(body),
		ContentType: aws.String(jsonContentType),
	})
	if err != nil {
		return fmt.Errorf("upload object %s: %w", key, err)
	}
	return nil
}

// Exists reports whether bin id has an object, without downloading it.
func (r *BinRepository) Exists(ctx context.Context, id string) (bool, error) {
	key := ObjectKey(id)

	_, err := r.objects.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: &r.bucket,
		Key:    &key,
	})
	if err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head object %s: %w", key, err)
	}
	return true, nil
}

func isNotFound(err error) bool {
	var noKey *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &noKey) || errors.As(err, &nf)
}
