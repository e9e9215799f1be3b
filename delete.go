package r2ctl

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Deleter removes buckets and objects.
type Deleter struct {
	client S3API
	opts   options
}

// NewDeleter returns a Deleter backed by client.
func NewDeleter(client S3API, opts ...Option) *Deleter {
	return &Deleter{client: client, opts: newOptions(opts)}
}

// DeleteBucket removes an empty bucket.
func (d *Deleter) DeleteBucket(ctx context.Context, bucket string) error {
	const op = "delete_bucket"
	logger := d.opts.logger

	if bucket == "" {
		return fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	}

	if _, err := d.client.DeleteBucket(ctx, &s3.DeleteBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fail(logger, op, "Failed to delete bucket", err, "bucket", bucket)
	}

	logger.Info("bucket deleted", "bucket", bucket)
	return nil
}

// DeleteObject removes key from bucket.
func (d *Deleter) DeleteObject(ctx context.Context, bucket, key string) error {
	const op = "delete_object"
	logger := d.opts.logger

	if bucket == "" {
		return fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	}
	if key == "" {
		return fail(logger, op, "Object key not provided", ErrObjectKeyRequired)
	}

	if _, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fail(logger, op, "Failed to delete object", err, "bucket", bucket, "key", key)
	}

	logger.Info("object deleted", "bucket", bucket, "key", key)
	return nil
}
