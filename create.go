package r2ctl

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Creator creates buckets.
type Creator struct {
	client S3API
	opts   options
}

// NewCreator returns a Creator backed by client.
func NewCreator(client S3API, opts ...Option) *Creator {
	return &Creator{client: client, opts: newOptions(opts)}
}

// CreateBucket creates bucket. RegionAuto and "" send no location
// constraint and let the service place the bucket.
func (c *Creator) CreateBucket(ctx context.Context, bucket string, region Region) error {
	const op = "create_bucket"
	logger := c.opts.logger

	if bucket == "" {
		return fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(bucket)}
	if r := region.Resolve(); r != "" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(r),
		}
	}

	if _, err := c.client.CreateBucket(ctx, input); err != nil {
		return fail(logger, op, "Failed to create bucket", err, "bucket", bucket, "region", string(region))
	}

	logger.Info("bucket created", "bucket", bucket, "region", string(region))
	return nil
}
