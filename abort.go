package r2ctl

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Aborter cancels in-progress multipart uploads.
type Aborter struct {
	client S3API
	opts   options
}

// NewAborter returns an Aborter backed by client.
func NewAborter(client S3API, opts ...Option) *Aborter {
	return &Aborter{client: client, opts: newOptions(opts)}
}

// AbortMultipartUpload discards the parts uploaded under uploadID.
func (a *Aborter) AbortMultipartUpload(ctx context.Context, bucket, key, uploadID string) error {
	const op = "abort_multipart_upload"
	logger := a.opts.logger

	switch {
	case bucket == "":
		return fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	case key == "":
		return fail(logger, op, "Object key not provided", ErrObjectKeyRequired)
	case uploadID == "":
		return fail(logger, op, "Upload ID not provided", ErrUploadIDRequired)
	}

	if _, err := a.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	}); err != nil {
		return fail(logger, op, "Failed to abort multipart upload", err,
			"bucket", bucket, "key", key, "upload_id", uploadID)
	}

	logger.Info("multipart upload aborted", "bucket", bucket, "key", key, "upload_id", uploadID)
	return nil
}
