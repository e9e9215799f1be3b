package r2ctl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader sends local files to a bucket.
type Uploader struct {
	client S3API
	opts   options
}

// NewUploader returns an Uploader that sends through client.
func NewUploader(client S3API, opts ...Option) *Uploader {
	return &Uploader{client: client, opts: newOptions(opts)}
}

// Upload streams the file at opts.LocalPath to opts.Bucket. The file is
// checked before any observer is built or request is sent.
func (u *Uploader) Upload(ctx context.Context, opts UploadOptions) (*UploadResult, error) {
	const op = "upload"
	logger := u.opts.logger

	if opts.Bucket == "" {
		return nil, fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	}

	info, err := os.Stat(opts.LocalPath)
	if err != nil {
		return nil, fail(logger, op, "File not found", err)
	}
	if !info.Mode().IsRegular() {
		return nil, fail(logger, op, "File not found", ErrNotAFile)
	}

	key := opts.Key
	if key == "" {
		key = ObjectKeyFromPath(opts.LocalPath)
		logger.Warn("object key not provided, using file name", "key", key)
	}

	contentType := opts.ContentType
	if contentType == "" {
		var identified bool
		contentType, identified = DetectContentType(opts.LocalPath)
		if !identified {
			logger.Warn("could not determine content type, using default",
				"file", opts.LocalPath,
				"content_type", contentType,
			)
		}
	}

	logger = logger.With("bucket", opts.Bucket, "key", key)

	f, err := os.Open(opts.LocalPath)
	if err != nil {
		return nil, fail(logger, op, "File not found", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.Warn("failed to close file", "file", opts.LocalPath, "err", closeErr)
		}
	}()

	observer, err := u.opts.observerFactory(opts.LocalPath, Upload, UnknownSize)
	if err != nil {
		return nil, fail(logger, op, "Failed to upload file", err)
	}
	defer closeObserver(logger, observer)

	start := time.Now()
	out, err := manager.NewUploader(u.client).Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(opts.Bucket),
		Key:         aws.String(key),
		Body:        &progressReader{r: f, observer: observer},
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fail(logger, op, "Failed to upload file", uploadCause(err))
	}

	result := &UploadResult{
		LocalPath:   opts.LocalPath,
		Bucket:      opts.Bucket,
		Key:         key,
		ContentType: contentType,
		ETag:        strings.Trim(aws.ToString(out.ETag), `"`),
		Size:        info.Size(),
		Duration:    time.Since(start),
	}
	logger.Info("upload complete",
		"size_bytes", result.Size,
		"content_type", contentType,
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// uploadCause names the failed multipart upload in the message. The
// manager aborts it before returning, so no parts are left behind.
func uploadCause(err error) error {
	var mErr manager.MultiUploadFailure
	if errors.As(err, &mErr) {
		return fmt.Errorf("multipart upload %s: %w", mErr.UploadID(), err)
	}
	return err
}
