package r2ctl

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sagarc03/r2ctl/filesystem"
)

// Downloader fetches objects into local files.
type Downloader struct {
	client S3API
	opts   options
}

// NewDownloader returns a Downloader that fetches through client.
func NewDownloader(client S3API, opts ...Option) *Downloader {
	return &Downloader{client: client, opts: newOptions(opts)}
}

// Download probes the object size, then streams the object into
// opts.LocalPath. The file appears only once the transfer completed.
func (d *Downloader) Download(ctx context.Context, opts DownloadOptions) (*DownloadResult, error) {
	const op = "download"
	logger := d.opts.logger

	if opts.Bucket == "" {
		return nil, fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	}
	if opts.Key == "" {
		return nil, fail(logger, op, "Object key not provided", ErrObjectKeyRequired)
	}

	localPath := opts.LocalPath
	if localPath == "" || isDirPath(localPath) {
		name := LocalPathFromKey(opts.Key)
		if name == "" {
			return nil, fail(logger, op, "Object key not provided", ErrObjectKeyRequired)
		}
		if localPath == "" {
			logger.Warn("local path not provided, using object name", "path", name)
		}
		localPath = filepath.Join(localPath, name)
	}

	logger = logger.With("bucket", opts.Bucket, "key", opts.Key)

	head, err := d.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(opts.Bucket),
		Key:    aws.String(opts.Key),
	})
	if err != nil {
		return nil, fail(logger, op, "Could not get object metadata", err)
	}
	total := aws.ToInt64(head.ContentLength)
	etag := strings.Trim(aws.ToString(head.ETag), `"`)

	observer, err := d.opts.observerFactory(opts.Key, Download, total)
	if err != nil {
		return nil, fail(logger, op, "Failed to download file", err)
	}
	defer closeObserver(logger, observer)

	store, err := filesystem.OpenDir(filepath.Dir(localPath), logger)
	if err != nil {
		return nil, fail(logger, op, "Failed to download file", err)
	}
	defer func() {
		if closeErr := store.Close(); closeErr != nil {
			logger.Warn("failed to close download directory", "err", closeErr)
		}
	}()

	start := time.Now()
	obj, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:  aws.String(opts.Bucket),
		Key:     aws.String(opts.Key),
		IfMatch: ifMatch(head.ETag),
	})
	if err != nil {
		return nil, fail(logger, op, "Failed to download file", err)
	}
	defer func() {
		if closeErr := obj.Body.Close(); closeErr != nil {
			logger.Warn("failed to close object body", "err", closeErr)
		}
	}()

	written, err := store.Write(ctx, filepath.Base(localPath), &progressReader{r: obj.Body, observer: observer})
	if err != nil {
		return nil, fail(logger, op, "Failed to download file", err)
	}

	if isSinglePartETag(etag) && !strings.EqualFold(etag, written.MD5) {
		logger.Warn("checksum mismatch", "etag", etag, "md5", written.MD5)
	}

	result := &DownloadResult{
		Bucket:      opts.Bucket,
		Key:         opts.Key,
		LocalPath:   localPath,
		ContentType: aws.ToString(head.ContentType),
		ETag:        etag,
		Size:        written.BytesWritten,
		Duration:    time.Since(start),
	}
	logger.Info("download complete",
		"path", localPath,
		"size_bytes", result.Size,
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// isDirPath reports whether p names a directory, either by a trailing
// separator or because a directory already exists there.
func isDirPath(p string) bool {
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return true
	}
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}

// ifMatch pins the transfer to the probed version so a concurrent
// overwrite fails instead of mixing sizes.
func ifMatch(etag *string) *string {
	if aws.ToString(etag) == "" {
		return nil
	}
	return etag
}

// isSinglePartETag reports whether etag is a plain MD5 digest. Multipart
// ETags carry a "-<parts>" suffix and are not content hashes.
func isSinglePartETag(etag string) bool {
	if len(etag) != 32 {
		return false
	}
	for _, c := range etag {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
