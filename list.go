package r2ctl

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Lister enumerates buckets, objects and in-progress multipart uploads.
type Lister struct {
	client S3API
	opts   options
}

// NewLister returns a Lister backed by client.
func NewLister(client S3API, opts ...Option) *Lister {
	return &Lister{client: client, opts: newOptions(opts)}
}

// ListBuckets returns every bucket visible to the credentials. With
// withRegion set, each bucket's location is looked up; a failed lookup is
// recorded on that bucket and does not fail the listing.
func (l *Lister) ListBuckets(ctx context.Context, withRegion bool) ([]BucketInfo, error) {
	const op = "list_buckets"
	logger := l.opts.logger

	out, err := l.client.ListBuckets(ctx, &s3.ListBucketsInput{})
	if err != nil {
		return nil, fail(logger, op, "Failed to list buckets", err)
	}

	buckets := make([]BucketInfo, 0, len(out.Buckets))
	for _, b := range out.Buckets {
		info := BucketInfo{
			Name:      aws.ToString(b.Name),
			CreatedAt: aws.ToTime(b.CreationDate),
		}

		if withRegion {
			loc, locErr := l.client.GetBucketLocation(ctx, &s3.GetBucketLocationInput{Bucket: b.Name})
			if locErr != nil {
				logger.Warn("could not get bucket region", "bucket", info.Name, "err", locErr)
				info.RegionErr = locErr
			} else {
				info.Region = string(loc.LocationConstraint)
			}
		}

		buckets = append(buckets, info)
	}

	if len(buckets) == 0 {
		logger.Warn("no buckets found")
	}
	logger.Info("listed buckets", "count", len(buckets))

	return buckets, nil
}

// ListObjects returns the objects in bucket whose keys start with prefix.
// An empty prefix lists everything.
func (l *Lister) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	const op = "list_objects"
	logger := l.opts.logger

	if bucket == "" {
		return nil, fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	}

	input := &s3.ListObjectsV2Input{Bucket: aws.String(bucket)}
	if prefix != "" {
		input.Prefix = aws.String(prefix)
	}

	objects := []ObjectInfo{}
	paginator := s3.NewListObjectsV2Paginator(l.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fail(logger, op, "Failed to list objects", err, "bucket", bucket, "prefix", prefix)
		}
		for _, obj := range page.Contents {
			objects = append(objects, ObjectInfo{
				Key:          aws.ToString(obj.Key),
				Size:         aws.ToInt64(obj.Size),
				ETag:         trimETag(obj.ETag),
				LastModified: aws.ToTime(obj.LastModified),
			})
		}
	}

	logger.Info("listed objects", "bucket", bucket, "prefix", prefix, "count", len(objects))
	return objects, nil
}

// ListMultipartUploads returns the multipart uploads started in bucket and
// not yet completed or aborted.
func (l *Lister) ListMultipartUploads(ctx context.Context, bucket string) ([]MultipartUpload, error) {
	const op = "list_multipart_uploads"
	logger := l.opts.logger

	if bucket == "" {
		return nil, fail(logger, op, "Bucket name not provided", ErrBucketRequired)
	}

	uploads := []MultipartUpload{}
	input := &s3.ListMultipartUploadsInput{Bucket: aws.String(bucket)}
	for {
		page, err := l.client.ListMultipartUploads(ctx, input)
		if err != nil {
			return nil, fail(logger, op, "Failed to list multipart uploads", err, "bucket", bucket)
		}
		for _, u := range page.Uploads {
			uploads = append(uploads, MultipartUpload{
				UploadID:  aws.ToString(u.UploadId),
				Key:       aws.ToString(u.Key),
				Initiated: aws.ToTime(u.Initiated),
			})
		}

		if !aws.ToBool(page.IsTruncated) || (page.NextKeyMarker == nil && page.NextUploadIdMarker == nil) {
			break
		}
		input.KeyMarker = page.NextKeyMarker
		input.UploadIdMarker = page.NextUploadIdMarker
	}

	logger.Info("listed multipart uploads", "bucket", bucket, "count", len(uploads))
	return uploads, nil
}

func trimETag(etag *string) string {
	s := aws.ToString(etag)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
