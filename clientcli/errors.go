package clientcli

import "errors"

// Errors for profile operations.
var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrNoProfiles      = errors.New("no profiles configured")
	ErrProfileExists   = errors.New("profile already exists")
)

// Errors for profile validation.
var (
	ErrProfileNameRequired = errors.New("profile name is required")
	ErrEndpointRequired    = errors.New("endpoint is required")
	ErrInvalidRegion       = errors.New("invalid region")
)

// Errors for command arguments.
var (
	ErrMultipartNeedsBucket   = errors.New("--multipart requires a bucket name")
	ErrMultipartWithPrefix    = errors.New("--multipart and --prefix are mutually exclusive")
	ErrPrefixNeedsBucket      = errors.New("--prefix requires a bucket name")
	ErrBucketOrBuckets        = errors.New("must provide a bucket name unless using --buckets")
	ErrBucketsWithBucket      = errors.New("--buckets does not take a bucket name")
	ErrWithRegionNeedsBuckets = errors.New("--with-region requires --buckets")
)
