package clientcli

// ListMode selects what the list command enumerates.
type ListMode int

const (
	ListObjects ListMode = iota
	ListBuckets
	ListMultipart
)

// ListArgs are the list command's positional argument and flags.
type ListArgs struct {
	Bucket     string
	Prefix     string
	Buckets    bool
	Multipart  bool
	WithRegion bool
}

// Mode validates the combination and reports which listing to run.
func (a ListArgs) Mode() (ListMode, error) {
	switch {
	case a.Buckets && a.Bucket != "":
		return 0, ErrBucketsWithBucket
	case a.Buckets:
		return ListBuckets, nil
	case a.WithRegion:
		return 0, ErrWithRegionNeedsBuckets
	case a.Multipart && a.Bucket == "":
		return 0, ErrMultipartNeedsBucket
	case a.Multipart && a.Prefix != "":
		return 0, ErrMultipartWithPrefix
	case a.Multipart:
		return ListMultipart, nil
	case a.Prefix != "" && a.Bucket == "":
		return 0, ErrPrefixNeedsBucket
	case a.Bucket == "":
		return 0, ErrBucketOrBuckets
	default:
		return ListObjects, nil
	}
}
