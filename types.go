package r2ctl

import (
	"fmt"
	"time"
)

// Region is a location hint understood by the storage service.
type Region string

const (
	RegionWNAM Region = "wnam"
	RegionENAM Region = "enam"
	RegionWEUR Region = "weur"
	RegionEEUR Region = "eeur"
	RegionAPAC Region = "apac"
	RegionAuto Region = "auto"
)

// Regions lists every accepted region value in display order.
var Regions = []Region{RegionWNAM, RegionENAM, RegionWEUR, RegionEEUR, RegionAPAC, RegionAuto}

// IsValid reports whether r is one of Regions.
func (r Region) IsValid() bool {
	switch r {
	case RegionWNAM, RegionENAM, RegionWEUR, RegionEEUR, RegionAPAC, RegionAuto:
		return true
	default:
		return false
	}
}

// Resolve returns the region to hand to the SDK. Auto and empty both mean
// the service routes the request, so they resolve to "".
func (r Region) Resolve() string {
	if r == RegionAuto {
		return ""
	}
	return string(r)
}

// ParseRegion validates s as a Region. An empty string means RegionAuto.
func ParseRegion(s string) (Region, error) {
	if s == "" {
		return RegionAuto, nil
	}
	r := Region(s)
	if !r.IsValid() {
		return "", fmt.Errorf("invalid region: %s (valid regions: wnam, enam, weur, eeur, apac, auto)", s)
	}
	return r, nil
}

// Direction tells a TransferObserver which way bytes are flowing.
type Direction string

const (
	Upload   Direction = "upload"
	Download Direction = "download"
)

// IsValid reports whether d is Upload or Download.
func (d Direction) IsValid() bool {
	return d == Upload || d == Download
}

// UploadOptions describes one file to upload.
type UploadOptions struct {
	LocalPath   string
	Bucket      string
	Key         string // optional, defaults to the base name of LocalPath
	ContentType string // optional, detected when empty
}

// UploadResult describes a completed upload.
type UploadResult struct {
	LocalPath   string        `json:"local_path"`
	Bucket      string        `json:"bucket"`
	Key         string        `json:"key"`
	ContentType string        `json:"content_type"`
	ETag        string        `json:"etag,omitempty"`
	Size        int64         `json:"size_bytes"`
	Duration    time.Duration `json:"duration_ns"`
}

// DownloadOptions describes one object to download. LocalPath may name
// a directory, in which case the key's base name is used inside it.
type DownloadOptions struct {
	Bucket    string
	Key       string
	LocalPath string // optional, defaults to the base name of Key
}

// DownloadResult describes a completed download. LocalPath is the file
// that was written.
type DownloadResult struct {
	Bucket      string        `json:"bucket"`
	Key         string        `json:"key"`
	LocalPath   string        `json:"local_path"`
	ContentType string        `json:"content_type,omitempty"`
	ETag        string        `json:"etag,omitempty"`
	Size        int64         `json:"size_bytes"`
	Duration    time.Duration `json:"duration_ns"`
}

// BucketInfo is one entry of a bucket listing.
type BucketInfo struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	Region    string    `json:"region,omitempty"`
	RegionErr error     `json:"-"` // set when the region lookup failed
}

// ObjectInfo is one entry of an object listing.
type ObjectInfo struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size_bytes"`
	ETag         string    `json:"etag,omitempty"`
	LastModified time.Time `json:"last_modified"`
}

// MultipartUpload is an upload that was started but not completed or aborted.
type MultipartUpload struct {
	UploadID  string    `json:"upload_id"`
	Key       string    `json:"key"`
	Initiated time.Time `json:"initiated"`
}

// TotalSize sums the sizes of objects.
func TotalSize(objects []ObjectInfo) int64 {
	var total int64
	for i := range objects {
		total += objects[i].Size
	}
	return total
}
