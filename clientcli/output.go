package clientcli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sagarc03/r2ctl"
)

// Empty-listing messages.
const (
	MsgNoBuckets          = "No buckets found."
	MsgNoObjects          = "No objects found."
	MsgNoObjectsPrefix    = "No objects found with the specified prefix."
	MsgNoMultipartUploads = "No multipart uploads found."
)

// Action names a completed mutation for FormatAction.
type Action string

const (
	ActionCreateBucket Action = "create_bucket"
	ActionDeleteBucket Action = "delete_bucket"
	ActionDeleteObject Action = "delete_object"
	ActionAbortUpload  Action = "abort_multipart_upload"
)

// ActionResult describes a completed create, delete or abort.
type ActionResult struct {
	Action   Action `json:"action"`
	Bucket   string `json:"bucket"`
	Key      string `json:"key,omitempty"`
	UploadID string `json:"upload_id,omitempty"`
	Region   string `json:"region,omitempty"`
}

// Formatter formats results for output.
type Formatter interface {
	FormatBuckets(w io.Writer, buckets []r2ctl.BucketInfo, withRegion bool) error
	FormatObjects(w io.Writer, bucket, prefix string, objects []r2ctl.ObjectInfo) error
	FormatMultipartUploads(w io.Writer, bucket string, uploads []r2ctl.MultipartUpload) error
	FormatUpload(w io.Writer, result *r2ctl.UploadResult) error
	FormatDownload(w io.Writer, result *r2ctl.DownloadResult) error
	FormatAction(w io.Writer, result ActionResult) error
	FormatMessage(w io.Writer, message string) error
	FormatError(w io.Writer, err error) error
	FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error
	FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error
}

// NewFormatter returns the appropriate formatter based on flags.
func NewFormatter(jsonOutput, quiet bool) Formatter {
	if jsonOutput {
		return &JSONFormatter{}
	}
	return &HumanFormatter{Quiet: quiet}
}

// HumanFormatter outputs human-readable text.
type HumanFormatter struct {
	Quiet bool
}

// FormatBuckets formats a bucket listing as human-readable text.
func (f *HumanFormatter) FormatBuckets(w io.Writer, buckets []r2ctl.BucketInfo, withRegion bool) error {
	if len(buckets) == 0 {
		_, _ = fmt.Fprintln(w, MsgNoBuckets)
		return nil
	}

	maxNameLen := 6 // "BUCKET"
	for i := range buckets {
		maxNameLen = max(maxNameLen, len(buckets[i].Name))
	}
	maxNameLen = min(maxNameLen, 63)

	if withRegion {
		_, _ = fmt.Fprintf(w, "%-*s  %-19s  %s\n", maxNameLen, "BUCKET", "CREATED", "REGION")
		_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", 19), strings.Repeat("-", 6))
	} else {
		_, _ = fmt.Fprintf(w, "%-*s  %s\n", maxNameLen, "BUCKET", "CREATED")
		_, _ = fmt.Fprintf(w, "%s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", 19))
	}

	for i := range buckets {
		b := &buckets[i]
		created := formatTime(b.CreatedAt)
		if !withRegion {
			_, _ = fmt.Fprintf(w, "%-*s  %-19s\n", maxNameLen, b.Name, created)
			continue
		}
		_, _ = fmt.Fprintf(w, "%-*s  %-19s  %s\n", maxNameLen, b.Name, created, bucketRegion(b))
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d bucket(s)\n", len(buckets))
	}
	return nil
}

func bucketRegion(b *r2ctl.BucketInfo) string {
	switch {
	case b.RegionErr != nil:
		return "Error: " + b.RegionErr.Error()
	case b.Region == "":
		return string(r2ctl.RegionAuto)
	default:
		return b.Region
	}
}

// FormatObjects formats an object listing as human-readable text.
func (f *HumanFormatter) FormatObjects(w io.Writer, bucket, prefix string, objects []r2ctl.ObjectInfo) error {
	if len(objects) == 0 {
		if prefix != "" {
			_, _ = fmt.Fprintln(w, MsgNoObjectsPrefix)
		} else {
			_, _ = fmt.Fprintln(w, MsgNoObjects)
		}
		return nil
	}

	// Calculate column widths
	maxKeyLen := 3 // "KEY"
	for i := range objects {
		maxKeyLen = max(maxKeyLen, len(objects[i].Key))
	}
	maxKeyLen = min(maxKeyLen, 60)

	_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n", maxKeyLen, "KEY", "SIZE", "LAST MODIFIED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxKeyLen), strings.Repeat("-", 10), strings.Repeat("-", 19))

	for i := range objects {
		obj := &objects[i]
		_, _ = fmt.Fprintf(w, "%-*s  %10s  %s\n",
			maxKeyLen,
			truncate(obj.Key, maxKeyLen),
			formatSize(obj.Size),
			formatTime(obj.LastModified),
		)
	}

	if !f.Quiet {
		location := bucket
		if prefix != "" {
			location += " (prefix: " + prefix + ")"
		}
		_, _ = fmt.Fprintf(w, "\n%d object(s) in %s (%s total)\n", len(objects), location, formatSize(r2ctl.TotalSize(objects)))
	}
	return nil
}

// FormatMultipartUploads formats in-progress multipart uploads as human-readable text.
func (f *HumanFormatter) FormatMultipartUploads(w io.Writer, bucket string, uploads []r2ctl.MultipartUpload) error {
	if len(uploads) == 0 {
		_, _ = fmt.Fprintln(w, MsgNoMultipartUploads)
		return nil
	}

	maxIDLen, maxKeyLen := 9, 3 // "UPLOAD ID", "KEY"
	for i := range uploads {
		maxIDLen = max(maxIDLen, len(uploads[i].UploadID))
		maxKeyLen = max(maxKeyLen, len(uploads[i].Key))
	}
	maxIDLen = min(maxIDLen, 40)
	maxKeyLen = min(maxKeyLen, 60)

	_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n", maxIDLen, "UPLOAD ID", maxKeyLen, "KEY", "INITIATED")
	_, _ = fmt.Fprintf(w, "%s  %s  %s\n", strings.Repeat("-", maxIDLen), strings.Repeat("-", maxKeyLen), strings.Repeat("-", 19))

	for i := range uploads {
		u := &uploads[i]
		_, _ = fmt.Fprintf(w, "%-*s  %-*s  %s\n",
			maxIDLen, truncate(u.UploadID, maxIDLen),
			maxKeyLen, truncate(u.Key, maxKeyLen),
			formatTime(u.Initiated),
		)
	}

	if !f.Quiet {
		_, _ = fmt.Fprintf(w, "\n%d multipart upload(s) in %s\n", len(uploads), bucket)
	}
	return nil
}

// FormatUpload formats an upload result as human-readable text.
func (f *HumanFormatter) FormatUpload(w io.Writer, result *r2ctl.UploadResult) error {
	if f.Quiet {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Uploaded: %s -> %s/%s (%s)\n", result.LocalPath, result.Bucket, result.Key, formatSize(result.Size))
	_, _ = fmt.Fprintf(w, "  Content-Type: %s\n", result.ContentType)
	if result.ETag != "" {
		_, _ = fmt.Fprintf(w, "  ETag: %s\n", result.ETag)
	}
	return nil
}

// FormatDownload formats a download result as human-readable text.
func (f *HumanFormatter) FormatDownload(w io.Writer, result *r2ctl.DownloadResult) error {
	if f.Quiet {
		return nil
	}
	_, _ = fmt.Fprintf(w, "Downloaded: %s/%s -> %s (%s)\n", result.Bucket, result.Key, result.LocalPath, formatSize(result.Size))
	if result.ETag != "" {
		_, _ = fmt.Fprintf(w, "  ETag: %s\n", result.ETag)
	}
	return nil
}

// FormatAction formats a completed mutation as human-readable text.
func (f *HumanFormatter) FormatAction(w io.Writer, result ActionResult) error {
	if f.Quiet {
		return nil
	}
	var msg string
	switch result.Action {
	case ActionCreateBucket:
		msg = fmt.Sprintf("Successfully created bucket '%s'", result.Bucket)
	case ActionDeleteBucket:
		msg = fmt.Sprintf("Successfully deleted bucket '%s'", result.Bucket)
	case ActionDeleteObject:
		msg = fmt.Sprintf("Successfully deleted object '%s' from bucket '%s'", result.Key, result.Bucket)
	case ActionAbortUpload:
		msg = fmt.Sprintf("Successfully aborted multipart upload for '%s' in bucket '%s'", result.Key, result.Bucket)
	default:
		msg = fmt.Sprintf("%s: %s", result.Action, result.Bucket)
	}
	_, _ = fmt.Fprintln(w, msg)
	return nil
}

// FormatMessage writes an informational line.
func (f *HumanFormatter) FormatMessage(w io.Writer, message string) error {
	_, _ = fmt.Fprintln(w, message)
	return nil
}

// FormatError formats an error as human-readable text.
func (f *HumanFormatter) FormatError(w io.Writer, err error) error {
	_, _ = fmt.Fprintf(w, "Error: %v\n", err)
	return nil
}

// JSONFormatter outputs JSON.
type JSONFormatter struct{}

// FormatBuckets formats a bucket listing as JSON.
func (f *JSONFormatter) FormatBuckets(w io.Writer, buckets []r2ctl.BucketInfo, withRegion bool) error {
	type jsonBucket struct {
		Name        string    `json:"name"`
		CreatedAt   time.Time `json:"created_at"`
		Region      string    `json:"region,omitempty"`
		RegionError string    `json:"region_error,omitempty"`
	}

	output := struct {
		Buckets []jsonBucket `json:"buckets"`
	}{
		Buckets: make([]jsonBucket, len(buckets)),
	}

	for i := range buckets {
		b := &buckets[i]
		jb := jsonBucket{Name: b.Name, CreatedAt: b.CreatedAt}
		if withRegion {
			if b.RegionErr != nil {
				jb.RegionError = b.RegionErr.Error()
			} else {
				jb.Region = bucketRegion(b)
			}
		}
		output.Buckets[i] = jb
	}

	return writeJSON(w, output)
}

// FormatObjects formats an object listing as JSON.
func (f *JSONFormatter) FormatObjects(w io.Writer, bucket, prefix string, objects []r2ctl.ObjectInfo) error {
	if objects == nil {
		objects = []r2ctl.ObjectInfo{}
	}
	output := struct {
		Bucket    string             `json:"bucket"`
		Prefix    string             `json:"prefix,omitempty"`
		Objects   []r2ctl.ObjectInfo `json:"objects"`
		Count     int                `json:"count"`
		TotalSize int64              `json:"total_size_bytes"`
	}{
		Bucket:    bucket,
		Prefix:    prefix,
		Objects:   objects,
		Count:     len(objects),
		TotalSize: r2ctl.TotalSize(objects),
	}
	return writeJSON(w, output)
}

// FormatMultipartUploads formats in-progress multipart uploads as JSON.
func (f *JSONFormatter) FormatMultipartUploads(w io.Writer, bucket string, uploads []r2ctl.MultipartUpload) error {
	if uploads == nil {
		uploads = []r2ctl.MultipartUpload{}
	}
	output := struct {
		Bucket  string                  `json:"bucket"`
		Uploads []r2ctl.MultipartUpload `json:"uploads"`
	}{
		Bucket:  bucket,
		Uploads: uploads,
	}
	return writeJSON(w, output)
}

// FormatUpload formats an upload result as JSON.
func (f *JSONFormatter) FormatUpload(w io.Writer, result *r2ctl.UploadResult) error {
	return writeJSON(w, result)
}

// FormatDownload formats a download result as JSON.
func (f *JSONFormatter) FormatDownload(w io.Writer, result *r2ctl.DownloadResult) error {
	return writeJSON(w, result)
}

// FormatAction formats a completed mutation as JSON.
func (f *JSONFormatter) FormatAction(w io.Writer, result ActionResult) error {
	return writeJSON(w, result)
}

// FormatMessage formats an informational line as JSON.
func (f *JSONFormatter) FormatMessage(w io.Writer, message string) error {
	return writeJSON(w, struct {
		Message string `json:"message"`
	}{Message: message})
}

// FormatError formats an error as JSON. Storage API error codes are
// included when available.
func (f *JSONFormatter) FormatError(w io.Writer, err error) error {
	output := struct {
		Error string `json:"error"`
		Code  string `json:"code,omitempty"`
	}{
		Error: err.Error(),
	}
	var ae *r2ctl.ActionError
	if errors.As(err, &ae) {
		output.Code = ae.Code()
	}
	return writeJSON(w, output)
}

// writeJSON writes a value as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// formatSize formats bytes as human-readable size.
func formatSize(bytes int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
		TB = GB * 1024
	)

	switch {
	case bytes >= TB:
		return fmt.Sprintf("%.1f TB", float64(bytes)/TB)
	case bytes >= GB:
		return fmt.Sprintf("%.1f GB", float64(bytes)/GB)
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/MB)
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/KB)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}

// FormatProfileList formats a list of profiles as human-readable text.
func (f *HumanFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	if len(profiles) == 0 {
		_, _ = fmt.Fprintln(w, "No profiles configured.")
		return nil
	}

	// Calculate column widths
	maxNameLen := 4     // "NAME"
	maxEndpointLen := 8 // "ENDPOINT"
	for i := range profiles {
		maxNameLen = max(maxNameLen, len(profiles[i].Name))
		maxEndpointLen = max(maxEndpointLen, len(profiles[i].Endpoint))
	}
	maxNameLen = min(maxNameLen, 20)
	maxEndpointLen = min(maxEndpointLen, 50)

	_, _ = fmt.Fprintf(w, "  %-*s  %-*s  %-6s  %s\n", maxNameLen, "NAME", maxEndpointLen, "ENDPOINT", "REGION", "ACCESS KEY")
	_, _ = fmt.Fprintf(w, "  %s  %s  %s  %s\n", strings.Repeat("-", maxNameLen), strings.Repeat("-", maxEndpointLen), strings.Repeat("-", 6), strings.Repeat("-", 20))

	for i := range profiles {
		p := &profiles[i]
		marker := " "
		if p.Name == defaultName {
			marker = "*"
		}

		_, _ = fmt.Fprintf(w, "%s %-*s  %-*s  %-6s  %s\n",
			marker,
			maxNameLen, truncate(p.Name, maxNameLen),
			maxEndpointLen, truncate(p.Endpoint, maxEndpointLen),
			profileRegion(p),
			maskSecret(p.AccessKey, showSecrets),
		)
	}

	return nil
}

// FormatProfileShow formats a single profile as human-readable text.
func (f *HumanFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	_, _ = fmt.Fprintf(w, "Name:       %s", profile.Name)
	if isDefault {
		_, _ = fmt.Fprintf(w, " (default)")
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Endpoint:   %s\n", profile.Endpoint)
	_, _ = fmt.Fprintf(w, "Region:     %s\n", profileRegion(&profile))
	_, _ = fmt.Fprintf(w, "Access Key: %s\n", maskSecret(profile.AccessKey, showSecrets))
	_, _ = fmt.Fprintf(w, "Secret Key: %s\n", maskSecret(profile.SecretKey, showSecrets))
	return nil
}

type jsonProfile struct {
	Name      string `json:"name"`
	Endpoint  string `json:"endpoint"`
	Region    string `json:"region"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Default   bool   `json:"default"`
}

func toJSONProfile(p *Profile, isDefault, showSecrets bool) jsonProfile {
	return jsonProfile{
		Name:      p.Name,
		Endpoint:  p.Endpoint,
		Region:    profileRegion(p),
		AccessKey: maskSecret(p.AccessKey, showSecrets),
		SecretKey: maskSecret(p.SecretKey, showSecrets),
		Default:   isDefault,
	}
}

// FormatProfileList formats a list of profiles as JSON.
func (f *JSONFormatter) FormatProfileList(w io.Writer, profiles []Profile, defaultName string, showSecrets bool) error {
	output := struct {
		Profiles []jsonProfile `json:"profiles"`
	}{
		Profiles: make([]jsonProfile, len(profiles)),
	}

	for i := range profiles {
		output.Profiles[i] = toJSONProfile(&profiles[i], profiles[i].Name == defaultName, showSecrets)
	}

	return writeJSON(w, output)
}

// FormatProfileShow formats a single profile as JSON.
func (f *JSONFormatter) FormatProfileShow(w io.Writer, profile Profile, isDefault, showSecrets bool) error {
	return writeJSON(w, toJSONProfile(&profile, isDefault, showSecrets))
}

func profileRegion(p *Profile) string {
	if p.Region == "" {
		return string(r2ctl.RegionAuto)
	}
	return p.Region
}

// maskSecret masks a secret unless showSecrets is set.
func maskSecret(secret string, showSecrets bool) string {
	if showSecrets {
		return secret
	}
	return r2ctl.MaskSecret(secret)
}
