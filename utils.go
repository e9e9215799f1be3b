package r2ctl

import (
	"mime"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultContentType is used when neither the extension nor the content
// identify the file.
const DefaultContentType = "application/octet-stream"

// DetectContentType returns the media type for localPath and whether it was
// actually identified. The extension is tried first, then the file content.
// An unidentified file yields DefaultContentType and false.
func DetectContentType(localPath string) (string, bool) {
	if ext := filepath.Ext(localPath); ext != "" {
		if mimeType := mime.TypeByExtension(ext); mimeType != "" {
			return mimeType, true
		}
	}

	mt, err := mimetype.DetectFile(localPath)
	if err != nil || mt == nil {
		return DefaultContentType, false
	}

	detected := mt.String()
	if mt.Is(DefaultContentType) {
		return DefaultContentType, false
	}
	return detected, true
}

// ObjectKeyFromPath derives an object key from a local file path.
// Only the base name is kept:
//   - ./reports/q1.pdf -> q1.pdf
//   - C:\data\x.bin    -> x.bin (on Windows)
func ObjectKeyFromPath(localPath string) string {
	base := filepath.Base(localPath)
	if base == "." || base == string(filepath.Separator) {
		return ""
	}
	return base
}

// LocalPathFromKey derives a local file name from an object key.
// Object keys always use forward slashes, so the last segment is kept.
func LocalPathFromKey(key string) string {
	base := path.Base(strings.TrimSuffix(key, "/"))
	if base == "." || base == "/" {
		return ""
	}
	return base
}

// MaskSecret shows only the first and last 4 characters of a secret.
// Short secrets are fully masked.
func MaskSecret(secret string) string {
	if secret == "" {
		return "(not set)"
	}
	if len(secret) <= 8 {
		return "********"
	}
	return secret[:4] + "..." + secret[len(secret)-4:]
}
