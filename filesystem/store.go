// Package filesystem writes downloaded objects to local disk.
// Writes are atomic: content is streamed into a temp file next to the
// destination, synced, and renamed into place only when the copy finished.
// A failed or canceled write leaves no file behind.
package filesystem

import (
	"context"
	"crypto/md5" //nolint:gosec // compared against S3 ETags, not used for security
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// WriteResult describes a completed atomic write.
type WriteResult struct {
	BytesWritten int64
	// MD5 is the hex-encoded digest of the written bytes. It matches the
	// ETag of objects uploaded in a single part.
	MD5 string
}

// Store provides sandboxed file operations inside one directory.
type Store struct {
	root   *os.Root
	logger *slog.Logger
}

// NewFileStorage creates a new Store with the given root directory.
// The root provides sandboxed file operations preventing path traversal.
func NewFileStorage(root *os.Root, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{root: root, logger: logger}
}

// OpenDir creates dir if needed and returns a Store rooted there.
// The caller closes the Store.
func OpenDir(dir string, logger *slog.Logger) (*Store, error) {
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("could not create directory: %w", err)
	}
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, fmt.Errorf("could not open directory: %w", err)
	}
	return NewFileStorage(root, logger), nil
}

// Close releases the underlying root handle.
func (s *Store) Close() error {
	return s.root.Close()
}

type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (r *ctxReader) Read(p []byte) (n int, err error) {
	if err := r.ctx.Err(); err != nil {
		return 0, err
	}
	return r.r.Read(p)
}

// Write atomically writes content to name using a temp file and rename.
// An existing file at name is replaced only after the copy succeeded.
func (s *Store) Write(ctx context.Context, name string, content io.Reader) (WriteResult, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return WriteResult{}, ctxErr
	}

	destDir := filepath.Dir(name)
	if destDir != "." {
		if err := s.root.MkdirAll(destDir, 0o750); err != nil {
			return WriteResult{}, fmt.Errorf("could not create intermediate directories: %w", err)
		}
	}

	tmpFile := filepath.Join(destDir, tmpFileName())
	t, createErr := s.root.Create(tmpFile)
	if createErr != nil {
		return WriteResult{}, fmt.Errorf("could not open temp file: %w", createErr)
	}

	success := false
	defer func() {
		if closeErr := t.Close(); closeErr != nil && !errors.Is(closeErr, os.ErrClosed) {
			s.logger.Warn("failed to close tmp file", "err", closeErr)
		}
		if !success {
			if rmErr := s.root.Remove(tmpFile); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
				s.logger.Warn("failed to remove tmp file", "path", tmpFile, "err", rmErr)
			}
		}
	}()

	h := md5.New() //nolint:gosec
	w := io.MultiWriter(h, t)

	written, err := io.Copy(w, &ctxReader{ctx: ctx, r: content})
	if err != nil {
		return WriteResult{}, fmt.Errorf("could not copy file contents: %w", err)
	}

	if err := t.Sync(); err != nil {
		return WriteResult{}, fmt.Errorf("could not sync written file: %w", err)
	}
	if err := t.Close(); err != nil {
		return WriteResult{}, fmt.Errorf("could not close written file: %w", err)
	}

	if renameErr := s.root.Rename(tmpFile, name); renameErr != nil {
		return WriteResult{}, fmt.Errorf("failed to rename file: %w", renameErr)
	}

	success = true
	return WriteResult{BytesWritten: written, MD5: hex.EncodeToString(h.Sum(nil))}, nil
}

const tmpPrefix = ".t"

func tmpFileName() string {
	return tmpPrefix + uuid.New().String()
}
