package r2ctl

import (
	"errors"

	"github.com/aws/smithy-go"
)

var (
	// ErrBucketRequired is returned when an operation is called without a bucket name
	ErrBucketRequired = errors.New("bucket name is required")
	// ErrObjectKeyRequired is returned when an operation is called without an object key
	ErrObjectKeyRequired = errors.New("object key is required")
	// ErrUploadIDRequired is returned when an abort is called without an upload ID
	ErrUploadIDRequired = errors.New("upload ID is required")
	// ErrNotAFile is returned when an upload source is a directory or device
	ErrNotAFile = errors.New("not a regular file")
	// ErrInvalidArgument is returned when an observer cannot be constructed
	ErrInvalidArgument = errors.New("invalid argument")
)

// ActionError is the single error kind returned by action operations.
// Message describes what failed; Err is the underlying cause.
type ActionError struct {
	Op      string
	Message string
	Err     error
}

func (e *ActionError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *ActionError) Unwrap() error {
	return e.Err
}

// Code returns the service error code (for example "NoSuchKey") when the
// cause came from the storage API, or "" otherwise.
func (e *ActionError) Code() string {
	return apiErrorCode(e.Err)
}

// IsActionError reports whether err is or wraps an *ActionError.
func IsActionError(err error) bool {
	var ae *ActionError
	return errors.As(err, &ae)
}

func apiErrorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	return ""
}
