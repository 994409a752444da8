package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Media & Upstream Service Errors
var (
	ErrUpload        = errors.New("image upload failed")
	ErrBase64Decode  = errors.New("base64 decode error")
	ErrMissingUpload = errors.New("no image provided")
)

// NewUploadError wraps a failure reported by the external image store.
func NewUploadError(service string, cause error) *ApiErr {
	details := fmt.Sprintf("%s rejected the upload", service)
	if cause != nil {
		details = fmt.Sprintf("%s: %s", details, cause.Error())
	}
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrUpload,
		Details:    details,
		Cause:      cause,
		Field:      "image",
	}
}

func NewMissingUploadError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%w: %w", ErrUpload, ErrMissingUpload),
		Field:      "image",
	}
}

func NewBase64DecodeError(operation string, cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadRequest,
		err:        fmt.Errorf("%w: %w", ErrUpload, ErrBase64Decode),
		Details:    fmt.Sprintf("Base64 decode error in %s", operation),
		Cause:      cause,
		Field:      "image",
	}
}

func IsUploadError(err error) bool {
	return errors.Is(err, ErrUpload)
}

func IsBase64DecodeError(err error) bool {
	return errors.Is(err, ErrBase64Decode)
}
