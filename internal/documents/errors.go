package documents

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrUnsupportedFormat  = errors.New("unsupported file format")
	ErrFileTooLarge       = errors.New("file exceeds size limit")
	ErrExtractionFailed   = errors.New("text extraction failed")
	ErrStoreNotConfigured = errors.New("object store not configured")
)
