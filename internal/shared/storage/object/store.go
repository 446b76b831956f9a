package object

import (
	"context"
	"io"
)

// Providers understood by the record store's storage_provider column.
const (
	ProviderLocal = "local"
	ProviderS3    = "s3"
)

// ObjectStore defines the contract for persisting and removing binary
// objects. fileName is the caller-generated storage filename; the returned
// storage key is the backend-specific locator used for later deletion.
// fileURL is empty for backends without public retrieval URLs.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, fileURL string, sizeBytes int64, err error)
	Delete(ctx context.Context, storageKey string) error
	Provider() string
}
