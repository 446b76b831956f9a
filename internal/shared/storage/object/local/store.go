package local

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"docpipe-backend/internal/shared/storage/object"
	"docpipe-backend/internal/shared/util"
)

// Store implements ObjectStore using the local filesystem.
type Store struct {
	baseDir string
}

// New creates a new local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Provider identifies this backend in document records.
func (s *Store) Provider() string {
	return object.ProviderLocal
}

// Save writes the reader to disk under the user's namespace, creating
// intermediate directories on demand. The returned key is relative to the
// store root; no public URL is produced.
func (s *Store) Save(ctx context.Context, userID string, fileName string, r io.Reader) (string, string, int64, error) {
	sanitizedName, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", "", 0, fmt.Errorf("sanitize file name: %w", err)
	}

	storageUserKey := util.HashUserKey(userID)

	if err := ctx.Err(); err != nil {
		return "", "", 0, err
	}

	dirPath := filepath.Join(s.baseDir, storageUserKey)
	if err := os.MkdirAll(dirPath, 0o755); err != nil {
		return "", "", 0, fmt.Errorf("mkdir: %w", err)
	}

	fullPath := filepath.Join(dirPath, sanitizedName)
	f, err := os.OpenFile(fullPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return "", "", 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return "", "", 0, fmt.Errorf("write body: %w", err)
	}

	relPath := filepath.Join(storageUserKey, sanitizedName)
	return relPath, "", written, nil
}

// Delete removes a stored object. A key whose file is already absent is not
// an error; the delete is idempotent.
func (s *Store) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	clean := filepath.Clean(storageKey)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("invalid storage key")
	}

	fullPath := filepath.Join(s.baseDir, clean)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", clean, err)
	}
	if err := os.Remove(fullPath); err != nil {
		return fmt.Errorf("remove %s: %w", clean, err)
	}
	return nil
}

var _ object.ObjectStore = (*Store)(nil)
