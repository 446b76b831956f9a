package util

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// StorageFileName builds a collision-resistant storage filename from an
// original filename: a nanosecond timestamp plus a random token, keeping the
// original extension so backends and extractors can recognize the format.
func StorageFileName(originalName string) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d_%s%s", time.Now().UTC().UnixNano(), randomToken(), ext)
}

// DisplayName derives a document's display name: the original filename with
// its extension removed.
func DisplayName(originalName string) string {
	base := filepath.Base(strings.TrimSpace(originalName))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func randomToken() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
