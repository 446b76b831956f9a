package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"docpipe-backend/internal/shared/util"
)

func TestSaveWritesUnderUserNamespace(t *testing.T) {
	baseDir := t.TempDir()
	store := New(baseDir)

	key, fileURL, size, err := store.Save(context.Background(), "user-1", "report.pdf", strings.NewReader("pdf-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if size != int64(len("pdf-bytes")) {
		t.Fatalf("expected size %d, got %d", len("pdf-bytes"), size)
	}
	if fileURL != "" {
		t.Fatalf("local store must not return a url, got %q", fileURL)
	}

	wantPrefix := util.HashUserKey("user-1") + string(os.PathSeparator)
	if !strings.HasPrefix(key, wantPrefix) {
		t.Fatalf("key %q not under user namespace %q", key, wantPrefix)
	}

	data, err := os.ReadFile(filepath.Join(baseDir, key))
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(data) != "pdf-bytes" {
		t.Fatalf("unexpected contents: %q", data)
	}
}

func TestSaveRejectsBadFileName(t *testing.T) {
	store := New(t.TempDir())

	if _, _, _, err := store.Save(context.Background(), "user-1", "../escape.pdf", strings.NewReader("x")); err == nil {
		t.Fatal("expected error for traversal file name")
	}
}

func TestDeleteRemovesFile(t *testing.T) {
	baseDir := t.TempDir()
	store := New(baseDir)

	key, _, _, err := store.Save(context.Background(), "user-1", "note.txt", strings.NewReader("bye"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.Delete(context.Background(), key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(filepath.Join(baseDir, key)); !os.IsNotExist(err) {
		t.Fatalf("expected file gone, stat err = %v", err)
	}
}

func TestDeleteIsIdempotent(t *testing.T) {
	store := New(t.TempDir())

	if err := store.Delete(context.Background(), "missing/never-written.txt"); err != nil {
		t.Fatalf("expected nil for absent key, got %v", err)
	}
}

func TestDeleteRejectsTraversalKey(t *testing.T) {
	store := New(t.TempDir())

	if err := store.Delete(context.Background(), "../../etc/passwd"); err == nil {
		t.Fatal("expected error for traversal key")
	}
	if err := store.Delete(context.Background(), "/etc/passwd"); err == nil {
		t.Fatal("expected error for absolute key")
	}
}

func TestProvider(t *testing.T) {
	if got := New(t.TempDir()).Provider(); got != "local" {
		t.Fatalf("Provider() = %q", got)
	}
}
