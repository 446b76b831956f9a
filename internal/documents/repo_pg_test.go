package documents

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func newMockRepo(t *testing.T) (*PGRepo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return &PGRepo{DB: db}, mock
}

func documentRow(doc Document) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "name", "original_filename", "file_name", "mime_type",
		"size_bytes", "storage_provider", "storage_key", "file_url",
		"extracted_text", "status", "error_message", "uploaded_at", "processed_at",
	})
	var processedAt any
	if doc.ProcessedAt != nil {
		processedAt = *doc.ProcessedAt
	}
	rows.AddRow(
		doc.ID, doc.UserID, doc.Name, doc.OriginalFilename, doc.FileName,
		doc.MimeType, doc.SizeBytes, doc.StorageProvider, doc.StorageKey,
		doc.FileURL, doc.ExtractedText, doc.Status, doc.ErrorMessage,
		doc.UploadedAt, processedAt,
	)
	return rows
}

func TestPGRepoCreateInsertsAllColumns(t *testing.T) {
	repo, mock := newMockRepo(t)

	doc := Document{
		ID:               "doc-1",
		UserID:           "user-1",
		Name:             "report",
		OriginalFilename: "report.pdf",
		FileName:         "1700000000_aa_report.pdf",
		MimeType:         "application/pdf",
		SizeBytes:        2048,
		StorageProvider:  "local",
		StorageKey:       "user-hash/1700000000_aa_report.pdf",
		Status:           StatusProcessing,
		UploadedAt:       time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO documents").
		WithArgs(
			doc.ID,
			doc.UserID,
			doc.Name,
			doc.OriginalFilename,
			doc.FileName,
			doc.MimeType,
			doc.SizeBytes,
			doc.StorageProvider,
			doc.StorageKey,
			nil, // file_url
			nil, // extracted_text
			doc.Status,
			nil, // error_message
			doc.UploadedAt,
			nil, // processed_at
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Create(context.Background(), doc); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateOwnedReturnsUpdatedRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	text := "corrected body"
	uploaded := time.Now().UTC()
	mock.ExpectQuery("UPDATE documents").
		WithArgs("user-1", "doc-1", text, nil).
		WillReturnRows(documentRow(Document{
			ID:               "doc-1",
			UserID:           "user-1",
			Name:             "report",
			OriginalFilename: "report.pdf",
			FileName:         "f.pdf",
			MimeType:         "application/pdf",
			SizeBytes:        10,
			StorageProvider:  "local",
			StorageKey:       "k",
			ExtractedText:    text,
			Status:           StatusCompleted,
			UploadedAt:       uploaded,
		}))

	doc, err := repo.UpdateOwned(context.Background(), "user-1", "doc-1", DocumentUpdate{ExtractedText: &text})
	if err != nil {
		t.Fatalf("UpdateOwned: %v", err)
	}
	if doc.ExtractedText != text {
		t.Fatalf("expected updated text, got %q", doc.ExtractedText)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoUpdateOwnedMissingRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	status := StatusCompleted
	mock.ExpectQuery("UPDATE documents").
		WithArgs("user-1", "other-doc", nil, status).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.UpdateOwned(context.Background(), "user-1", "other-doc", DocumentUpdate{Status: &status})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoDeleteOwnedReturnsRemovedRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("DELETE FROM documents").
		WithArgs("user-1", "doc-1").
		WillReturnRows(documentRow(Document{
			ID:               "doc-1",
			UserID:           "user-1",
			Name:             "report",
			OriginalFilename: "report.pdf",
			FileName:         "f.pdf",
			MimeType:         "application/pdf",
			SizeBytes:        10,
			StorageProvider:  "s3",
			StorageKey:       "documents/f.pdf",
			Status:           StatusCompleted,
			UploadedAt:       time.Now().UTC(),
		}))

	doc, err := repo.DeleteOwned(context.Background(), "user-1", "doc-1")
	if err != nil {
		t.Fatalf("DeleteOwned: %v", err)
	}
	if doc.StorageKey != "documents/f.pdf" {
		t.Fatalf("expected storage key back, got %q", doc.StorageKey)
	}
}

func TestPGRepoDeleteOwnedMissingRowIsNotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery("DELETE FROM documents").
		WithArgs("user-1", "ghost").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.DeleteOwned(context.Background(), "user-1", "ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoMarkCompletedRequiresMatchingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	processedAt := time.Now().UTC()
	mock.ExpectExec("UPDATE documents").
		WithArgs(StatusCompleted, "text", processedAt, "user-1", "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.MarkCompleted(context.Background(), "user-1", "doc-1", "text", processedAt)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for zero affected rows, got %v", err)
	}
}

func TestPGRepoListByUserScansRows(t *testing.T) {
	repo, mock := newMockRepo(t)

	uploaded := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"id", "user_id", "name", "original_filename", "file_name", "mime_type",
		"size_bytes", "storage_provider", "storage_key", "file_url",
		"extracted_text", "status", "error_message", "uploaded_at", "processed_at",
	}).
		AddRow("doc-2", "user-1", "b", "b.txt", "f2.txt", "text/plain", int64(2), "local", "k2", nil, "two", StatusCompleted, nil, uploaded, uploaded).
		AddRow("doc-1", "user-1", "a", "a.txt", "f1.txt", "text/plain", int64(1), "local", "k1", nil, nil, StatusError, "bad parse", uploaded.Add(-time.Hour), nil)

	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("user-1").
		WillReturnRows(rows)

	docs, err := repo.ListByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
	if docs[0].ID != "doc-2" || docs[1].ErrorMessage != "bad parse" {
		t.Fatalf("unexpected scan result: %+v", docs)
	}
	if docs[0].ProcessedAt == nil || docs[1].ProcessedAt != nil {
		t.Fatal("processed_at nullability mishandled")
	}
}
