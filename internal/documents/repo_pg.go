package documents

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

const documentColumns = `id, user_id, name, original_filename, file_name, mime_type, size_bytes, storage_provider, storage_key, file_url, extracted_text, status, error_message, uploaded_at, processed_at`

// PGRepo implements DocumentsRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new document.
func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO documents (
    id,
    user_id,
    name,
    original_filename,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    file_url,
    extracted_text,
    status,
    error_message,
    uploaded_at,
    processed_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		doc.ID,
		doc.UserID,
		doc.Name,
		doc.OriginalFilename,
		doc.FileName,
		doc.MimeType,
		doc.SizeBytes,
		doc.StorageProvider,
		doc.StorageKey,
		nullString(doc.FileURL),
		nullString(doc.ExtractedText),
		doc.Status,
		nullString(doc.ErrorMessage),
		doc.UploadedAt,
		nullTime(doc.ProcessedAt),
	)
	return err
}

// GetByID fetches a document by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1 AND id = $2
LIMIT 1`
	return scanDocument(r.DB.QueryRowContext(ctx, query, userID, documentID))
}

// ListByUser lists documents for a user, newest upload first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	const query = `
SELECT ` + documentColumns + `
FROM documents
WHERE user_id = $1
ORDER BY uploaded_at DESC`

	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// MarkCompleted records a successful extraction outcome.
func (r *PGRepo) MarkCompleted(ctx context.Context, userID, documentID, extractedText string, processedAt time.Time) error {
	const query = `
UPDATE documents
SET status = $1, extracted_text = $2, error_message = NULL, processed_at = $3
WHERE user_id = $4 AND id = $5`
	res, err := r.DB.ExecContext(ctx, query, StatusCompleted, extractedText, processedAt, userID, documentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// MarkFailed records a failed extraction outcome.
func (r *PGRepo) MarkFailed(ctx context.Context, userID, documentID, errorMessage string) error {
	const query = `
UPDATE documents
SET status = $1, error_message = $2
WHERE user_id = $3 AND id = $4`
	res, err := r.DB.ExecContext(ctx, query, StatusError, errorMessage, userID, documentID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// UpdateOwned applies upd to the document matching both id and owner in one
// statement. The ownership predicate lives in the same UPDATE as the
// mutation so there is no read-then-write window.
func (r *PGRepo) UpdateOwned(ctx context.Context, userID, documentID string, upd DocumentUpdate) (Document, error) {
	const query = `
UPDATE documents
SET extracted_text = COALESCE($3, extracted_text),
    status = COALESCE($4, status)
WHERE user_id = $1 AND id = $2
RETURNING ` + documentColumns
	return scanDocument(r.DB.QueryRowContext(
		ctx,
		query,
		userID,
		documentID,
		nullStringPtr(upd.ExtractedText),
		nullStringPtr(upd.Status),
	))
}

// DeleteOwned removes the document matching both id and owner in one
// statement and returns the removed row.
func (r *PGRepo) DeleteOwned(ctx context.Context, userID, documentID string) (Document, error) {
	const query = `
DELETE FROM documents
WHERE user_id = $1 AND id = $2
RETURNING ` + documentColumns
	return scanDocument(r.DB.QueryRowContext(ctx, query, userID, documentID))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var fileURL sql.NullString
	var extractedText sql.NullString
	var errorMessage sql.NullString
	var processedAt sql.NullTime
	err := row.Scan(
		&doc.ID,
		&doc.UserID,
		&doc.Name,
		&doc.OriginalFilename,
		&doc.FileName,
		&doc.MimeType,
		&doc.SizeBytes,
		&doc.StorageProvider,
		&doc.StorageKey,
		&fileURL,
		&extractedText,
		&doc.Status,
		&errorMessage,
		&doc.UploadedAt,
		&processedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if fileURL.Valid {
		doc.FileURL = fileURL.String
	}
	if extractedText.Valid {
		doc.ExtractedText = extractedText.String
	}
	if errorMessage.Valid {
		doc.ErrorMessage = errorMessage.String
	}
	if processedAt.Valid {
		doc.ProcessedAt = &processedAt.Time
	}
	return doc, nil
}

func requireRow(res sql.Result) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func nullStringPtr(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

var _ DocumentsRepo = (*PGRepo)(nil)
