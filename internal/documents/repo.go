package documents

import (
	"context"
	"time"
)

// DocumentUpdate carries the mutable fields of an explicit update request.
// Nil fields are left untouched.
type DocumentUpdate struct {
	ExtractedText *string
	Status        *string
}

// IsZero reports whether the update carries no fields.
func (u DocumentUpdate) IsZero() bool {
	return u.ExtractedText == nil && u.Status == nil
}

// DocumentsRepo defines persistence operations for documents. All reads and
// writes are scoped to an owner: a wrong id and a wrong owner are both
// reported as ErrNotFound.
type DocumentsRepo interface {
	Create(ctx context.Context, doc Document) error
	GetByID(ctx context.Context, userID, documentID string) (Document, error)
	ListByUser(ctx context.Context, userID string) ([]Document, error)

	// MarkCompleted records a successful extraction outcome.
	MarkCompleted(ctx context.Context, userID, documentID, extractedText string, processedAt time.Time) error
	// MarkFailed records a failed extraction outcome.
	MarkFailed(ctx context.Context, userID, documentID, errorMessage string) error

	// UpdateOwned applies upd to the document matching both id and owner in a
	// single atomic operation and returns the updated row.
	UpdateOwned(ctx context.Context, userID, documentID string, upd DocumentUpdate) (Document, error)
	// DeleteOwned removes the document matching both id and owner in a single
	// atomic operation and returns the removed row so callers can clean up
	// the backing storage.
	DeleteOwned(ctx context.Context, userID, documentID string) (Document, error)
}
