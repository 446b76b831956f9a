package documents

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryRepo is an in-memory implementation of DocumentsRepo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string][]Document // userID -> documents
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[string][]Document),
	}
}

// Create stores a new document for a user.
func (r *MemoryRepo) Create(ctx context.Context, doc Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[doc.UserID] = append(r.data[doc.UserID], doc)
	return nil
}

// GetByID returns a document by ID for a user.
func (r *MemoryRepo) GetByID(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID {
			return docs[i], nil
		}
	}
	return Document{}, ErrNotFound
}

// ListByUser returns all documents for a user, newest upload first.
func (r *MemoryRepo) ListByUser(ctx context.Context, userID string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Copy while holding the lock; writers mutate slice elements in place.
	r.mu.RLock()
	docs := make([]Document, len(r.data[userID]))
	copy(docs, r.data[userID])
	r.mu.RUnlock()
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].UploadedAt.After(docs[j].UploadedAt)
	})
	return docs, nil
}

// MarkCompleted records a successful extraction outcome.
func (r *MemoryRepo) MarkCompleted(ctx context.Context, userID, documentID, extractedText string, processedAt time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].Status = StatusCompleted
			docs[i].ExtractedText = extractedText
			docs[i].ErrorMessage = ""
			t := processedAt
			docs[i].ProcessedAt = &t
			r.data[userID] = docs
			return nil
		}
	}
	return ErrNotFound
}

// MarkFailed records a failed extraction outcome.
func (r *MemoryRepo) MarkFailed(ctx context.Context, userID, documentID, errorMessage string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID == documentID {
			docs[i].Status = StatusError
			docs[i].ErrorMessage = errorMessage
			r.data[userID] = docs
			return nil
		}
	}
	return ErrNotFound
}

// UpdateOwned applies upd to the document matching id and owner while holding
// the write lock, mirroring the single-statement conditional update of the
// Postgres implementation.
func (r *MemoryRepo) UpdateOwned(ctx context.Context, userID, documentID string, upd DocumentUpdate) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID != documentID {
			continue
		}
		if upd.ExtractedText != nil {
			docs[i].ExtractedText = *upd.ExtractedText
		}
		if upd.Status != nil {
			docs[i].Status = *upd.Status
		}
		r.data[userID] = docs
		return docs[i], nil
	}
	return Document{}, ErrNotFound
}

// DeleteOwned removes the document matching id and owner and returns it.
func (r *MemoryRepo) DeleteOwned(ctx context.Context, userID, documentID string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	docs := r.data[userID]
	for i := range docs {
		if docs[i].ID != documentID {
			continue
		}
		removed := docs[i]
		r.data[userID] = append(docs[:i], docs[i+1:]...)
		return removed, nil
	}
	return Document{}, ErrNotFound
}

var _ DocumentsRepo = (*MemoryRepo)(nil)
