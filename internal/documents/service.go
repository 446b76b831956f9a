package documents

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"docpipe-backend/internal/extract"
	"docpipe-backend/internal/notify"
	"docpipe-backend/internal/shared/metrics"
	"docpipe-backend/internal/shared/storage/object"
	"docpipe-backend/internal/shared/telemetry"
	"docpipe-backend/internal/shared/util"
)

const (
	// MaxUploadBytes is the hard ceiling on an uploaded payload.
	MaxUploadBytes = 10 << 20

	notifyTimeout = 10 * time.Second
)

// Service drives files through the object store, the extractor, the record
// store and the downstream notifier.
type Service struct {
	Store    object.ObjectStore
	Repo     DocumentsRepo
	Notifier notify.Client
}

// Upload validates and persists an uploaded file, creates its record in
// processing status, runs extraction inline and settles the record into
// completed or error. The record create is the durability checkpoint: once it
// succeeds the document exists even if extraction fails afterwards.
func (s *Service) Upload(ctx context.Context, userID, fileName, declaredType string, r io.Reader) (Document, error) {
	if userID == "" {
		return Document{}, errors.New("user id required")
	}
	if strings.TrimSpace(fileName) == "" {
		return Document{}, fmt.Errorf("%w: file name is required", ErrInvalidInput)
	}
	if s.Store == nil {
		return Document{}, ErrStoreNotConfigured
	}
	if !extract.Supported(declaredType, fileName) {
		return Document{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, declaredType)
	}

	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxUploadBytes {
		return Document{}, ErrFileTooLarge
	}
	if len(data) == 0 {
		return Document{}, fmt.Errorf("%w: empty file", ErrInvalidInput)
	}

	mimeType := extract.ResolvedType(declaredType, fileName, data)

	storageName := util.StorageFileName(fileName)
	storageKey, fileURL, written, err := s.Store.Save(ctx, userID, storageName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}

	doc := Document{
		ID:               uuid.NewString(),
		UserID:           userID,
		Name:             util.DisplayName(fileName),
		OriginalFilename: fileName,
		FileName:         storageName,
		MimeType:         mimeType,
		SizeBytes:        written,
		StorageProvider:  s.Store.Provider(),
		StorageKey:       storageKey,
		FileURL:          fileURL,
		Status:           StatusProcessing,
		UploadedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		// No record points at the stored bytes; remove them.
		s.cleanupStorage(ctx, doc)
		return Document{}, fmt.Errorf("create document record: %w", err)
	}
	metrics.IncIngestStarted()
	s.logStatus(ctx, doc, "->processing")

	extractStart := time.Now()
	text, extractErr := extract.TextFromBytes(ctx, data, mimeType, fileName)
	metrics.ObserveExtractionDurationMs(float64(time.Since(extractStart).Microseconds()) / 1000.0)

	if extractErr != nil {
		// The raw bytes and the record survive; the document stays
		// retrievable in error status.
		if err := s.Repo.MarkFailed(ctx, userID, doc.ID, extractErr.Error()); err != nil {
			return Document{}, fmt.Errorf("mark document failed: %w", err)
		}
		doc.Status = StatusError
		doc.ErrorMessage = extractErr.Error()
		metrics.IncIngestFailed()
		s.logStatus(ctx, doc, "processing->error")
		return doc, fmt.Errorf("%w: %s", ErrExtractionFailed, extractErr.Error())
	}

	processedAt := time.Now().UTC()
	if err := s.Repo.MarkCompleted(ctx, userID, doc.ID, text, processedAt); err != nil {
		return Document{}, fmt.Errorf("mark document completed: %w", err)
	}
	doc.Status = StatusCompleted
	doc.ExtractedText = text
	doc.ProcessedAt = &processedAt
	metrics.IncIngestCompleted()
	s.logStatus(ctx, doc, "processing->completed")

	s.notifyAsync(ctx, doc)

	return doc, nil
}

// Get returns a document by ID for its owner.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	if userID == "" {
		return Document{}, errors.New("user id required")
	}
	if documentID == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List returns the caller's documents, newest upload first.
func (s *Service) List(ctx context.Context, userID string) ([]Document, error) {
	if userID == "" {
		return nil, errors.New("user id required")
	}
	return s.Repo.ListByUser(ctx, userID)
}

// Update applies an explicit text/status override to an owned document. When
// ingest is set and the resulting text is non-blank, the downstream
// notification fires again so corrected text can be re-indexed without a
// re-upload.
func (s *Service) Update(ctx context.Context, userID, documentID string, upd DocumentUpdate, ingest bool) (Document, error) {
	if userID == "" {
		return Document{}, errors.New("user id required")
	}
	if documentID == "" {
		return Document{}, fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}
	if upd.IsZero() {
		return Document{}, fmt.Errorf("%w: extractedText or status is required", ErrInvalidInput)
	}
	if upd.Status != nil && !ValidStatus(*upd.Status) {
		return Document{}, fmt.Errorf("%w: unknown status %q", ErrInvalidInput, *upd.Status)
	}

	doc, err := s.Repo.UpdateOwned(ctx, userID, documentID, upd)
	if err != nil {
		return Document{}, err
	}

	if ingest && strings.TrimSpace(doc.ExtractedText) != "" {
		s.notifyAsync(ctx, doc)
	}

	return doc, nil
}

// Delete removes an owned document record and best-effort deletes its backing
// bytes. The record deletion is the operation's success signal; storage
// failures are logged, never surfaced.
func (s *Service) Delete(ctx context.Context, userID, documentID string) error {
	if userID == "" {
		return errors.New("user id required")
	}
	if documentID == "" {
		return fmt.Errorf("%w: document id is required", ErrInvalidInput)
	}

	doc, err := s.Repo.DeleteOwned(ctx, userID, documentID)
	if err != nil {
		return err
	}

	// The record is gone; cleanup must outlive the request.
	s.cleanupStorage(backgroundWithRequestID(ctx), doc)
	return nil
}

func (s *Service) cleanupStorage(ctx context.Context, doc Document) {
	if doc.StorageKey == "" || s.Store == nil {
		return
	}
	if doc.StorageProvider != s.Store.Provider() {
		telemetry.Info("documents.delete.storage_skipped", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": doc.ID,
			"provider":    doc.StorageProvider,
			"active":      s.Store.Provider(),
		})
		return
	}
	if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
		telemetry.Error("documents.delete.storage_failed", map[string]any{
			"request_id":  requestIDFromContext(ctx),
			"document_id": doc.ID,
			"storage_key": doc.StorageKey,
			"err":         err.Error(),
		})
	}
}

// notifyAsync fires the downstream index notification without awaiting it.
// Errors are logged and discarded; the user-facing response never depends on
// the notifier.
func (s *Service) notifyAsync(ctx context.Context, doc Document) {
	if s.Notifier == nil {
		return
	}
	msg := notify.Message{
		DocumentID: doc.ID,
		UserID:     doc.UserID,
		RequestID:  requestIDFromContext(ctx),
		EnqueuedAt: time.Now().UTC().Format(time.RFC3339),
		Version:    1,
	}
	go func(ctx context.Context) {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		if err := s.Notifier.Send(ctx, msg); err != nil {
			telemetry.Error("documents.notify.failed", map[string]any{
				"request_id":  msg.RequestID,
				"document_id": msg.DocumentID,
				"err":         err.Error(),
			})
		}
	}(backgroundWithRequestID(ctx))
}

func (s *Service) logStatus(ctx context.Context, doc Document, transition string) {
	telemetry.Info("documents.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           doc.UserID,
		"document_id":       doc.ID,
		"status":            doc.Status,
		"status_transition": transition,
	})
}
