package documents

import "time"

// Document lifecycle statuses. A document is created in StatusProcessing the
// moment its bytes are durably stored, and moves to StatusCompleted or
// StatusError once extraction has run.
const (
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusError      = "error"
)

// Document represents an ingested file owned by a user.
type Document struct {
	ID               string
	UserID           string
	Name             string // display name, original filename minus extension
	OriginalFilename string
	FileName         string // generated storage filename
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	FileURL          string // set only for remote-backend uploads
	ExtractedText    string
	Status           string
	ErrorMessage     string
	UploadedAt       time.Time
	ProcessedAt      *time.Time
}

// ValidStatus reports whether s is one of the known document statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusProcessing, StatusCompleted, StatusError:
		return true
	}
	return false
}
