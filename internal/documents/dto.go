package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID       string     `json:"documentId"`
	Name             string     `json:"name"`
	OriginalFilename string     `json:"originalFilename"`
	FileName         string     `json:"fileName"`
	MimeType         string     `json:"mimeType"`
	SizeBytes        int64      `json:"sizeBytes"`
	FilePath         string     `json:"filePath"`
	FileURL          string     `json:"fileUrl,omitempty"`
	ExtractedText    string     `json:"extractedText,omitempty"`
	Status           string     `json:"status"`
	ErrorMessage     string     `json:"errorMessage,omitempty"`
	UploadDate       time.Time  `json:"uploadDate"`
	ProcessedDate    *time.Time `json:"processedDate,omitempty"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID:       doc.ID,
		Name:             doc.Name,
		OriginalFilename: doc.OriginalFilename,
		FileName:         doc.FileName,
		MimeType:         doc.MimeType,
		SizeBytes:        doc.SizeBytes,
		FilePath:         doc.StorageKey,
		FileURL:          doc.FileURL,
		ExtractedText:    doc.ExtractedText,
		Status:           doc.Status,
		ErrorMessage:     doc.ErrorMessage,
		UploadDate:       doc.UploadedAt,
		ProcessedDate:    doc.ProcessedAt,
	}
}
