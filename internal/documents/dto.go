package documents

import "time"

// DocumentResponse is the outward-facing representation of a document.
type DocumentResponse struct {
	DocumentID    string    `json:"documentId"`
	FileName      string    `json:"fileName"`
	StorageURI    string    `json:"storageUri"`
	MimeType      string    `json:"mimeType"`
	SizeBytes     int64     `json:"sizeBytes"`
	Confidence    float64   `json:"confidence"`
	EntityCount   int       `json:"entityCount"`
	ExtractedText string    `json:"extractedText,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// PaginationResponse describes where a listing page sits.
type PaginationResponse struct {
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	SortBy     string `json:"sortBy"`
	Order      string `json:"order"`
	HasMore    bool   `json:"hasMore"`
	NextCursor string `json:"nextCursor,omitempty"`
}

func toResponse(doc Document, includeText bool) DocumentResponse {
	resp := DocumentResponse{
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		StorageURI:  doc.StorageURI,
		MimeType:    doc.MimeType,
		SizeBytes:   doc.SizeBytes,
		Confidence:  doc.Confidence,
		EntityCount: doc.EntityCount,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}
	if includeText {
		resp.ExtractedText = doc.ExtractedText
	}
	return resp
}

func toPagination(opts ListOptions, page Page) PaginationResponse {
	return PaginationResponse{
		Page:       opts.Page,
		Limit:      opts.Limit,
		SortBy:     string(opts.SortBy),
		Order:      string(opts.Order),
		HasMore:    page.HasMore,
		NextCursor: page.NextCursor,
	}
}
