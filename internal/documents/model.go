package documents

import "time"

// Document is an uploaded legal document and its extraction output.
type Document struct {
	ID            string
	UserID        string
	FileName      string
	StorageURI    string
	StorageKey    string
	ExtractedText string
	MimeType      string
	SizeBytes     int64
	Confidence    float64
	EntityCount   int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Patch holds the fields a client may change. Nil fields are left alone.
type Patch struct {
	FileName      *string
	ExtractedText *string
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.FileName == nil && p.ExtractedText == nil
}

// Apply merges p into doc and stamps updatedAt.
func (p Patch) Apply(doc Document, updatedAt time.Time) Document {
	if p.FileName != nil {
		doc.FileName = *p.FileName
	}
	if p.ExtractedText != nil {
		doc.ExtractedText = *p.ExtractedText
	}
	doc.UpdatedAt = updatedAt
	return doc
}
