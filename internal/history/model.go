// Package history keeps a per-user list of denormalized document snapshots
// for the "recent documents" read path.
package history

import "time"

// Entry is a snapshot of a document at upload time. Entries are never
// updated after they are appended.
type Entry struct {
	DocumentID     string    `json:"documentId"`
	FileName       string    `json:"fileName"`
	MimeType       string    `json:"mimeType"`
	SizeBytes      int64     `json:"sizeBytes"`
	SummaryPreview string    `json:"summaryPreview"`
	CreatedAt      time.Time `json:"createdAt"`
}
