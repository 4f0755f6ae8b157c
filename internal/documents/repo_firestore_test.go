package documents

import (
	"testing"
	"time"
)

func TestFirestoreConvertersPreserveFields(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	doc := Document{
		ID:            "doc-1",
		UserID:        "user-1",
		FileName:      "nda.pdf",
		StorageURI:    "gs://legal-docs/uploads/nda.pdf",
		StorageKey:    "uploads/nda.pdf",
		ExtractedText: "Mutual NDA",
		MimeType:      "application/pdf",
		SizeBytes:     2048,
		Confidence:    0.91,
		EntityCount:   3,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	got := fromFirestore("doc-1", toFirestore(doc))
	if got != doc {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, doc)
	}
}

func TestPatchUpdates(t *testing.T) {
	now := time.Now().UTC()
	name := "renamed.pdf"

	updates := patchUpdates(Patch{FileName: &name}, now)
	if len(updates) != 2 {
		t.Fatalf("expected 2 updates, got %d", len(updates))
	}
	if updates[0].Path != "updatedAt" || updates[1].Path != "fileName" || updates[1].Value != name {
		t.Fatalf("unexpected updates %+v", updates)
	}

	text := "body"
	updates = patchUpdates(Patch{FileName: &name, ExtractedText: &text}, now)
	if len(updates) != 3 || updates[2].Path != "extractedText" {
		t.Fatalf("unexpected updates %+v", updates)
	}
}
