package analyses

import (
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/documents"
	"github.com/Smith-Faldu/legal-lens/internal/extract"
	"github.com/Smith-Faldu/legal-lens/internal/llm"
)

// StatusCompleted is the only persisted status; failed attempts are not stored.
const StatusCompleted = "completed"

// Analysis is a persisted LLM answer about a document. An empty Question
// means a general summary.
type Analysis struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	DocumentID string    `json:"documentId,omitempty"`
	StorageURI string    `json:"storageUri,omitempty"`
	Question   string    `json:"question"`
	Answer     string    `json:"answer"`
	TextLength int       `json:"textLength"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
}

// AnalyzeInput selects the document by id or by storage URI. History holds
// earlier question/answer turns about the same document.
type AnalyzeInput struct {
	DocumentID string
	StorageURI string
	Question   string
	History    []llm.Turn
}

// UploadResult is everything produced by one upload pipeline run.
type UploadResult struct {
	Document   documents.Document
	Analysis   Analysis
	Extraction extract.Result
}
