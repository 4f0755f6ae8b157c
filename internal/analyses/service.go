package analyses

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Smith-Faldu/legal-lens/internal/documents"
	"github.com/Smith-Faldu/legal-lens/internal/extract"
	"github.com/Smith-Faldu/legal-lens/internal/history"
	"github.com/Smith-Faldu/legal-lens/internal/llm"
	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/metrics"
	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
	"github.com/Smith-Faldu/legal-lens/internal/uploads"
)

const defaultListLimit = 50

// Service runs the upload, analyze and chat pipelines. Stages run one after
// another on the request context; a failing stage aborts the request and
// nothing after it is written.
type Service struct {
	Repo      Repo
	Documents *documents.Service
	History   *history.Service
	Ingestor  *uploads.Ingestor
	Extractor extract.Extractor
	LLM       llm.Client
	Store     object.ObjectStore

	now func() time.Time
}

// NewService wires a Service. Store is taken from the ingestor.
func NewService(repo Repo, docs *documents.Service, hist *history.Service, ingestor *uploads.Ingestor, extractor extract.Extractor, client llm.Client) *Service {
	return &Service{
		Repo:      repo,
		Documents: docs,
		History:   hist,
		Ingestor:  ingestor,
		Extractor: extractor,
		LLM:       client,
		Store:     ingestor.Store,
		now:       func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
	}
}

// Upload stores the file, extracts it, summarizes it, then persists the
// document, the summary and a history entry.
func (s *Service) Upload(ctx context.Context, userID string, upload uploads.Upload) (UploadResult, error) {
	started := time.Now()

	stored, err := s.Ingestor.Ingest(ctx, upload)
	if err != nil {
		return UploadResult{}, s.failed(ctx, "ingest", userID, err)
	}

	extracted, err := s.Extractor.Extract(ctx, extract.Source{URI: stored.URI, MimeType: stored.MimeType, Data: stored.Data})
	if err != nil {
		return UploadResult{}, s.failed(ctx, "extract", userID, err)
	}

	summary, err := s.LLM.Analyze(ctx, llm.AnalyzeRequest{DocumentText: extracted.Text})
	if err != nil {
		return UploadResult{}, s.failed(ctx, "analyze", userID, err)
	}

	doc, err := s.Documents.Create(ctx, documents.Document{
		UserID:        userID,
		FileName:      stored.FileName,
		StorageURI:    stored.URI,
		StorageKey:    stored.Key,
		ExtractedText: extracted.Text,
		MimeType:      stored.MimeType,
		SizeBytes:     stored.SizeBytes,
		Confidence:    extracted.Confidence,
		EntityCount:   len(extracted.Entities),
	})
	if err != nil {
		return UploadResult{}, s.failed(ctx, "persist", userID, err)
	}

	analysis, err := s.save(ctx, Analysis{
		UserID:     userID,
		DocumentID: doc.ID,
		StorageURI: stored.URI,
		Answer:     summary,
		TextLength: len(extracted.Text),
	})
	if err != nil {
		s.discardDocument(ctx, userID, doc.ID)
		return UploadResult{}, s.failed(ctx, "persist", userID, err)
	}

	if s.History != nil {
		err := s.History.Append(ctx, userID, history.Entry{
			DocumentID:     doc.ID,
			FileName:       doc.FileName,
			MimeType:       doc.MimeType,
			SizeBytes:      doc.SizeBytes,
			SummaryPreview: summary,
			CreatedAt:      doc.CreatedAt,
		})
		if err != nil {
			// The document and analysis are already durable; history is a read cache.
			telemetry.Warn("history.append_failed", logFields(ctx, userID, map[string]any{
				"document_id": doc.ID,
				"error":       err,
			}))
		}
	}

	durationMs := time.Since(started).Milliseconds()
	metrics.ObservePipelineDurationMs(float64(durationMs))
	telemetry.Info("pipeline.upload_complete", logFields(ctx, userID, map[string]any{
		"document_id": doc.ID,
		"analysis_id": analysis.ID,
		"text_length": len(extracted.Text),
		"entities":    len(extracted.Entities),
		"pages":       extracted.Pages,
		"duration_ms": durationMs,
	}))

	return UploadResult{Document: doc, Analysis: analysis, Extraction: extracted}, nil
}

// Analyze answers Question about a stored document, or summarizes it when
// Question is empty.
func (s *Service) Analyze(ctx context.Context, userID string, in AnalyzeInput) (Analysis, error) {
	in.DocumentID = strings.TrimSpace(in.DocumentID)
	in.StorageURI = strings.TrimSpace(in.StorageURI)
	in.Question = strings.TrimSpace(in.Question)
	if in.DocumentID == "" && in.StorageURI == "" {
		return Analysis{}, apperr.Validation("documentId or gcsUri is required")
	}

	started := time.Now()
	text, storageURI, err := s.documentText(ctx, userID, in.DocumentID, in.StorageURI)
	if err != nil {
		return Analysis{}, s.failed(ctx, "extract", userID, err)
	}

	answer, err := s.LLM.Analyze(ctx, llm.AnalyzeRequest{DocumentText: text, Question: in.Question, Prior: in.History})
	if err != nil {
		return Analysis{}, s.failed(ctx, "analyze", userID, err)
	}

	analysis, err := s.save(ctx, Analysis{
		UserID:     userID,
		DocumentID: in.DocumentID,
		StorageURI: storageURI,
		Question:   in.Question,
		Answer:     answer,
		TextLength: len(text),
	})
	if err != nil {
		return Analysis{}, s.failed(ctx, "persist", userID, err)
	}
	metrics.ObservePipelineDurationMs(float64(time.Since(started).Milliseconds()))
	return analysis, nil
}

// ChatInput is one chat turn. The document is optional.
type ChatInput struct {
	DocumentID string
	StorageURI string
	Message    string
	History    []llm.Turn
}

// Chat returns the assistant reply. Replies are not persisted.
func (s *Service) Chat(ctx context.Context, userID string, in ChatInput) (string, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return "", apperr.Validation("Message is required")
	}

	var text string
	documentID := strings.TrimSpace(in.DocumentID)
	storageURI := strings.TrimSpace(in.StorageURI)
	if documentID != "" || storageURI != "" {
		var err error
		text, _, err = s.documentText(ctx, userID, documentID, storageURI)
		if err != nil {
			return "", s.failed(ctx, "extract", userID, err)
		}
	}

	reply, err := s.LLM.Chat(ctx, llm.ChatRequest{DocumentText: text, History: in.History, Message: message})
	if err != nil {
		return "", s.failed(ctx, "chat", userID, err)
	}
	metrics.IncChatReply()
	return reply, nil
}

// Get returns an analysis owned by userID.
func (s *Service) Get(ctx context.Context, userID, analysisID string) (Analysis, error) {
	a, err := s.Repo.Get(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if a.UserID != userID {
		return Analysis{}, fmt.Errorf("analysis %s: %w", analysisID, apperr.ErrForbidden)
	}
	return a, nil
}

// Delete removes an analysis owned by userID.
func (s *Service) Delete(ctx context.Context, userID, analysisID string) error {
	if _, err := s.Get(ctx, userID, analysisID); err != nil {
		return err
	}
	return s.Repo.Delete(ctx, analysisID)
}

// List returns the caller's analyses, newest first.
func (s *Service) List(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if limit <= 0 || limit > defaultListLimit {
		limit = defaultListLimit
	}
	return s.Repo.ListByUser(ctx, userID, limit)
}

// documentText resolves the text to reason over. A document id wins over a
// storage URI; stored extracted text is reused, otherwise the blob is
// extracted again. The returned URI is the blob the text came from.
func (s *Service) documentText(ctx context.Context, userID, documentID, storageURI string) (string, string, error) {
	if documentID != "" {
		doc, err := s.Documents.Get(ctx, userID, documentID)
		if err != nil {
			return "", "", err
		}
		if strings.TrimSpace(doc.ExtractedText) != "" {
			return doc.ExtractedText, doc.StorageURI, nil
		}
		res, err := s.Extractor.Extract(ctx, extract.Source{URI: doc.StorageURI, MimeType: doc.MimeType})
		if err != nil {
			return "", "", err
		}
		return res.Text, doc.StorageURI, nil
	}

	key, err := object.KeyFromURI(s.Store, storageURI)
	if err != nil {
		return "", "", apperr.Validation("gcsUri must reference the configured storage bucket")
	}
	res, err := s.Extractor.Extract(ctx, extract.Source{URI: storageURI, MimeType: uploads.MimeTypeFromName(key)})
	if err != nil {
		return "", "", err
	}
	return res.Text, storageURI, nil
}

func (s *Service) save(ctx context.Context, a Analysis) (Analysis, error) {
	a.ID = uuid.NewString()
	a.Status = StatusCompleted
	a.CreatedAt = s.now()
	if err := s.Repo.Save(ctx, a); err != nil {
		return Analysis{}, fmt.Errorf("save analysis: %w", err)
	}
	metrics.IncAnalysisCreated()
	return a, nil
}

// discardDocument removes a document whose analysis could not be saved, so a
// failed upload leaves no record behind. The blob stays in place.
func (s *Service) discardDocument(ctx context.Context, userID, documentID string) {
	if err := s.Documents.Repo.Delete(ctx, documentID); err != nil {
		telemetry.Error("pipeline.cleanup_failed", logFields(ctx, userID, map[string]any{
			"document_id": documentID,
			"error":       err,
		}))
	}
}

// failed records an aborted pipeline. Validation, ownership and lookup
// failures are the caller's problem and are not counted.
func (s *Service) failed(ctx context.Context, stage, userID string, err error) error {
	if apperr.IsValidation(err) || errors.Is(err, apperr.ErrNotFound) || errors.Is(err, apperr.ErrForbidden) {
		return err
	}
	fields := logFields(ctx, userID, map[string]any{
		"stage": stage,
		"error": err,
	})
	var pub apperr.Public
	if errors.As(err, &pub) {
		fields["reason"] = pub.Code()
	}
	metrics.IncPipelineFailure()
	telemetry.Warn("pipeline.failed", fields)
	return err
}
