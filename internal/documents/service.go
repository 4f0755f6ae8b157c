package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
)

// Service contains business logic for documents.
type Service struct {
	Repo  Repo
	Store object.ObjectStore

	now func() time.Time
}

// NewService constructs a Service.
func NewService(repo Repo, store object.ObjectStore) *Service {
	return &Service{Repo: repo, Store: store, now: defaultNow}
}

func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

func (s *Service) clock() time.Time {
	if s.now == nil {
		return defaultNow()
	}
	return s.now()
}

// Create stamps timestamps and an id, then persists doc.
func (s *Service) Create(ctx context.Context, doc Document) (Document, error) {
	if doc.UserID == "" {
		return Document{}, fmt.Errorf("create document: user id required")
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	now := s.clock()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if err := s.Repo.Save(ctx, doc); err != nil {
		return Document{}, fmt.Errorf("save document: %w", err)
	}
	return doc, nil
}

// Get returns a document owned by userID.
func (s *Service) Get(ctx context.Context, userID, id string) (Document, error) {
	doc, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Document{}, err
	}
	if doc.UserID != userID {
		return Document{}, fmt.Errorf("document %s: %w", id, apperr.ErrForbidden)
	}
	return doc, nil
}

// Update merges patch into the caller's document.
func (s *Service) Update(ctx context.Context, userID, id string, patch Patch) (Document, error) {
	if patch.Empty() {
		return Document{}, apperr.Validation("Nothing to update. Provide fileName or extractedText")
	}
	if patch.FileName != nil {
		name := strings.TrimSpace(*patch.FileName)
		if name == "" {
			return Document{}, apperr.Validation("fileName must not be empty")
		}
		patch.FileName = &name
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return Document{}, err
	}
	return s.Repo.Update(ctx, id, patch, s.clock())
}

// Delete removes the stored blob and the record. A blob that is already gone
// does not block removal of the record.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	doc, err := s.Get(ctx, userID, id)
	if err != nil {
		return err
	}
	if doc.StorageKey != "" && s.Store != nil {
		if err := s.Store.Delete(ctx, doc.StorageKey); err != nil {
			se, ok := object.AsError(err)
			if !ok || se.Reason != object.ReasonNotFound {
				return err
			}
			telemetry.Warn("documents.blob_missing", map[string]any{
				"document_id": id,
				"key":         doc.StorageKey,
			})
		}
	}
	if err := s.Repo.Delete(ctx, id); err != nil {
		return err
	}
	telemetry.Info("documents.deleted", map[string]any{"document_id": id, "user_id": userID})
	return nil
}

// List returns one page of the caller's documents.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) (Page, error) {
	if userID == "" {
		return Page{}, fmt.Errorf("list documents: user id required")
	}
	return s.Repo.List(ctx, userID, opts)
}
