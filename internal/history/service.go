package history

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

const (
	// PreviewChars bounds the summary snapshot kept on each entry.
	PreviewChars = 200

	defaultRecent = 10
	maxRecent     = 50
)

// Service appends and reads history entries.
type Service struct {
	Repo Repo

	now func() time.Time
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo, now: func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) }}
}

// Append records a snapshot. CreatedAt is assigned here when unset.
func (s *Service) Append(ctx context.Context, userID string, entry Entry) error {
	if userID == "" {
		return fmt.Errorf("append history: user id required")
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	entry.SummaryPreview = Preview(entry.SummaryPreview)
	return s.Repo.Append(ctx, userID, entry)
}

// Recent returns up to limit entries, newest first.
func (s *Service) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = defaultRecent
	}
	if limit > maxRecent {
		limit = maxRecent
	}
	entries, err := s.Repo.Recent(ctx, userID, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// ParseLimit reads the optional limit query value.
func ParseLimit(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return defaultRecent, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 0, apperr.Validation("Invalid limit")
	}
	return n, nil
}

// Preview collapses whitespace and cuts text to PreviewChars runes.
func Preview(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= PreviewChars {
		return text
	}
	return strings.TrimSpace(string(runes[:PreviewChars])) + "..."
}
