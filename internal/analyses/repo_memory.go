package analyses

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu       sync.RWMutex
	analyses map[string]Analysis
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{analyses: make(map[string]Analysis)}
}

func (r *MemoryRepo) Save(ctx context.Context, analysis Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.analyses[analysis.ID] = analysis
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if err := ctx.Err(); err != nil {
		return Analysis{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.analyses[analysisID]
	if !ok {
		return Analysis{}, fmt.Errorf("analysis %s: %w", analysisID, apperr.ErrNotFound)
	}
	return a, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, analysisID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.analyses[analysisID]; !ok {
		return fmt.Errorf("analysis %s: %w", analysisID, apperr.ErrNotFound)
	}
	delete(r.analyses, analysisID)
	return nil
}

func (r *MemoryRepo) ListByUser(ctx context.Context, userID string, limit int) ([]Analysis, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := []Analysis{}
	for _, a := range r.analyses {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	r.mu.RUnlock()

	slices.SortFunc(out, func(a, b Analysis) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(b.ID, a.ID)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Repo = (*MemoryRepo)(nil)
