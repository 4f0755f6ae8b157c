package analyses

import (
	"context"
	"testing"

	"github.com/Smith-Faldu/legal-lens/internal/documents"
	"github.com/Smith-Faldu/legal-lens/internal/extract"
	"github.com/Smith-Faldu/legal-lens/internal/history"
	"github.com/Smith-Faldu/legal-lens/internal/llm"
	local "github.com/Smith-Faldu/legal-lens/internal/shared/storage/object/local"
	"github.com/Smith-Faldu/legal-lens/internal/uploads"
)

type fakeExtractor struct {
	result extract.Result
	err    error
	calls  []extract.Source
}

func (f *fakeExtractor) Extract(ctx context.Context, src extract.Source) (extract.Result, error) {
	f.calls = append(f.calls, src)
	if f.err != nil {
		return extract.Result{}, f.err
	}
	return f.result, nil
}

type fakeLLM struct {
	answer   string
	err      error
	analyzed []llm.AnalyzeRequest
	chats    []llm.ChatRequest
}

func (f *fakeLLM) Analyze(ctx context.Context, req llm.AnalyzeRequest) (string, error) {
	f.analyzed = append(f.analyzed, req)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

func (f *fakeLLM) Chat(ctx context.Context, req llm.ChatRequest) (string, error) {
	f.chats = append(f.chats, req)
	if f.err != nil {
		return "", f.err
	}
	return f.answer, nil
}

type fixture struct {
	svc       *Service
	store     *local.Store
	docs      *documents.MemoryRepo
	analyses  *MemoryRepo
	history   *history.MemoryRepo
	extractor *fakeExtractor
	llm       *fakeLLM
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    local.New(t.TempDir()),
		docs:     documents.NewMemoryRepo(),
		analyses: NewMemoryRepo(),
		history:  history.NewMemoryRepo(),
		extractor: &fakeExtractor{result: extract.Result{
			Text:       "This lease is between Landlord and Tenant.",
			Entities:   []extract.Entity{{Type: "party", MentionText: "Landlord", Confidence: 0.9}},
			Confidence: 0.93,
			Pages:      1,
		}},
		llm: &fakeLLM{answer: "A residential lease."},
	}
	f.svc = NewService(
		f.analyses,
		documents.NewService(f.docs, f.store),
		history.NewService(f.history),
		uploads.NewIngestor(f.store, "uploads", 0),
		f.extractor,
		f.llm,
	)
	return f
}

const samplePDF = "%PDF-1.4\n1 0 obj\n<<>>\nendobj\ntrailer\n<<>>\n%%EOF\n"
