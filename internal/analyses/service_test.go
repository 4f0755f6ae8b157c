package analyses

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Smith-Faldu/legal-lens/internal/documents"
	"github.com/Smith-Faldu/legal-lens/internal/extract"
	"github.com/Smith-Faldu/legal-lens/internal/llm"
	"github.com/Smith-Faldu/legal-lens/internal/shared/apperr"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
	"github.com/Smith-Faldu/legal-lens/internal/uploads"
)

func pdfUpload() uploads.Upload {
	return uploads.Upload{
		FileName: "lease.pdf",
		MimeType: "application/pdf",
		Size:     int64(len(samplePDF)),
		Body:     strings.NewReader(samplePDF),
	}
}

func listDocs(t *testing.T, f *fixture, userID string) []documents.Document {
	t.Helper()
	page, err := f.docs.List(context.Background(), userID, documents.ListOptions{SortBy: documents.SortCreatedAt, Order: documents.OrderDesc, Page: 1, Limit: 10})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return page.Documents
}

type failingSaveRepo struct {
	*MemoryRepo
}

func (failingSaveRepo) Save(context.Context, Analysis) error {
	return errors.New("db down")
}

func TestUploadPersistsDocumentAnalysisAndHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.svc.Upload(ctx, "user-1", pdfUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if !strings.HasPrefix(res.Document.StorageURI, "local://local/uploads/") {
		t.Fatalf("unexpected storage uri %q", res.Document.StorageURI)
	}
	if res.Document.ExtractedText != f.extractor.result.Text || res.Document.EntityCount != 1 || res.Document.Confidence != 0.93 {
		t.Fatalf("unexpected document %+v", res.Document)
	}
	if res.Analysis.Answer != "A residential lease." || res.Analysis.DocumentID != res.Document.ID || res.Analysis.Status != StatusCompleted {
		t.Fatalf("unexpected analysis %+v", res.Analysis)
	}
	if res.Analysis.Question != "" {
		t.Fatalf("expected general summary, got question %q", res.Analysis.Question)
	}
	if len(f.extractor.calls) != 1 || len(f.extractor.calls[0].Data) == 0 {
		t.Fatalf("expected extractor to receive uploaded bytes, got %+v", f.extractor.calls)
	}
	if got := f.llm.analyzed[0].DocumentText; got != f.extractor.result.Text {
		t.Fatalf("expected llm to receive extracted text, got %q", got)
	}

	if _, err := f.analyses.Get(ctx, res.Analysis.ID); err != nil {
		t.Fatalf("analysis not persisted: %v", err)
	}
	entries, err := f.history.Recent(ctx, "user-1", 10)
	if err != nil || len(entries) != 1 || entries[0].DocumentID != res.Document.ID || entries[0].SummaryPreview != "A residential lease." {
		t.Fatalf("unexpected history %+v err=%v", entries, err)
	}
}

func TestUploadStageFailuresPersistNothing(t *testing.T) {
	cases := []struct {
		name  string
		setup func(f *fixture)
		check func(t *testing.T, err error)
	}{
		{
			name:  "empty extraction",
			setup: func(f *fixture) { f.extractor.err = extract.Fail(extract.ReasonEmptyText, nil) },
			check: func(t *testing.T, err error) {
				if e, ok := extract.AsError(err); !ok || e.Reason != extract.ReasonEmptyText {
					t.Fatalf("expected empty_text, got %v", err)
				}
			},
		},
		{
			name:  "safety block",
			setup: func(f *fixture) { f.llm.err = llm.Fail(llm.ReasonSafetyBlocked, nil) },
			check: func(t *testing.T, err error) {
				if e, ok := llm.AsError(err); !ok || e.Reason != llm.ReasonSafetyBlocked {
					t.Fatalf("expected safety_blocked, got %v", err)
				}
			},
		},
		{
			name:  "analysis save",
			setup: func(f *fixture) { f.svc.Repo = failingSaveRepo{f.analyses} },
			check: func(t *testing.T, err error) {
				if err == nil || !strings.Contains(err.Error(), "db down") {
					t.Fatalf("expected save error, got %v", err)
				}
			},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			core, logs := observer.New(zap.WarnLevel)
			telemetry.SetLogger(zap.New(core))
			t.Cleanup(func() { telemetry.SetLogger(nil) })

			f := newFixture(t)
			tc.setup(f)

			_, err := f.svc.Upload(context.Background(), "user-1", pdfUpload())
			tc.check(t, err)

			if docs := listDocs(t, f, "user-1"); len(docs) != 0 {
				t.Fatalf("expected no documents, got %d", len(docs))
			}
			if items, _ := f.analyses.ListByUser(context.Background(), "user-1", 0); len(items) != 0 {
				t.Fatalf("expected no analyses, got %d", len(items))
			}
			if entries, _ := f.history.Recent(context.Background(), "user-1", 10); len(entries) != 0 {
				t.Fatalf("expected no history, got %d", len(entries))
			}
			if logs.FilterMessage("pipeline.failed").Len() != 1 {
				t.Fatalf("expected one pipeline.failed log, got %d", logs.FilterMessage("pipeline.failed").Len())
			}
		})
	}
}

func TestUploadValidationMakesNoExternalCalls(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Upload(context.Background(), "user-1", uploads.Upload{
		FileName: "notes.txt",
		MimeType: "text/plain",
		Size:     5,
		Body:     strings.NewReader("hello"),
	})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.extractor.calls) != 0 || len(f.llm.analyzed) != 0 {
		t.Fatalf("expected no extractor or llm calls")
	}
}

func TestAnalyzeRequiresTarget(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Analyze(context.Background(), "user-1", AnalyzeInput{Question: "Who pays rent?"})
	if !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.extractor.calls) != 0 || len(f.llm.analyzed) != 0 {
		t.Fatalf("expected no external calls")
	}
}

func TestAnalyzeByDocumentUsesStoredText(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, err := f.svc.Documents.Create(ctx, documents.Document{UserID: "owner", FileName: "nda.pdf", ExtractedText: "Stored NDA text"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	f.llm.answer = "The disclosing party."

	a, err := f.svc.Analyze(ctx, "owner", AnalyzeInput{DocumentID: doc.ID, Question: "  Who discloses?  "})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(f.extractor.calls) != 0 {
		t.Fatalf("expected stored text to be reused")
	}
	req := f.llm.analyzed[0]
	if req.DocumentText != "Stored NDA text" || req.Question != "Who discloses?" {
		t.Fatalf("unexpected llm request %+v", req)
	}
	if a.Question != "Who discloses?" || a.Answer != "The disclosing party." || a.UserID != "owner" {
		t.Fatalf("unexpected analysis %+v", a)
	}

	if _, err := f.svc.Analyze(ctx, "intruder", AnalyzeInput{DocumentID: doc.ID}); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, err := f.svc.Analyze(ctx, "owner", AnalyzeInput{DocumentID: "missing"}); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAnalyzeByStorageURI(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Analyze(ctx, "user-1", AnalyzeInput{StorageURI: "gs://someone-elses-bucket/a.pdf"}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error for foreign bucket, got %v", err)
	}
	if len(f.extractor.calls) != 0 {
		t.Fatalf("expected no extraction for foreign bucket")
	}

	uri := f.store.URI("uploads/1_x_contract.pdf")
	a, err := f.svc.Analyze(ctx, "user-1", AnalyzeInput{StorageURI: uri})
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if len(f.extractor.calls) != 1 || f.extractor.calls[0].URI != uri || f.extractor.calls[0].MimeType != "application/pdf" {
		t.Fatalf("unexpected extractor calls %+v", f.extractor.calls)
	}
	if a.StorageURI != uri || a.DocumentID != "" {
		t.Fatalf("unexpected analysis %+v", a)
	}
}

func TestAnalyzeCarriesConversationHistory(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	doc, _ := f.svc.Documents.Create(ctx, documents.Document{UserID: "user-1", FileName: "a.pdf", ExtractedText: "Clause 9: rent is due monthly."})
	prior := []llm.Turn{
		{Role: llm.RoleUser, Content: "When is rent due?"},
		{Role: llm.RoleAssistant, Content: "Monthly."},
	}

	if _, err := f.svc.Analyze(ctx, "user-1", AnalyzeInput{DocumentID: doc.ID, Question: "On which day?", History: prior}); err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	req := f.llm.analyzed[0]
	if len(req.Prior) != 2 || req.Prior[0].Content != "When is rent due?" || req.Prior[1].Role != llm.RoleAssistant {
		t.Fatalf("expected prior turns to reach the model, got %+v", req.Prior)
	}

	prompt := llm.AnalyzePrompt(req)
	first := strings.Index(prompt, "User: When is rent due?")
	second := strings.Index(prompt, "Assistant: Monthly.")
	question := strings.Index(prompt, "User: On which day?")
	if first < 0 || second < first || question < second {
		t.Fatalf("expected transcript before question, got:\n%s", prompt)
	}
}

func TestChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	if _, err := f.svc.Chat(ctx, "user-1", ChatInput{Message: "   "}); !apperr.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.llm.chats) != 0 {
		t.Fatalf("expected no llm call for empty message")
	}

	doc, _ := f.svc.Documents.Create(ctx, documents.Document{UserID: "user-1", FileName: "a.pdf", ExtractedText: "Clause 4: termination."})
	f.llm.answer = "Thirty days notice."
	history := []llm.Turn{
		{Role: llm.RoleUser, Content: "What is clause 4?"},
		{Role: llm.RoleAssistant, Content: "Termination."},
	}
	reply, err := f.svc.Chat(ctx, "user-1", ChatInput{DocumentID: doc.ID, Message: "How much notice?", History: history})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if reply != "Thirty days notice." {
		t.Fatalf("unexpected reply %q", reply)
	}
	req := f.llm.chats[0]
	if req.DocumentText != "Clause 4: termination." || len(req.History) != 2 || req.Message != "How much notice?" {
		t.Fatalf("unexpected chat request %+v", req)
	}
	if items, _ := f.analyses.ListByUser(ctx, "user-1", 0); len(items) != 0 {
		t.Fatalf("expected chat replies not to be persisted")
	}
}

func TestGetDeleteOwnerCheck(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	res, err := f.svc.Upload(ctx, "owner", pdfUpload())
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	id := res.Analysis.ID

	if _, err := f.svc.Get(ctx, "intruder", id); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(ctx, "intruder", id); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if err := f.svc.Delete(ctx, "owner", id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := f.svc.Get(ctx, "owner", id); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}
