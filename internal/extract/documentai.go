package extract

import (
	"context"
	"fmt"
	"strings"
	"time"

	documentai "cloud.google.com/go/documentai/apiv1"
	"cloud.google.com/go/documentai/apiv1/documentaipb"
	"google.golang.org/api/option"

	"github.com/Smith-Faldu/legal-lens/internal/shared/storage/object"
	"github.com/Smith-Faldu/legal-lens/internal/shared/telemetry"
)

// DocumentAIConfig names the processor to call.
type DocumentAIConfig struct {
	ProjectID   string
	Location    string
	ProcessorID string
	Timeout     time.Duration
}

type processFunc func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error)

// DocumentAI extracts text with a Google Document AI processor.
type DocumentAI struct {
	name    string
	timeout time.Duration
	store   object.ObjectStore
	process processFunc
	closeFn func() error
}

// NewDocumentAI dials the regional Document AI endpoint. store is used to read
// bytes for objects that do not live in GCS.
func NewDocumentAI(ctx context.Context, cfg DocumentAIConfig, store object.ObjectStore, opts ...option.ClientOption) (*DocumentAI, error) {
	if cfg.ProjectID == "" || cfg.ProcessorID == "" {
		return nil, fmt.Errorf("documentai project and processor are required")
	}
	location := strings.TrimSpace(cfg.Location)
	if location == "" {
		location = "us"
	}
	endpoint := fmt.Sprintf("%s-documentai.googleapis.com:443", location)

	docOpts := append([]option.ClientOption{option.WithEndpoint(endpoint)}, opts...)
	client, err := documentai.NewDocumentProcessorClient(ctx, docOpts...)
	if err != nil {
		return nil, fmt.Errorf("documentai client: %w", err)
	}

	telemetry.Info("documentai.initialized", map[string]any{"endpoint": endpoint})

	d := newDocumentAI(processorName(cfg.ProjectID, location, cfg.ProcessorID), store, func(ctx context.Context, req *documentaipb.ProcessRequest) (*documentaipb.ProcessResponse, error) {
		return client.ProcessDocument(ctx, req)
	})
	d.closeFn = client.Close
	if cfg.Timeout > 0 {
		d.timeout = cfg.Timeout
	}
	return d, nil
}

func newDocumentAI(name string, store object.ObjectStore, process processFunc) *DocumentAI {
	return &DocumentAI{
		name:    name,
		timeout: 3 * time.Minute,
		store:   store,
		process: process,
	}
}

// Extract runs the processor once. No retries.
func (d *DocumentAI) Extract(ctx context.Context, src Source) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req := &documentaipb.ProcessRequest{Name: d.name}
	if strings.HasPrefix(src.URI, "gs://") {
		req.Source = &documentaipb.ProcessRequest_GcsDocument{
			GcsDocument: &documentaipb.GcsDocument{
				GcsUri:   src.URI,
				MimeType: resolveMime(src.MimeType, nil),
			},
		}
	} else {
		data, err := loadData(ctx, d.store, src)
		if err != nil {
			return Result{}, err
		}
		req.Source = &documentaipb.ProcessRequest_RawDocument{
			RawDocument: &documentaipb.RawDocument{
				Content:  data,
				MimeType: resolveMime(src.MimeType, data),
			},
		}
	}

	resp, err := d.process(ctx, req)
	if err != nil {
		return Result{}, Fail(ReasonUpstream, fmt.Errorf("documentai ProcessDocument: %w", err))
	}
	return resultFromDocument(resp.GetDocument())
}

// Close releases the underlying client.
func (d *DocumentAI) Close() error {
	if d == nil || d.closeFn == nil {
		return nil
	}
	return d.closeFn()
}

func resultFromDocument(doc *documentaipb.Document) (Result, error) {
	text := strings.TrimSpace(doc.GetText())
	if text == "" {
		return Result{}, Fail(ReasonEmptyText, nil)
	}

	var confidences []float32
	for _, page := range doc.GetPages() {
		for _, tok := range page.GetTokens() {
			if layout := tok.GetLayout(); layout != nil {
				confidences = append(confidences, layout.GetConfidence())
			}
		}
	}

	entities := make([]Entity, 0, len(doc.GetEntities()))
	for _, e := range doc.GetEntities() {
		entities = append(entities, Entity{
			Type:        e.GetType(),
			MentionText: e.GetMentionText(),
			Confidence:  float64(e.GetConfidence()),
		})
	}

	return Result{
		Text:       doc.GetText(),
		Entities:   entities,
		Confidence: MeanConfidence(confidences),
		Pages:      len(doc.GetPages()),
	}, nil
}

func processorName(projectID, location, processorID string) string {
	return fmt.Sprintf("projects/%s/locations/%s/processors/%s", projectID, location, processorID)
}

var _ Extractor = (*DocumentAI)(nil)
