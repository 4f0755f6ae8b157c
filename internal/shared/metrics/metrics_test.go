package metrics

import (
	"strings"
	"testing"
)

func TestHistogramBucketsAreCumulative(t *testing.T) {
	h := newHistogram([]float64{10, 100})
	h.Observe(5)
	h.Observe(50)
	h.Observe(500)

	snap := h.Snapshot()
	if snap.count != 3 {
		t.Fatalf("expected 3 observations, got %d", snap.count)
	}
	if snap.counts[0] != 1 || snap.counts[1] != 1 {
		t.Fatalf("unexpected per-bucket counts %v", snap.counts)
	}
}

func TestRenderIncludesCounters(t *testing.T) {
	IncUploadAccepted()
	IncPipelineFailure()
	out := Render()
	for _, name := range []string{"uploads_accepted_total", "pipeline_failures_total", "pipeline_duration_ms_bucket{le=\"+Inf\"}"} {
		if !strings.Contains(out, name) {
			t.Fatalf("expected %s in output:\n%s", name, out)
		}
	}
}
