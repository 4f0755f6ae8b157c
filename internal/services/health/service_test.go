package health

import (
	"testing"
	"time"
)

func TestStatusReportsUptime(t *testing.T) {
	start := time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)
	svc := &Service{startedAt: start, now: func() time.Time { return start.Add(90 * time.Second) }}

	st := svc.Status()
	if st.Status != "ok" {
		t.Fatalf("status = %q", st.Status)
	}
	if st.Uptime != 90 {
		t.Fatalf("uptime = %v", st.Uptime)
	}
}
