package metrics

import (
	"strings"
	"testing"
)

func TestRenderExposesCountersAndHistogram(t *testing.T) {
	IncIngestStarted()
	IncIngestCompleted()
	ObserveExtractionDurationMs(42)

	out := Render()
	for _, want := range []string{
		"# TYPE ingest_started_total counter",
		"# TYPE ingest_completed_total counter",
		"# TYPE ingest_failed_total counter",
		"# TYPE extraction_duration_ms histogram",
		"extraction_duration_ms_bucket{le=\"+Inf\"}",
		"extraction_duration_ms_sum",
		"extraction_duration_ms_count",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in render output:\n%s", want, out)
		}
	}
}

func TestObserveClampsNegativeDurations(t *testing.T) {
	before := extractionDuration.Snapshot()
	ObserveExtractionDurationMs(-5)
	after := extractionDuration.Snapshot()
	if after.count != before.count+1 {
		t.Fatalf("expected observation recorded")
	}
	if after.sum < before.sum {
		t.Fatalf("negative value must clamp to zero, sum went from %f to %f", before.sum, after.sum)
	}
}
