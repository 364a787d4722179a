package observability

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveTurn(t *testing.T) {
	before := testutil.ToFloat64(turns.WithLabelValues(OutcomeNotPersisted))
	ObserveTurn(OutcomeNotPersisted)
	if got := testutil.ToFloat64(turns.WithLabelValues(OutcomeNotPersisted)); got != before+1 {
		t.Fatalf("counter=%v, want %v", got, before+1)
	}
}

func TestObserveImage(t *testing.T) {
	before := testutil.ToFloat64(imageResults.WithLabelValues("try-on", "unverified"))
	ObserveImage("try-on", "unverified")
	ObserveImage("try-on", "unverified")
	if got := testutil.ToFloat64(imageResults.WithLabelValues("try-on", "unverified")); got != before+2 {
		t.Fatalf("counter=%v, want %v", got, before+2)
	}
}

func TestObserveCompletion(t *testing.T) {
	ObserveCompletion(1500 * time.Millisecond)
	if n := testutil.CollectAndCount(completionLat); n != 1 {
		t.Fatalf("expected a single histogram series, got %d", n)
	}
}
