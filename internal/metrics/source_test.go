package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegisterResolveMetrics_Idempotent(t *testing.T) {
	RegisterResolveMetrics()
	RegisterResolveMetrics()

	SourceFetchTotal.WithLabelValues("file", ResultMiss).Inc()
	if v := testutil.ToFloat64(SourceFetchTotal.WithLabelValues("file", ResultMiss)); v < 1 {
		t.Errorf("expected source_fetch_total >= 1, got %f", v)
	}
}
