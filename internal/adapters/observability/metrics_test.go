package observability_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storelens/internal/adapters/observability"
)

func TestMetricsRegistryAndHandler(t *testing.T) {
	reg := observability.InitRegistry()

	// record samples so counters are non-zero
	observability.ObserveHTTP("/test", "GET", 200, 12*time.Millisecond)
	observability.ObserveAnalysis("factor", nil)
	observability.ObserveAnalysis("emotion", errors.New("boom"))

	mh := observability.MetricsHandler(reg)
	req := httptest.NewRequest("GET", "/metrics", nil)
	rr := httptest.NewRecorder()
	mh.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", rr.Code)
	}
	body, _ := io.ReadAll(rr.Body)
	out := string(body)
	if !strings.Contains(out, "storelens_http_requests_total") {
		t.Fatalf("expected storelens_http_requests_total in output")
	}
	if !strings.Contains(out, "storelens_analysis_runs_total") {
		t.Fatalf("expected storelens_analysis_runs_total in output")
	}
	if !strings.Contains(out, `outcome="error"`) {
		t.Fatalf("expected an error-outcome analysis sample")
	}
}
