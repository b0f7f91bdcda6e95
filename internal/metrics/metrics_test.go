package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveCheck(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.ObserveCheck(RESULT_OK, 3, time.Millisecond)
	c.ObserveCheck(RESULT_OK, 2, time.Millisecond)
	c.ObserveCheck(RESULT_INVALID, 4, time.Millisecond)

	if got := promtest.ToFloat64(c.checks.WithLabelValues(RESULT_OK)); got != 2 {
		t.Errorf("expected 2 ok checks, got %v", got)
	}
	if got := promtest.ToFloat64(c.checks.WithLabelValues(RESULT_INVALID)); got != 1 {
		t.Errorf("expected 1 invalid check, got %v", got)
	}
	if got := promtest.ToFloat64(c.checks.WithLabelValues(RESULT_DECODE)); got != 0 {
		t.Errorf("expected 0 decode failures, got %v", got)
	}
	if got := promtest.ToFloat64(c.nodes); got != 9 {
		t.Errorf("expected 9 nodes, got %v", got)
	}
}

func TestHandler(t *testing.T) {
	c := NewCollector(nil)
	c.ObserveCheck(RESULT_INTERNAL, 0, time.Millisecond)

	server := httptest.NewServer(c.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	if !strings.Contains(string(body), `hexpat_checks_total{result="internal"} 1`) {
		t.Errorf("metric missing from output:\n%s", body)
	}
	if !strings.Contains(string(body), "hexpat_check_duration_seconds_count 1") {
		t.Errorf("histogram missing from output:\n%s", body)
	}
}
