package metrics

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestGlobalManagerRecords(t *testing.T) {
	ObserveStage("configure", 5*time.Millisecond)
	ObserveSolve(20 * time.Millisecond)
	RecordRun(OutcomeSuccess)
	SetElectrodeCount(64)
	SetComparison(1.5, 1.4, 0.07, 0.93, 0.05)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	for _, want := range []string{
		"eeg_forward_test_stage_duration_seconds",
		"eeg_forward_test_solve_duration_seconds",
		`eeg_forward_test_runs_total{outcome="success"}`,
		"eeg_forward_test_electrode_count 64",
		"eeg_forward_test_relative_error 0.07",
		"eeg_forward_test_magnitude_error 0.93",
		"eeg_forward_test_relative_difference_measure 0.05",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("scrape output missing %q", want)
		}
	}
}

func TestNewManagerOptions(t *testing.T) {
	m := NewManager(WithNamespace("custom"))
	if m.namespace != "custom" {
		t.Errorf("namespace not applied: %q", m.namespace)
	}

	// Empty namespace must not clobber the default.
	m = NewManager(WithNamespace(""))
	if m.namespace != "eeg_forward_test" {
		t.Errorf("default namespace lost: %q", m.namespace)
	}
}
