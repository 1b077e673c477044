package errreport

import (
	"path/filepath"
	"testing"
)

// newTestReporter returns the process-wide Reporter, initialising it on the
// first call. Init is idempotent (sync.Once-guarded), so every test shares
// one Reporter for the process lifetime of the test binary; Clear() resets
// its state between tests.
func newTestReporter(t *testing.T) *Reporter {
	t.Helper()
	r, err := Init(t.TempDir(), "test")
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	r.Clear()
	return r
}

func TestFingerprintFormat(t *testing.T) {
	report := New(SeverityError, CategoryAudio, "device missing")
	want := "Audio:Error:device missing"
	if got := report.Fingerprint(); got != want {
		t.Errorf("Fingerprint() = %q, want %q", got, want)
	}
}

func TestReportDeduplicatesByFingerprint(t *testing.T) {
	r := newTestReporter(t)

	for i := 0; i < 5; i++ {
		r.Report(New(SeverityWarning, CategoryHotkey, "registration failed"))
	}

	recent := r.GetRecent()
	if len(recent) != 1 {
		t.Fatalf("expected 1 deduplicated report, got %d", len(recent))
	}
	if recent[0].OccurrenceCount != 5 {
		t.Errorf("expected occurrence count 5, got %d", recent[0].OccurrenceCount)
	}
}

func TestExportJSONAndMarkdownNonEmpty(t *testing.T) {
	r := newTestReporter(t)
	r.Report(New(SeverityError, CategoryModel, "model load failed"))

	data, err := r.ExportJSON()
	if err != nil {
		t.Fatalf("ExportJSON failed: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty JSON export")
	}

	md := r.ExportMarkdown()
	if md == "" {
		t.Error("expected non-empty markdown export")
	}
}

func TestPersistAndLoadRoundTrip(t *testing.T) {
	r := newTestReporter(t)
	r.Report(New(SeverityCritical, CategoryDatabase, "disk full"))

	path := filepath.Join(t.TempDir(), "reports.json")
	if err := r.PersistToFile(path); err != nil {
		t.Fatalf("PersistToFile failed: %v", err)
	}

	r.Clear()
	if err := r.LoadFromFile(path); err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}

	recent := r.GetRecent()
	if len(recent) != 1 || recent[0].Message != "disk full" {
		t.Errorf("expected round-tripped report 'disk full', got %+v", recent)
	}
}
