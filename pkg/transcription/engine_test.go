package transcription

import "testing"

// These tests verify the package's external contract without requiring the
// whisper.cpp bindings or a model file to be present.
func TestLoadModelFailsForMissingModel(t *testing.T) {
	if _, err := LoadModel("/nonexistent/model.bin", "en"); err == nil {
		t.Fatal("expected LoadModel to fail for a missing model file")
	}
}

func TestTranscribeFailsOnUnloadedHandle(t *testing.T) {
	h := &Handle{}
	if _, err := h.Transcribe([]float32{0.1, 0.2}); err == nil {
		t.Fatal("expected Transcribe to fail on a handle with no model loaded")
	}
}
