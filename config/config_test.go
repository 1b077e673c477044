package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.HotKeyCtrl {
		t.Error("Expected default HotKeyCtrl to be true")
	}
	if !cfg.HotKeyShift {
		t.Error("Expected default HotKeyShift to be true")
	}
	if cfg.HotKeyAlt {
		t.Error("Expected default HotKeyAlt to be false")
	}
	if cfg.HotKeyKey != "s" {
		t.Errorf("Expected default HotKeyKey to be 's', got '%s'", cfg.HotKeyKey)
	}
	if cfg.HotKeyChord != "ctrl+shift+s" {
		t.Errorf("Expected default HotKeyChord to be 'ctrl+shift+s', got '%s'", cfg.HotKeyChord)
	}

	if cfg.AudioSampleRate != 16000 {
		t.Errorf("Expected default AudioSampleRate to be 16000, got %d", cfg.AudioSampleRate)
	}
	if cfg.AudioBufferSize != 1024 {
		t.Errorf("Expected default AudioBufferSize to be 1024, got %d", cfg.AudioBufferSize)
	}
	if cfg.AudioChannels != 1 {
		t.Errorf("Expected default AudioChannels to be 1, got %d", cfg.AudioChannels)
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		expectedModelPath := filepath.Join(homeDir, ".dictated", "models")
		if cfg.WhisperModelPath != expectedModelPath {
			t.Errorf("Expected default WhisperModelPath to be '%s', got '%s'", expectedModelPath, cfg.WhisperModelPath)
		}
	}
	if cfg.WhisperModelType != "tiny" {
		t.Errorf("Expected default WhisperModelType to be 'tiny', got '%s'", cfg.WhisperModelType)
	}
	if cfg.WhisperLanguage != "auto" {
		t.Errorf("Expected default WhisperLanguage to be 'auto', got '%s'", cfg.WhisperLanguage)
	}

	if cfg.RecordingRateLimit != 100 || cfg.RecordingRateWindowSec != 60 {
		t.Errorf("Expected default recording rate limit 100/60s, got %d/%ds",
			cfg.RecordingRateLimit, cfg.RecordingRateWindowSec)
	}
	if cfg.TranscriptionRateLimit != 50 || cfg.TranscriptionRateWindowSec != 60 {
		t.Errorf("Expected default transcription rate limit 50/60s, got %d/%ds",
			cfg.TranscriptionRateLimit, cfg.TranscriptionRateWindowSec)
	}
}

func TestCurrentConfig(t *testing.T) {
	if Current == nil {
		t.Fatal("Current config should not be nil")
	}

	if Current.HotKeyKey != "s" {
		t.Errorf("Expected Current.HotKeyKey to be 's', got '%s'", Current.HotKeyKey)
	}
	if Current.AudioSampleRate != 16000 {
		t.Errorf("Expected Current.AudioSampleRate to be 16000, got %d", Current.AudioSampleRate)
	}
}

func TestExportImportYAML(t *testing.T) {
	orig := DefaultConfig()
	orig.HotKeyKey = "d"
	Current = orig

	data, err := ExportYAML()
	if err != nil {
		t.Fatalf("ExportYAML failed: %v", err)
	}

	Current = DefaultConfig()
	if err := ImportYAML(data); err != nil {
		t.Fatalf("ImportYAML failed: %v", err)
	}
	if Current.HotKeyKey != "d" {
		t.Errorf("Expected round-tripped HotKeyKey 'd', got '%s'", Current.HotKeyKey)
	}
}
