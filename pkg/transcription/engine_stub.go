//go:build !(cgo && whisper_go)
// +build !cgo !whisper_go

package transcription

import (
	"fmt"
	"os"
	"sync"

	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// Handle stubs out the whisper.cpp cgo bindings for builds without cgo or
// the whisper_go tag, falling back to driving a whisper CLI executable as a
// subprocess. The one-shot contract (LoadModel/Transcribe/Unload/ModelPath)
// is identical either way; only the transport differs.
type Handle struct {
	mu        sync.Mutex
	engine    *ExecutableEngine
	modelPath string
}

var (
	liveMu  sync.Mutex
	liveOne *Handle
)

// LoadModel finds a whisper CLI executable on PATH or in standard install
// locations and pairs it with modelPath. Construction fails if no
// executable can be found, modelPath does not exist, or another Handle is
// already live.
func LoadModel(modelPath, language string) (*Handle, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("transcription: model not found at %s: %w", modelPath, err)
	}

	liveMu.Lock()
	defer liveMu.Unlock()
	if liveOne != nil {
		return nil, fmt.Errorf("transcription: a model is already loaded, unload it first")
	}

	engine, err := NewExecutableEngine("", modelPath)
	if err != nil {
		return nil, fmt.Errorf("transcription: no whisper backend available (build with -tags=whisper_go for the cgo bindings, or install a whisper CLI executable): %w", err)
	}

	h := &Handle{engine: engine, modelPath: modelPath}
	liveOne = h

	logger.Info(logger.CategoryTranscription, "loaded model %s via CLI fallback (language=%q)", modelPath, language)
	return h, nil
}

// Unload releases the single-live-model slot.
func (h *Handle) Unload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	liveMu.Lock()
	defer liveMu.Unlock()

	h.engine = nil
	if liveOne == h {
		liveOne = nil
	}
	return nil
}

// Transcribe delegates to the CLI fallback engine.
func (h *Handle) Transcribe(samples []float32) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(samples) == 0 {
		return "", fmt.Errorf("No audio samples to transcribe")
	}
	if h.engine == nil {
		return "", fmt.Errorf("transcription: model is unloaded")
	}
	return h.engine.Transcribe(samples)
}

// ModelPath returns the path the handle was loaded from.
func (h *Handle) ModelPath() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modelPath
}
