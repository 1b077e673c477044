//go:build cgo && whisper_go
// +build cgo,whisper_go

package transcription

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// engineMaxTokens, engineTemperature and engineEntropyThreshold tune the
// model for short dictated utterances rather than long-form transcription:
// greedy decoding, no fallback, a tight token budget.
const (
	engineMaxTokens        = 64
	engineTemperature      = 0.0
	engineEntropyThreshold = 2.8
)

// Handle is a loaded model ready to transcribe. Only one Handle may be live
// at a time per process; LoadModel enforces this with a package-level mutex.
type Handle struct {
	mu        sync.Mutex
	model     whisper.Model
	modelPath string
	language  string
}

var (
	liveMu  sync.Mutex
	liveOne *Handle
)

// LoadModel loads the whisper model at modelPath and configures it for
// single-utterance, low-latency transcription. language may be "" or "auto"
// for language auto-detection, or a forced ISO 639-1 code. Construction
// fails if modelPath does not exist, or if another Handle is already live.
func LoadModel(modelPath, language string) (*Handle, error) {
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("transcription: model not found at %s: %w", modelPath, err)
	}

	liveMu.Lock()
	defer liveMu.Unlock()
	if liveOne != nil {
		return nil, fmt.Errorf("transcription: a model is already loaded, unload it first")
	}

	model, err := whisper.New(modelPath)
	if err != nil {
		return nil, fmt.Errorf("transcription: failed to load model: %w", err)
	}

	h := &Handle{model: model, modelPath: modelPath, language: language}
	liveOne = h

	logger.Info(logger.CategoryTranscription, "loaded model %s (language=%q)", modelPath, language)
	return h, nil
}

// Unload releases the model and clears the single-live-model slot.
func (h *Handle) Unload() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	liveMu.Lock()
	defer liveMu.Unlock()

	if h.model == nil {
		return nil
	}
	err := h.model.Close()
	h.model = nil
	if liveOne == h {
		liveOne = nil
	}
	return err
}

// Transcribe runs a single blocking inference pass over samples (mono
// float32 PCM at 16kHz) and returns the concatenated text of every segment
// produced, joined by single spaces with surrounding whitespace trimmed. It
// fails with "No audio samples to transcribe" on empty input.
func (h *Handle) Transcribe(samples []float32) (string, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if len(samples) == 0 {
		return "", fmt.Errorf("No audio samples to transcribe")
	}
	if h.model == nil {
		return "", fmt.Errorf("transcription: model is unloaded")
	}

	ctx, err := h.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("transcription: failed to create context: %w", err)
	}

	if err := h.configure(ctx); err != nil {
		return "", fmt.Errorf("transcription: failed to configure context: %w", err)
	}

	if err := ctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("transcription: inference failed: %w", err)
	}

	var parts []string
	for {
		segment, err := ctx.NextSegment()
		if err != nil {
			break
		}
		text := strings.TrimSpace(segment.Text)
		if text != "" {
			parts = append(parts, text)
		}
	}

	return strings.TrimSpace(strings.Join(parts, " ")), nil
}

// configure applies the spec's fixed inference contract: greedy decoding
// with best_of/beam_size 1, no translation, no timestamps, no context
// carry-over, a tight token budget and zero temperature with no fallback,
// and full CPU thread parallelism. Single-segment mode is not set; Transcribe
// joins whatever segments the model returns.
func (h *Handle) configure(ctx whisper.Context) error {
	if h.language == "" || h.language == "auto" {
		_ = ctx.SetLanguage("auto")
	} else if err := ctx.SetLanguage(h.language); err != nil {
		return err
	}

	ctx.SetTranslate(false)
	ctx.SetSplitOnWord(false)
	ctx.SetThreads(uint(runtime.NumCPU()))
	ctx.SetMaxTokensPerSegment(engineMaxTokens)
	ctx.SetTokenTimestamps(false)
	ctx.SetTemperature(engineTemperature)
	ctx.SetTemperatureFallback(false)
	ctx.SetEntropyThold(engineEntropyThreshold)
	ctx.SetBeamSize(1)
	ctx.SetBestOf(1)

	return nil
}

// ModelPath returns the path the handle was loaded from.
func (h *Handle) ModelPath() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.modelPath
}
