// Package transcription provides speech-to-text functionality.
package transcription

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeff-barlow-spady/dictated/pkg/audio"
	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// ExecutableType represents the dialect of whisper CLI an executable speaks.
type ExecutableType int

const (
	ExecutableTypeWhisperCpp ExecutableType = iota
	ExecutableTypeWhisperGael
	ExecutableTypeUnknown
)

func detectExecutableType(execPath string) ExecutableType {
	if strings.Contains(execPath, "whisper-cpp") || strings.Contains(execPath, "main") {
		return ExecutableTypeWhisperCpp
	}
	if strings.Contains(execPath, "whisper-gael") || strings.Contains(execPath, "whisper.py") {
		return ExecutableTypeWhisperGael
	}
	return ExecutableTypeWhisperCpp
}

func getExecutableTypeName(t ExecutableType) string {
	switch t {
	case ExecutableTypeWhisperCpp:
		return "whisper.cpp"
	case ExecutableTypeWhisperGael:
		return "whisper-gael"
	default:
		return "unknown"
	}
}

// ExecutableEngine transcribes one clip at a time by shelling out to a
// whisper CLI binary. It is the fallback used by the stub Handle when the
// cgo whisper.cpp Go bindings are not compiled in: same one-shot contract as
// the bindings-backed Handle, with best_of/beam_size 1 set by the CLI flags
// below, just driven through a subprocess instead of cgo.
type ExecutableEngine struct {
	mu             sync.Mutex
	executablePath string
	modelPath      string
}

// NewExecutableEngine locates a whisper CLI executable (explicit path, or a
// search of standard install locations) and pairs it with modelPath.
func NewExecutableEngine(executablePath, modelPath string) (*ExecutableEngine, error) {
	execPath, err := ensureExecutablePath(executablePath)
	if err != nil {
		return nil, fmt.Errorf("failed to find whisper executable: %w", err)
	}
	if _, err := os.Stat(modelPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrModelNotFound, modelPath)
	}

	logger.Info(logger.CategoryTranscription, "using %s executable at %s with model %s",
		getExecutableTypeName(detectExecutableType(execPath)), execPath, modelPath)

	return &ExecutableEngine{executablePath: execPath, modelPath: modelPath}, nil
}

// Transcribe writes samples to a temporary WAV file and runs it through the
// whisper executable with best_of/beam_size 1, as engine.go configures.
func (e *ExecutableEngine) Transcribe(samples []float32) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(samples) == 0 {
		return "", fmt.Errorf("no audio samples to transcribe")
	}

	tempDir, err := os.MkdirTemp("", "dictated-exec-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}
	defer os.RemoveAll(tempDir)

	wavFile := filepath.Join(tempDir, "audio.wav")
	if err := audio.SaveToWav(samples, wavFile); err != nil {
		return "", fmt.Errorf("failed to save audio to WAV file: %w", err)
	}

	text, err := e.runExecutable(wavFile)
	if err != nil {
		return "", err
	}
	return NormalizeTranscriptionText(text), nil
}

// ModelPath returns the model path this engine was constructed with.
func (e *ExecutableEngine) ModelPath() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.modelPath
}

func (e *ExecutableEngine) runExecutable(wavFile string) (string, error) {
	absWavPath, err := filepath.Abs(wavFile)
	if err != nil {
		return "", err
	}

	var args []string
	switch detectExecutableType(e.executablePath) {
	case ExecutableTypeWhisperGael:
		args = []string{"--input", absWavPath, "--model", e.modelPath, "--output_txt"}
	default:
		args = []string{"-f", absWavPath, "-m", e.modelPath, "-otxt", "-np", "-bo", "1", "-bs", "1"}
	}

	logger.Debug(logger.CategoryTranscription, "executing: %s %v", e.executablePath, args)

	cmd := exec.Command(e.executablePath, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return "", fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	var transcribed strings.Builder
	scanner := bufio.NewScanner(stdout)
	for scanner.Scan() {
		transcribed.WriteString(scanner.Text())
		transcribed.WriteString(" ")
	}

	stderrBytes, _ := io.ReadAll(stderr)
	if len(stderrBytes) > 0 {
		logger.Warning(logger.CategoryTranscription, "whisper executable stderr: %s", string(stderrBytes))
	}

	if err := cmd.Wait(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscriptionFailed, err)
	}

	return strings.TrimSpace(transcribed.String()), nil
}
