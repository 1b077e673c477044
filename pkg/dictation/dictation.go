// Package dictation wires audio capture, transcription, post-processing,
// and text injection together behind an explicit state machine: Idle,
// Recording, Transcribing, Injecting. It owns the rate limiters and size
// bounds that gate each transition, and extracts/dispatches command markers
// from post-processed transcripts in source order.
package dictation

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jeff-barlow-spady/dictated/pkg/audio"
	"github.com/jeff-barlow-spady/dictated/pkg/errreport"
	"github.com/jeff-barlow-spady/dictated/pkg/history"
	"github.com/jeff-barlow-spady/dictated/pkg/hotkey"
	"github.com/jeff-barlow-spady/dictated/pkg/inject"
	"github.com/jeff-barlow-spady/dictated/pkg/logger"
	"github.com/jeff-barlow-spady/dictated/pkg/postprocess"
	"github.com/jeff-barlow-spady/dictated/pkg/ratelimit"
	"github.com/jeff-barlow-spady/dictated/pkg/transcription"
)

// State is one of the four states the orchestrator moves through for a
// single dictation session.
type State string

const (
	StateIdle         State = "Idle"
	StateRecording    State = "Recording"
	StateTranscribing State = "Transcribing"
	StateInjecting    State = "Injecting"
)

// markerToShortcut maps a postprocess.Marker to the inject.ShortcutName it
// dispatches. Every marker lowercases directly to its shortcut name except
// DELETE_LAST, which the design notes resolve to backspace_word: deleting
// the most recently dictated word reads more naturally as a word-granularity
// backspace than a single character delete.
func markerToShortcut(m postprocess.Marker) inject.ShortcutName {
	if m == postprocess.MarkerDeleteLast {
		return inject.ShortcutBackspaceWord
	}
	return inject.ShortcutName(strings.ToLower(string(m)))
}

// Diagnostics is a read-only snapshot of orchestrator counters, intended for
// an out-of-scope GUI or CLI status command to poll.
type Diagnostics struct {
	State               State
	SessionsCompleted   int
	SessionsCancelled   int
	SessionsFailed      int
	LastTranscript      string
	LastError           string
	RecordingRemaining  int
	TranscriptRemaining int
	InjectionRemaining  int
}

// Config holds the orchestrator's tunables; callers typically derive these
// from config.Config.
type Config struct {
	Toggle            bool // false: push-to-talk. true: press to start, press again to stop.
	PreserveClipboard bool
}

// Orchestrator drives one dictation session at a time end to end: hotkey
// press/release, audio capture, transcription, post-processing, and
// injection, gated by rate limiters and size bounds.
type Orchestrator struct {
	cfg Config

	mu    sync.Mutex
	state State

	capture   *audio.Capture
	handle    *transcription.Handle
	processor *postprocess.Processor
	injector  *inject.Injector
	listener  *hotkey.Listener
	limiters  *ratelimit.Set
	historyDB history.Store
	reporter  *errreport.Reporter

	samples    []float32
	sampleMu   sync.Mutex
	recordingActive bool

	diag Diagnostics
}

// New constructs an Orchestrator. handle may be nil initially — Recording
// transitions refuse to start until a model is loaded via SetModel.
func New(cfg Config, capture *audio.Capture, injector *inject.Injector, limiters *ratelimit.Set, historyDB history.Store, reporter *errreport.Reporter) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		state:     StateIdle,
		capture:   capture,
		processor: postprocess.New(),
		injector:  injector,
		limiters:  limiters,
		historyDB: historyDB,
		reporter:  reporter,
		diag:      Diagnostics{State: StateIdle},
	}
}

// SetModel installs the loaded transcription handle. Call before starting
// the hotkey listener, or while Idle.
func (o *Orchestrator) SetModel(handle *transcription.Handle) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.handle = handle
}

// Listen starts the hotkey listener with chord, wiring its pressed/released
// edges to the state machine.
func (o *Orchestrator) Listen(chord hotkey.Chord) error {
	o.listener = hotkey.NewListener(chord)
	return o.listener.Start(o.onHotkeyPressed, o.onHotkeyReleased)
}

// StopListening tears down the hotkey listener.
func (o *Orchestrator) StopListening() {
	if o.listener != nil {
		o.listener.Stop()
	}
}

func (o *Orchestrator) onHotkeyPressed() {
	if o.cfg.Toggle {
		o.mu.Lock()
		state := o.state
		o.mu.Unlock()

		if state == StateIdle {
			o.startRecording()
		} else if state == StateRecording {
			o.stopRecordingAndProcess()
		}
		return
	}

	o.startRecording()
}

func (o *Orchestrator) onHotkeyReleased() {
	if o.cfg.Toggle {
		return
	}
	o.stopRecordingAndProcess()
}

// startRecording performs the Idle -> Recording transition: hotkey-pressed
// (or hotkey-click in toggle mode) AND rate-limit OK AND model loaded.
func (o *Orchestrator) startRecording() {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return
	}
	if o.handle == nil {
		o.mu.Unlock()
		o.reportError(errreport.SeverityWarning, errreport.CategoryModel, "no model loaded, ignoring hotkey")
		return
	}
	if !o.limiters.Recording.Allow() {
		o.mu.Unlock()
		o.reportError(errreport.SeverityWarning, errreport.CategorySystem, "recording rate limit exceeded")
		return
	}

	o.sampleMu.Lock()
	o.samples = o.samples[:0]
	o.recordingActive = true
	o.sampleMu.Unlock()

	if err := o.capture.Start(o.onAudioSamples); err != nil {
		o.mu.Unlock()
		o.reportError(errreport.SeverityError, errreport.CategoryAudio, fmt.Sprintf("failed to start capture: %v", err))
		return
	}

	o.state = StateRecording
	o.diag.State = StateRecording
	o.mu.Unlock()

	logger.Info(logger.CategoryDictation, "recording started")
}

func (o *Orchestrator) onAudioSamples(chunk []float32) {
	o.sampleMu.Lock()
	defer o.sampleMu.Unlock()
	if !o.recordingActive {
		return
	}
	o.samples = append(o.samples, chunk...)
}

// Cancel performs the Recording -> Idle "cancel" transition: stop capture
// and discard samples without transcribing. It is the only cooperative
// cancel point and is race-safe with the hold/release stop path.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	if o.state != StateRecording {
		o.mu.Unlock()
		return
	}
	o.state = StateIdle
	o.diag.State = StateIdle
	o.diag.SessionsCancelled++
	o.mu.Unlock()

	o.sampleMu.Lock()
	o.recordingActive = false
	o.samples = o.samples[:0]
	o.sampleMu.Unlock()

	if o.capture != nil {
		if err := o.capture.Stop(); err != nil {
			logger.Warning(logger.CategoryAudio, "failed to stop capture during cancel: %v", err)
		}
	}

	logger.Info(logger.CategoryDictation, "recording cancelled")
}

// stopRecordingAndProcess performs Recording -> Transcribing -> Injecting ->
// Idle as one synchronous pipeline: transcribe is blocking and not
// cancellable, matching the concurrency model's ordering guarantees.
func (o *Orchestrator) stopRecordingAndProcess() {
	o.mu.Lock()
	if o.state != StateRecording {
		o.mu.Unlock()
		return
	}
	o.state = StateTranscribing
	o.diag.State = StateTranscribing
	handle := o.handle
	o.mu.Unlock()

	o.sampleMu.Lock()
	o.recordingActive = false
	samples := make([]float32, len(o.samples))
	copy(samples, o.samples)
	o.sampleMu.Unlock()

	if o.capture != nil {
		if err := o.capture.Stop(); err != nil {
			logger.Warning(logger.CategoryAudio, "failed to stop capture: %v", err)
		}
	}
	logger.Info(logger.CategoryDictation, "recording stopped, %d samples captured", len(samples))

	if len(samples) == 0 {
		o.failSession(errreport.CategoryAudio, "No audio recorded")
		return
	}

	if !o.limiters.Transcription.Allow() {
		o.failSession(errreport.CategorySystem, "transcription rate limit exceeded")
		return
	}

	text, err := handle.Transcribe(samples)
	if err != nil {
		o.failSession(errreport.CategoryTranscription, fmt.Sprintf("transcription failed: %v", err))
		return
	}

	o.mu.Lock()
	o.state = StateInjecting
	o.diag.State = StateInjecting
	o.diag.LastTranscript = text
	o.mu.Unlock()

	processed := o.processor.Process(text)
	segments := postprocess.ExtractSegments(processed)

	if err := o.dispatchSegments(segments); err != nil {
		o.failSession(errreport.CategoryTextInjection, fmt.Sprintf("injection failed: %v", err))
		return
	}

	if o.historyDB != nil {
		if err := o.historyDB.Append(history.Entry{Timestamp: time.Now(), Text: processed}); err != nil {
			logger.Warning(logger.CategoryDictation, "failed to persist transcript to history: %v", err)
		}
	}

	o.mu.Lock()
	o.state = StateIdle
	o.diag.State = StateIdle
	o.diag.SessionsCompleted++
	o.mu.Unlock()

	logger.Info(logger.CategoryDictation, "session complete")
}

// dispatchSegments injects each contiguous text run and executes each
// marker's shortcut, in source order, per spec.md's command-extraction
// rule: text is injected before the markers that follow it.
func (o *Orchestrator) dispatchSegments(segments []postprocess.Segment) error {
	if !o.limiters.Injection.Allow() {
		return fmt.Errorf("injection rate limit exceeded")
	}

	for _, seg := range segments {
		if seg.IsMarker {
			if err := o.injector.ExecuteShortcut(markerToShortcut(seg.Marker)); err != nil {
				return err
			}
			continue
		}
		if seg.Text == "" {
			continue
		}
		if err := o.injector.InjectText(seg.Text); err != nil {
			return err
		}
	}
	return nil
}

// failSession performs the "any -> Idle on fatal error" transition: report
// to the error reporter, leave capture stopped, and return to Idle.
func (o *Orchestrator) failSession(category errreport.Category, message string) {
	o.mu.Lock()
	o.state = StateIdle
	o.diag.State = StateIdle
	o.diag.SessionsFailed++
	o.diag.LastError = message
	o.mu.Unlock()

	o.reportError(errreport.SeverityError, category, message)
}

func (o *Orchestrator) reportError(severity errreport.Severity, category errreport.Category, message string) {
	if o.reporter != nil {
		o.reporter.Report(errreport.New(severity, category, message))
	} else {
		logger.Error(logger.CategoryDictation, message)
	}
}

// Snapshot returns a copy of the current diagnostics, including rate-limiter
// headroom, for an out-of-process poller.
func (o *Orchestrator) Snapshot() Diagnostics {
	o.mu.Lock()
	defer o.mu.Unlock()

	snap := o.diag
	snap.RecordingRemaining = o.limiters.Recording.Count()
	snap.TranscriptRemaining = o.limiters.Transcription.Count()
	snap.InjectionRemaining = o.limiters.Injection.Count()
	return snap
}

// CurrentState returns the orchestrator's current state.
func (o *Orchestrator) CurrentState() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}
