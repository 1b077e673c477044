package dictation

import (
	"testing"

	"github.com/jeff-barlow-spady/dictated/pkg/history"
	"github.com/jeff-barlow-spady/dictated/pkg/inject"
	"github.com/jeff-barlow-spady/dictated/pkg/postprocess"
	"github.com/jeff-barlow-spady/dictated/pkg/ratelimit"
)

func newTestOrchestrator() *Orchestrator {
	limiters := ratelimit.NewSet(100, 60, 50, 60, 100, 60)
	return New(Config{}, nil, inject.New(false), limiters, history.NewMemoryStore(10), nil)
}

func TestMarkerToShortcutDeleteLastMapsToBackspaceWord(t *testing.T) {
	if got := markerToShortcut(postprocess.MarkerDeleteLast); got != inject.ShortcutBackspaceWord {
		t.Errorf("markerToShortcut(DELETE_LAST) = %q, want %q", got, inject.ShortcutBackspaceWord)
	}
}

func TestMarkerToShortcutLowercasesDirectly(t *testing.T) {
	cases := map[postprocess.Marker]inject.ShortcutName{
		postprocess.MarkerUndo:      inject.ShortcutUndo,
		postprocess.MarkerRedo:      inject.ShortcutRedo,
		postprocess.MarkerSelectAll: inject.ShortcutSelectAll,
		postprocess.MarkerWordLeft:  inject.ShortcutWordLeft,
		postprocess.MarkerWordRight: inject.ShortcutWordRight,
	}
	for marker, want := range cases {
		if got := markerToShortcut(marker); got != want {
			t.Errorf("markerToShortcut(%s) = %q, want %q", marker, got, want)
		}
	}
}

func TestStartRecordingRefusesWithoutModel(t *testing.T) {
	o := newTestOrchestrator()
	o.startRecording()

	if got := o.CurrentState(); got != StateIdle {
		t.Errorf("expected state to remain Idle without a loaded model, got %s", got)
	}
}

func TestCancelFromIdleIsNoop(t *testing.T) {
	o := newTestOrchestrator()
	o.Cancel()

	if got := o.CurrentState(); got != StateIdle {
		t.Errorf("expected state to remain Idle, got %s", got)
	}
	if o.Snapshot().SessionsCancelled != 0 {
		t.Error("expected no cancellation to be recorded when not recording")
	}
}

func TestStopRecordingWithNoSamplesFailsAsNoAudioRecorded(t *testing.T) {
	o := newTestOrchestrator()

	o.mu.Lock()
	o.state = StateRecording
	o.diag.State = StateRecording
	o.mu.Unlock()

	o.sampleMu.Lock()
	o.samples = o.samples[:0]
	o.recordingActive = true
	o.sampleMu.Unlock()

	o.stopRecordingAndProcess()

	if got := o.CurrentState(); got != StateIdle {
		t.Errorf("expected state to return to Idle, got %s", got)
	}

	snap := o.Snapshot()
	if snap.SessionsFailed != 1 {
		t.Errorf("expected 1 failed session, got %d", snap.SessionsFailed)
	}
	if snap.LastError != "No audio recorded" {
		t.Errorf("expected LastError %q, got %q", "No audio recorded", snap.LastError)
	}
}

func TestSnapshotReflectsRateLimiterHeadroom(t *testing.T) {
	o := newTestOrchestrator()
	o.limiters.Recording.Allow()
	o.limiters.Recording.Allow()

	snap := o.Snapshot()
	if snap.RecordingRemaining != 2 {
		t.Errorf("expected 2 recorded recording attempts, got %d", snap.RecordingRemaining)
	}
	if snap.State != StateIdle {
		t.Errorf("expected initial state Idle, got %s", snap.State)
	}
}
