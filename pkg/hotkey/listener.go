package hotkey

import (
	"fmt"
	"strings"
	"sync"

	hook "github.com/robotn/gohook"

	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// modifier bitmasks as reported by gohook's Rawcode field (kept from the
// original detector, which discovered these empirically against X11/Windows
// raw key codes).
const (
	rawCtrl  = 0x01
	rawShift = 0x02
	rawAlt   = 0x04
	rawSuper = 0x08
)

// Listener registers a single Chord with the OS and emits edge-triggered
// Pressed/Released callbacks: one on the key-down edge and one on the
// key-up edge of each match.
type Listener struct {
	mu      sync.Mutex
	chord   Chord
	active  bool
	stopCh  chan struct{}
	wasDown bool
}

// NewListener creates a Listener for the given chord.
func NewListener(chord Chord) *Listener {
	return &Listener{chord: chord}
}

// Start begins listening. onPressed fires on the key-down transition;
// onReleased fires on the key-up transition of the same key. Held-key repeat
// events are suppressed (the listener only reports true edges).
func (l *Listener) Start(onPressed, onReleased func()) error {
	l.mu.Lock()
	if l.active {
		l.mu.Unlock()
		return fmt.Errorf("hotkey: listener already running")
	}
	l.active = true
	l.stopCh = make(chan struct{})
	l.mu.Unlock()

	go func() {
		evChan := hook.Start()
		defer hook.End()

		for {
			select {
			case <-l.stopCh:
				return
			case ev := <-evChan:
				l.handleEvent(ev, onPressed, onReleased)
			}
		}
	}()

	logger.Info(logger.CategoryHotkey, "listening for %s", l.chord.String())
	return nil
}

func (l *Listener) handleEvent(ev hook.Event, onPressed, onReleased func()) {
	matches := matchesChord(ev, l.chord)

	switch ev.Kind {
	case hook.KeyDown:
		if matches && !l.wasDown {
			l.wasDown = true
			onPressed()
		}
	case hook.KeyUp:
		if matches && l.wasDown {
			l.wasDown = false
			onReleased()
		}
	}
}

// Stop terminates the listener.
func (l *Listener) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.active {
		return
	}
	l.active = false
	close(l.stopCh)
}

func matchesChord(ev hook.Event, chord Chord) bool {
	keyChar := strings.ToLower(string(ev.Keychar))
	if keyChar != chord.Key {
		return false
	}

	ctrl := ev.Rawcode&rawCtrl != 0
	shift := ev.Rawcode&rawShift != 0
	alt := ev.Rawcode&rawAlt != 0
	super := ev.Rawcode&rawSuper != 0

	return ctrl == chord.Ctrl && shift == chord.Shift && alt == chord.Alt && super == chord.Super
}
