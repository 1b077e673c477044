// Package inject owns the single long-lived keyboard/clipboard injector:
// pasting text into the foreground window (clipboard fast path, keystroke
// fallback) and firing named editing shortcuts.
package inject

import (
	"fmt"
	"sync"
	"time"

	hook "github.com/robotn/gohook"

	"github.com/jeff-barlow-spady/dictated/internal/clipboard"
	"github.com/jeff-barlow-spady/dictated/internal/platform"
	"github.com/jeff-barlow-spady/dictated/pkg/logger"
)

// MaxInjectBytes is the size above which inject_text refuses the input
// outright, matching the external text-size limit for injection.
const MaxInjectBytes = 100 * 1024

// ShortcutName identifies a member of the closed set of editing actions the
// injector accepts.
type ShortcutName string

const (
	ShortcutUndo           ShortcutName = "undo"
	ShortcutRedo           ShortcutName = "redo"
	ShortcutCopy           ShortcutName = "copy"
	ShortcutCut            ShortcutName = "cut"
	ShortcutPaste          ShortcutName = "paste"
	ShortcutSelectAll      ShortcutName = "select_all"
	ShortcutBackspace      ShortcutName = "backspace"
	ShortcutBackspaceWord  ShortcutName = "backspace_word"
	ShortcutDeleteWord     ShortcutName = "delete_word"
	ShortcutDeleteLine     ShortcutName = "delete_line"
	ShortcutEnter          ShortcutName = "enter"
	ShortcutTab            ShortcutName = "tab"
	ShortcutEscape         ShortcutName = "escape"
	ShortcutLeft           ShortcutName = "left"
	ShortcutRight          ShortcutName = "right"
	ShortcutUp             ShortcutName = "up"
	ShortcutDown           ShortcutName = "down"
	ShortcutHome           ShortcutName = "home"
	ShortcutEnd            ShortcutName = "end"
	ShortcutWordLeft       ShortcutName = "word_left"
	ShortcutWordRight      ShortcutName = "word_right"
)

var knownShortcuts = map[ShortcutName]bool{
	ShortcutUndo: true, ShortcutRedo: true, ShortcutCopy: true, ShortcutCut: true,
	ShortcutPaste: true, ShortcutSelectAll: true, ShortcutBackspace: true,
	ShortcutBackspaceWord: true, ShortcutDeleteWord: true, ShortcutDeleteLine: true,
	ShortcutEnter: true, ShortcutTab: true, ShortcutEscape: true,
	ShortcutLeft: true, ShortcutRight: true, ShortcutUp: true, ShortcutDown: true,
	ShortcutHome: true, ShortcutEnd: true, ShortcutWordLeft: true, ShortcutWordRight: true,
}

// Injector is a single long-lived instance per process, held behind a mutex:
// the underlying OS input handle is exclusive, so every public method
// serialises on mu regardless of which goroutine calls it.
type Injector struct {
	mu                sync.Mutex
	preserveClipboard bool
}

// New constructs an Injector. preserveClipboard selects whether inject_text
// restores the user's previous clipboard contents after pasting (see the
// open question in the design notes — this implementation defaults to
// overwrite, matching the disabled-but-mentioned restore behaviour of the
// system this was distilled from).
func New(preserveClipboard bool) *Injector {
	return &Injector{preserveClipboard: preserveClipboard}
}

// InjectText pastes s into the foreground window. It is a no-op on empty
// input, refuses input over MaxInjectBytes, prefers the clipboard-paste fast
// path, and falls back to character-by-character keystroke synthesis if the
// clipboard is unavailable or the set operation fails.
func (inj *Injector) InjectText(s string) error {
	if s == "" {
		return nil
	}
	if len(s) > MaxInjectBytes {
		return fmt.Errorf("text injection: input of %d bytes exceeds the %d byte limit", len(s), MaxInjectBytes)
	}

	inj.mu.Lock()
	defer inj.mu.Unlock()

	var previous string
	var hadPrevious bool
	if inj.preserveClipboard {
		if prev, err := clipboard.GetText(); err == nil {
			previous, hadPrevious = prev, true
		}
	}

	if err := clipboard.SetText(s); err != nil {
		logger.Warning(logger.CategoryInjection, "clipboard set failed, falling back to keystroke typing: %v", err)
		return inj.typeFallback(s)
	}

	inj.firePasteChord()

	if hadPrevious {
		// Best-effort restore; a failure here must not surface to the
		// caller since the paste itself already succeeded.
		if err := clipboard.SetText(previous); err != nil {
			logger.Debug(logger.CategoryInjection, "failed to restore previous clipboard contents: %v", err)
		}
	}

	return nil
}

// firePasteChord synthesises the platform paste chord after a brief
// platform-specific sleep to give the clipboard time to settle.
func (inj *Injector) firePasteChord() {
	delay := platform.PasteSyncDelayMicros()
	if delay > 0 {
		time.Sleep(time.Duration(delay) * time.Microsecond)
	}

	mod := modifierKey(platform.Primary())
	hook.KeyTap("v", mod)
}

// typeFallback synthesises s one character at a time, tolerating the
// clipboard being unavailable.
func (inj *Injector) typeFallback(s string) error {
	for _, r := range s {
		key := string(r)
		if key == "\n" {
			hook.KeyTap("enter")
			continue
		}
		if key == "\t" {
			hook.KeyTap("tab")
			continue
		}
		hook.KeyTap(key)
	}
	return nil
}

// ExecuteShortcut dispatches a single named editing shortcut. name must
// belong to the closed set; anything else is a programmer error surfaced to
// the user.
func (inj *Injector) ExecuteShortcut(name ShortcutName) error {
	if !knownShortcuts[name] {
		return fmt.Errorf("unknown shortcut: %s", name)
	}

	inj.mu.Lock()
	defer inj.mu.Unlock()

	primary := modifierKey(platform.Primary())
	wordMod := modifierKey(platform.WordJump())

	switch name {
	case ShortcutUndo:
		hook.KeyTap("z", primary)
	case ShortcutRedo:
		if platform.IsApple() {
			hook.KeyTap("z", primary, "shift")
		} else {
			hook.KeyTap("y", primary)
		}
	case ShortcutCopy:
		hook.KeyTap("c", primary)
	case ShortcutCut:
		hook.KeyTap("x", primary)
	case ShortcutPaste:
		hook.KeyTap("v", primary)
	case ShortcutSelectAll:
		hook.KeyTap("a", primary)
	case ShortcutBackspace:
		hook.KeyTap("backspace")
	case ShortcutBackspaceWord:
		hook.KeyTap("backspace", wordMod)
	case ShortcutDeleteWord:
		hook.KeyTap("delete", wordMod)
	case ShortcutDeleteLine:
		inj.executeDeleteLine()
	case ShortcutEnter:
		hook.KeyTap("enter")
	case ShortcutTab:
		hook.KeyTap("tab")
	case ShortcutEscape:
		hook.KeyTap("escape")
	case ShortcutLeft:
		hook.KeyTap("left")
	case ShortcutRight:
		hook.KeyTap("right")
	case ShortcutUp:
		hook.KeyTap("up")
	case ShortcutDown:
		hook.KeyTap("down")
	case ShortcutHome:
		hook.KeyTap("home")
	case ShortcutEnd:
		hook.KeyTap("end")
	case ShortcutWordLeft:
		hook.KeyTap("left", wordMod)
	case ShortcutWordRight:
		hook.KeyTap("right", wordMod)
	}

	return nil
}

// executeDeleteLine models delete_line as command+backspace on Apple
// platforms, or Home -> Shift+End -> Backspace elsewhere.
func (inj *Injector) executeDeleteLine() {
	if platform.IsApple() {
		hook.KeyTap("backspace", modifierKey(platform.Primary()))
		return
	}

	hook.KeyTap("home")
	hook.KeyTap("end", "shift")
	hook.KeyTap("backspace")
}

func modifierKey(m platform.Modifier) string {
	switch m {
	case platform.ModCommand:
		return "cmd"
	case platform.ModOption:
		return "alt"
	case platform.ModControl:
		return "ctrl"
	case platform.ModShift:
		return "shift"
	default:
		return string(m)
	}
}
