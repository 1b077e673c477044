package hotkey

import (
	"fmt"
	"strings"
)

// Chord is a parsed hotkey: a set of modifiers plus exactly one key, as
// described by the "+"-separated grammar in the external interfaces.
type Chord struct {
	Ctrl  bool
	Alt   bool
	Shift bool
	Super bool
	Key   string // normalised key name: "a".."z", "0".."9", "f1".."f12",
	// "space", "enter", "tab", "escape", "backspace", "delete"
}

var namedKeys = map[string]string{
	"space": "space", "enter": "enter", "return": "enter", "tab": "tab",
	"escape": "escape", "esc": "escape", "backspace": "backspace", "delete": "delete",
}

// ParseChord parses the "+"-separated, case-insensitive hotkey grammar:
// modifiers ctrl/control, alt, shift, super/meta/win/cmd, followed by
// exactly one key (a named key, f1-f12, a single letter, or a single digit).
// An empty string, an unknown token, or a missing key is an error.
func ParseChord(s string) (Chord, error) {
	if strings.TrimSpace(s) == "" {
		return Chord{}, fmt.Errorf("hotkey: empty chord")
	}

	var chord Chord
	haveKey := false

	for _, raw := range strings.Split(s, "+") {
		tok := strings.ToLower(strings.TrimSpace(raw))
		if tok == "" {
			return Chord{}, fmt.Errorf("hotkey: empty token in chord %q", s)
		}

		switch tok {
		case "ctrl", "control":
			chord.Ctrl = true
			continue
		case "alt":
			chord.Alt = true
			continue
		case "shift":
			chord.Shift = true
			continue
		case "super", "meta", "win", "cmd":
			chord.Super = true
			continue
		}

		if haveKey {
			return Chord{}, fmt.Errorf("hotkey: chord %q names more than one key", s)
		}

		if key, ok := namedKeys[tok]; ok {
			chord.Key = key
			haveKey = true
			continue
		}
		if isFunctionKey(tok) {
			chord.Key = tok
			haveKey = true
			continue
		}
		if len(tok) == 1 && (isLetter(tok[0]) || isDigit(tok[0])) {
			chord.Key = tok
			haveKey = true
			continue
		}

		return Chord{}, fmt.Errorf("hotkey: unknown token %q in chord %q", raw, s)
	}

	if !haveKey {
		return Chord{}, fmt.Errorf("hotkey: chord %q names no key", s)
	}

	return chord, nil
}

func isFunctionKey(tok string) bool {
	if len(tok) < 2 || len(tok) > 3 || tok[0] != 'f' {
		return false
	}
	for _, c := range tok[1:] {
		if c < '0' || c > '9' {
			return false
		}
	}
	switch tok {
	case "f1", "f2", "f3", "f4", "f5", "f6", "f7", "f8", "f9",
		"f10", "f11", "f12":
		return true
	}
	return false
}

func isLetter(b byte) bool { return b >= 'a' && b <= 'z' }
func isDigit(b byte) bool  { return b >= '0' && b <= '9' }

// String renders the chord back into its canonical "+"-separated form.
func (c Chord) String() string {
	var parts []string
	if c.Ctrl {
		parts = append(parts, "ctrl")
	}
	if c.Alt {
		parts = append(parts, "alt")
	}
	if c.Shift {
		parts = append(parts, "shift")
	}
	if c.Super {
		parts = append(parts, "super")
	}
	parts = append(parts, c.Key)
	return strings.Join(parts, "+")
}
