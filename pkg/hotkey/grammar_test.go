package hotkey

import "testing"

func TestParseChordValid(t *testing.T) {
	cases := []struct {
		in   string
		want Chord
	}{
		{"ctrl+shift+s", Chord{Ctrl: true, Shift: true, Key: "s"}},
		{"CTRL+SHIFT+S", Chord{Ctrl: true, Shift: true, Key: "s"}},
		{"alt+f4", Chord{Alt: true, Key: "f4"}},
		{"cmd+space", Chord{Super: true, Key: "space"}},
		{"control+escape", Chord{Ctrl: true, Key: "escape"}},
		{"9", Chord{Key: "9"}},
	}

	for _, tc := range cases {
		got, err := ParseChord(tc.in)
		if err != nil {
			t.Fatalf("ParseChord(%q) returned error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Errorf("ParseChord(%q) = %+v, want %+v", tc.in, got, tc.want)
		}
	}
}

func TestParseChordInvalid(t *testing.T) {
	cases := []string{"", "   ", "ctrl+", "ctrl+shift", "banana", "ctrl+f13", "ctrl+ab", "ctrl++s"}
	for _, in := range cases {
		if _, err := ParseChord(in); err == nil {
			t.Errorf("ParseChord(%q) expected an error, got none", in)
		}
	}
}

func TestChordStringRoundTrip(t *testing.T) {
	c, err := ParseChord("ctrl+shift+s")
	if err != nil {
		t.Fatalf("ParseChord failed: %v", err)
	}
	reparsed, err := ParseChord(c.String())
	if err != nil {
		t.Fatalf("re-parsing %q failed: %v", c.String(), err)
	}
	if reparsed != c {
		t.Errorf("round trip mismatch: %+v != %+v", reparsed, c)
	}
}
