package postprocess

import (
	"strings"
	"testing"
)

func TestExplicitCasing(t *testing.T) {
	p := New()
	cases := []struct{ in, want string }{
		{"camel case hello world", "helloWorld"},
		{"camel case get user data", "getUserData"},
		{"snake case hello world", "hello_world"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := p.Process(tc.in)
			if got != tc.want {
				t.Errorf("Process(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFileMentions(t *testing.T) {
	p := New()
	cases := []struct{ in, want string }{
		{"open index dot ts", "Open @index.ts"},
		{"fix bug in index dot ts", "Fix bug in @index.ts"},
		{"check the app dot tsx", "Check the @app.tsx"},
		{"edit main dot rs", "Edit @main.rs"},
		{"refactor utils dot py", "Refactor @utils.py"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got := p.Process(tc.in)
			if got != tc.want {
				t.Errorf("Process(%q) = %q, want %q", tc.in, got, tc.want)
			}
			if strings.Contains(got, "@@") {
				t.Errorf("Process(%q) produced a double-@: %q", tc.in, got)
			}
		})
	}
}

func TestFunctionDeclarations(t *testing.T) {
	p := New()
	cases := []struct{ in, want string }{
		{"function get user", "getUser()"},
		{"func handle click", "handleClick()"},
	}
	for _, tc := range cases {
		got := p.Process(tc.in)
		if got != tc.want {
			t.Errorf("Process(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSymbols(t *testing.T) {
	p := New()
	if got := p.Process("hello slash world"); !strings.Contains(got, "/") {
		t.Errorf("expected slash in %q", got)
	}
	if got := p.Process("a equals b"); !strings.Contains(got, "=") {
		t.Errorf("expected equals in %q", got)
	}
}

func TestKeywordsPreserved(t *testing.T) {
	p := New()
	got := p.Process("this is true and false")
	if !strings.Contains(got, "true") || !strings.Contains(got, "false") {
		t.Errorf("expected keywords preserved in %q", got)
	}
}

func TestNewlineCommand(t *testing.T) {
	p := New()
	got := p.Process("hello new line world")
	want := "Hello\nworld"
	if got != want {
		t.Errorf("Process(newline) = %q, want %q", got, want)
	}
}

func TestEditingCommandMarker(t *testing.T) {
	p := New()
	got := p.Process("scratch that.")
	want := markerToken(MarkerDeleteLast)
	if got != want {
		t.Errorf("Process(scratch that.) = %q, want %q", got, want)
	}
}

func TestMixedTextAndCommand(t *testing.T) {
	p := New()
	got := p.Process("hello new line world undo that")
	segments := ExtractSegments(got)

	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d: %+v", len(segments), segments)
	}
	if segments[0].IsMarker {
		t.Errorf("expected first segment to be text, got marker %q", segments[0].Marker)
	}
	if !segments[1].IsMarker || segments[1].Marker != MarkerUndo {
		t.Errorf("expected second segment to be the UNDO marker, got %+v", segments[1])
	}
}

func TestSentenceCasingSkipsFileExtension(t *testing.T) {
	p := New()
	got := p.Process("fix bug in index dot ts")
	if strings.Contains(got, ".Ts") {
		t.Errorf("sentence casing incorrectly capitalised the extension in %q", got)
	}
}

func TestOnlyKnownMarkersEmitted(t *testing.T) {
	p := New()
	inputs := []string{
		"hello world", "scratch that", "undo", "redo", "select all",
		"copy that", "cut", "paste", "backspace", "delete word", "delete line",
		"press enter", "press tab", "escape", "go left", "go right",
		"go up", "go down", "go home", "go to end", "word left", "word right",
	}
	for _, in := range inputs {
		got := p.Process(in)
		for _, m := range markerTokenPattern.FindAllStringSubmatch(got, -1) {
			if !IsKnownMarker(m[1]) {
				t.Errorf("Process(%q) emitted unknown marker %q", in, m[1])
			}
		}
	}
}

func TestIdempotent(t *testing.T) {
	p := New()
	inputs := []string{
		"hello world", "camel case hello world", "open index dot ts",
		"fix bug in index dot ts", "function get user", "scratch that.",
		"this is true and false", "class user profile",
	}
	for _, in := range inputs {
		once := p.Process(in)
		twice := p.Process(once)
		if once != twice {
			t.Errorf("Process not idempotent for %q: P(x)=%q, P(P(x))=%q", in, once, twice)
		}
	}
}

func TestNoDoubleAt(t *testing.T) {
	p := New()
	got := p.Process("open @index.ts")
	if strings.Contains(got, "@@") {
		t.Errorf("expected no @@ in %q", got)
	}
}
