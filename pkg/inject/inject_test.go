package inject

import "testing"

func TestExecuteShortcutUnknownName(t *testing.T) {
	inj := New(false)
	err := inj.ExecuteShortcut(ShortcutName("frobnicate"))
	if err == nil {
		t.Fatal("expected an error for an unknown shortcut name")
	}
	want := "unknown shortcut: frobnicate"
	if err.Error() != want {
		t.Errorf("got error %q, want %q", err.Error(), want)
	}
}

func TestInjectTextEmptyIsNoop(t *testing.T) {
	inj := New(false)
	if err := inj.InjectText(""); err != nil {
		t.Errorf("expected no-op on empty input, got error: %v", err)
	}
}

func TestInjectTextRejectsOversizedInput(t *testing.T) {
	inj := New(false)
	big := make([]byte, MaxInjectBytes+1)
	for i := range big {
		big[i] = 'a'
	}
	if err := inj.InjectText(string(big)); err == nil {
		t.Fatal("expected an error for input over MaxInjectBytes")
	}
}

func TestAllClosedSetShortcutsAreKnown(t *testing.T) {
	names := []ShortcutName{
		ShortcutUndo, ShortcutRedo, ShortcutCopy, ShortcutCut, ShortcutPaste,
		ShortcutSelectAll, ShortcutBackspace, ShortcutBackspaceWord,
		ShortcutDeleteWord, ShortcutDeleteLine, ShortcutEnter, ShortcutTab,
		ShortcutEscape, ShortcutLeft, ShortcutRight, ShortcutUp, ShortcutDown,
		ShortcutHome, ShortcutEnd, ShortcutWordLeft, ShortcutWordRight,
	}
	if len(names) != 21 {
		t.Fatalf("expected 21 shortcut names in the closed set, got %d", len(names))
	}
	for _, n := range names {
		if !knownShortcuts[n] {
			t.Errorf("shortcut %q should be in the closed set", n)
		}
	}
}
