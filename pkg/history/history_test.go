package history

import (
	"strings"
	"testing"
	"time"
)

func TestMemoryStoreAppendAndRecent(t *testing.T) {
	s := NewMemoryStore(10)
	for i := 0; i < 3; i++ {
		if err := s.Append(Entry{Timestamp: time.Now(), Text: "hello"}); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	recent := s.Recent(2)
	if len(recent) != 2 {
		t.Fatalf("expected 2 recent entries, got %d", len(recent))
	}
}

func TestMemoryStoreEvictsOldest(t *testing.T) {
	s := NewMemoryStore(2)
	s.Append(Entry{Text: "first"})
	s.Append(Entry{Text: "second"})
	s.Append(Entry{Text: "third"})

	recent := s.Recent(10)
	if len(recent) != 2 {
		t.Fatalf("expected store bounded to 2 entries, got %d", len(recent))
	}
	if recent[0].Text != "second" || recent[1].Text != "third" {
		t.Errorf("expected [second third], got %+v", recent)
	}
}

func TestMemoryStoreRejectsOversizedEntry(t *testing.T) {
	s := NewMemoryStore(10)
	big := strings.Repeat("a", MaxEntryBytes+1)
	if err := s.Append(Entry{Text: big}); err == nil {
		t.Fatal("expected an error for an oversized entry")
	}
}
