package ratelimit

import (
	"testing"
	"time"
)

func TestLimiterAdmitsUpToMax(t *testing.T) {
	l := New(3, time.Second)
	base := time.Now()

	for i := 0; i < 3; i++ {
		if !l.AllowAt(base) {
			t.Fatalf("call %d should have been admitted", i)
		}
	}
	if l.AllowAt(base) {
		t.Fatal("4th call within the window should have been rejected")
	}
}

func TestLimiterWindowSlides(t *testing.T) {
	l := New(1, time.Second)
	base := time.Now()

	if !l.AllowAt(base) {
		t.Fatal("first call should be admitted")
	}
	if l.AllowAt(base.Add(500 * time.Millisecond)) {
		t.Fatal("second call within the same window should be rejected")
	}
	if !l.AllowAt(base.Add(1100 * time.Millisecond)) {
		t.Fatal("call after the window elapses should be admitted")
	}
}

func TestLimiterHundredAndOneWithinWindow(t *testing.T) {
	l := New(100, 60*time.Second)
	base := time.Now()

	for i := 0; i < 100; i++ {
		if !l.AllowAt(base) {
			t.Fatalf("call %d of 100 should have been admitted", i+1)
		}
	}
	if l.AllowAt(base) {
		t.Fatal("the 101st call within 60s should have been rejected")
	}
}
