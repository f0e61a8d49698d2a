package logger

import (
	"errors"
	"testing"
	"time"
)

func TestStatus(t *testing.T) {
	if got := Status(nil); got != "ok" {
		t.Errorf("Status(nil) = %q, want ok", got)
	}
	if got := Status(errors.New("boom")); got != "error" {
		t.Errorf("Status(err) = %q, want error", got)
	}
}

func TestTookRoundsToMilliseconds(t *testing.T) {
	start := time.Now().Add(-1500*time.Millisecond - 300*time.Microsecond)
	got := Took(start)
	if got%time.Millisecond != 0 {
		t.Errorf("Took not rounded to ms: %v", got)
	}
	if got < time.Second || got > 2*time.Second {
		t.Errorf("Took out of expected range: %v", got)
	}
}

func TestSummarizeStrings(t *testing.T) {
	values := []string{"a", "b", "c"}

	if s, truncated := SummarizeStrings(values, 5); s != "a, b, c" || truncated {
		t.Errorf("SummarizeStrings(values, 5) = (%q, %v)", s, truncated)
	}
	if s, truncated := SummarizeStrings(values, 2); s != "a, b" || !truncated {
		t.Errorf("SummarizeStrings(values, 2) = (%q, %v)", s, truncated)
	}
	if s, truncated := SummarizeStrings(values, 0); s != "" || !truncated {
		t.Errorf("SummarizeStrings(values, 0) = (%q, %v)", s, truncated)
	}
	if s, truncated := SummarizeStrings(nil, 0); s != "" || truncated {
		t.Errorf("SummarizeStrings(nil, 0) = (%q, %v)", s, truncated)
	}
}
