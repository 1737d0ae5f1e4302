package domain

import (
	"errors"
	"testing"
)

func TestLeaseSecondsKnownLiterals(t *testing.T) {
	tests := map[string]int{
		"30 minutes": 1800,
		"1 hour":     3600,
		"4 hours":    14400,
		"12 hours":   43200,
		"1 day":      86400,
		"1 week":     604800,
	}
	for literal, want := range tests {
		got, err := LeaseSeconds(literal)
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", literal, err)
		}
		if got != want {
			t.Fatalf("%s: expected %d, got %d", literal, want, got)
		}
	}
}

func TestLeaseSecondsRejectsOtherLiterals(t *testing.T) {
	for _, literal := range []string{"", "2 hours", "1 Day", "86400"} {
		if _, err := LeaseSeconds(literal); !errors.Is(err, ErrUnknownLeaseTime) {
			t.Fatalf("%q: expected ErrUnknownLeaseTime, got %v", literal, err)
		}
	}
}
