package timeutil

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected time.Time
		wantErr  bool
	}{
		{"ISO format", "2026-01-15", time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), false},
		{"European format", "15/01/2026", time.Date(2026, 1, 15, 0, 0, 0, 0, time.Local), false},
		{"ambiguous prefers ISO", "2026-05-06", time.Date(2026, 5, 6, 0, 0, 0, 0, time.Local), false},
		{"empty", "", time.Time{}, true},
		{"year only", "2026", time.Time{}, true},
		{"missing year", "15/01", time.Time{}, true},
		{"garbage", "not-a-date", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseDate(%q): expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseDate(%q): %v", tt.input, err)
			}
			if !got.Equal(tt.expected) {
				t.Errorf("ParseDate(%q) = %v, expected %v", tt.input, got, tt.expected)
			}
		})
	}
}
