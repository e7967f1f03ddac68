package shared

import (
	"math"
	"testing"
)

func TestFormatClock(t *testing.T) {
	tc := []struct {
		name    string
		seconds float64
		want    string
	}{
		{
			name:    "zero",
			seconds: 0,
			want:    "00:00",
		},
		{
			name:    "under a minute",
			seconds: 42.7,
			want:    "00:42",
		},
		{
			name:    "minutes and seconds",
			seconds: 185,
			want:    "03:05",
		},
		{
			name:    "over an hour",
			seconds: 3725,
			want:    "62:05",
		},
		{
			name:    "negative clamps to zero",
			seconds: -12,
			want:    "00:00",
		},
		{
			name:    "nan clamps to zero",
			seconds: math.NaN(),
			want:    "00:00",
		},
		{
			name:    "infinity clamps to zero",
			seconds: math.Inf(1),
			want:    "00:00",
		},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatClock(tt.seconds)
			if got != tt.want {
				t.Errorf("FormatClock(%v) = %v, want %v", tt.seconds, got, tt.want)
			}
		})
	}
}

func TestGenerateID(t *testing.T) {
	a := GenerateID()
	b := GenerateID()

	if a == "" || b == "" {
		t.Fatal("expected non-empty ids")
	}
	if a == b {
		t.Errorf("expected distinct ids, got %s twice", a)
	}
}
