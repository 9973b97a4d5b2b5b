package durafmt

import (
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	var tests = []struct {
		in  time.Duration
		out string
	}{
		{0, "0:00"},
		{-time.Second, "0:00"},
		{59 * time.Second, "0:59"},
		{4 * time.Minute, "4:00"},
		{3*time.Minute + 5*time.Second + 900*time.Millisecond, "3:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}

	for _, test := range tests {
		if out := Format(test.in); out != test.out {
			t.Errorf("Format(%v) = %q, expected %q", test.in, out, test.out)
		}
	}
}

func TestFormatSeconds(t *testing.T) {
	if out := FormatSeconds(240); out != "4:00" {
		t.Errorf("FormatSeconds(240) = %q, expected 4:00", out)
	}
}
