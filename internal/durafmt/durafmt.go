package durafmt

import (
	"fmt"
	"strings"
	"time"
)

var durationChunks = []time.Duration{time.Hour, time.Minute, time.Second}

// Format formats the given duration into H:MM:SS form, or M:SS if the
// duration is shorter than an hour. Negative durations are formatted as 0:00.
func Format(d time.Duration) string {
	if d < 0 {
		d = 0
	}

	var dwords = make([]string, 0, 3)
	var n int

	for i, section := range durationChunks {
		n, d = divide(d, section)
		// Skip hour if there's none.
		if i == 0 && n < 1 {
			continue
		}

		// The leading section isn't padded.
		if len(dwords) == 0 {
			dwords = append(dwords, fmt.Sprintf("%d", n))
			continue
		}

		dwords = append(dwords, fmt.Sprintf("%02d", n))
	}

	return strings.Join(dwords, ":")
}

// FormatSeconds formats the given number of seconds like Format.
func FormatSeconds(secs float64) string {
	return Format(time.Duration(secs * float64(time.Second)))
}

func divide(d, div time.Duration) (n int, newd time.Duration) {
	n = int(d / div)
	return n, d - time.Duration(n)*div
}
