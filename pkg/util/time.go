package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MsToTime formats a millisecond offset as a player clock.
// Below one hour it renders MM:SS, above it H:MM:SS. keepMs appends
// hundredths of a second (.cc), truncated.
// NaN, infinite and negative input render as zero.
func MsToTime(ms float64, keepMs bool) string {
	if math.IsNaN(ms) || math.IsInf(ms, 0) || ms < 0 {
		ms = 0
	}

	total := int64(ms)
	hours := total / 3_600_000
	minutes := total / 60_000 % 60
	seconds := total / 1000 % 60
	hundredths := total % 1000 / 10

	var s string
	if hours > 0 {
		s = fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	} else {
		s = fmt.Sprintf("%02d:%02d", minutes, seconds)
	}

	if keepMs {
		s += fmt.Sprintf(".%02d", hundredths)
	}
	return s
}

// ParseTimestamp parses a timestamp string (HH:MM:SS.mmm or SS.mmm or MM:SS)
func ParseTimestamp(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) > 3 || s == "" {
		return 0, fmt.Errorf("invalid timestamp format: %s", s)
	}

	// Fold from the right: seconds, minutes, hours
	var total float64
	unit := 1.0
	for i := len(parts) - 1; i >= 0; i-- {
		v, err := strconv.ParseFloat(parts[i], 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("invalid timestamp format: %s", s)
		}
		total += v * unit
		unit *= 60
	}

	return time.Duration(math.Round(total * float64(time.Second))), nil
}

// ParseFrameRate parses frame rate from ffprobe format (e.g., "30/1")
func ParseFrameRate(s string) float64 {
	parts := strings.Split(s, "/")
	if len(parts) != 2 {
		return 0
	}
	num, err1 := strconv.ParseFloat(parts[0], 64)
	den, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil || den == 0 {
		return 0
	}
	return num / den
}
