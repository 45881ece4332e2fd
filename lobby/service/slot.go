// lobby/service/slot.go
package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const minutesPerDay = 24 * 60

// MinutesSinceMidnight returns t's wall-clock minute of the day in t's location.
func MinutesSinceMidnight(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// FormatHHMM renders minutes as zero-padded "HH:MM". Values past midnight are
// not wrapped, so 1455 renders as "24:15".
func FormatHHMM(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseHHMM is the inverse of FormatHHMM.
func ParseHHMM(s string) (int, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return 0, fmt.Errorf("invalid play time %q", s)
	}
	hours, err := strconv.Atoi(h)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("invalid hours in play time %q", s)
	}
	mins, err := strconv.Atoi(m)
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid minutes in play time %q", s)
	}
	return hours*60 + mins, nil
}

// slotMinutes is the sort key used by the catalog; anything unparseable sorts first.
func slotMinutes(playTime string) int {
	m, err := ParseHHMM(playTime)
	if err != nil {
		return 0
	}
	return m
}
