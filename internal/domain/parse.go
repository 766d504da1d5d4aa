package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrEmptyTime   = errors.New("empty time")
	ErrInvalidTime = errors.New("invalid time, expected HH:MM")
)

// ParseHHMM parses a local time of day like "8:00" or "08:30" into minutes
// since midnight. Hours 0..23 and minutes 00..59; anything else is rejected,
// never coerced.
func ParseHHMM(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmptyTime
	}
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, ErrInvalidTime
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("%w: bad hour %q", ErrInvalidTime, parts[0])
	}
	if len(parts[1]) != 2 {
		return 0, fmt.Errorf("%w: bad minute %q", ErrInvalidTime, parts[1])
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("%w: bad minute %q", ErrInvalidTime, parts[1])
	}
	return h*60 + m, nil
}

// SplitMinutes converts minutes since midnight back to an (hour, minute) pair.
func SplitMinutes(mins int) (int, int) {
	return mins / 60, mins % 60
}

// FormatMinutes returns HH:MM for minutes since midnight (00:00..23:59).
func FormatMinutes(mins int) string {
	if mins < 0 {
		mins = 0
	}
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}

// ValidateTZ checks that the tz is a valid IANA location.
func ValidateTZ(tz string) (string, error) {
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return "", err
	}
	return loc.String(), nil
}
