package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// Resolution errors. They never escape the classifier: a header pattern whose
// date or time fails to resolve is skipped in favor of the next one.
var (
	ErrUnrecognizedDateFormat = errors.New("unrecognized date format")
	ErrInvalidDate            = errors.New("invalid calendar date")
	ErrInvalidTime            = errors.New("invalid time of day")
)

// yearPivot splits two-digit years: below it is 20xx, at or above it is 19xx.
const yearPivot = 50

// ResolveTimestamp combines ResolveDate and ResolveTime into one wall-clock time.
func ResolveTimestamp(dateStr, timeStr string) (time.Time, error) {
	year, month, day, err := ResolveDate(dateStr)
	if err != nil {
		return time.Time{}, err
	}
	hour, minute, second, err := ResolveTime(timeStr)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(year, time.Month(month), day, hour, minute, second, 0, time.UTC), nil
}

// ResolveDate converts a date segment to year, month and day.
//
// Slash dates use magnitude to pick the order: a first segment above 12 means
// DD/MM, a second segment above 12 means MM/DD, and anything else defaults to
// DD/MM. Dot dates are always DD.MM.YYYY. Hyphen dates are ISO YYYY-MM-DD when
// the first segment has four digits and DD-MM-YYYY otherwise.
func ResolveDate(dateStr string) (year, month, day int, err error) {
	var parts []string
	var sep string
	switch {
	case strings.Contains(dateStr, "/"):
		sep = "/"
	case strings.Contains(dateStr, "."):
		sep = "."
	case strings.Contains(dateStr, "-"):
		sep = "-"
	default:
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrUnrecognizedDateFormat, dateStr)
	}

	parts = strings.Split(dateStr, sep)
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrUnrecognizedDateFormat, dateStr)
	}
	nums := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrUnrecognizedDateFormat, dateStr)
		}
		nums[i] = n
	}

	switch sep {
	case "/":
		year = expandYear(parts[2], nums[2])
		first, second := nums[0], nums[1]
		switch {
		case first > 12:
			day, month = first, second
		case second > 12:
			month, day = first, second
		default:
			day, month = first, second
		}
	case ".":
		day, month, year = nums[0], nums[1], expandYear(parts[2], nums[2])
	case "-":
		if len(parts[0]) == 4 {
			year, month, day = nums[0], nums[1], nums[2]
		} else {
			day, month, year = nums[0], nums[1], expandYear(parts[2], nums[2])
		}
	}

	if !validDate(year, month, day) {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidDate, dateStr)
	}
	return year, month, day, nil
}

// expandYear applies the two-digit year pivot.
func expandYear(raw string, n int) int {
	if len(raw) != 2 {
		return n
	}
	if n < yearPivot {
		return 2000 + n
	}
	return 1900 + n
}

func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Day() == day && int(t.Month()) == month
}

// ResolveTime converts "H:MM[:SS][ AM|PM]" to 24-hour clock values.
func ResolveTime(timeStr string) (hour, minute, second int, err error) {
	clean := strings.TrimSpace(timeStr)
	upper := strings.ToUpper(clean)

	var isAM, isPM bool
	switch {
	case strings.HasSuffix(upper, "AM"):
		isAM = true
	case strings.HasSuffix(upper, "PM"):
		isPM = true
	}
	if isAM || isPM {
		clean = strings.TrimRightFunc(clean[:len(clean)-2], unicode.IsSpace)
	}

	parts := strings.Split(clean, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}
	vals := make([]int, 3)
	for i, p := range parts {
		n, convErr := strconv.Atoi(p)
		if convErr != nil {
			return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
		}
		vals[i] = n
	}
	hour, minute, second = vals[0], vals[1], vals[2]

	if isPM && hour != 12 {
		hour += 12
	} else if isAM && hour == 12 {
		hour = 0
	}

	if hour < 0 || hour > 23 || minute < 0 || minute > 59 || second < 0 || second > 59 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidTime, timeStr)
	}
	return hour, minute, second, nil
}
