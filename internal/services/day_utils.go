package services

import (
	"strings"
	"time"
)

// DayLayout is the date-only form used for storage keys and the wire.
const DayLayout = "2006-01-02"

func DateAtLocation(value time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	localized := value.In(location)
	year, month, day := localized.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, location)
}

// DayRange returns the half-open [start, next day start) interval of the
// calendar day containing value in location.
func DayRange(value time.Time, location *time.Location) (time.Time, time.Time) {
	start := DateAtLocation(value, location)
	return start, start.AddDate(0, 0, 1)
}

func DayKey(value time.Time, location *time.Location) string {
	return DateAtLocation(value, location).Format(DayLayout)
}

// DayKeyRange is DayRange expressed as stored day keys. Keys compare
// lexically in date order, so [start, end) selects exactly one day.
func DayKeyRange(value time.Time, location *time.Location) (string, string) {
	start, end := DayRange(value, location)
	return start.Format(DayLayout), end.Format(DayLayout)
}

func MonthRange(year int, month time.Month, location *time.Location) (time.Time, time.Time) {
	if location == nil {
		location = time.UTC
	}
	start := time.Date(year, month, 1, 0, 0, 0, 0, location)
	return start, start.AddDate(0, 1, 0)
}

func MonthKeyRange(year int, month time.Month) (string, string) {
	start, end := MonthRange(year, month, time.UTC)
	return start.Format(DayLayout), end.Format(DayLayout)
}

// ParseDay accepts either a bare YYYY-MM-DD, read as a calendar day in
// location, or an RFC 3339 instant, which is converted into location before
// the time of day is dropped.
func ParseDay(raw string, location *time.Location) (time.Time, error) {
	if location == nil {
		location = time.UTC
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return time.Time{}, ErrDateRequired
	}

	if parsed, err := time.ParseInLocation(DayLayout, value, location); err == nil {
		return parsed, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return DateAtLocation(parsed, location), nil
	}
	return time.Time{}, ErrInvalidDate
}
