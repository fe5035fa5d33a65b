// Package timecalc validates wall-clock times and derives durations between them.
package timecalc

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateFormat is the ISO calendar date layout used for record dates.
const DateFormat = "2006-01-02"

// ErrInvalidFormat is returned for text that is not a 24-hour HH:MM time.
var ErrInvalidFormat = errors.New("invalid time format")

var timeOfDayRegex = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses text like "9:05" or "23:59". Hours may have one or
// two digits, minutes always have two. Surrounding whitespace is ignored.
func ParseTimeOfDay(text string) (TimeOfDay, error) {
	m := timeOfDayRegex.FindStringSubmatch(strings.TrimSpace(text))
	if m == nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q (use HH:MM)", ErrInvalidFormat, text)
	}
	h, _ := strconv.Atoi(m[1])
	mi, _ := strconv.Atoi(m[2])
	return TimeOfDay{Hour: h, Minute: mi}, nil
}

// String formats t as zero-padded HH:MM.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// Before reports whether t is earlier in the day than u.
func (t TimeOfDay) Before(u TimeOfDay) bool {
	return t.minutes() < u.minutes()
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// On anchors t to the calendar date of d. The result is in UTC so that
// differences are pure wall-clock arithmetic, unaffected by DST shifts.
func (t TimeOfDay) On(d time.Time) time.Time {
	y, m, day := d.Date()
	return time.Date(y, m, day, t.Hour, t.Minute, 0, 0, time.UTC)
}

// ParseDate parses an ISO YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Elapsed returns the whole hours and remaining minutes from start to end,
// both anchored to date. An end earlier than start is taken to be on the
// following day, so 23:00 -> 01:00 is two hours.
func Elapsed(date time.Time, start, end TimeOfDay) (hours, minutes int) {
	from := start.On(date)
	to := end.On(date)
	if end.Before(start) {
		to = to.AddDate(0, 0, 1)
	}
	secs := int64(to.Sub(from).Seconds())
	return int(secs / 3600), int((secs % 3600) / 60)
}

// FormatDuration formats a duration as "1h 30m", or "45m" when under an hour.
func FormatDuration(hours, minutes int) string {
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	return fmt.Sprintf("%dm", minutes)
}

// RecentDays returns the calendar dates of now and the n-1 days before it,
// most recent first.
func RecentDays(now time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		d := now.AddDate(0, 0, -i)
		days = append(days, time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()))
	}
	return days
}
