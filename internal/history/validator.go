package history

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

// DateWindow is the admissible range for a new timestamp, derived from the
// chronologically adjacent commits in the visible listing. Both bounds are
// inclusive.
type DateWindow struct {
	// Lower is the authored timestamp of the chronologically preceding
	// commit; nil means unbounded.
	Lower *time.Time
	// Upper is min(now, timestamp of the chronologically following commit)
	// and is always defined.
	Upper time.Time
}

// Outcome is the result of validating a candidate date. It is always a
// value; validation never panics.
type Outcome struct {
	Valid  bool
	Reason string
}

func accept() Outcome {
	return Outcome{Valid: true}
}

func reject(format string, args ...any) Outcome {
	return Outcome{Reason: fmt.Sprintf(format, args...)}
}

// ComputeWindow derives the admissible interval from the neighbor timestamps.
func ComputeWindow(prev, next *time.Time, now time.Time) DateWindow {
	w := DateWindow{Lower: prev, Upper: now}
	if next != nil && next.Before(now) {
		w.Upper = *next
	}
	return w
}

// Validate checks candidate against the neighbor constraints in order:
// not in the future, not earlier than the previous commit, not later than
// the next commit. Equality at either boundary is allowed. The rules encode
// a total order over the visible listing: a rewrite must never leave an
// older commit with a later timestamp than its successor.
func Validate(candidate time.Time, prev, next *time.Time, now time.Time) Outcome {
	if candidate.After(now) {
		return reject("date is in the future (now is %s)", FormatDate(now))
	}
	if prev != nil && candidate.Before(*prev) {
		return reject("earlier than previous commit (%s)", FormatDate(*prev))
	}
	if next != nil && candidate.After(*next) {
		return reject("later than next commit (%s)", FormatDate(*next))
	}
	return accept()
}

// dateSyntax matches the accepted input shapes: a date, optionally a time to
// minute or second precision, optionally an offset or UTC marker.
var dateSyntax = regexp.MustCompile(
	`^\d{4}-\d{2}-\d{2}([T ]\d{2}:\d{2}(:\d{2})?(Z|[+-]\d{2}:?\d{2})?)?$`,
)

// ValidDateSyntax reports whether s is shaped like a supported date string.
// It is a purely syntactic gate; ParseDate decides whether the value exists.
func ValidDateSyntax(s string) bool {
	return dateSyntax.MatchString(strings.TrimSpace(s))
}

// parse layouts for strings without an explicit offset; interpreted as UTC,
// never local time.
var naiveLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Offsets are accepted with or without a colon, so +02:00 and +0200 both
// parse; every shape dateSyntax admits has a layout here.
var offsetLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05-0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04-0700",
	"2006-01-02 15:04Z07:00",
	"2006-01-02 15:04-0700",
}

// ParseDate parses a date-and-time string. Strings with an explicit offset or
// UTC marker are taken unmodified; strings without one are interpreted as
// UTC. Failure yields ok=false, never an error value.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatDate renders a timestamp for humans: UTC, fractional seconds and the
// Z marker stripped. Not the canonical persisted form; see FormatISO.
func FormatDate(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04:05")
}

// FormatISO renders the canonical ISO-8601 form used in structured output.
func FormatISO(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// SameMinute reports whether two timestamps are equal at minute granularity,
// the no-op threshold for a rewrite request.
func SameMinute(a, b time.Time) bool {
	return a.UTC().Truncate(time.Minute).Equal(b.UTC().Truncate(time.Minute))
}
