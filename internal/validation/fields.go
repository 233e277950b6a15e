package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // IANA zones are validated even on hosts without zoneinfo
	"unicode"
)

// MinPhoneDigits is the minimum digit count of a phone number once
// separators are stripped.
const MinPhoneDigits = 10

var phoneSeparators = strings.NewReplacer("-", "", " ", "", "(", "", ")", "")

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}

// IsPhone accepts digits with an optional leading '+' and the separators
// "-", " ", "(" and ")", requiring at least MinPhoneDigits digits.
func IsPhone(p string) bool {
	cleaned := phoneSeparators.Replace(strings.TrimSpace(p))
	cleaned = strings.TrimPrefix(cleaned, "+")
	if len(cleaned) < MinPhoneDigits {
		return false
	}
	for _, r := range cleaned {
		if !unicode.IsDigit(r) || r > unicode.MaxASCII {
			return false
		}
	}
	return true
}

// TimeOfDay is a wall-clock time without a date.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

var errTimeOfDay = errors.New("invalid time of day")

// ParseTimeOfDay accepts "15:04" and "15:04:05".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, err := time.Parse(layout, s); err == nil {
			return TimeOfDay{Hour: t.Hour(), Minute: t.Minute(), Second: t.Second()}, nil
		}
	}
	return TimeOfDay{}, fmt.Errorf("%w: %q", errTimeOfDay, s)
}

// String formats as HH:MM:SS.
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// Kitchen formats as 03:04 PM.
func (t TimeOfDay) Kitchen() string {
	return time.Date(2000, 1, 1, t.Hour, t.Minute, t.Second, 0, time.UTC).Format("03:04 PM")
}

// On combines the time with the calendar date of d in loc.
func (t TimeOfDay) On(d time.Time, loc *time.Location) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), t.Hour, t.Minute, t.Second, 0, loc)
}
