// Package dates provides calendar helpers used by form fields and listings.
// Functions that depend on the current time take it as a parameter so callers
// control the clock.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultLayout is the token layout used when Format receives an empty one.
const DefaultLayout = "YYYY-MM-DD"

// Format renders t using the tokens YYYY, YY, MM, DD, HH, mm, and ss. Each
// token is substituted once, in that order. The zero time formats as "".
func Format(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if layout == "" {
		layout = DefaultLayout
	}
	year := strconv.Itoa(t.Year())
	replacements := []struct{ token, value string }{
		{"YYYY", year},
		{"YY", pad2(shortYear(t.Year()))},
		{"MM", pad2(int(t.Month()))},
		{"DD", pad2(t.Day())},
		{"HH", pad2(t.Hour())},
		{"mm", pad2(t.Minute())},
		{"ss", pad2(t.Second())},
	}
	out := layout
	for _, r := range replacements {
		out = strings.Replace(out, r.token, r.value, 1)
	}
	return out
}

// Labels words the buckets used by Relative. Every entry except JustNow must
// contain a single %d verb.
type Labels struct {
	JustNow string
	Minutes string
	Hours   string
	Days    string
	Months  string
	Years   string
}

// ChineseLabels is the default wording.
func ChineseLabels() Labels {
	return Labels{
		JustNow: "刚刚",
		Minutes: "%d分钟前",
		Hours:   "%d小时前",
		Days:    "%d天前",
		Months:  "%d个月前",
		Years:   "%d年前",
	}
}

// EnglishLabels is an English wording for Relative.
func EnglishLabels() Labels {
	return Labels{
		JustNow: "just now",
		Minutes: "%d minutes ago",
		Hours:   "%d hours ago",
		Days:    "%d days ago",
		Months:  "%d months ago",
		Years:   "%d years ago",
	}
}

// Relative describes how long before now t happened using ChineseLabels.
func Relative(t, now time.Time) string {
	return RelativeWith(t, now, ChineseLabels())
}

// RelativeWith describes how long before now t happened. Months are 30 days
// and years 365 days. Times in the future read as JustNow.
func RelativeWith(t, now time.Time, labels Labels) string {
	if t.IsZero() {
		return ""
	}
	seconds := int(now.Sub(t) / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	days := hours / 24
	months := days / 30
	years := days / 365

	switch {
	case seconds < 60:
		return labels.JustNow
	case minutes < 60:
		return fmt.Sprintf(labels.Minutes, minutes)
	case hours < 24:
		return fmt.Sprintf(labels.Hours, hours)
	case days < 30:
		return fmt.Sprintf(labels.Days, days)
	case months < 12:
		return fmt.Sprintf(labels.Months, months)
	default:
		return fmt.Sprintf(labels.Years, years)
	}
}

// IsToday reports whether t falls on the same calendar day as now, in now's
// location.
func IsToday(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return sameDay(t.In(now.Location()), now)
}

// IsYesterday reports whether t falls on the calendar day before now.
func IsYesterday(t, now time.Time) bool {
	if t.IsZero() {
		return false
	}
	return sameDay(t.In(now.Location()), now.AddDate(0, 0, -1))
}

// Range lists every day from start to end inclusive, keeping start's clock
// time. It returns nil when end is before start.
func Range(start, end time.Time) []time.Time {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return nil
	}
	var out []time.Time
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		out = append(out, current)
	}
	return out
}

// AddDays shifts t by days calendar days.
func AddDays(t time.Time, days int) time.Time {
	return t.AddDate(0, 0, days)
}

// FirstDayOfMonth returns midnight on the first day of t's month.
func FirstDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// LastDayOfMonth returns midnight on the last day of t's month.
func LastDayOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// shortYear returns the last two digits of year, ignoring its sign.
func shortYear(year int) int {
	if year < 0 {
		year = -year
	}
	return year % 100
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
