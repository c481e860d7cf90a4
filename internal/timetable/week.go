package timetable

import (
	"net/url"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// WeekStart returns the Monday of the week containing t, at midnight.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the preceding Monday
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return day.AddDate(0, 0, -(weekday - 1))
}

// WeekRange returns the [start, end) window used for a week request:
// the Monday of t's week and the Monday of the following week.
func WeekRange(t time.Time) (start, end time.Time) {
	start = WeekStart(t)
	return start, start.AddDate(0, 0, 7)
}

// WeekDays returns the five weekdays (Mon-Fri) of t's week.
func WeekDays(t time.Time) []time.Time {
	start := WeekStart(t)
	days := make([]time.Time, 5)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// SameDay reports whether two datetimes fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// BuildURL assembles the timetable request URL for one course week:
// base?anno=<year>&curricula=<curricula>&start=<yyyy-MM-dd>&end=<yyyy-MM-dd>.
// The (base, year, curricula, week) tuple fully identifies the request,
// so the URL doubles as the cache key.
func BuildURL(base string, year int, curricula string, weekStart time.Time) string {
	start, end := WeekRange(weekStart)

	q := url.Values{}
	q.Set("anno", strconv.Itoa(year))
	if curricula != "" {
		q.Set("curricula", curricula)
	}
	q.Set("start", start.Format(dateLayout))
	q.Set("end", end.Format(dateLayout))

	return base + "?" + q.Encode()
}
