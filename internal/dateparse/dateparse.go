// Package dateparse parses natural language references to past dates,
// used for --since filters on order listings.
package dateparse

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	agoPattern  = regexp.MustCompile(`^(\d+)\s+(day|week|month)s?\s+ago$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// Since parses a past date reference and returns the start of that day.
// Supported forms:
//   - today, yesterday
//   - last week, last month
//   - N days ago, N weeks ago, N months ago
//   - -N (N days back)
//   - YYYY-MM-DD
//
// Unrecognized input returns ok=false.
func Since(input string, now time.Time) (time.Time, bool) {
	input = strings.ToLower(strings.TrimSpace(input))

	switch input {
	case "today":
		return startOfDay(now), true
	case "yesterday":
		return startOfDay(now.AddDate(0, 0, -1)), true
	case "last week", "lastweek":
		return startOfDay(now.AddDate(0, 0, -7)), true
	case "last month", "lastmonth":
		return startOfDay(now.AddDate(0, -1, 0)), true
	}

	if strings.HasPrefix(input, "-") {
		if days, err := strconv.Atoi(input[1:]); err == nil && days >= 0 {
			return startOfDay(now.AddDate(0, 0, -days)), true
		}
	}

	if match := agoPattern.FindStringSubmatch(input); match != nil {
		n, err := strconv.Atoi(match[1])
		if err != nil {
			return time.Time{}, false
		}
		switch match[2] {
		case "day":
			return startOfDay(now.AddDate(0, 0, -n)), true
		case "week":
			return startOfDay(now.AddDate(0, 0, -n*7)), true
		case "month":
			return startOfDay(now.AddDate(0, -n, 0)), true
		}
	}

	if datePattern.MatchString(input) {
		t, err := time.ParseInLocation("2006-01-02", input, now.Location())
		if err != nil {
			return time.Time{}, false
		}
		return t, true
	}

	return time.Time{}, false
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
