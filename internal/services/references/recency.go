package references

import (
	"strings"
	"time"
)

// acceptedDateFormats are the publish-date layouts the recency filter
// understands. Anything else is treated as not recent and the record is
// rejected; bare years in particular do not parse.
var acceptedDateFormats = []string{
	"2006-01-02",
	"2 Jan 2006",
	"Jan 2, 2006",
}

// isRecent reports whether the publish date string parses under one of the
// accepted formats and falls within the trailing window of days.
func isRecent(pubDate string, days int) bool {
	return isRecentAt(pubDate, days, time.Now())
}

func isRecentAt(pubDate string, days int, now time.Time) bool {
	pubDate = strings.TrimSpace(pubDate)
	if pubDate == "" {
		return false
	}

	var parsed time.Time
	ok := false
	for _, format := range acceptedDateFormats {
		if dt, err := time.Parse(format, pubDate); err == nil {
			parsed = dt
			ok = true
			break
		}
	}
	if !ok {
		return false
	}

	return withinDayWindow(parsed, days, now)
}

// withinDayWindow compares whole elapsed days so a record published n days
// plus a few hours ago still counts as n days old.
func withinDayWindow(published time.Time, days int, now time.Time) bool {
	return int(now.Sub(published)/(24*time.Hour)) <= days
}
