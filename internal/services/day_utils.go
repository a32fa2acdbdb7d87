package services

import (
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
)

// TodayAt returns the wall-clock date of now in location as a calendar day.
func TodayAt(now time.Time, location *time.Location) time.Time {
	if location == nil {
		location = time.UTC
	}
	return models.CalendarDay(now.In(location))
}

const secondsPerDay = 24 * 60 * 60

func daysBetween(from time.Time, to time.Time) int {
	from = models.CalendarDay(from)
	to = models.CalendarDay(to)
	return int((to.Unix() - from.Unix()) / secondsPerDay)
}

func addDays(value time.Time, days int) time.Time {
	return models.CalendarDay(value).AddDate(0, 0, days)
}

func dayInRange(day time.Time, start time.Time, end time.Time) bool {
	return !day.Before(start) && !day.After(end)
}

func minDay(a time.Time, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

func maxDay(a time.Time, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func clampDay(value time.Time, low time.Time, high time.Time) time.Time {
	return minDay(maxDay(value, low), high)
}
