package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/cyclemark/internal/models"
)

var errDateRequired = errors.New("date is required")

// parseDayParam reads a YYYY-MM-DD value as a calendar day. Wall-clock dates
// are kept as given; the location only matters for relative defaults.
func parseDayParam(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, errDateRequired
	}
	return models.ParseCalendarDay(raw)
}

func parseMonthQuery(raw string, now time.Time, location *time.Location) (time.Time, error) {
	if raw == "" {
		current := now.In(location)
		return time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	parsed, err := time.ParseInLocation("2006-01", raw, time.UTC)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, time.UTC), nil
}

func parseRangeQuery(rawFrom string, rawTo string) (time.Time, time.Time, string) {
	from, err := parseDayParam(rawFrom)
	if err != nil {
		return time.Time{}, time.Time{}, "invalid from date"
	}
	to, err := parseDayParam(rawTo)
	if err != nil {
		return time.Time{}, time.Time{}, "invalid to date"
	}
	if to.Before(from) {
		return time.Time{}, time.Time{}, "invalid range"
	}
	return from, to, ""
}
