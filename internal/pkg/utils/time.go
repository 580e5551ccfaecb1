package utils

import (
	"clinic-appointment-service/internal/pkg/constvars"
	"time"
)

// ParseSlot turns a calendar date and an HH:MM label into the stored day
// (midnight UTC) and the instant the slot starts in loc.
func ParseSlot(date, slotTime string, loc *time.Location) (day time.Time, scheduledAt time.Time, err error) {
	if loc == nil {
		loc = time.Local
	}

	parsedDate, err := time.Parse(constvars.DateLayout, date)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	parsedTime, err := time.Parse(constvars.SlotTimeLayout, slotTime)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	day = time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, time.UTC)
	scheduledAt = time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), parsedTime.Hour(), parsedTime.Minute(), 0, 0, loc)
	return day, scheduledAt, nil
}

func ParseDate(date string) (time.Time, error) {
	parsedDate, err := time.Parse(constvars.DateLayout, date)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(parsedDate.Year(), parsedDate.Month(), parsedDate.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DayBounds returns the [start, end) instants of the calendar day containing t in loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	local := t.In(loc)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
