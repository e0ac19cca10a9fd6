package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ParseWallClock parses an "HH:MM" working-hours boundary.
func ParseWallClock(s string) (hour, minute int, err error) {
	parts := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q", s)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("invalid wall-clock time %q", s)
	}
	return hour, minute, nil
}

// GenerateDaySlots walks the working window [startHour, endHour) on the given
// day in fixed steps of slotDuration and returns, in chronological order, the
// candidate slots that do not overlap any booked interval. Candidates start
// exactly at startHour, are contiguous, and a slot that would spill past the
// closing time is never emitted. A booking that only touches a candidate at a
// boundary does not remove it.
func GenerateDaySlots(day time.Time, startHour, endHour string, slotDuration time.Duration, booked []Interval) ([]Interval, error) {
	if slotDuration <= 0 {
		return nil, errors.New("slot duration must be positive")
	}

	sh, sm, err := ParseWallClock(startHour)
	if err != nil {
		return nil, err
	}
	eh, em, err := ParseWallClock(endHour)
	if err != nil {
		return nil, err
	}

	loc := day.Location()
	windowStart := time.Date(day.Year(), day.Month(), day.Day(), sh, sm, 0, 0, loc)
	windowEnd := time.Date(day.Year(), day.Month(), day.Day(), eh, em, 0, 0, loc)
	if !windowEnd.After(windowStart) {
		return nil, errors.New("end hour must be after start hour")
	}

	out := make([]Interval, 0, int(windowEnd.Sub(windowStart)/slotDuration))
	for start := windowStart; ; start = start.Add(slotDuration) {
		end := start.Add(slotDuration)
		if end.After(windowEnd) {
			break
		}
		candidate := Interval{Start: start, End: end}
		free := true
		for _, b := range booked {
			if candidate.Overlaps(b) {
				free = false
				break
			}
		}
		if free {
			out = append(out, candidate)
		}
	}

	return out, nil
}
