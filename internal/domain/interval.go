package domain

import (
	"errors"
	"time"
)

// Interval is a half-open [Start, End) time span.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Validate rejects zero-duration and inverted intervals.
func (iv Interval) Validate() error {
	if iv.Start.IsZero() || iv.End.IsZero() {
		return errors.New("start and end are required")
	}
	if !iv.End.After(iv.Start) {
		return errors.New("end must be after start")
	}
	return nil
}

// Overlaps reports whether two half-open intervals share any instant.
// Intervals that only touch at a boundary do not overlap.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End) && iv.End.After(other.Start)
}

func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}
