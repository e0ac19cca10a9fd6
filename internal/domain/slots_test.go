package domain

import (
	"testing"
	"time"
)

func TestParseWallClock(t *testing.T) {
	tests := []struct {
		in        string
		hour, min int
		wantErr   bool
	}{
		{"08:00", 8, 0, false},
		{"23:59", 23, 59, false},
		{"0:5", 0, 5, false},
		{" 09:30 ", 9, 30, false},
		{"24:00", 0, 0, true},
		{"12:60", 0, 0, true},
		{"noon", 0, 0, true},
		{"12", 0, 0, true},
		{"", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			h, m, err := ParseWallClock(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseWallClock error: %v", err)
			}
			if h != tt.hour || m != tt.min {
				t.Fatalf("parsed %02d:%02d, want %02d:%02d", h, m, tt.hour, tt.min)
			}
		})
	}
}

func TestGenerateDaySlots_FillsWindowExactly(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	slots, err := GenerateDaySlots(day, "08:00", "09:00", 30*time.Minute, nil)
	if err != nil {
		t.Fatalf("GenerateDaySlots error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	if !slots[0].Start.Equal(time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)) {
		t.Fatalf("first slot starts at %v", slots[0].Start)
	}
	if !slots[1].End.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("last slot ends at %v", slots[1].End)
	}
}

func TestGenerateDaySlots_DropsTrailingPartialSlot(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	// 08:00-09:10 with 30-minute slots leaves a 10-minute remainder that
	// must not be emitted.
	slots, err := GenerateDaySlots(day, "08:00", "09:10", 30*time.Minute, nil)
	if err != nil {
		t.Fatalf("GenerateDaySlots error: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("len(slots) = %d, want 2", len(slots))
	}
	last := slots[len(slots)-1]
	if !last.End.Equal(time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)) {
		t.Fatalf("last slot ends at %v, want 09:00", last.End)
	}
}

func TestGenerateDaySlots_BookedRemovesOnlyOverlapping(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}

	booked := []Interval{
		{Start: at(10, 0), End: at(11, 0)},
	}

	slots, err := GenerateDaySlots(day, "09:00", "13:00", time.Hour, booked)
	if err != nil {
		t.Fatalf("GenerateDaySlots error: %v", err)
	}

	want := []Interval{
		{Start: at(9, 0), End: at(10, 0)},
		{Start: at(11, 0), End: at(12, 0)},
		{Start: at(12, 0), End: at(13, 0)},
	}
	if len(slots) != len(want) {
		t.Fatalf("len(slots) = %d, want %d", len(slots), len(want))
	}
	for i := range want {
		if !slots[i].Start.Equal(want[i].Start) || !slots[i].End.Equal(want[i].End) {
			t.Fatalf("slot[%d] = %v-%v, want %v-%v", i, slots[i].Start, slots[i].End, want[i].Start, want[i].End)
		}
	}
}

func TestGenerateDaySlots_AdjacentBookingDoesNotBlock(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}

	// A booking ending exactly at 10:00 leaves the 10:00 slot free.
	booked := []Interval{{Start: at(9, 0), End: at(10, 0)}}

	slots, err := GenerateDaySlots(day, "10:00", "11:00", time.Hour, booked)
	if err != nil {
		t.Fatalf("GenerateDaySlots error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
}

func TestGenerateDaySlots_PartialOverlapBlocksWholeSlot(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	at := func(h, m int) time.Time {
		return time.Date(2026, 3, 2, h, m, 0, 0, time.UTC)
	}

	// A 15-minute booking inside the 10:00 hour removes the whole slot.
	booked := []Interval{{Start: at(10, 30), End: at(10, 45)}}

	slots, err := GenerateDaySlots(day, "10:00", "12:00", time.Hour, booked)
	if err != nil {
		t.Fatalf("GenerateDaySlots error: %v", err)
	}
	if len(slots) != 1 {
		t.Fatalf("len(slots) = %d, want 1", len(slots))
	}
	if !slots[0].Start.Equal(at(11, 0)) {
		t.Fatalf("remaining slot starts at %v, want 11:00", slots[0].Start)
	}
}

func TestGenerateDaySlots_Errors(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	if _, err := GenerateDaySlots(day, "10:00", "09:00", time.Hour, nil); err == nil {
		t.Fatalf("expected error for inverted window")
	}
	if _, err := GenerateDaySlots(day, "10:00", "10:00", time.Hour, nil); err == nil {
		t.Fatalf("expected error for empty window")
	}
	if _, err := GenerateDaySlots(day, "10:00", "11:00", 0, nil); err == nil {
		t.Fatalf("expected error for zero duration")
	}
	if _, err := GenerateDaySlots(day, "whenever", "11:00", time.Hour, nil); err == nil {
		t.Fatalf("expected error for bad start hour")
	}
}
