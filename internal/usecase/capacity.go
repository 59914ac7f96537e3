package usecase

import (
	"time"

	"story-booking/internal/data/entity"
)

// CapacityDecision is the outcome of evaluating a candidate reservation
// against a story's per-day ceiling.
type CapacityDecision struct {
	Admit bool
	// Date is the first calendar day lacking room when Admit is false.
	Date time.Time
	// Remaining is how many additional travellers would still fit on Date,
	// clamped to zero.
	Remaining int
}

// EvaluateCapacity decides whether adding count travellers over the inclusive
// [start, end] range keeps every day at or under the ceiling. existing must be
// the confirmed bookings of the story overlapping that range.
//
// Pure: no I/O, no clock. The result depends only on the inputs.
func EvaluateCapacity(ceiling int, existing []*entity.Booking, start, end time.Time, count int) CapacityDecision {
	last := entity.Day(end)
	for d := entity.Day(start); !d.After(last); d = d.AddDate(0, 0, 1) {
		committed := committedTravellers(existing, d)
		if committed+count > ceiling {
			remaining := ceiling - committed
			if remaining < 0 {
				remaining = 0
			}
			return CapacityDecision{Admit: false, Date: d, Remaining: remaining}
		}
	}
	return CapacityDecision{Admit: true}
}

// committedTravellers sums confirmed travellers whose booking range covers
// day d. Containment is inclusive on both ends.
func committedTravellers(existing []*entity.Booking, d time.Time) int {
	total := 0
	for _, b := range existing {
		if b.Covers(d) {
			total += b.TotalTravellers
		}
	}
	return total
}
