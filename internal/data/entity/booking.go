package entity

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCancelled BookingStatus = "cancelled"
)

// Booking reserves TotalTravellers places on every calendar day of the
// inclusive [StartDate, EndDate] range. Only confirmed bookings count
// against a story's capacity.
type Booking struct {
	Base
	BookingCode     string           `db:"booking_code"`
	StoryID         uuid.UUID        `db:"story_id"`
	StartDate       time.Time        `db:"start_date"`
	EndDate         time.Time        `db:"end_date"`
	TotalTravellers int              `db:"total_travellers"`
	Payment         PaymentBreakdown `db:"-"`
	Status          BookingStatus    `db:"status"`
}

// Day normalizes a timestamp to midnight UTC. Bookings are whole-day;
// time-of-day never participates in capacity comparisons.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DurationDays returns the inclusive length of [start, end] in days.
func DurationDays(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours()/24) + 1
}

// Covers reports whether day d falls inside the booking's inclusive range.
func (b *Booking) Covers(d time.Time) bool {
	d = Day(d)
	return !d.Before(Day(b.StartDate)) && !d.After(Day(b.EndDate))
}
