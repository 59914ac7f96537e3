package usecase

import (
	"errors"
	"fmt"
	"time"
)

// Deterministic business rejections. Retrying with identical input cannot
// succeed, so handlers map these to 4xx.
var (
	ErrValidation             = errors.New("validation failed")
	ErrStoryNotFound          = errors.New("story not found")
	ErrStoryNotBookable       = errors.New("story is not bookable")
	ErrDurationMismatch       = errors.New("booking duration does not match story length")
	ErrTravellerCountMismatch = errors.New("traveller details do not match traveller count")
	ErrInvalidPayment         = errors.New("invalid payment breakdown")
	ErrBookingNotFound        = errors.New("booking not found")
	ErrBookingNotCancellable  = errors.New("booking cannot be cancelled")
)

// ErrReservationFailed wraps storage-level failures on the reserve path.
// The transaction has been rolled back with no partial writes, so the caller
// may retry safely.
var ErrReservationFailed = errors.New("reservation failed")

// CapacityError reports the first date of the requested range that lacks
// room, together with how many additional travellers would still fit there.
type CapacityError struct {
	Date      time.Time
	Remaining int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("capacity exceeded on %s: %d traveller(s) remaining",
		e.Date.Format("2006-01-02"), e.Remaining)
}

func reservationFailed(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrReservationFailed, op, err)
}
