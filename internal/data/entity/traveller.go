package entity

import (
	"github.com/google/uuid"
)

type Traveller struct {
	BaseSimple
	BookingID    uuid.UUID `db:"booking_id"`
	FullName     string    `db:"full_name"`
	EmailAddress string    `db:"email_address"`
	PhoneNumber  string    `db:"phone_number"`
}
