package repository

import (
	"story-booking/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Story     StoryRepository
	Booking   BookingRepository
	Traveller TravellerRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Story:     NewStoryRepository(db, log),
		Booking:   NewBookingRepository(db, log),
		Traveller: NewTravellerRepository(db, log),
	}
}
