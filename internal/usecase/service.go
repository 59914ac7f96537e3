package usecase

import (
	"story-booking/internal/data/repository"
	"story-booking/pkg/database"

	"go.uber.org/zap"
)

type Service struct {
	Story   StoryService
	Booking BookingService
}

func NewService(db database.PgxIface, repo *repository.Repository, log *zap.Logger) *Service {
	return &Service{
		Story:   NewStoryService(repo, log),
		Booking: NewBookingService(db, repo, log),
	}
}
