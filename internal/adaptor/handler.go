package adaptor

import (
	"story-booking/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Story   *StoryHandler
	Booking *BookingHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Story:   NewStoryHandler(service.Story, log),
		Booking: NewBookingHandler(service.Booking, log),
	}
}
