package wire

import (
	"story-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireBooking(r chi.Router, bookingHandler *adaptor.BookingHandler) {
	r.Route("/api/bookings", func(r chi.Router) {
		// POST /api/bookings - Reserve capacity and create a booking
		r.Post("/", bookingHandler.CreateBooking)

		// GET /api/bookings/{id} - Booking detail with travellers
		r.Get("/{id}", bookingHandler.GetBookingByID)

		// PUT /api/bookings/{id}/cancel - Cancel a confirmed booking
		r.Put("/{id}/cancel", bookingHandler.CancelBooking)
	})
}
