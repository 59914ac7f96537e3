package wire

import (
	"story-booking/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireStory(r chi.Router, storyHandler *adaptor.StoryHandler, bookingHandler *adaptor.BookingHandler) {
	r.Route("/api/stories", func(r chi.Router) {
		// POST /api/stories - Create a new story draft (host)
		r.Post("/", storyHandler.CreateStory)

		// GET /api/stories - List published stories (public discovery)
		r.Get("/", storyHandler.GetPublishedStories)

		// GET /api/stories/{id} - Story detail
		r.Get("/{id}", storyHandler.GetStoryByID)

		// GET /api/stories/{id}/availability - Per-day committed/remaining preview
		r.Get("/{id}/availability", storyHandler.GetAvailability)

		// GET /api/stories/{id}/bookings - Bookings of a story (host view)
		r.Get("/{id}/bookings", bookingHandler.GetStoryBookings)

		// Lifecycle transitions
		r.Put("/{id}/submit", storyHandler.SubmitStoryForReview)
		r.Put("/{id}/publish", storyHandler.PublishStory)
		r.Put("/{id}/suspend", storyHandler.SuspendStory)
	})
}
