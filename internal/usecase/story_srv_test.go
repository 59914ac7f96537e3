package usecase_test

import (
	"context"
	"testing"

	"story-booking/internal/data/entity"
	"story-booking/internal/data/repository"
	"story-booking/internal/dto/request"
	"story-booking/internal/usecase"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newStoryService(store *memoryStore) usecase.StoryService {
	repo := &repository.Repository{
		Story:     &memStoryRepo{store: store},
		Booking:   &memBookingRepo{store: store},
		Traveller: &memTravellerRepo{store: store},
	}
	return usecase.NewStoryService(repo, zap.NewNop())
}

func createStoryRequest() *request.CreateStoryRequest {
	return &request.CreateStoryRequest{
		HostID:              uuid.New().String(),
		Title:               "Sunrise Trek",
		Location:            "Bromo",
		Description:         "Three days of volcano trekking.",
		StoryLengthDays:     3,
		MaxTravellersPerDay: 10,
		PricePerTraveller:   150000,
	}
}

func TestCreateStory_StartsAsDraft(t *testing.T) {
	store := newMemoryStore()
	svc := newStoryService(store)

	resp, err := svc.CreateStory(context.Background(), createStoryRequest())

	require.NoError(t, err)
	assert.Equal(t, entity.StoryStatusDraft, resp.Status)
	assert.Equal(t, 3, resp.StoryLengthDays)
	assert.Equal(t, 10, resp.MaxTravellersPerDay)
	assert.Len(t, store.stories, 1)
}

func TestCreateStory_RejectsInvalidRequest(t *testing.T) {
	store := newMemoryStore()
	svc := newStoryService(store)

	req := createStoryRequest()
	req.StoryLengthDays = 0

	_, err := svc.CreateStory(context.Background(), req)

	assert.ErrorIs(t, err, usecase.ErrValidation)
	assert.Empty(t, store.stories)
}

func TestCreateStory_AllowsZeroCapacity(t *testing.T) {
	store := newMemoryStore()
	svc := newStoryService(store)

	req := createStoryRequest()
	req.MaxTravellersPerDay = 0

	resp, err := svc.CreateStory(context.Background(), req)

	require.NoError(t, err)
	assert.Equal(t, 0, resp.MaxTravellersPerDay)
}

func TestGetStoryByID_UnknownStory(t *testing.T) {
	store := newMemoryStore()
	svc := newStoryService(store)

	_, err := svc.GetStoryByID(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, usecase.ErrStoryNotFound)
}

func TestGetPublishedStories_FiltersByStatus(t *testing.T) {
	store := newMemoryStore()
	published := publishedStory(3, 10)
	store.stories[published.ID] = published
	draft := publishedStory(3, 10)
	draft.Status = entity.StoryStatusDraft
	store.stories[draft.ID] = draft
	svc := newStoryService(store)

	resp, err := svc.GetPublishedStories(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 10})

	require.NoError(t, err)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, published.ID.String(), resp.Data[0].ID)
	assert.Equal(t, int64(1), resp.Pagination.Total)
}

// ---- lifecycle -------------------------------------------------------------

func TestStoryLifecycle_FullPath(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(3, 10)
	story.Status = entity.StoryStatusDraft
	store.stories[story.ID] = story
	svc := newStoryService(store)
	ctx := context.Background()

	require.NoError(t, svc.SubmitStoryForReview(ctx, story.ID.String()))
	assert.Equal(t, entity.StoryStatusPendingReview, story.Status)

	require.NoError(t, svc.PublishStory(ctx, story.ID.String()))
	assert.Equal(t, entity.StoryStatusPublished, story.Status)

	require.NoError(t, svc.SuspendStory(ctx, story.ID.String()))
	assert.Equal(t, entity.StoryStatusSuspended, story.Status)
}

func TestPublishStory_RejectsDraft(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(3, 10)
	story.Status = entity.StoryStatusDraft
	store.stories[story.ID] = story
	svc := newStoryService(store)

	err := svc.PublishStory(context.Background(), story.ID.String())

	assert.ErrorIs(t, err, usecase.ErrValidation)
	assert.Equal(t, entity.StoryStatusDraft, story.Status)
}

func TestSuspendStory_RejectsUnpublished(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(3, 10)
	story.Status = entity.StoryStatusPendingReview
	store.stories[story.ID] = story
	svc := newStoryService(store)

	err := svc.SuspendStory(context.Background(), story.ID.String())

	assert.ErrorIs(t, err, usecase.ErrValidation)
}

func TestSubmitStoryForReview_UnknownStory(t *testing.T) {
	store := newMemoryStore()
	svc := newStoryService(store)

	err := svc.SubmitStoryForReview(context.Background(), uuid.New().String())

	assert.ErrorIs(t, err, usecase.ErrStoryNotFound)
}

// ---- availability ----------------------------------------------------------

func TestGetAvailability_PerDayBreakdown(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	seedBooking(store, story.ID, "2025-11-10", "2025-11-12", 7)
	svc := newStoryService(store)

	resp, err := svc.GetAvailability(context.Background(), story.ID.String(),
		&request.AvailabilityRequest{From: "2025-11-10", To: "2025-11-14"})

	require.NoError(t, err)
	assert.Equal(t, 10, resp.MaxTravellersPerDay)
	require.Len(t, resp.Days, 5)

	assert.Equal(t, "2025-11-10", resp.Days[0].Date)
	assert.Equal(t, 7, resp.Days[0].Committed)
	assert.Equal(t, 3, resp.Days[0].Remaining)

	assert.Equal(t, 7, resp.Days[2].Committed)

	// Past the seeded booking the full ceiling is free.
	assert.Equal(t, 0, resp.Days[3].Committed)
	assert.Equal(t, 10, resp.Days[3].Remaining)
}

func TestGetAvailability_IgnoresCancelledBookings(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	cancelled := seedBooking(store, story.ID, "2025-11-10", "2025-11-12", 7)
	cancelled.Status = entity.BookingStatusCancelled
	svc := newStoryService(store)

	resp, err := svc.GetAvailability(context.Background(), story.ID.String(),
		&request.AvailabilityRequest{From: "2025-11-10", To: "2025-11-10"})

	require.NoError(t, err)
	assert.Equal(t, 0, resp.Days[0].Committed)
	assert.Equal(t, 10, resp.Days[0].Remaining)
}

func TestGetAvailability_RejectsInvertedRange(t *testing.T) {
	store := newMemoryStore()
	story := publishedStory(5, 10)
	store.stories[story.ID] = story
	svc := newStoryService(store)

	_, err := svc.GetAvailability(context.Background(), story.ID.String(),
		&request.AvailabilityRequest{From: "2025-11-14", To: "2025-11-10"})

	assert.ErrorIs(t, err, usecase.ErrValidation)
}
