package usecase

import (
	"context"
	"fmt"
	"time"

	"story-booking/internal/data/entity"
	"story-booking/internal/data/repository"
	"story-booking/internal/dto/request"
	"story-booking/internal/dto/response"
	"story-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StoryService interface {
	CreateStory(ctx context.Context, req *request.CreateStoryRequest) (*response.StoryResponse, error)
	GetStoryByID(ctx context.Context, storyID string) (*response.StoryResponse, error)
	GetPublishedStories(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.StoryResponse], error)
	GetAvailability(ctx context.Context, storyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error)

	// Lifecycle: draft -> pending_review -> published -> suspended
	SubmitStoryForReview(ctx context.Context, storyID string) error
	PublishStory(ctx context.Context, storyID string) error
	SuspendStory(ctx context.Context, storyID string) error
}

type storyService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewStoryService(repo *repository.Repository, log *zap.Logger) StoryService {
	return &storyService{
		repo: repo,
		log:  log.With(zap.String("service", "story")),
	}
}

func (s *storyService) CreateStory(ctx context.Context, req *request.CreateStoryRequest) (*response.StoryResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create story validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	hostID, err := uuid.Parse(req.HostID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid host ID %s", ErrValidation, req.HostID)
	}

	now := time.Now()
	story := &entity.Story{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		HostID:              hostID,
		Title:               req.Title,
		Location:            req.Location,
		Description:         req.Description,
		StoryLengthDays:     req.StoryLengthDays,
		MaxTravellersPerDay: req.MaxTravellersPerDay,
		PricePerTraveller:   entity.Money(req.PricePerTraveller),
		Status:              entity.StoryStatusDraft,
	}

	if err := s.repo.Story.Create(ctx, story); err != nil {
		s.log.Error("Failed to create story", zap.Error(err), zap.String("title", req.Title))
		return nil, fmt.Errorf("create story: %w", err)
	}

	s.log.Info("Story created",
		zap.String("story_id", story.ID.String()),
		zap.String("title", story.Title),
		zap.Int("story_length_days", story.StoryLengthDays),
		zap.Int("max_travellers_per_day", story.MaxTravellersPerDay),
	)

	resp := response.StoryToResponse(story)
	return &resp, nil
}

func (s *storyService) GetStoryByID(ctx context.Context, storyID string) (*response.StoryResponse, error) {
	id, err := uuid.Parse(storyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid story ID %s", ErrValidation, storyID)
	}

	story, err := s.repo.Story.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get story", zap.Error(err), zap.String("story_id", storyID))
		return nil, fmt.Errorf("get story %s: %w", storyID, err)
	}
	if story == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}

	resp := response.StoryToResponse(story)
	return &resp, nil
}

func (s *storyService) GetPublishedStories(ctx context.Context, req *request.PaginatedRequest) (*response.PaginatedResponse[response.StoryResponse], error) {
	stories, err := s.repo.Story.FindPublished(ctx, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get published stories", zap.Error(err))
		return nil, fmt.Errorf("get published stories: %w", err)
	}

	total, err := s.repo.Story.CountPublished(ctx)
	if err != nil {
		s.log.Error("Failed to count published stories", zap.Error(err))
		return nil, fmt.Errorf("count published stories: %w", err)
	}

	storyResponses := make([]response.StoryResponse, len(stories))
	for i, story := range stories {
		storyResponses[i] = response.StoryToResponse(story)
	}

	return response.NewPaginatedResponse(storyResponses, req.Page, req.PerPage, total), nil
}

// GetAvailability reports committed and remaining travellers per day over
// [from, to]. It is a read-only preview; the reserve path re-checks inside
// its own transaction, so this result may be stale by the time a booking is
// submitted.
func (s *storyService) GetAvailability(ctx context.Context, storyID string, req *request.AvailabilityRequest) (*response.AvailabilityResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(storyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid story ID %s", ErrValidation, storyID)
	}

	from, err := time.ParseInLocation(request.DateLayout, req.From, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid from date %s", ErrValidation, req.From)
	}
	to, err := time.ParseInLocation(request.DateLayout, req.To, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid to date %s", ErrValidation, req.To)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("%w: to date %s before from date %s", ErrValidation, req.To, req.From)
	}

	story, err := s.repo.Story.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get story %s: %w", storyID, err)
	}
	if story == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}

	bookings, err := s.repo.Booking.FindConfirmedInRange(ctx, id, from, to)
	if err != nil {
		s.log.Error("Failed to load confirmed bookings for availability",
			zap.Error(err),
			zap.String("story_id", storyID),
		)
		return nil, fmt.Errorf("get availability for story %s: %w", storyID, err)
	}

	var days []response.DayAvailability
	last := entity.Day(to)
	for d := entity.Day(from); !d.After(last); d = d.AddDate(0, 0, 1) {
		committed := committedTravellers(bookings, d)
		remaining := story.MaxTravellersPerDay - committed
		if remaining < 0 {
			remaining = 0
		}
		days = append(days, response.DayAvailability{
			Date:      d.Format(request.DateLayout),
			Committed: committed,
			Remaining: remaining,
		})
	}

	return &response.AvailabilityResponse{
		StoryID:             storyID,
		MaxTravellersPerDay: story.MaxTravellersPerDay,
		Days:                days,
	}, nil
}

// ==================== LIFECYCLE METHODS ====================

func (s *storyService) SubmitStoryForReview(ctx context.Context, storyID string) error {
	return s.transition(ctx, storyID, entity.StoryStatusDraft, entity.StoryStatusPendingReview)
}

func (s *storyService) PublishStory(ctx context.Context, storyID string) error {
	return s.transition(ctx, storyID, entity.StoryStatusPendingReview, entity.StoryStatusPublished)
}

func (s *storyService) SuspendStory(ctx context.Context, storyID string) error {
	return s.transition(ctx, storyID, entity.StoryStatusPublished, entity.StoryStatusSuspended)
}

func (s *storyService) transition(ctx context.Context, storyID string, from, to entity.StoryStatus) error {
	id, err := uuid.Parse(storyID)
	if err != nil {
		return fmt.Errorf("%w: invalid story ID %s", ErrValidation, storyID)
	}

	story, err := s.repo.Story.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("get story %s: %w", storyID, err)
	}
	if story == nil {
		return fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}

	if story.Status != from {
		return fmt.Errorf("%w: story %s is %s, expected %s", ErrValidation, storyID, story.Status, from)
	}

	if err := s.repo.Story.UpdateStatus(ctx, id, to); err != nil {
		s.log.Error("Failed to update story status",
			zap.Error(err),
			zap.String("story_id", storyID),
			zap.String("status", string(to)),
		)
		return fmt.Errorf("update story %s status: %w", storyID, err)
	}

	s.log.Info("Story status updated",
		zap.String("story_id", storyID),
		zap.String("from", string(from)),
		zap.String("to", string(to)),
	)

	return nil
}
