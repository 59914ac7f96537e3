package adaptor

import (
	"context"
	"encoding/json"
	"net/http"

	"story-booking/internal/dto/request"
	"story-booking/internal/usecase"
	"story-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type StoryHandler struct {
	service usecase.StoryService
	log     *zap.Logger
}

func NewStoryHandler(service usecase.StoryService, log *zap.Logger) *StoryHandler {
	return &StoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "story")),
	}
}

// CreateStory handles POST /api/stories
func (h *StoryHandler) CreateStory(w http.ResponseWriter, r *http.Request) {
	var req request.CreateStoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	story, err := h.service.CreateStory(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create story")
		return
	}

	utils.ResponseCreated(w, "success", story)
}

// GetStoryByID handles GET /api/stories/{id}
func (h *StoryHandler) GetStoryByID(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "id")
	if storyID == "" {
		utils.ResponseBadRequest(w, "Story ID is required", nil)
		return
	}

	story, err := h.service.GetStoryByID(r.Context(), storyID)
	if err != nil {
		handleServiceError(w, h.log, err, "get story by ID")
		return
	}

	utils.ResponseSuccess(w, "success", story)
}

// GetPublishedStories handles GET /api/stories
func (h *StoryHandler) GetPublishedStories(w http.ResponseWriter, r *http.Request) {
	req := &request.PaginatedRequest{
		Page:    1,
		PerPage: 10,
	}

	// Parse query parameters
	query := r.URL.Query()
	req.Page = utils.ParseInt(query.Get("page"), 1)
	req.PerPage = utils.ParseInt(query.Get("per_page"), 10)

	stories, err := h.service.GetPublishedStories(r.Context(), req)
	if err != nil {
		handleServiceError(w, h.log, err, "get published stories")
		return
	}

	utils.ResponseSuccess(w, "success", stories)
}

// GetAvailability handles GET /api/stories/{id}/availability
func (h *StoryHandler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	storyID := chi.URLParam(r, "id")
	if storyID == "" {
		utils.ResponseBadRequest(w, "Story ID is required", nil)
		return
	}

	query := r.URL.Query()
	req := &request.AvailabilityRequest{
		From: query.Get("from"),
		To:   query.Get("to"),
	}

	availability, err := h.service.GetAvailability(r.Context(), storyID, req)
	if err != nil {
		handleServiceError(w, h.log, err, "get availability")
		return
	}

	utils.ResponseSuccess(w, "success", availability)
}

// ==================== LIFECYCLE METHODS ====================

// SubmitStoryForReview handles PUT /api/stories/{id}/submit
func (h *StoryHandler) SubmitStoryForReview(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "submit story for review", h.service.SubmitStoryForReview)
}

// PublishStory handles PUT /api/stories/{id}/publish
func (h *StoryHandler) PublishStory(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "publish story", h.service.PublishStory)
}

// SuspendStory handles PUT /api/stories/{id}/suspend
func (h *StoryHandler) SuspendStory(w http.ResponseWriter, r *http.Request) {
	h.lifecycle(w, r, "suspend story", h.service.SuspendStory)
}

func (h *StoryHandler) lifecycle(w http.ResponseWriter, r *http.Request, operation string, fn func(ctx context.Context, storyID string) error) {
	storyID := chi.URLParam(r, "id")
	if storyID == "" {
		utils.ResponseBadRequest(w, "Story ID is required", nil)
		return
	}

	if err := fn(r.Context(), storyID); err != nil {
		handleServiceError(w, h.log, err, operation)
		return
	}

	utils.ResponseSuccess(w, "success", nil)
}
