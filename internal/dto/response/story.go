package response

import (
	"time"

	"story-booking/internal/data/entity"
)

type StoryResponse struct {
	ID                  string             `json:"id"`
	HostID              string             `json:"host_id"`
	Title               string             `json:"title"`
	Location            string             `json:"location"`
	Description         string             `json:"description,omitempty"`
	StoryLengthDays     int                `json:"story_length_days"`
	MaxTravellersPerDay int                `json:"max_travellers_per_day"`
	PricePerTraveller   int64              `json:"price_per_traveller"`
	Status              entity.StoryStatus `json:"status"`
	CreatedAt           time.Time          `json:"created_at"`
}

func StoryToResponse(story *entity.Story) StoryResponse {
	return StoryResponse{
		ID:                  story.ID.String(),
		HostID:              story.HostID.String(),
		Title:               story.Title,
		Location:            story.Location,
		Description:         story.Description,
		StoryLengthDays:     story.StoryLengthDays,
		MaxTravellersPerDay: story.MaxTravellersPerDay,
		PricePerTraveller:   int64(story.PricePerTraveller),
		Status:              story.Status,
		CreatedAt:           story.CreatedAt,
	}
}

// DayAvailability is the committed/remaining pair for one calendar day.
type DayAvailability struct {
	Date      string `json:"date"`
	Committed int    `json:"committed"`
	Remaining int    `json:"remaining"`
}

type AvailabilityResponse struct {
	StoryID             string            `json:"story_id"`
	MaxTravellersPerDay int               `json:"max_travellers_per_day"`
	Days                []DayAvailability `json:"days"`
}
