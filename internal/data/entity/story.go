package entity

import (
	"github.com/google/uuid"
)

type StoryStatus string

const (
	StoryStatusDraft         StoryStatus = "draft"
	StoryStatusPendingReview StoryStatus = "pending_review"
	StoryStatusPublished     StoryStatus = "published"
	StoryStatusSuspended     StoryStatus = "suspended"
	StoryStatusArchived      StoryStatus = "archived"
)

// Story is a bookable tour package with a fixed duration and a per-day
// traveller ceiling. Capacity fields are NOT NULL in the schema, so every
// story carries them before any booking can be created against it.
type Story struct {
	Base
	HostID              uuid.UUID   `db:"host_id"`
	Title               string      `db:"title"`
	Location            string      `db:"location"`
	Description         string      `db:"description"`
	StoryLengthDays     int         `db:"story_length_days"`
	MaxTravellersPerDay int         `db:"max_travellers_per_day"`
	PricePerTraveller   Money       `db:"price_per_traveller"`
	Status              StoryStatus `db:"status"`
}

// Bookable reports whether reservations may be created against the story.
func (s *Story) Bookable() bool {
	return s.Status == StoryStatusPublished
}
