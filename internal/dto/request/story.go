package request

type CreateStoryRequest struct {
	HostID              string `json:"host_id" validate:"required,uuid4"`
	Title               string `json:"title" validate:"required,min=3,max=200"`
	Location            string `json:"location" validate:"required,min=2,max=200"`
	Description         string `json:"description" validate:"max=5000"`
	StoryLengthDays     int    `json:"story_length_days" validate:"required,min=1,max=60"`
	MaxTravellersPerDay int    `json:"max_travellers_per_day" validate:"min=0,max=1000"`
	PricePerTraveller   int64  `json:"price_per_traveller" validate:"min=0"`
}

type AvailabilityRequest struct {
	From string `json:"from" validate:"required,datetime=2006-01-02"`
	To   string `json:"to" validate:"required,datetime=2006-01-02"`
}
