package request

// DateLayout is the wire format for booking dates. Bookings are whole-day;
// no time-of-day crosses the API boundary.
const DateLayout = "2006-01-02"

type CreateBookingRequest struct {
	StoryID        string             `json:"story_id" validate:"required,uuid4"`
	StartDate      string             `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate        string             `json:"end_date" validate:"required,datetime=2006-01-02"`
	NoOfTravellers int                `json:"no_of_travellers" validate:"required,min=1"`
	Travellers     []TravellerRequest `json:"travellers" validate:"required,min=1,dive"`
	Payment        PaymentRequest     `json:"payment" validate:"required"`
}

type TravellerRequest struct {
	FullName     string `json:"full_name" validate:"required,min=2,max=100"`
	EmailAddress string `json:"email_address" validate:"required,email"`
	PhoneNumber  string `json:"phone_number" validate:"required,min=7,max=20"`
}

// PaymentRequest carries the fee split agreed with the payment collaborator,
// in minor currency units.
type PaymentRequest struct {
	TotalBase    int64 `json:"total_base" validate:"required,min=1"`
	PlatformFee  int64 `json:"platform_fee" validate:"min=0"`
	Discount     int64 `json:"discount" validate:"min=0"`
	TotalPayment int64 `json:"total_payment" validate:"required,min=1"`
}
