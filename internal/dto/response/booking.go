package response

import (
	"time"

	"story-booking/internal/data/entity"
)

type BookingResponse struct {
	ID              string               `json:"id"`
	BookingCode     string               `json:"booking_code"`
	StoryID         string               `json:"story_id"`
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	TotalTravellers int                  `json:"total_travellers"`
	Status          entity.BookingStatus `json:"status"`
	Travellers      []TravellerResponse  `json:"travellers,omitempty"`
	Payment         PaymentResponse      `json:"payment"`
	CreatedAt       time.Time            `json:"created_at"`
}

type TravellerResponse struct {
	FullName     string `json:"full_name"`
	EmailAddress string `json:"email_address"`
	PhoneNumber  string `json:"phone_number"`
}

type PaymentResponse struct {
	TotalBase    int64 `json:"total_base"`
	PlatformFee  int64 `json:"platform_fee"`
	Discount     int64 `json:"discount"`
	TotalPayment int64 `json:"total_payment"`
}

// Helper converters
func BookingToResponse(booking *entity.Booking, travellers []*entity.Traveller) BookingResponse {
	travellerResponses := make([]TravellerResponse, len(travellers))
	for i, t := range travellers {
		travellerResponses[i] = TravellerResponse{
			FullName:     t.FullName,
			EmailAddress: t.EmailAddress,
			PhoneNumber:  t.PhoneNumber,
		}
	}

	return BookingResponse{
		ID:              booking.ID.String(),
		BookingCode:     booking.BookingCode,
		StoryID:         booking.StoryID.String(),
		StartDate:       booking.StartDate.Format("2006-01-02"),
		EndDate:         booking.EndDate.Format("2006-01-02"),
		TotalTravellers: booking.TotalTravellers,
		Status:          booking.Status,
		Travellers:      travellerResponses,
		Payment: PaymentResponse{
			TotalBase:    int64(booking.Payment.TotalBase),
			PlatformFee:  int64(booking.Payment.PlatformFee),
			Discount:     int64(booking.Payment.Discount),
			TotalPayment: int64(booking.Payment.TotalPayment),
		},
		CreatedAt: booking.CreatedAt,
	}
}
