package usecase

import (
	"context"
	"fmt"
	"time"

	"story-booking/internal/data/entity"
	"story-booking/internal/data/repository"
	"story-booking/internal/dto/request"
	"story-booking/internal/dto/response"
	"story-booking/pkg/database"
	"story-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type BookingService interface {
	// CreateBooking is the only sanctioned path to create a booking. The
	// capacity check and the insert run in one serializable transaction.
	CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error)

	GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error)
	GetStoryBookings(ctx context.Context, storyID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	CancelBooking(ctx context.Context, bookingID string) error
}

type bookingService struct {
	db   database.PgxIface
	repo *repository.Repository
	log  *zap.Logger
}

func NewBookingService(db database.PgxIface, repo *repository.Repository, log *zap.Logger) BookingService {
	return &bookingService{
		db:   db,
		repo: repo,
		log:  log.With(zap.String("service", "booking")),
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, req *request.CreateBookingRequest) (*response.BookingResponse, error) {
	// Everything checkable without storage is rejected before a tx opens.
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create booking validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("%w: %s", ErrValidation, utils.FormatValidationErrors(errs))
	}

	storyID, err := uuid.Parse(req.StoryID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid story ID %s", ErrValidation, req.StoryID)
	}

	startDate, err := time.ParseInLocation(request.DateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date %s", ErrValidation, req.StartDate)
	}

	endDate, err := time.ParseInLocation(request.DateLayout, req.EndDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date %s", ErrValidation, req.EndDate)
	}

	if endDate.Before(startDate) {
		return nil, fmt.Errorf("%w: end date %s before start date %s", ErrValidation, req.EndDate, req.StartDate)
	}

	if len(req.Travellers) != req.NoOfTravellers {
		return nil, fmt.Errorf("%w: declared %d, got %d details",
			ErrTravellerCountMismatch, req.NoOfTravellers, len(req.Travellers))
	}

	payment := entity.PaymentBreakdown{
		TotalBase:    entity.Money(req.Payment.TotalBase),
		PlatformFee:  entity.Money(req.Payment.PlatformFee),
		Discount:     entity.Money(req.Payment.Discount),
		TotalPayment: entity.Money(req.Payment.TotalPayment),
	}
	if err := payment.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayment, err.Error())
	}

	// The capacity read and the booking write must see one consistent state.
	tx, err := s.db.BeginSerializable(ctx)
	if err != nil {
		s.log.Error("Failed to begin reservation transaction", zap.Error(err))
		return nil, reservationFailed("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	storyRepo := s.repo.Story.WithTx(tx)
	bookingRepo := s.repo.Booking.WithTx(tx)
	travellerRepo := s.repo.Traveller.WithTx(tx)

	// Row lock serializes rival reservations for this story.
	story, err := storyRepo.FindByIDForUpdate(ctx, storyID)
	if err != nil {
		return nil, reservationFailed("load story", err)
	}
	if story == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, req.StoryID)
	}

	if !story.Bookable() {
		return nil, fmt.Errorf("%w: story %s is %s", ErrStoryNotBookable, req.StoryID, story.Status)
	}

	// Exact duration, never truncated or extended.
	if duration := entity.DurationDays(startDate, endDate); duration != story.StoryLengthDays {
		return nil, fmt.Errorf("%w: got %d day(s), story runs %d",
			ErrDurationMismatch, duration, story.StoryLengthDays)
	}

	existing, err := bookingRepo.FindConfirmedInRange(ctx, storyID, startDate, endDate)
	if err != nil {
		return nil, reservationFailed("load confirmed bookings", err)
	}

	decision := EvaluateCapacity(story.MaxTravellersPerDay, existing, startDate, endDate, req.NoOfTravellers)
	if !decision.Admit {
		s.log.Info("Reservation rejected: capacity exceeded",
			zap.String("story_id", req.StoryID),
			zap.Time("date", decision.Date),
			zap.Int("remaining", decision.Remaining),
			zap.Int("requested", req.NoOfTravellers),
		)
		return nil, &CapacityError{Date: decision.Date, Remaining: decision.Remaining}
	}

	now := time.Now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		BookingCode:     utils.GenerateBookingCode(),
		StoryID:         storyID,
		StartDate:       startDate,
		EndDate:         endDate,
		TotalTravellers: req.NoOfTravellers,
		Payment:         payment,
		Status:          entity.BookingStatusConfirmed,
	}

	if err := bookingRepo.Create(ctx, booking); err != nil {
		return nil, reservationFailed("insert booking", err)
	}

	travellers := make([]*entity.Traveller, len(req.Travellers))
	for i, t := range req.Travellers {
		travellers[i] = &entity.Traveller{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			BookingID:    booking.ID,
			FullName:     t.FullName,
			EmailAddress: t.EmailAddress,
			PhoneNumber:  t.PhoneNumber,
		}
	}

	if err := travellerRepo.CreateBatch(ctx, travellers); err != nil {
		return nil, reservationFailed("insert travellers", err)
	}

	if err := tx.Commit(ctx); err != nil {
		s.log.Error("Failed to commit reservation",
			zap.Error(err),
			zap.String("booking_code", booking.BookingCode),
		)
		return nil, reservationFailed("commit", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("booking_code", booking.BookingCode),
		zap.String("story_id", req.StoryID),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
		zap.Int("travellers", req.NoOfTravellers),
	)

	resp := response.BookingToResponse(booking, travellers)
	return &resp, nil
}

func (s *bookingService) GetBookingByID(ctx context.Context, bookingID string) (*response.BookingResponse, error) {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	booking, err := s.repo.Booking.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get booking", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("get booking %s: %w", bookingID, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}

	travellers, err := s.repo.Traveller.FindByBookingID(ctx, booking.ID)
	if err != nil {
		s.log.Error("Failed to get booking travellers", zap.Error(err), zap.String("booking_id", bookingID))
		return nil, fmt.Errorf("get travellers for booking %s: %w", bookingID, err)
	}

	resp := response.BookingToResponse(booking, travellers)
	return &resp, nil
}

func (s *bookingService) GetStoryBookings(ctx context.Context, storyID string, req *request.PaginatedRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	id, err := uuid.Parse(storyID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid story ID %s", ErrValidation, storyID)
	}

	story, err := s.repo.Story.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get story %s: %w", storyID, err)
	}
	if story == nil {
		return nil, fmt.Errorf("%w: %s", ErrStoryNotFound, storyID)
	}

	bookings, err := s.repo.Booking.FindByStoryID(ctx, id, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get story bookings", zap.Error(err), zap.String("story_id", storyID))
		return nil, fmt.Errorf("get bookings for story %s: %w", storyID, err)
	}

	total, err := s.repo.Booking.CountByStoryID(ctx, id)
	if err != nil {
		s.log.Error("Failed to count story bookings", zap.Error(err), zap.String("story_id", storyID))
		return nil, fmt.Errorf("count bookings for story %s: %w", storyID, err)
	}

	bookingResponses := make([]response.BookingResponse, len(bookings))
	for i, booking := range bookings {
		bookingResponses[i] = response.BookingToResponse(booking, nil)
	}

	return response.NewPaginatedResponse(bookingResponses, req.Page, req.PerPage, total), nil
}

// CancelBooking flips a confirmed booking to cancelled. It runs under the
// same story row lock as CreateBooking, so the freed capacity becomes visible
// atomically with respect to concurrent reservations.
func (s *bookingService) CancelBooking(ctx context.Context, bookingID string) error {
	id, err := uuid.Parse(bookingID)
	if err != nil {
		return fmt.Errorf("%w: invalid booking ID %s", ErrValidation, bookingID)
	}

	tx, err := s.db.BeginSerializable(ctx)
	if err != nil {
		s.log.Error("Failed to begin cancel transaction", zap.Error(err))
		return reservationFailed("begin transaction", err)
	}
	defer tx.Rollback(ctx)

	bookingRepo := s.repo.Booking.WithTx(tx)

	booking, err := bookingRepo.FindByID(ctx, id)
	if err != nil {
		return reservationFailed("load booking", err)
	}
	if booking == nil {
		return fmt.Errorf("%w: %s", ErrBookingNotFound, bookingID)
	}

	if booking.Status != entity.BookingStatusConfirmed {
		return fmt.Errorf("%w: booking %s is %s", ErrBookingNotCancellable, bookingID, booking.Status)
	}

	if _, err := s.repo.Story.WithTx(tx).FindByIDForUpdate(ctx, booking.StoryID); err != nil {
		return reservationFailed("lock story", err)
	}

	if err := bookingRepo.UpdateStatus(ctx, id, entity.BookingStatusCancelled); err != nil {
		return reservationFailed("update booking status", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return reservationFailed("commit", err)
	}

	s.log.Info("Booking cancelled",
		zap.String("booking_id", bookingID),
		zap.String("booking_code", booking.BookingCode),
	)

	return nil
}
