package repository

import (
	"context"
	"fmt"
	"time"

	"story-booking/internal/data/entity"
	"story-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type BookingRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(q database.Querier) BookingRepository

	Create(ctx context.Context, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindByCode(ctx context.Context, code string) (*entity.Booking, error)
	FindByStoryID(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*entity.Booking, error)
	CountByStoryID(ctx context.Context, storyID uuid.UUID) (int64, error)
	UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error

	// FindConfirmedInRange returns confirmed bookings of the story whose
	// inclusive date range overlaps [from, to]. This is the capacity read;
	// on the reserve path it must run inside the reservation transaction.
	FindConfirmedInRange(ctx context.Context, storyID uuid.UUID, from, to time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewBookingRepository(db database.Querier, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

func (r *bookingRepository) WithTx(q database.Querier) BookingRepository {
	return &bookingRepository{db: q, log: r.log}
}

const bookingColumns = `id, booking_code, story_id, start_date, end_date, total_travellers,
	total_base, platform_fee, discount, total_payment, status, created_at, updated_at`

func (r *bookingRepository) Create(ctx context.Context, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (` + bookingColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.BookingCode,
		booking.StoryID,
		booking.StartDate,
		booking.EndDate,
		booking.TotalTravellers,
		booking.Payment.TotalBase,
		booking.Payment.PlatformFee,
		booking.Payment.Discount,
		booking.Payment.TotalPayment,
		booking.Status,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("booking_code", booking.BookingCode),
			zap.String("story_id", booking.StoryID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.BookingCode, err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := r.scanRow(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByCode(ctx context.Context, code string) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE booking_code = $1`

	booking, err := r.scanRow(r.db.QueryRow(ctx, query, code))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by code",
			zap.Error(err),
			zap.String("booking_code", code),
		)
		return nil, fmt.Errorf("find booking by code %s: %w", code, err)
	}

	return booking, nil
}

func (r *bookingRepository) FindByStoryID(ctx context.Context, storyID uuid.UUID, limit, offset int) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE story_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, storyID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find bookings by story ID",
			zap.Error(err),
			zap.String("story_id", storyID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find bookings by story ID %s: %w", storyID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *bookingRepository) CountByStoryID(ctx context.Context, storyID uuid.UUID) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE story_id = $1`

	var count int64
	err := r.db.QueryRow(ctx, query, storyID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings by story ID",
			zap.Error(err),
			zap.String("story_id", storyID.String()),
		)
		return 0, fmt.Errorf("count bookings by story ID %s: %w", storyID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindConfirmedInRange(ctx context.Context, storyID uuid.UUID, from, to time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE story_id = $1 AND status = 'confirmed'
		  AND start_date <= $3 AND end_date >= $2
	`

	rows, err := r.db.Query(ctx, query, storyID, from, to)
	if err != nil {
		r.log.Error("Failed to find confirmed bookings in range",
			zap.Error(err),
			zap.String("story_id", storyID.String()),
			zap.Time("from", from),
			zap.Time("to", to),
		)
		return nil, fmt.Errorf("find confirmed bookings for story %s: %w", storyID.String(), err)
	}
	defer rows.Close()

	return r.scanRows(rows)
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, bookingID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", bookingID.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

func (r *bookingRepository) scanRow(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.BookingCode,
		&booking.StoryID,
		&booking.StartDate,
		&booking.EndDate,
		&booking.TotalTravellers,
		&booking.Payment.TotalBase,
		&booking.Payment.PlatformFee,
		&booking.Payment.Discount,
		&booking.Payment.TotalPayment,
		&booking.Status,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) scanRows(rows pgx.Rows) ([]*entity.Booking, error) {
	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := r.scanRow(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, nil
}
