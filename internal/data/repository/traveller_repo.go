package repository

import (
	"context"
	"fmt"

	"story-booking/internal/data/entity"
	"story-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TravellerRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(q database.Querier) TravellerRepository

	CreateBatch(ctx context.Context, travellers []*entity.Traveller) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Traveller, error)
}

type travellerRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewTravellerRepository(db database.Querier, log *zap.Logger) TravellerRepository {
	return &travellerRepository{
		db:  db,
		log: log.With(zap.String("repository", "traveller")),
	}
}

func (r *travellerRepository) WithTx(q database.Querier) TravellerRepository {
	return &travellerRepository{db: q, log: r.log}
}

func (r *travellerRepository) CreateBatch(ctx context.Context, travellers []*entity.Traveller) error {
	query := `
		INSERT INTO travellers (id, booking_id, full_name, email_address, phone_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	for _, t := range travellers {
		_, err := r.db.Exec(ctx, query,
			t.ID,
			t.BookingID,
			t.FullName,
			t.EmailAddress,
			t.PhoneNumber,
			t.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to create traveller",
				zap.Error(err),
				zap.String("booking_id", t.BookingID.String()),
				zap.String("full_name", t.FullName),
			)
			return fmt.Errorf("create traveller for booking %s: %w", t.BookingID.String(), err)
		}
	}

	return nil
}

func (r *travellerRepository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) ([]*entity.Traveller, error) {
	query := `
		SELECT id, booking_id, full_name, email_address, phone_number, created_at
		FROM travellers
		WHERE booking_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(ctx, query, bookingID)
	if err != nil {
		r.log.Error("Failed to find travellers by booking ID",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
		)
		return nil, fmt.Errorf("find travellers by booking ID %s: %w", bookingID.String(), err)
	}
	defer rows.Close()

	var travellers []*entity.Traveller
	for rows.Next() {
		var t entity.Traveller
		err := rows.Scan(
			&t.ID,
			&t.BookingID,
			&t.FullName,
			&t.EmailAddress,
			&t.PhoneNumber,
			&t.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan traveller row", zap.Error(err))
			return nil, fmt.Errorf("scan traveller row: %w", err)
		}
		travellers = append(travellers, &t)
	}

	return travellers, nil
}
