package repository

import (
	"context"
	"fmt"

	"story-booking/internal/data/entity"
	"story-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type StoryRepository interface {
	// WithTx returns a copy of the repository bound to the given transaction.
	WithTx(q database.Querier) StoryRepository

	Create(ctx context.Context, story *entity.Story) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Story, error)
	FindPublished(ctx context.Context, limit, offset int) ([]*entity.Story, error)
	CountPublished(ctx context.Context) (int64, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status entity.StoryStatus) error

	// FindByIDForUpdate locks the story row for the duration of the enclosing
	// transaction. Valid only on a repository bound via WithTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Story, error)
}

type storyRepository struct {
	db  database.Querier
	log *zap.Logger
}

func NewStoryRepository(db database.Querier, log *zap.Logger) StoryRepository {
	return &storyRepository{
		db:  db,
		log: log.With(zap.String("repository", "story")),
	}
}

func (r *storyRepository) WithTx(q database.Querier) StoryRepository {
	return &storyRepository{db: q, log: r.log}
}

const storyColumns = `id, host_id, title, location, description, story_length_days,
	max_travellers_per_day, price_per_traveller, status, created_at, updated_at`

func (r *storyRepository) Create(ctx context.Context, story *entity.Story) error {
	query := `
		INSERT INTO stories (` + storyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.Exec(ctx, query,
		story.ID,
		story.HostID,
		story.Title,
		story.Location,
		story.Description,
		story.StoryLengthDays,
		story.MaxTravellersPerDay,
		story.PricePerTraveller,
		story.Status,
		story.CreatedAt,
		story.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create story",
			zap.Error(err),
			zap.String("story_id", story.ID.String()),
			zap.String("title", story.Title),
		)
		return fmt.Errorf("create story %s: %w", story.ID.String(), err)
	}

	return nil
}

func (r *storyRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Story, error) {
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1`
	return r.scanOne(ctx, query, id)
}

func (r *storyRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*entity.Story, error) {
	// The row lock serializes rival reservations for one story without
	// blocking reservations against other stories.
	query := `SELECT ` + storyColumns + ` FROM stories WHERE id = $1 FOR UPDATE`
	return r.scanOne(ctx, query, id)
}

func (r *storyRepository) scanOne(ctx context.Context, query string, id uuid.UUID) (*entity.Story, error) {
	var story entity.Story
	err := r.db.QueryRow(ctx, query, id).Scan(
		&story.ID,
		&story.HostID,
		&story.Title,
		&story.Location,
		&story.Description,
		&story.StoryLengthDays,
		&story.MaxTravellersPerDay,
		&story.PricePerTraveller,
		&story.Status,
		&story.CreatedAt,
		&story.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find story by ID",
			zap.Error(err),
			zap.String("story_id", id.String()),
		)
		return nil, fmt.Errorf("find story by ID %s: %w", id.String(), err)
	}

	return &story, nil
}

func (r *storyRepository) FindPublished(ctx context.Context, limit, offset int) ([]*entity.Story, error) {
	query := `
		SELECT ` + storyColumns + `
		FROM stories
		WHERE status = 'published'
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		r.log.Error("Failed to find published stories",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find published stories: %w", err)
	}
	defer rows.Close()

	var stories []*entity.Story
	for rows.Next() {
		var story entity.Story
		err := rows.Scan(
			&story.ID,
			&story.HostID,
			&story.Title,
			&story.Location,
			&story.Description,
			&story.StoryLengthDays,
			&story.MaxTravellersPerDay,
			&story.PricePerTraveller,
			&story.Status,
			&story.CreatedAt,
			&story.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan story row", zap.Error(err))
			return nil, fmt.Errorf("scan story row: %w", err)
		}
		stories = append(stories, &story)
	}

	return stories, nil
}

func (r *storyRepository) CountPublished(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(*) FROM stories WHERE status = 'published'`

	var count int64
	err := r.db.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count published stories", zap.Error(err))
		return 0, fmt.Errorf("count published stories: %w", err)
	}

	return count, nil
}

func (r *storyRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status entity.StoryStatus) error {
	query := `UPDATE stories SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update story status",
			zap.Error(err),
			zap.String("story_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update story %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("story %s not found", id.String())
	}

	return nil
}
