package database

import (
	"context"
	"database/sql"
	"fmt"

	"story-booking/migrations"
	"story-booking/pkg/utils"

	// database/sql driver for goose; pgxpool is not usable here.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

// Migrate applies all pending schema migrations embedded in the binary.
// Goose needs a plain *sql.DB, so it gets its own short-lived connection
// instead of the pgxpool used for serving traffic.
func Migrate(ctx context.Context, config utils.DatabaseConfig) error {
	dsn := fmt.Sprintf("user=%s password=%s dbname=%s sslmode=disable host=%s port=%s",
		config.User, config.Password, config.Name, config.Host, config.Port)

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("open migration connection: %w", err)
	}
	defer db.Close()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
