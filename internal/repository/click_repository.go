package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fairyhunter13/taqueria-landing/internal/model"
	"github.com/fairyhunter13/taqueria-landing/internal/service"
)

// PoolInterface defines the database operations needed by repositories.
// This allows for easier testing with mocks.
type PoolInterface interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// ClickRepository provides data access for the click log using pgx.
type ClickRepository struct {
	pool PoolInterface
}

// NewClickRepository creates a new ClickRepository with the given pool.
func NewClickRepository(pool *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{pool: pool}
}

// NewClickRepositoryWithPool creates a new ClickRepository with a custom pool interface.
// This is primarily used for testing.
func NewClickRepositoryWithPool(pool PoolInterface) *ClickRepository {
	return &ClickRepository{pool: pool}
}

// Insert appends a click to the log.
func (r *ClickRepository) Insert(ctx context.Context, click *model.Click) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO link_clicks (id, link_id, section, clicked_at) VALUES ($1, $2, $3, $4)`,
		click.ID, click.LinkID, click.Section, click.ClickedAt)
	if err != nil {
		return fmt.Errorf("insert click: %w", err)
	}
	return nil
}

// CountBySection returns click totals per section, busiest first.
// On success, returns an empty slice (not nil) when no clicks exist.
func (r *ClickRepository) CountBySection(ctx context.Context) ([]model.SectionClicks, error) {
	query := `SELECT section, COUNT(*) FROM link_clicks GROUP BY section ORDER BY COUNT(*) DESC, section`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("count clicks by section: %w", err)
	}
	defer rows.Close()

	counts := []model.SectionClicks{}
	for rows.Next() {
		var c model.SectionClicks
		if err := rows.Scan(&c.Section, &c.Clicks); err != nil {
			return nil, fmt.Errorf("scan section clicks: %w", err)
		}
		counts = append(counts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate section clicks rows: %w", err)
	}

	return counts, nil
}

// NopClickRepository is used when no database is configured.
// Inserts are discarded and statistics are unavailable.
type NopClickRepository struct{}

// Insert discards the click.
func (NopClickRepository) Insert(context.Context, *model.Click) error {
	return nil
}

// CountBySection always returns service.ErrClicksUnavailable.
func (NopClickRepository) CountBySection(context.Context) ([]model.SectionClicks, error) {
	return nil, service.ErrClicksUnavailable
}
