package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"
)

// DefaultRetries is the number of connection attempts made by Open.
const DefaultRetries = 5

// NewPool creates a PostgreSQL connection pool, retrying with exponential backoff
// starting at one second: 1s, 2s, 4s, 8s, ...
func NewPool(ctx context.Context, dsn string, maxRetries int) (*pgxpool.Pool, error) {
	return NewPoolWithBackoff(ctx, dsn, maxRetries, time.Second)
}

// NewPoolWithBackoff is NewPool with a custom initial backoff.
// At least one attempt is made even if maxRetries is 0.
func NewPoolWithBackoff(ctx context.Context, dsn string, maxRetries int, base time.Duration) (*pgxpool.Pool, error) {
	attempts := max(maxRetries, 1)

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		var pool *pgxpool.Pool
		pool, err = pgxpool.New(ctx, dsn)
		if err == nil {
			pingErr := pool.Ping(ctx)
			if pingErr == nil {
				log.Info().Int("attempt", attempt+1).Msg("database connection established")
				return pool, nil
			}
			pool.Close()
			err = fmt.Errorf("ping failed: %w", pingErr)
		}

		if attempt == attempts-1 {
			break
		}

		backoff := base << attempt
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Int("max_retries", attempts).
			Dur("next_retry_in", backoff).
			Msg("database connection failed, retrying")

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	return nil, fmt.Errorf("failed to connect after %d attempts: %w", attempts, err)
}

// Open connects to PostgreSQL and applies the embedded migrations.
func Open(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := NewPool(ctx, dsn, DefaultRetries)
	if err != nil {
		return nil, err
	}
	if err := Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return pool, nil
}
