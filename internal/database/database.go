package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"

	"github.com/retailnet/retail_api/internal/config"
)

const (
	connectAttempts = 5
	connectBackoff  = 500 * time.Millisecond
	pingTimeout     = 5 * time.Second
)

// Connect opens a PostgreSQL pool and verifies it with a ping. Transient
// startup failures (the database container still booting) are retried with
// exponential backoff before giving up.
func Connect(cfg *config.DatabaseConfig) (*sqlx.DB, error) {
	if cfg == nil {
		return nil, errors.New("nil database config")
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User), url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.Name, cfg.SSLMode,
	)

	var lastErr error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		lastErr = err
		log.Warn().Err(err).Int("attempt", attempt).Msg("database not ready, retrying")
		time.Sleep(backoff(attempt))
	}
	return nil, fmt.Errorf("database unreachable after %d attempts: %w", connectAttempts, lastErr)
}

func open(dsn string) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// backoff doubles per attempt, capped at 5s.
func backoff(attempt int) time.Duration {
	d := connectBackoff << (attempt - 1)
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
