// Package database persists finished matches to Postgres. Like the
// action queue, it is optional: DB stays nil unless Connect succeeds,
// and every caller guards on that.
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DB is the shared connection pool. Nil until Connect succeeds.
var DB *pgxpool.Pool

const createMatchesTable = `
CREATE TABLE IF NOT EXISTS uttt_matches (
	id          UUID PRIMARY KEY,
	mode        TEXT NOT NULL,
	status      TEXT NOT NULL,
	winner      TEXT NOT NULL DEFAULT '',
	move_count  INTEGER NOT NULL,
	moves       JSONB NOT NULL,
	started_at  TIMESTAMPTZ NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
)`

// FinalMatchRecord is the durable summary of one finished match. Moves
// holds the cell indexes in play order, so the game can be replayed.
type FinalMatchRecord struct {
	Mode       string
	Status     string
	Winner     string
	MoveCount  int
	Moves      []int
	StartedAt  time.Time
	FinishedAt time.Time
}

// Connect opens a pool against the given URL and installs it as the
// shared handle. The connection is verified with a ping.
func Connect(ctx context.Context, url string) error {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}
	DB = pool
	return nil
}

// EnsureSchema creates the match history table if it does not exist.
func EnsureSchema(ctx context.Context) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}
	if _, err := DB.Exec(ctx, createMatchesTable); err != nil {
		return fmt.Errorf("create uttt_matches: %w", err)
	}
	return nil
}

// StoreFinalMatchInDB upserts the final record for a match. Repeat calls
// for the same id overwrite the previous row.
func StoreFinalMatchInDB(ctx context.Context, id uuid.UUID, rec FinalMatchRecord) error {
	if DB == nil {
		return fmt.Errorf("database is not connected")
	}
	moves, err := json.Marshal(rec.Moves)
	if err != nil {
		return fmt.Errorf("marshal move list: %w", err)
	}
	_, err = DB.Exec(ctx, `
		INSERT INTO uttt_matches (id, mode, status, winner, move_count, moves, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			winner = EXCLUDED.winner,
			move_count = EXCLUDED.move_count,
			moves = EXCLUDED.moves,
			finished_at = EXCLUDED.finished_at`,
		id, rec.Mode, rec.Status, rec.Winner, rec.MoveCount, string(moves), rec.StartedAt, rec.FinishedAt)
	if err != nil {
		return fmt.Errorf("upsert match %s: %w", id, err)
	}
	return nil
}

// Close releases the shared pool. Safe to call when the database was
// never connected.
func Close() {
	if DB != nil {
		DB.Close()
		DB = nil
	}
}
