package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps history in a shared Postgres database so several
// server replicas see the same records.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects, verifies the connection and creates the table.
func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres URL: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &PostgresStore{pool: pool}
	if err := s.init(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS chat_history (
			id         UUID PRIMARY KEY,
			user_id    BIGINT NOT NULL,
			org_id     BIGINT NOT NULL,
			message    TEXT NOT NULL,
			response   TEXT NOT NULL,
			label      TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("create chat_history table: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS idx_chat_history_user
		ON chat_history (user_id, created_at DESC)
	`)
	if err != nil {
		return fmt.Errorf("create chat_history index: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, e Entry) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO chat_history (id, user_id, org_id, message, response, label, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.UserID, e.OrgID, e.Message, e.Response, e.Label, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert history entry %s: %w", e.ID, err)
	}
	return nil
}

func (s *PostgresStore) Recent(ctx context.Context, userID int64, limit int) ([]Entry, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id::text, user_id, org_id, message, response, label, created_at
		FROM chat_history WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, userID, clampLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.OrgID, &e.Message, &e.Response, &e.Label, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
