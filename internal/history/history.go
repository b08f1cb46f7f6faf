// Package history records questions and answers per user.
package history

import (
	"context"
	"fmt"
	"time"

	"github.com/C1Z4/ourhour-chatbot/internal/config"
	"github.com/C1Z4/ourhour-chatbot/internal/db"
)

// DefaultLimit and MaxLimit bound Recent.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Entry is one answered question.
type Entry struct {
	ID        string    `json:"id"`
	UserID    int64     `json:"user_id"`
	OrgID     int64     `json:"org_id"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	Label     string    `json:"label,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store persists chat history.
type Store interface {
	// Save inserts e. An empty ID gets a UUID and a zero CreatedAt gets
	// the current time.
	Save(ctx context.Context, e Entry) error
	// Recent returns the user's newest entries, newest first.
	Recent(ctx context.Context, userID int64, limit int) ([]Entry, error)
	Close() error
}

// Open returns the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.HistoryConfig) (Store, error) {
	switch cfg.Driver {
	case config.HistorySQLite, "":
		var (
			database *db.DB
			err      error
		)
		if cfg.DSN == "" || cfg.DSN == ":memory:" {
			database, err = db.OpenMemory()
		} else {
			database, err = db.Open(cfg.DSN)
		}
		if err != nil {
			return nil, fmt.Errorf("opening history database: %w", err)
		}
		return NewSQLiteStore(database), nil
	case config.HistoryPostgres:
		return NewPostgresStore(ctx, cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported history driver: %s", cfg.Driver)
	}
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultLimit
	case limit > MaxLimit:
		return MaxLimit
	}
	return limit
}
