package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

const createOffersTable = `
CREATE TABLE IF NOT EXISTS offers (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	offer_id INTEGER UNIQUE NOT NULL,
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
)`

// Store is the durable record of offer identifiers that have already been
// dispatched. The table is append-only; identifiers are never removed.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	// A single connection keeps insert-if-absent serialized and avoids
	// SQLITE_BUSY on concurrent reservations.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createOffersTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create offers table: %w", err)
	}
	slog.Info("Database initialized", "path", path)
	return &Store{db: db}, nil
}

// Exists reports whether the offer identifier has been seen before. A
// storage read failure is logged and treated as "not seen" so an I/O
// hiccup never silently drops an offer.
func (s *Store) Exists(ctx context.Context, offerID int64) bool {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM offers WHERE offer_id = ?", offerID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false
	}
	if err != nil {
		slog.Error("Failed to check offer existence", "offer_id", offerID, "error", err)
		return false
	}
	return true
}

// Reserve records the offer identifier, returning true if this call
// performed the insertion. A repeat reservation is a no-op reporting
// false, never an error.
func (s *Store) Reserve(ctx context.Context, offerID int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO offers (offer_id) VALUES (?)", offerID)
	if err != nil {
		return false, fmt.Errorf("reserve offer %d: %w", offerID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("reserve offer %d: %w", offerID, err)
	}
	return n > 0, nil
}

func (s *Store) Close() error {
	err := s.db.Close()
	if err == nil {
		slog.Info("Database connection closed")
	}
	return err
}
