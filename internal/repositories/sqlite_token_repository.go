package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// tokenKey is the one durable key this client owns.
const tokenKey = "token"

type SQLiteTokenRepository struct {
	db *sqlx.DB
}

// NewSQLiteTokenRepository opens (creating if needed) the local state
// database at dbPath and ensures the auth_state table exists.
func NewSQLiteTokenRepository(dbPath string) (*SQLiteTokenRepository, error) {
	dir := filepath.Dir(dbPath)
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	db, err := sqlx.Connect("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open state database: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS auth_state (
		name  TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize auth_state table: %w", err)
	}

	return &SQLiteTokenRepository{db: db}, nil
}

func (r *SQLiteTokenRepository) Load(ctx context.Context) (string, error) {
	var token string
	err := r.db.GetContext(ctx, &token, "SELECT value FROM auth_state WHERE name = ?", tokenKey)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to load token: %w", err)
	}
	return token, nil
}

func (r *SQLiteTokenRepository) Save(ctx context.Context, token string) error {
	query := `INSERT INTO auth_state (name, value) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value`
	if _, err := r.db.ExecContext(ctx, query, tokenKey, token); err != nil {
		return fmt.Errorf("failed to save token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepository) Clear(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM auth_state WHERE name = ?", tokenKey); err != nil {
		return fmt.Errorf("failed to clear token: %w", err)
	}
	return nil
}

func (r *SQLiteTokenRepository) Close() error {
	return r.db.Close()
}
