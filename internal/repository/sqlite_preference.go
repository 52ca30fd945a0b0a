package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/roadmap/internal/db"
)

// SQLitePreferenceRepo implements PreferenceRepo using a SQLite database.
type SQLitePreferenceRepo struct {
	db db.DBTX
}

func NewSQLitePreferenceRepo(conn db.DBTX) *SQLitePreferenceRepo {
	return &SQLitePreferenceRepo{db: conn}
}

func (r *SQLitePreferenceRepo) Get(ctx context.Context, document, itemKey string) (bool, error) {
	var expanded int
	err := r.db.QueryRowContext(ctx,
		`SELECT expanded FROM ui_preferences WHERE document = ? AND item_key = ?`,
		document, itemKey,
	).Scan(&expanded)
	if errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("preference %q: %w", itemKey, ErrNotFound)
	}
	if err != nil {
		return false, fmt.Errorf("scanning preference: %w", err)
	}
	return expanded != 0, nil
}

func (r *SQLitePreferenceRepo) Set(ctx context.Context, document, itemKey string, expanded bool) error {
	flag := 0
	if expanded {
		flag = 1
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ui_preferences (document, item_key, expanded, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(document, item_key) DO UPDATE SET expanded = excluded.expanded, updated_at = excluded.updated_at`,
		document, itemKey, flag, formatSQLTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("upserting preference: %w", err)
	}
	return nil
}

func (r *SQLitePreferenceRepo) List(ctx context.Context, document string) (map[string]bool, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item_key, expanded FROM ui_preferences WHERE document = ? ORDER BY item_key`, document)
	if err != nil {
		return nil, fmt.Errorf("listing preferences: %w", err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var key string
		var expanded int
		if err := rows.Scan(&key, &expanded); err != nil {
			return nil, fmt.Errorf("scanning preference: %w", err)
		}
		out[key] = expanded != 0
	}
	return out, rows.Err()
}

func (r *SQLitePreferenceRepo) DeleteDocument(ctx context.Context, document string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM ui_preferences WHERE document = ?`, document); err != nil {
		return fmt.Errorf("deleting preferences: %w", err)
	}
	return nil
}
