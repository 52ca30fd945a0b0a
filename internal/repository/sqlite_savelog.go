package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/roadmap/internal/db"
	"github.com/alexanderramin/roadmap/internal/domain"
)

// SQLiteSaveLogRepo implements SaveLogRepo using a SQLite database.
type SQLiteSaveLogRepo struct {
	db db.DBTX
}

func NewSQLiteSaveLogRepo(conn db.DBTX) *SQLiteSaveLogRepo {
	return &SQLiteSaveLogRepo{db: conn}
}

const saveLogColumns = `id, document, saved_at, bytes, phases, items`

func (r *SQLiteSaveLogRepo) Append(ctx context.Context, rec *domain.SaveRecord) error {
	if rec.SavedAt.IsZero() {
		rec.SavedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO save_log (document, saved_at, bytes, phases, items) VALUES (?, ?, ?, ?, ?)`,
		rec.Document, formatSQLTime(rec.SavedAt), rec.Bytes, rec.Phases, rec.Items,
	)
	if err != nil {
		return fmt.Errorf("inserting save record: %w", err)
	}
	if id, err := res.LastInsertId(); err == nil {
		rec.ID = id
	}
	return nil
}

func (r *SQLiteSaveLogRepo) Latest(ctx context.Context, document string) (*domain.SaveRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+saveLogColumns+` FROM save_log WHERE document = ? ORDER BY id DESC LIMIT 1`, document)
	rec, err := scanSaveRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("save record: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("scanning save record: %w", err)
	}
	return rec, nil
}

func (r *SQLiteSaveLogRepo) ListRecent(ctx context.Context, document string, limit int) ([]*domain.SaveRecord, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+saveLogColumns+` FROM save_log WHERE document = ? ORDER BY id DESC LIMIT ?`, document, limit)
	if err != nil {
		return nil, fmt.Errorf("listing save records: %w", err)
	}
	defer rows.Close()

	var out []*domain.SaveRecord
	for rows.Next() {
		rec, err := scanSaveRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning save record: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSaveRecord(s rowScanner) (*domain.SaveRecord, error) {
	var rec domain.SaveRecord
	var savedAt string
	if err := s.Scan(&rec.ID, &rec.Document, &savedAt, &rec.Bytes, &rec.Phases, &rec.Items); err != nil {
		return nil, err
	}
	rec.SavedAt = parseSQLTime(savedAt)
	return &rec, nil
}
