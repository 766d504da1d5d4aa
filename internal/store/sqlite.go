package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// Registers the "sqlite" driver (pure Go).
	_ "modernc.org/sqlite"

	"github.com/Viacheslav828206/WeatherBot/internal/domain"
)

// SQLiteRepo implements Repo using an embedded SQLite database.
type SQLiteRepo struct{ db *sql.DB }

// compile-time check that *SQLiteRepo implements Repo
var _ Repo = (*SQLiteRepo)(nil)

// OpenSQLite opens (or creates) the SQLite database at the given path,
// applies recommended PRAGMAs, runs SQL migrations, and returns a repository.
func OpenSQLite(ctx context.Context, path string) (*SQLiteRepo, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Single-writer engine; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := applyPragmas(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	return &SQLiteRepo{db: db}, nil
}

func applyPragmas(ctx context.Context, db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
		"PRAGMA foreign_keys=ON;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying database resources.
func (r *SQLiteRepo) Close() error {
	return r.db.Close()
}

// UpsertUser inserts the profile row if absent, otherwise updates only the
// fields present in the patch. COALESCE against the excluded row makes the
// read-modify-write a single statement, so concurrent readers never observe a
// half-applied patch.
func (r *SQLiteRepo) UpsertUser(ctx context.Context, chatID int64, p domain.Patch) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (chat_id, created_at, latitude, longitude, notify_at_m, tz)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			latitude    = COALESCE(excluded.latitude, latitude),
			longitude   = COALESCE(excluded.longitude, longitude),
			notify_at_m = COALESCE(excluded.notify_at_m, notify_at_m),
			tz          = COALESCE(excluded.tz, tz)`,
		chatID, time.Now().UTC().Unix(),
		toNullFloat64(p.Latitude), toNullFloat64(p.Longitude),
		toNullInt64(p.NotifyAtM), toNullString(p.TZ),
	)
	if err != nil {
		return fmt.Errorf("store: upsert user %d: %w", chatID, err)
	}
	return nil
}

// GetUser returns a user's profile by chatID, or ErrNotFound.
func (r *SQLiteRepo) GetUser(ctx context.Context, chatID int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT chat_id, created_at, latitude, longitude, notify_at_m, tz
		FROM users
		WHERE chat_id = ?`,
		chatID,
	)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user %d: %w", chatID, err)
	}
	return u, nil
}

// ListScheduled returns all profiles with a non-null notification time,
// ordered by chat id. Profiles missing a timezone are included on purpose:
// the reconciliation loader decides how to treat them.
func (r *SQLiteRepo) ListScheduled(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT chat_id, created_at, latitude, longitude, notify_at_m, tz
		FROM users
		WHERE notify_at_m IS NOT NULL
		ORDER BY chat_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("store: list scheduled: %w", err)
	}
	defer rows.Close()

	var res []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("store: list scheduled: %w", err)
		}
		res = append(res, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list scheduled: %w", err)
	}
	return res, nil
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*domain.User, error) {
	var (
		chatID    int64
		createdAt int64
		lat, lon  sql.NullFloat64
		notifyAtM sql.NullInt64
		tz        sql.NullString
	)
	if err := s.Scan(&chatID, &createdAt, &lat, &lon, &notifyAtM, &tz); err != nil {
		return nil, err
	}
	return &domain.User{
		ChatID:    chatID,
		Latitude:  fromNullFloat64(lat),
		Longitude: fromNullFloat64(lon),
		NotifyAtM: fromNullInt64(notifyAtM),
		TZ:        tz.String,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
	}, nil
}
