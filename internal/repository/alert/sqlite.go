package alert

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	domain "github.com/tanish-sd26/SOS-EMERGENCY-SAFETY-APP/internal/domain/alert"
)

// SQLiteRepository persists alert records to a SQLite database file.
// The schema mirrors the logical owner/alerts/positions layout: one row per
// alert, one row per position keyed by an autoincrement sequence so the
// history stays append-only and ordered.
type SQLiteRepository struct {
	db *sql.DB
}

// schema is applied on open; IF NOT EXISTS keeps reopening cheap.
const schema = `
CREATE TABLE IF NOT EXISTS alerts (
	id           TEXT PRIMARY KEY,
	owner_id     TEXT NOT NULL,
	user_email   TEXT NOT NULL,
	status       TEXT NOT NULL,
	created_at   INTEGER NOT NULL,
	lat          REAL NOT NULL,
	lng          REAL NOT NULL,
	maps_url     TEXT NOT NULL,
	located_at   INTEGER NOT NULL,
	last_lat     REAL,
	last_lng     REAL,
	last_maps_url TEXT,
	last_located_at INTEGER,
	updated_at   INTEGER,
	cancelled_at INTEGER
);
CREATE INDEX IF NOT EXISTS idx_alerts_owner_status ON alerts (owner_id, status);

CREATE TABLE IF NOT EXISTS positions (
	seq      INTEGER PRIMARY KEY AUTOINCREMENT,
	alert_id TEXT NOT NULL REFERENCES alerts (id),
	lat      REAL NOT NULL,
	lng      REAL NOT NULL,
	maps_url TEXT NOT NULL,
	located_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_positions_alert ON positions (alert_id, seq);
`

// NewSQLiteRepository opens (creating if needed) the database at path and
// ensures the schema exists.
func NewSQLiteRepository(path string) (*SQLiteRepository, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open alert database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()

		return nil, fmt.Errorf("apply alert schema: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *SQLiteRepository) Close() error {
	return r.db.Close()
}

// Create stores a new alert record.
func (r *SQLiteRepository) Create(ctx context.Context, a *domain.Alert) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO alerts (id, owner_id, user_email, status, created_at, lat, lng, maps_url, located_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.UserEmail, string(a.Status), a.CreatedAt.UnixMilli(),
		a.Location.Lat, a.Location.Lng, a.Location.MapsURL, a.Location.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	return nil
}

// Get returns the alert with the given ID, or ErrNotFound.
func (r *SQLiteRepository) Get(ctx context.Context, id string) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, user_email, status, created_at, lat, lng, maps_url, located_at,
		        last_lat, last_lng, last_maps_url, last_located_at, updated_at, cancelled_at
		 FROM alerts WHERE id = ?`, id)

	return scanAlert(row)
}

// ActiveByOwner returns the owner's Active alert, or ErrNotFound.
func (r *SQLiteRepository) ActiveByOwner(ctx context.Context, ownerID string) (*domain.Alert, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, user_email, status, created_at, lat, lng, maps_url, located_at,
		        last_lat, last_lng, last_maps_url, last_located_at, updated_at, cancelled_at
		 FROM alerts WHERE owner_id = ? AND status = ? LIMIT 1`,
		ownerID, string(domain.StatusActive))

	return scanAlert(row)
}

// SetStatus transitions the alert's lifecycle stage.
func (r *SQLiteRepository) SetStatus(ctx context.Context, id string, status domain.Status, at time.Time) error {
	var cancelledAt any
	if status.Terminal() {
		cancelledAt = at.UnixMilli()
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE alerts SET status = ?, updated_at = ?, cancelled_at = COALESCE(cancelled_at, ?) WHERE id = ?`,
		string(status), at.UnixMilli(), cancelledAt, id)
	if err != nil {
		return fmt.Errorf("update alert status: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update alert status: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

// AppendPosition adds a reading and refreshes the alert's last location
// within one transaction.
func (r *SQLiteRepository) AppendPosition(ctx context.Context, id string, pos domain.Position) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append position: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	res, err := tx.ExecContext(ctx,
		`UPDATE alerts SET last_lat = ?, last_lng = ?, last_maps_url = ?, last_located_at = ?, updated_at = ?
		 WHERE id = ?`,
		pos.Lat, pos.Lng, pos.MapsURL, pos.Timestamp.UnixMilli(), pos.Timestamp.UnixMilli(), id)
	if err != nil {
		return fmt.Errorf("update last location: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update last location: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO positions (alert_id, lat, lng, maps_url, located_at) VALUES (?, ?, ?, ?, ?)`,
		id, pos.Lat, pos.Lng, pos.MapsURL, pos.Timestamp.UnixMilli()); err != nil {
		return fmt.Errorf("insert position: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append position: %w", err)
	}

	return nil
}

// Positions returns the alert's readings in insertion order.
func (r *SQLiteRepository) Positions(ctx context.Context, id string) ([]domain.Position, error) {
	if _, err := r.Get(ctx, id); err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT lat, lng, maps_url, located_at FROM positions WHERE alert_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, fmt.Errorf("query positions: %w", err)
	}
	defer rows.Close()

	var out []domain.Position

	for rows.Next() {
		var (
			pos       domain.Position
			locatedAt int64
		)

		if err := rows.Scan(&pos.Lat, &pos.Lng, &pos.MapsURL, &locatedAt); err != nil {
			return nil, fmt.Errorf("scan position: %w", err)
		}

		pos.Timestamp = time.UnixMilli(locatedAt)
		out = append(out, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate positions: %w", err)
	}

	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanAlert decodes one alert row into the domain model.
func scanAlert(row rowScanner) (*domain.Alert, error) {
	var (
		a           domain.Alert
		status      string
		createdAt   int64
		locatedAt   int64
		lastLat     sql.NullFloat64
		lastLng     sql.NullFloat64
		lastMapsURL sql.NullString
		lastLocated sql.NullInt64
		updatedAt   sql.NullInt64
		cancelledAt sql.NullInt64
	)

	err := row.Scan(
		&a.ID, &a.OwnerID, &a.UserEmail, &status, &createdAt,
		&a.Location.Lat, &a.Location.Lng, &a.Location.MapsURL, &locatedAt,
		&lastLat, &lastLng, &lastMapsURL, &lastLocated, &updatedAt, &cancelledAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("scan alert: %w", err)
	}

	a.Status = domain.Status(status)
	a.CreatedAt = time.UnixMilli(createdAt)
	a.Location.Timestamp = time.UnixMilli(locatedAt)

	if lastLat.Valid && lastLng.Valid {
		a.LastLocation = &domain.Position{
			Lat:       lastLat.Float64,
			Lng:       lastLng.Float64,
			MapsURL:   lastMapsURL.String,
			Timestamp: time.UnixMilli(lastLocated.Int64),
		}
	}

	if updatedAt.Valid {
		t := time.UnixMilli(updatedAt.Int64)
		a.UpdatedAt = &t
	}

	if cancelledAt.Valid {
		t := time.UnixMilli(cancelledAt.Int64)
		a.CancelledAt = &t
	}

	return &a, nil
}
