package sqlstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver

	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/model"
	"github.com/YairEliyahu/Planning-a-wedding-sub001/internal/storage"
)

const connectionTimeout = 5 * time.Second

// Storage is a database/sql implementation of the storage interface
type Storage struct {
	db *sql.DB
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Open connects to the configured database, verifies the connection and
// creates the schema if needed
func Open(cfg Config) (*Storage, error) {
	if cfg.Driver != DriverSQLite && cfg.Driver != DriverMySQL {
		return nil, fmt.Errorf("unsupported sql driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxOpenConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("verifying database connection: %w", err)
	}

	s := NewWithDB(db)
	if err := s.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDB wraps an existing connection (for testing)
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

// Migrate creates the tables if they do not exist
func (s *Storage) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// Arrangement operations

func (s *Storage) SaveArrangement(ctx context.Context, arrangement *model.Arrangement) error {
	meta, err := json.Marshal(arrangement.Meta)
	if err != nil {
		return err
	}
	tables, err := json.Marshal(arrangement.Tables)
	if err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM arrangements WHERE event_id = ?`, string(arrangement.EventID)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO arrangements (event_id, meta, tables_json, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
			string(arrangement.EventID),
			string(meta),
			string(tables),
			formatTime(arrangement.CreatedAt),
			formatTime(arrangement.UpdatedAt),
		)
		return err
	})
}

func (s *Storage) GetArrangement(ctx context.Context, eventID model.EventID) (*model.Arrangement, error) {
	var meta, tables, createdAt, updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT meta, tables_json, created_at, updated_at FROM arrangements WHERE event_id = ?`,
		string(eventID),
	).Scan(&meta, &tables, &createdAt, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrArrangementNotFound
		}
		return nil, err
	}

	arrangement := &model.Arrangement{EventID: eventID}
	if err := json.Unmarshal([]byte(meta), &arrangement.Meta); err != nil {
		return nil, fmt.Errorf("decoding arrangement meta: %w", err)
	}
	if err := json.Unmarshal([]byte(tables), &arrangement.Tables); err != nil {
		return nil, fmt.Errorf("decoding arrangement tables: %w", err)
	}
	if arrangement.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if arrangement.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return arrangement, nil
}

func (s *Storage) DeleteArrangement(ctx context.Context, eventID model.EventID) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM arrangements WHERE event_id = ?`, string(eventID))
	return err
}

// Attendee directory operations

func (s *Storage) SaveAttendees(ctx context.Context, eventID model.EventID, attendees []model.Attendee) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM attendees WHERE event_id = ?`, string(eventID)); err != nil {
			return err
		}

		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO attendees (event_id, attendee_id, sort_order, data) VALUES (?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()

		for i, a := range attendees {
			data, err := json.Marshal(a)
			if err != nil {
				return fmt.Errorf("encoding attendee %s: %w", a.ID, err)
			}
			if _, err := stmt.ExecContext(ctx, string(eventID), string(a.ID), i, string(data)); err != nil {
				return fmt.Errorf("inserting attendee %s: %w", a.ID, err)
			}
		}
		return nil
	})
}

func (s *Storage) GetAttendees(ctx context.Context, eventID model.EventID) ([]model.Attendee, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM attendees WHERE event_id = ? ORDER BY sort_order`, string(eventID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	attendees := []model.Attendee{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var a model.Attendee
		if err := json.Unmarshal([]byte(data), &a); err != nil {
			continue // Skip invalid data
		}
		attendees = append(attendees, a)
	}
	return attendees, rows.Err()
}

// View state operations

func (s *Storage) SaveViewState(ctx context.Context, eventID model.EventID, state model.ViewState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM view_states WHERE event_id = ?`, string(eventID)); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO view_states (event_id, data) VALUES (?, ?)`, string(eventID), string(data))
		return err
	})
}

func (s *Storage) GetViewState(ctx context.Context, eventID model.EventID) (*model.ViewState, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM view_states WHERE event_id = ?`, string(eventID)).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, model.ErrViewStateNotFound
		}
		return nil, err
	}

	var state model.ViewState
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *Storage) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t, nil
}
