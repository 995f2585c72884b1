// Package sqlite stores checkpoints in a single SQLite table.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Tiliavir/tcheck/internal/model"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaFS embed.FS

const dayLayout = "2006-01-02"

// Store is a checkpoint store backed by SQLite.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path and applies the schema.
// ":memory:" opens a private in-memory database.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// Every connection to :memory: is its own database.
	db.SetMaxOpenConns(1)

	if err := applySchema(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func applySchema(ctx context.Context, db *sql.DB) error {
	schemaSQL, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("set busy_timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schemaSQL)); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Find returns the checkpoints of day in ascending time order.
func (s *Store) Find(ctx context.Context, day time.Time) ([]model.Checkpoint, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, time, project, message, registered FROM checkpoints WHERE day = ? ORDER BY unix_nano, rowid`,
		day.Format(dayLayout))
	if err != nil {
		return nil, fmt.Errorf("query checkpoints: %w", err)
	}
	defer rows.Close()

	var out []model.Checkpoint
	for rows.Next() {
		var (
			id         string
			ts         string
			project    sql.NullString
			message    sql.NullString
			registered bool
		)
		if err := rows.Scan(&id, &ts, &project, &message, &registered); err != nil {
			return nil, fmt.Errorf("scan checkpoint: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("checkpoint %s has invalid time %q: %w", id, ts, err)
		}
		c := model.New(t.In(day.Location())).WithID(id)
		c.Project = nullable(project)
		c.Message = nullable(message)
		c.Registered = registered
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate checkpoints: %w", err)
	}
	return out, nil
}

// Insert stores c under a new UUID.
func (s *Store) Insert(ctx context.Context, c model.Checkpoint) (model.Checkpoint, error) {
	c = c.WithID(uuid.NewString())
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (id, time, unix_nano, day, project, message, registered) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		*c.ID, c.Time.Format(time.RFC3339Nano), c.Time.UnixNano(), c.Time.Format(dayLayout),
		c.Project, c.Message, c.Registered)
	if err != nil {
		return model.Checkpoint{}, fmt.Errorf("insert checkpoint: %w", err)
	}
	return c, nil
}

// Update replaces every field of the checkpoint carrying c's id.
func (s *Store) Update(ctx context.Context, c model.Checkpoint) error {
	if !c.HasID() {
		return model.ErrMissingID
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE checkpoints SET time = ?, unix_nano = ?, day = ?, project = ?, message = ?, registered = ? WHERE id = ?`,
		c.Time.Format(time.RFC3339Nano), c.Time.UnixNano(), c.Time.Format(dayLayout),
		c.Project, c.Message, c.Registered, *c.ID)
	if err != nil {
		return fmt.Errorf("update checkpoint %s: %w", *c.ID, err)
	}
	return expectOne(res, *c.ID)
}

// Delete removes the checkpoint carrying c's id.
func (s *Store) Delete(ctx context.Context, c model.Checkpoint) error {
	if !c.HasID() {
		return model.ErrMissingID
	}
	res, err := s.db.ExecContext(ctx, `DELETE FROM checkpoints WHERE id = ?`, *c.ID)
	if err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", *c.ID, err)
	}
	return expectOne(res, *c.ID)
}

// DistinctDates returns every day holding a checkpoint, ascending.
func (s *Store) DistinctDates(ctx context.Context) ([]time.Time, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT day FROM checkpoints ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf("query dates: %w", err)
	}
	defer rows.Close()

	var out []time.Time
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("scan date: %w", err)
		}
		t, err := time.ParseInLocation(dayLayout, day, time.Local)
		if err != nil {
			return nil, fmt.Errorf("invalid stored day %q: %w", day, err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func expectOne(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("checkpoint %s: %w", id, model.ErrNotFound)
	}
	return nil
}

func nullable(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
