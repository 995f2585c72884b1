// Package storage keeps checkpoints in one JSON file per day under a base
// directory laid out as YYYY/MM/DD.json.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/timecalc"
)

// DayFile is the on-disk representation of one day.
type DayFile struct {
	Date        string             `json:"date"`
	Checkpoints []model.Checkpoint `json:"checkpoints"`
}

// Store is a checkpoint store backed by day files.
type Store struct {
	base string
}

// New returns a Store rooted at base. The directory is created on first write.
func New(base string) *Store {
	return &Store{base: base}
}

// Base returns the root directory.
func (s *Store) Base() string {
	return s.base
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base string, t time.Time) (DayFile, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DayFile{Date: t.Format("2006-01-02"), Checkpoints: []model.Checkpoint{}}, nil
	}
	if err != nil {
		return DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date. An empty day
// removes the file.
func SaveDay(base string, t time.Time, df DayFile) error {
	path := dayFilePath(base, t)
	if len(df.Checkpoints) == 0 {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("storage error removing %s: %w", path, err)
		}
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	slices.SortStableFunc(df.Checkpoints, func(a, b model.Checkpoint) int {
		return a.Time.Compare(b.Time)
	})
	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// Find returns the checkpoints of day in ascending time order.
func (s *Store) Find(ctx context.Context, day time.Time) ([]model.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	df, err := LoadDay(s.base, day)
	if err != nil {
		return nil, err
	}
	out := slices.Clone(df.Checkpoints)
	slices.SortStableFunc(out, func(a, b model.Checkpoint) int {
		return a.Time.Compare(b.Time)
	})
	return out, nil
}

// Insert writes c to the file of its day with a fresh id.
func (s *Store) Insert(ctx context.Context, c model.Checkpoint) (model.Checkpoint, error) {
	if err := ctx.Err(); err != nil {
		return model.Checkpoint{}, err
	}
	c = c.WithID(timecalc.GenerateID(c.Time))
	df, err := LoadDay(s.base, c.Time)
	if err != nil {
		return model.Checkpoint{}, err
	}
	df.Date = c.Time.Format("2006-01-02")
	df.Checkpoints = append(df.Checkpoints, c)
	if err := SaveDay(s.base, c.Time, df); err != nil {
		return model.Checkpoint{}, err
	}
	return c, nil
}

// Update replaces the stored checkpoint carrying c's id. A shift across
// midnight moves it to the file of its new day.
func (s *Store) Update(ctx context.Context, c model.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.HasID() {
		return model.ErrMissingID
	}
	day, df, i, err := s.locate(c)
	if err != nil {
		return err
	}

	if timecalc.SameDay(day, c.Time) {
		df.Checkpoints[i] = c
		return SaveDay(s.base, day, df)
	}

	df.Checkpoints = slices.Delete(df.Checkpoints, i, i+1)
	if err := SaveDay(s.base, day, df); err != nil {
		return err
	}
	target, err := LoadDay(s.base, c.Time)
	if err != nil {
		return err
	}
	target.Date = c.Time.Format("2006-01-02")
	target.Checkpoints = append(target.Checkpoints, c)
	return SaveDay(s.base, c.Time, target)
}

// Delete removes the checkpoint carrying c's id.
func (s *Store) Delete(ctx context.Context, c model.Checkpoint) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.HasID() {
		return model.ErrMissingID
	}
	day, df, i, err := s.locate(c)
	if err != nil {
		return err
	}
	df.Checkpoints = slices.Delete(df.Checkpoints, i, i+1)
	return SaveDay(s.base, day, df)
}

// locate finds c's id in the file of c's day or one of its neighbours.
func (s *Store) locate(c model.Checkpoint) (time.Time, DayFile, int, error) {
	for _, offset := range []int{0, -1, 1} {
		day := c.Time.AddDate(0, 0, offset)
		df, err := LoadDay(s.base, day)
		if err != nil {
			return time.Time{}, DayFile{}, 0, err
		}
		for i, stored := range df.Checkpoints {
			if stored.IDString() == *c.ID {
				return day, df, i, nil
			}
		}
	}
	return time.Time{}, DayFile{}, 0, fmt.Errorf("checkpoint %s: %w", *c.ID, model.ErrNotFound)
}

// DistinctDates walks the base directory and returns every day that has a
// non-empty file, ascending.
func (s *Store) DistinctDates(ctx context.Context) ([]time.Time, error) {
	var dates []time.Time
	err := filepath.WalkDir(s.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && path == s.base {
				return fs.SkipAll
			}
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		rel, err := filepath.Rel(s.base, path)
		if err != nil {
			return err
		}
		day, err := time.ParseInLocation("2006/01/02.json", filepath.ToSlash(rel), time.Local)
		if err != nil {
			// Not a day file.
			return nil
		}
		df, err := LoadDay(s.base, day)
		if err != nil {
			return err
		}
		if len(df.Checkpoints) > 0 {
			dates = append(dates, day)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("storage error listing dates: %w", err)
	}
	slices.SortFunc(dates, func(a, b time.Time) int { return a.Compare(b) })
	return dates, nil
}
