package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/tcheck/internal/config"
	"github.com/Tiliavir/tcheck/internal/firestore"
	"github.com/Tiliavir/tcheck/internal/projects"
	"github.com/Tiliavir/tcheck/internal/sqlite"
	"github.com/Tiliavir/tcheck/internal/storage"
	"github.com/Tiliavir/tcheck/internal/tasks"
	"github.com/Tiliavir/tcheck/internal/tracker"
)

// session bundles what every command needs.
type session struct {
	cfg       config.Config
	store     tracker.Store
	tracker   *tracker.Tracker
	catalogue projects.Catalogue
	close     func() error
}

// loadConfig reads the config file and applies --backend.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return cfg, err
	}
	if backendFlag != "" {
		cfg.Backend = backendFlag
	}
	return cfg, cfg.Validate()
}

// openStore opens the backend selected in cfg.
func openStore(ctx context.Context, cfg config.Config) (tracker.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.BackendSQLite:
		s, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening %s: %w", cfg.SQLitePath, err)
		}
		return s, s.Close, nil
	case config.BackendFirestore:
		opts := firestore.Options{
			ProjectID:  cfg.Firestore.ProjectID,
			DatabaseID: cfg.Firestore.DatabaseID,
			Endpoint:   cfg.Firestore.Endpoint,
		}
		// The emulator accepts unauthenticated requests.
		httpClient := &http.Client{Timeout: firestore.RequestTimeout}
		if cfg.Firestore.Endpoint == "" || cfg.Firestore.CredentialsFile != "" {
			var err error
			httpClient, err = firestore.HTTPClient(ctx, firestore.Auth{
				CredentialsFile: cfg.Firestore.CredentialsFile,
				TokenFile:       cfg.TokenFile(),
			})
			if err != nil {
				return nil, nil, err
			}
		}
		c, err := firestore.NewClient(httpClient, opts)
		if err != nil {
			return nil, nil, err
		}
		return c, noop, nil
	default:
		return storage.New(cfg.DataDir), noop, nil
	}
}

// newSession loads the configuration and opens the store. With logToFile the
// log goes to the log file in the tcheck home, otherwise to stderr.
func newSession(ctx context.Context, logToFile bool) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	var logOut io.Writer = os.Stderr
	closers := []func() error{}
	if logToFile {
		f, err := openLogFile(cfg.LogFile())
		if err != nil {
			return nil, err
		}
		logOut = f
		closers = append(closers, f.Close)
	}

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		for _, c := range closers {
			c()
		}
		return nil, err
	}
	closers = append([]func() error{closeStore}, closers...)

	catalogue, err := projects.Load(cfg.ProjectsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	opts := []tracker.Option{
		tracker.WithLogger(slog.New(slog.NewTextHandler(logOut, nil))),
	}
	if cfg.Tasks.Enabled() {
		opts = append(opts, tracker.WithTaskSource(tasks.New(tasks.Config{
			LoginURL: cfg.Tasks.LoginURL,
			ListURL:  cfg.Tasks.ListURL,
			Username: cfg.Tasks.Username,
			Password: cfg.Tasks.Password,
		})))
	}

	return &session{
		cfg:       cfg,
		store:     store,
		tracker:   tracker.New(store, opts...),
		catalogue: catalogue,
		close: func() error {
			var errs []error
			for _, c := range closers {
				errs = append(errs, c())
			}
			return errors.Join(errs...)
		},
	}, nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return f, nil
}

// openSession is newSession for one-shot commands logging to stderr.
// Failures carry exit status 2.
func openSession(ctx context.Context) (*session, error) {
	s, err := newSession(ctx, false)
	if err != nil {
		return nil, withCode(2, err)
	}
	return s, nil
}

// exitError carries the process exit status: 1 for usage errors, 2 for
// storage errors. A nil err means the failure was already logged.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

// exitCode reports the exit status for err and whether err still needs to
// be printed.
func exitCode(err error) (int, bool) {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code, ee.err != nil
	}
	return 1, true
}

// parseDay parses a --date flag. Empty means today.
func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD)", s)
	}
	return t, nil
}

// loadWeek positions the tracker on the week of the --date flag and loads
// it. Errors from the store were already logged.
func (s *session) loadWeek(ctx context.Context, date string) error {
	day, err := parseDay(date)
	if err != nil {
		return err
	}
	s.tracker.GoTo(day)
	if err := s.tracker.Reload(ctx); err != nil {
		return withCode(2, nil)
	}
	return nil
}
