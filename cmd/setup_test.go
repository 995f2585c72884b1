package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/Tiliavir/tcheck/internal/config"
)

func TestExitCode(t *testing.T) {
	storeErr := errors.New("disk full")
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantShow bool
	}{
		{"plain error", errors.New("bad flag"), 1, true},
		{"storage error", withCode(2, storeErr), 2, true},
		{"already logged", withCode(2, nil), 2, false},
		{"wrapped", fmt.Errorf("week: %w", withCode(2, storeErr)), 2, true},
	}
	for _, tt := range tests {
		code, show := exitCode(tt.err)
		if code != tt.wantCode || show != tt.wantShow {
			t.Errorf("%s: exitCode = (%d, %t), want (%d, %t)", tt.name, code, show, tt.wantCode, tt.wantShow)
		}
	}
	if !errors.Is(withCode(2, storeErr), storeErr) {
		t.Error("withCode should wrap its error")
	}
}

func TestOpenStoreFailureClosesLogFile(t *testing.T) {
	before, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skip("open file descriptors not observable")
	}

	home := t.TempDir()
	t.Setenv(config.HomeEnv, home)
	blocker := filepath.Join(home, "blocker")
	if err := os.WriteFile(blocker, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	cfgFile := filepath.Join(home, "cfg.json")
	data := fmt.Sprintf(`{"backend": "sqlite", "sqlite_path": %q}`, filepath.Join(blocker, "tcheck.db"))
	if err := os.WriteFile(cfgFile, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	configPath = cfgFile
	t.Cleanup(func() { configPath = "" })

	if _, err := newSession(context.Background(), true); err == nil {
		t.Fatal("expected error opening sqlite below a regular file")
	}
	if _, err := os.Stat(filepath.Join(home, "tcheck.log")); err != nil {
		t.Fatalf("log file not opened: %v", err)
	}
	after, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Fatal(err)
	}
	if len(after) > len(before) {
		t.Errorf("open descriptors grew from %d to %d", len(before), len(after))
	}
}
