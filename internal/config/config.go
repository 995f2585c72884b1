package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
)

// HomeEnv overrides the tcheck home directory (default ~/.tcheck).
const HomeEnv = "TCHECK_HOME"

// Backend names accepted in "backend" and --backend.
const (
	BackendFiles     = "files"
	BackendSQLite    = "sqlite"
	BackendFirestore = "firestore"
)

// Config is the root configuration for tcheck, stored in ~/.tcheck/config.json.
// The file is JSONC: // and /* */ comments and trailing commas are allowed.
type Config struct {
	// Backend selects the checkpoint store.
	Backend string `json:"backend"`
	// DataDir holds the day files of the files backend.
	DataDir string `json:"data_dir"`
	// SQLitePath is the database of the sqlite backend.
	SQLitePath string `json:"sqlite_path"`
	// ProjectsFile is the optional YAML project catalogue.
	ProjectsFile string `json:"projects_file"`

	Firestore FirestoreConfig `json:"firestore"`
	Tasks     TasksConfig     `json:"tasks"`

	// home is the directory the defaults were derived from.
	home string
}

// FirestoreConfig locates the Firestore database.
type FirestoreConfig struct {
	ProjectID  string `json:"project_id"`
	DatabaseID string `json:"database_id"`
	// CredentialsFile is a service account JSON. Empty uses Application
	// Default Credentials.
	CredentialsFile string `json:"credentials_file"`
	// Endpoint overrides the API host, e.g. "http://localhost:8080" for the
	// emulator.
	Endpoint string `json:"endpoint"`
}

// TasksConfig holds the task list login.
type TasksConfig struct {
	LoginURL      string `json:"login_url"`
	ListURL       string `json:"list_url"`
	Username      string `json:"username"`
	Password      string `json:"password"`
	TaskURLPrefix string `json:"task_url_prefix"`
}

// Enabled reports whether the task list can be fetched.
func (t TasksConfig) Enabled() bool {
	return t.LoginURL != "" && t.ListURL != ""
}

// configTemplate is the annotated config written on first run.
const configTemplate = `// tcheck configuration
//
// All settings are optional. Paths default to files below the tcheck home
// directory (~/.tcheck, or $TCHECK_HOME when set).
{
  // Checkpoint store: "files" (JSON day files), "sqlite" or "firestore".
  // Can be overridden with: tcheck --backend <name>
  "backend": "files",

  // Directory of the files backend. Default: <home>/data
  "data_dir": "",

  // Database of the sqlite backend. Default: <home>/tcheck.db
  "sqlite_path": "",

  // Optional YAML project catalogue. Default: <home>/projects.yaml
  //   projects:
  //     - id: "812"
  //       name: Code review
  //       color: 33
  "projects_file": "",

  // ── Firestore backend ──────────────────────────────────────────────────
  "firestore": {
    "project_id": "",
    // Leave empty for the "(default)" database.
    "database_id": "",
    // Service account JSON. Leave empty for Application Default Credentials.
    "credentials_file": "",
    // Leave empty for the production API.
    "endpoint": ""
  },

  // ── Task list (p key in the week view, tcheck tasks) ────────────────────
  "tasks": {
    "login_url": "",
    "list_url": "",
    "username": "",
    "password": "",
    // Prefix joined with a task id to link to the task page.
    "task_url_prefix": ""
  },
}
`

// HomeDir returns $TCHECK_HOME or ~/.tcheck.
func HomeDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".tcheck"), nil
}

// Home returns the directory the defaults were derived from.
func (c Config) Home() string {
	return c.home
}

// LogFile is where the interactive view writes its log.
func (c Config) LogFile() string {
	return filepath.Join(c.home, "tcheck.log")
}

// TokenFile caches the Firestore access token.
func (c Config) TokenFile() string {
	return filepath.Join(c.home, "auth", "firestore_token.json")
}

// Default returns the built-in configuration rooted at home.
func Default(home string) Config {
	c := Config{home: home}
	c.applyDefaults()
	return c
}

func (c *Config) applyDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFiles
	}
	if c.DataDir == "" {
		c.DataDir = filepath.Join(c.home, "data")
	}
	if c.SQLitePath == "" {
		c.SQLitePath = filepath.Join(c.home, "tcheck.db")
	}
	if c.ProjectsFile == "" {
		c.ProjectsFile = filepath.Join(c.home, "projects.yaml")
	}
	c.DataDir = expandHome(c.DataDir)
	c.SQLitePath = expandHome(c.SQLitePath)
	c.ProjectsFile = expandHome(c.ProjectsFile)
	c.Firestore.CredentialsFile = expandHome(c.Firestore.CredentialsFile)
}

// Validate checks the backend name and its required settings.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendFiles, BackendSQLite:
		return nil
	case BackendFirestore:
		if c.Firestore.ProjectID == "" {
			return errors.New("firestore backend requires firestore.project_id")
		}
		return nil
	}
	return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendFiles, BackendSQLite, BackendFirestore)
}

// Parse decodes JSONC config data and fills defaults relative to home.
func Parse(data []byte, home string) (Config, error) {
	var cfg Config
	if err := json.Unmarshal(jsonc.ToJSON(data), &cfg); err != nil {
		return Default(home), err
	}
	cfg.home = home
	cfg.applyDefaults()
	return cfg, nil
}

// Load reads the config at path, or <home>/config.json when path is empty,
// creating it with annotated defaults on first run.
func Load(path string) (Config, error) {
	home, err := HomeDir()
	if err != nil {
		return Config{}, err
	}
	explicit := path != ""
	if !explicit {
		path = filepath.Join(home, "config.json")
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) && !explicit {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return Default(home), nil
	}
	if err != nil {
		return Default(home), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg, err := Parse(data, home)
	if err != nil {
		return cfg, fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}
	return cfg, nil
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

func expandHome(path string) string {
	rest, ok := strings.CutPrefix(path, "~/")
	if !ok {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, rest)
}
