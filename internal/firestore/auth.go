package firestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Scope grants read/write access to Firestore.
const Scope = "https://www.googleapis.com/auth/datastore"

// RequestTimeout bounds every API and token request.
const RequestTimeout = 30 * time.Second

// Auth selects the credentials for HTTPClient.
type Auth struct {
	// CredentialsFile is a service account or authorized user JSON file.
	// Empty falls back to Application Default Credentials.
	CredentialsFile string
	// TokenFile caches the last access token between runs. Empty disables
	// caching.
	TokenFile string
}

// HTTPClient returns a client that authorizes every request with an OAuth2
// token for Scope. A cached token is reused while it is valid.
func HTTPClient(ctx context.Context, auth Auth) (*http.Client, error) {
	// Token requests go through the client stored in ctx.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{Timeout: RequestTimeout})
	creds, err := credentials(ctx, auth.CredentialsFile)
	if err != nil {
		return nil, err
	}

	ts := creds.TokenSource
	if auth.TokenFile != "" {
		cached, err := loadToken(auth.TokenFile)
		if err != nil {
			// Corrupt cache: fetch a fresh token.
			cached = nil
		}
		ts = &savingTokenSource{ts: oauth2.ReuseTokenSource(cached, ts), path: auth.TokenFile}
	}
	client := oauth2.NewClient(ctx, ts)
	client.Timeout = RequestTimeout
	return client, nil
}

func credentials(ctx context.Context, file string) (*google.Credentials, error) {
	if file == "" {
		creds, err := google.FindDefaultCredentials(ctx, Scope)
		if err != nil {
			return nil, fmt.Errorf("finding default credentials: %w", err)
		}
		return creds, nil
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("reading credentials file: %w", err)
	}
	creds, err := google.CredentialsFromJSON(ctx, data, Scope)
	if err != nil {
		return nil, fmt.Errorf("parsing credentials file %s: %w", file, err)
	}
	return creds, nil
}

// savingTokenSource wraps a TokenSource and persists new tokens.
type savingTokenSource struct {
	ts   oauth2.TokenSource
	path string
	last string
}

func (s *savingTokenSource) Token() (*oauth2.Token, error) {
	tok, err := s.ts.Token()
	if err != nil {
		return nil, err
	}
	if tok.AccessToken != s.last {
		s.last = tok.AccessToken
		// Best-effort save; ignore errors.
		_ = saveToken(s.path, tok)
	}
	return tok, nil
}

// loadToken loads a previously saved token. A missing file yields nil.
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}
	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("corrupt token file (delete %s to re-authenticate): %w", path, err)
	}
	return &tok, nil
}

// saveToken atomically writes tok to path.
func saveToken(path string, tok *oauth2.Token) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating auth directory: %w", err)
	}
	data, err := json.MarshalIndent(tok, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling token: %w", err)
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("saving token file: %w", err)
	}
	return nil
}
