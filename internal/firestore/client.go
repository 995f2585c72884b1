// Package firestore stores checkpoints in a Cloud Firestore collection
// through the REST API.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"time"

	"github.com/Tiliavir/tcheck/internal/model"
	"github.com/Tiliavir/tcheck/internal/timecalc"
)

const (
	// DefaultEndpoint is the production Firestore REST endpoint.
	DefaultEndpoint = "https://firestore.googleapis.com"
	// DefaultDatabase is the database id used when none is configured.
	DefaultDatabase = "(default)"
	// Collection holds one document per checkpoint.
	Collection = "checkpoints"
)

// Options locate the database.
type Options struct {
	ProjectID  string
	DatabaseID string
	// Endpoint overrides DefaultEndpoint, e.g. for the emulator.
	Endpoint string
}

// Client is a Firestore-backed checkpoint store.
type Client struct {
	httpClient *http.Client
	docs       string
}

// NewClient returns a Client issuing requests through httpClient, which is
// expected to add authorization.
func NewClient(httpClient *http.Client, opts Options) (*Client, error) {
	if opts.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}
	if opts.DatabaseID == "" {
		opts.DatabaseID = DefaultDatabase
	}
	if opts.Endpoint == "" {
		opts.Endpoint = DefaultEndpoint
	}
	return &Client{
		httpClient: httpClient,
		docs: fmt.Sprintf("%s/v1/projects/%s/databases/%s/documents",
			opts.Endpoint, url.PathEscape(opts.ProjectID), url.PathEscape(opts.DatabaseID)),
	}, nil
}

// Find returns the checkpoints of day in ascending time order.
func (c *Client) Find(ctx context.Context, day time.Time) ([]model.Checkpoint, error) {
	q := newQuery()
	q.StructuredQuery.Where = &filter{
		CompositeFilter: &compositeFilter{
			Op: "AND",
			Filters: []filter{
				timeFilter("GREATER_THAN_OR_EQUAL", timecalc.StartOfDay(day)),
				timeFilter("LESS_THAN", timecalc.NextDay(day)),
			},
		},
	}
	return c.runQuery(ctx, q, day.Location())
}

// Insert creates a document for c and returns c with the document id.
func (c *Client) Insert(ctx context.Context, cp model.Checkpoint) (model.Checkpoint, error) {
	var doc document
	if err := c.do(ctx, http.MethodPost, c.docs+"/"+Collection, encode(cp), &doc); err != nil {
		return model.Checkpoint{}, fmt.Errorf("insert checkpoint: %w", err)
	}
	return cp.WithID(path.Base(doc.Name)), nil
}

// Update overwrites time, project, message and registered of an existing
// document.
func (c *Client) Update(ctx context.Context, cp model.Checkpoint) error {
	if !cp.HasID() {
		return model.ErrMissingID
	}
	params := url.Values{}
	for _, f := range []string{"time", "project", "message", "registered"} {
		params.Add("updateMask.fieldPaths", f)
	}
	params.Set("currentDocument.exists", "true")

	endpoint := c.docURL(*cp.ID) + "?" + params.Encode()
	if err := c.do(ctx, http.MethodPatch, endpoint, encode(cp), nil); err != nil {
		return fmt.Errorf("update checkpoint %s: %w", *cp.ID, err)
	}
	return nil
}

// Delete removes the document of cp.
func (c *Client) Delete(ctx context.Context, cp model.Checkpoint) error {
	if !cp.HasID() {
		return model.ErrMissingID
	}
	endpoint := c.docURL(*cp.ID) + "?currentDocument.exists=true"
	if err := c.do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("delete checkpoint %s: %w", *cp.ID, err)
	}
	return nil
}

// DistinctDates scans the whole collection and returns every local date
// holding a checkpoint, ascending.
func (c *Client) DistinctDates(ctx context.Context) ([]time.Time, error) {
	all, err := c.runQuery(ctx, newQuery(), time.Local)
	if err != nil {
		return nil, err
	}
	var dates []time.Time
	for _, cp := range all {
		d := timecalc.StartOfDay(cp.Time)
		if len(dates) == 0 || !dates[len(dates)-1].Equal(d) {
			dates = append(dates, d)
		}
	}
	return dates, nil
}

func (c *Client) docURL(id string) string {
	return c.docs + "/" + Collection + "/" + url.PathEscape(id)
}

func (c *Client) runQuery(ctx context.Context, q runQueryRequest, loc *time.Location) ([]model.Checkpoint, error) {
	var rows []runQueryResponse
	if err := c.do(ctx, http.MethodPost, c.docs+":runQuery", q, &rows); err != nil {
		return nil, fmt.Errorf("query checkpoints: %w", err)
	}
	out := make([]model.Checkpoint, 0, len(rows))
	for _, row := range rows {
		// Rows without a document only carry progress information.
		if row.Document == nil {
			continue
		}
		cp, err := decode(*row.Document)
		if err != nil {
			return nil, err
		}
		cp.Time = cp.Time.In(loc)
		out = append(out, cp)
	}
	return out, nil
}

// do sends body as JSON and decodes a successful response into out.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("firestore request failed: %w", err)
	}
	data, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return model.ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fmt.Errorf("firestore error %d: %s", resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding firestore response: %w", err)
	}
	return nil
}
