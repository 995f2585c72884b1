// Package tasks reads the task list of the project management site that
// checkpoints are booked against.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/Tiliavir/tcheck/internal/model"
)

// LoginCookie is the session cookie set by a successful login.
const LoginCookie = "LoginCookie"

// ErrLoginFailed is returned when the login response carries no session
// cookie.
var ErrLoginFailed = errors.New("login failed: " + LoginCookie + " not found in response")

// Config holds the endpoints and credentials.
type Config struct {
	LoginURL string
	ListURL  string
	Username string
	Password string
}

// Client logs in and scrapes the task list.
type Client struct {
	cfg Config
}

// New returns a Client for cfg.
func New(cfg Config) *Client {
	return &Client{cfg: cfg}
}

// FetchTasks logs in with a fresh session and returns the tasks of the list
// page, highest id first.
func (c *Client) FetchTasks(ctx context.Context) ([]model.Task, error) {
	if c.cfg.LoginURL == "" || c.cfg.ListURL == "" {
		return nil, fmt.Errorf("task list is not configured")
	}
	client, err := c.login(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.ListURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("task list request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("task list error %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return Parse(resp.Body)
}

// login posts the credentials form and returns a client carrying the
// session cookies. Redirects are not followed so the cookie of the login
// response itself can be checked.
func (c *Client) login(ctx context.Context) (*http.Client, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	client := &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}

	form := url.Values{
		"action":   {"login"},
		"taskID":   {"0"},
		"username": {c.cfg.Username},
		"password": {c.cfg.Password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.LoginURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("creating login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	for _, cookie := range resp.Cookies() {
		if cookie.Name == LoginCookie {
			return client, nil
		}
	}
	return nil, ErrLoginFailed
}

// Parse extracts the rows of the TaskList table. Each row must carry a
// numeric data-id; its sixth cell is the name and a span whose class
// contains "hour" holds "spent / total".
func Parse(r io.Reader) ([]model.Task, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing task list: %w", err)
	}

	var out []model.Task
	for _, list := range findAll(doc, func(n *html.Node) bool {
		return n.DataAtom == atom.Div && hasClass(n, "TaskList")
	}) {
		for _, row := range findAll(list, func(n *html.Node) bool {
			return n.DataAtom == atom.Tr && n.Parent != nil && n.Parent.DataAtom == atom.Tbody
		}) {
			task, ok, err := parseRow(row)
			if err != nil {
				return nil, err
			}
			if ok {
				out = append(out, task)
			}
		}
	}
	slices.SortStableFunc(out, func(a, b model.Task) int { return b.ID - a.ID })
	return out, nil
}

func parseRow(row *html.Node) (model.Task, bool, error) {
	rawID, ok := attr(row, "data-id")
	if !ok {
		return model.Task{}, false, nil
	}
	id, err := strconv.Atoi(strings.TrimSpace(rawID))
	if err != nil {
		return model.Task{}, false, fmt.Errorf("task row has invalid data-id %q: %w", rawID, err)
	}

	task := model.Task{ID: id}
	var cells []*html.Node
	for ch := row.FirstChild; ch != nil; ch = ch.NextSibling {
		if ch.Type == html.ElementNode {
			cells = append(cells, ch)
		}
	}
	if len(cells) > 5 {
		task.Name = strings.TrimSpace(text(cells[5]))
	}

	spans := findAll(row, func(n *html.Node) bool {
		c, _ := attr(n, "class")
		return n.DataAtom == atom.Span && strings.Contains(c, "hour")
	})
	if len(spans) > 0 {
		content := strings.ReplaceAll(text(spans[0]), "\u00a0", "")
		spent, total, found := strings.Cut(content, "/")
		task.Spent = nonEmpty(spent)
		if found {
			task.Total = nonEmpty(total)
		}
	}
	return task, true, nil
}

func nonEmpty(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(root)
	return out
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	c, _ := attr(n, "class")
	return slices.Contains(strings.Fields(c), class)
}

func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for ch := n.FirstChild; ch != nil; ch = ch.NextSibling {
			walk(ch)
		}
	}
	walk(n)
	return b.String()
}

// URL returns prefix followed by the task id, or "" without a prefix.
func URL(prefix string, id int) string {
	if prefix == "" {
		return ""
	}
	return prefix + strconv.Itoa(id)
}
