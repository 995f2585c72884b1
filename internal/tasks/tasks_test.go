package tasks_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Tiliavir/tcheck/internal/tasks"
)

const listPage = `<html><body>
<div class="TaskList"><table>
<thead><tr><th>x</th></tr></thead>
<tbody>
<tr data-id="77"><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td><td> Ops support </td><td><span class="hours">3&nbsp;/&nbsp;10</span></td></tr>
<tr data-id="812"><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td><td>Code review</td><td><span class="hour-spent">1.5</span></td></tr>
<tr data-id="5"><td>a</td><td>b</td><td>c</td><td>d</td><td>e</td><td>Planning</td><td></td></tr>
<tr><td>summary row</td></tr>
</tbody></table></div>
<div class="Other"><table><tbody><tr data-id="999"><td>ignored</td></tr></tbody></table></div>
</body></html>`

func TestParse(t *testing.T) {
	got, err := tasks.Parse(strings.NewReader(listPage))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Parse returned %d tasks, want 3", len(got))
	}

	if got[0].ID != 812 || got[1].ID != 77 || got[2].ID != 5 {
		t.Errorf("ids = %d %d %d, want 812 77 5", got[0].ID, got[1].ID, got[2].ID)
	}
	if got[1].Name != "Ops support" {
		t.Errorf("name = %q, want Ops support", got[1].Name)
	}
	if got[1].Spent == nil || *got[1].Spent != "3" || got[1].Total == nil || *got[1].Total != "10" {
		t.Errorf("ops hours = %v / %v, want 3 / 10", got[1].Spent, got[1].Total)
	}
	if got[0].Spent == nil || *got[0].Spent != "1.5" || got[0].Total != nil {
		t.Errorf("review hours = %v / %v, want 1.5 / nil", got[0].Spent, got[0].Total)
	}
	if got[2].Spent != nil || got[2].Total != nil {
		t.Error("planning should have no hours")
	}
}

func TestParseInvalidID(t *testing.T) {
	page := `<div class="TaskList"><table><tbody><tr data-id="abc"><td>x</td></tr></tbody></table></div>`
	if _, err := tasks.Parse(strings.NewReader(page)); err == nil {
		t.Error("expected error for non-numeric data-id")
	}
}

func newServer(t *testing.T, setCookie bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /login", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if r.Form.Get("action") != "login" || r.Form.Get("taskID") != "0" ||
			r.Form.Get("username") != "jane" || r.Form.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		if setCookie {
			http.SetCookie(w, &http.Cookie{Name: tasks.LoginCookie, Value: "session", Path: "/"})
		}
		http.Redirect(w, r, "/home", http.StatusFound)
	})
	mux.HandleFunc("GET /list", func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie(tasks.LoginCookie); err != nil || c.Value != "session" {
			http.Error(w, "not logged in", http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(listPage))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchTasks(t *testing.T) {
	srv := newServer(t, true)
	c := tasks.New(tasks.Config{
		LoginURL: srv.URL + "/login",
		ListURL:  srv.URL + "/list",
		Username: "jane",
		Password: "secret",
	})
	got, err := c.FetchTasks(context.Background())
	if err != nil {
		t.Fatalf("FetchTasks: %v", err)
	}
	if len(got) != 3 || got[0].ID != 812 {
		t.Errorf("FetchTasks = %+v", got)
	}
}

func TestFetchTasksLoginFailed(t *testing.T) {
	srv := newServer(t, false)
	c := tasks.New(tasks.Config{
		LoginURL: srv.URL + "/login",
		ListURL:  srv.URL + "/list",
		Username: "jane",
		Password: "secret",
	})
	if _, err := c.FetchTasks(context.Background()); !errors.Is(err, tasks.ErrLoginFailed) {
		t.Errorf("FetchTasks error = %v, want ErrLoginFailed", err)
	}
}

func TestFetchTasksNotConfigured(t *testing.T) {
	if _, err := tasks.New(tasks.Config{}).FetchTasks(context.Background()); err == nil {
		t.Error("expected error without URLs")
	}
}

func TestURL(t *testing.T) {
	if got := tasks.URL("https://pm.example/task/", 812); got != "https://pm.example/task/812" {
		t.Errorf("URL = %q", got)
	}
	if got := tasks.URL("", 812); got != "" {
		t.Errorf("URL without prefix = %q, want empty", got)
	}
}
