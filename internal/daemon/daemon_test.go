package daemon_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"testing"
	"time"

	"colophon/internal/api"
	"colophon/internal/config"
	"colophon/internal/daemon"
	"colophon/internal/logging"
	"colophon/internal/states"
	"colophon/internal/store"
	"colophon/internal/testsupport"
)

func startDaemon(t *testing.T, opts ...testsupport.ConfigOption) (*daemon.Daemon, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	d, err := daemon.New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("new daemon: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		_ = d.Close()
	})
	return d, cfg
}

func doJSON(t *testing.T, method, url string, body any, out any) int {
	t.Helper()
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode request: %v", err)
		}
		reader = bytes.NewReader(encoded)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("build request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			t.Fatalf("decode response: %v", err)
		}
	}
	return resp.StatusCode
}

func seedEditor(t *testing.T, base string) {
	t.Helper()
	status := doJSON(t, http.MethodPost, base+"/api/journal/people", api.PersonRequest{
		Name: "Ed", Email: "ed@example.org", Roles: []string{"ED"},
	}, nil)
	if status != http.StatusCreated {
		t.Fatalf("seeding editor returned %d", status)
	}
}

func submitManuscript(t *testing.T, base string) string {
	t.Helper()
	var view api.ManuscriptView
	status := doJSON(t, http.MethodPost, base+"/api/journal/manuscripts", api.CreateManuscriptRequest{
		Title:    "On the Care of Ledgers",
		Abstract: "A short study.",
		Authors:  []api.AuthorView{{Name: "Kris", Email: "kris@example.org"}},
	}, &view)
	if status != http.StatusCreated {
		t.Fatalf("create manuscript returned %d", status)
	}
	if view.ID == "" || view.State != string(states.Submitted) {
		t.Fatalf("unexpected created view: %+v", view)
	}
	return view.ID
}

func TestStatusEndpoint(t *testing.T) {
	d, cfg := startDaemon(t)
	base := "http://" + d.Addr()

	var status api.StatusResponse
	if code := doJSON(t, http.MethodGet, base+"/api/status", nil, &status); code != http.StatusOK {
		t.Fatalf("status returned %d", code)
	}
	if !status.Running {
		t.Fatal("daemon should report running")
	}
	if status.JournalCode != cfg.Journal.Code {
		t.Fatalf("journal code = %q", status.JournalCode)
	}
}

func TestManuscriptLifecycleOverHTTP(t *testing.T) {
	d, _ := startDaemon(t)
	base := "http://" + d.Addr()
	seedEditor(t, base)
	id := submitManuscript(t, base)

	// Editor assigns a referee.
	var action api.ActionResponse
	code := doJSON(t, http.MethodPut,
		fmt.Sprintf("%s/api/journal/manuscripts/%s/receive-action", base, id),
		api.ActionRequest{Action: "assign-referee", ActorEmail: "ed@example.org", Referee: "ref@example.org"},
		&action)
	if code != http.StatusOK {
		t.Fatalf("receive-action returned %d", code)
	}
	if action.State != string(states.RefereeReview) {
		t.Fatalf("expected referee-review, got %q", action.State)
	}

	// The manuscript shows up when filtering by its state.
	var byState struct {
		Manuscripts []api.ManuscriptView `json:"manuscripts"`
	}
	code = doJSON(t, http.MethodGet,
		fmt.Sprintf("%s/api/journal/states/%s/manuscripts", base, states.RefereeReview), nil, &byState)
	if code != http.StatusOK {
		t.Fatalf("by-state returned %d", code)
	}
	if len(byState.Manuscripts) != 1 || byState.Manuscripts[0].ID != id {
		t.Fatalf("by-state feed wrong: %+v", byState)
	}

	// The author's feed carries their available actions.
	var feed struct {
		Manuscripts []api.ManuscriptView `json:"manuscripts"`
	}
	code = doJSON(t, http.MethodGet, base+"/api/journal/manuscripts?user=kris@example.org", nil, &feed)
	if code != http.StatusOK {
		t.Fatalf("user feed returned %d", code)
	}
	if len(feed.Manuscripts) != 1 || len(feed.Manuscripts[0].Actions) == 0 {
		t.Fatalf("user feed wrong: %+v", feed)
	}
}

func TestErrorStatusMapping(t *testing.T) {
	d, _ := startDaemon(t)
	base := "http://" + d.Addr()
	seedEditor(t, base)
	id := submitManuscript(t, base)

	tests := []struct {
		name   string
		req    api.ActionRequest
		target string
		want   int
	}{
		{
			name:   "unknown manuscript",
			req:    api.ActionRequest{Action: "reject", ActorEmail: "ed@example.org"},
			target: "nope",
			want:   http.StatusNotFound,
		},
		{
			name:   "unknown action",
			req:    api.ActionRequest{Action: "rubber-stamp", ActorEmail: "ed@example.org"},
			target: id,
			want:   http.StatusNotAcceptable,
		},
		{
			name:   "forbidden for author",
			req:    api.ActionRequest{Action: "reject", ActorEmail: "kris@example.org"},
			target: id,
			want:   http.StatusForbidden,
		},
		{
			name:   "missing referee payload",
			req:    api.ActionRequest{Action: "assign-referee", ActorEmail: "ed@example.org"},
			target: id,
			want:   http.StatusUnprocessableEntity,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code := doJSON(t, http.MethodPut,
				fmt.Sprintf("%s/api/journal/manuscripts/%s/receive-action", base, tc.target),
				tc.req, nil)
			if code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, code)
			}
		})
	}
}

func TestCatalogEndpoints(t *testing.T) {
	d, _ := startDaemon(t)
	base := "http://" + d.Addr()

	var statesResp struct {
		States []api.CatalogEntry `json:"states"`
	}
	if code := doJSON(t, http.MethodGet, base+"/api/journal/states", nil, &statesResp); code != http.StatusOK {
		t.Fatalf("states returned %d", code)
	}
	if len(statesResp.States) != 10 {
		t.Fatalf("expected 10 states, got %d", len(statesResp.States))
	}

	var actionsResp struct {
		Actions []api.CatalogEntry `json:"actions"`
	}
	if code := doJSON(t, http.MethodGet, base+"/api/journal/actions", nil, &actionsResp); code != http.StatusOK {
		t.Fatalf("actions returned %d", code)
	}
	if len(actionsResp.Actions) != 9 {
		t.Fatalf("expected 9 actions, got %d", len(actionsResp.Actions))
	}

	var columnsResp struct {
		Columns []api.CatalogEntry `json:"columns"`
	}
	if code := doJSON(t, http.MethodGet, base+"/api/journal/dashboard/columns", nil, &columnsResp); code != http.StatusOK {
		t.Fatalf("columns returned %d", code)
	}
	if len(columnsResp.Columns) != 7 {
		t.Fatalf("expected 7 columns, got %d", len(columnsResp.Columns))
	}
}

func TestMastheadAndTexts(t *testing.T) {
	d, _ := startDaemon(t)
	base := "http://" + d.Addr()
	seedEditor(t, base)

	var masthead struct {
		Masthead []api.MastheadSection `json:"masthead"`
	}
	if code := doJSON(t, http.MethodGet, base+"/api/journal/masthead", nil, &masthead); code != http.StatusOK {
		t.Fatalf("masthead returned %d", code)
	}
	if len(masthead.Masthead) != 5 {
		t.Fatalf("expected 5 masthead sections, got %d", len(masthead.Masthead))
	}
	if masthead.Masthead[0].Role != "ED" || len(masthead.Masthead[0].Members) != 1 {
		t.Fatalf("editor section wrong: %+v", masthead.Masthead[0])
	}

	code := doJSON(t, http.MethodPost, base+"/api/journal/texts",
		api.TextRequest{Title: "Mission", Text: "We publish."}, nil)
	if code != http.StatusCreated {
		t.Fatalf("create text returned %d", code)
	}
	var page api.TextView
	if code := doJSON(t, http.MethodGet, base+"/api/journal/texts/Mission", nil, &page); code != http.StatusOK {
		t.Fatalf("get text returned %d", code)
	}
	if page.Text != "We publish." {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestFileUploadAndDownload(t *testing.T) {
	d, _ := startDaemon(t)
	base := "http://" + d.Addr()
	seedEditor(t, base)
	id := submitManuscript(t, base)

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", "draft.md")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := io.WriteString(part, "# Draft\n\nBody."); err != nil {
		t.Fatalf("write form file: %v", err)
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost,
		fmt.Sprintf("%s/api/journal/manuscripts/%s/file", base, id), &form)
	if err != nil {
		t.Fatalf("build upload: %v", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("upload returned %d", resp.StatusCode)
	}

	resp, err = http.Get(fmt.Sprintf("%s/api/journal/manuscripts/%s/file", base, id))
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download returned %d", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "# Draft") {
		t.Fatalf("downloaded contents wrong: %q", data)
	}
}

func TestBearerTokenRequired(t *testing.T) {
	d, _ := startDaemon(t, testsupport.WithAPIToken("sekrit"))
	base := "http://" + d.Addr()

	// Status stays open; journal routes require the token.
	if code := doJSON(t, http.MethodGet, base+"/api/status", nil, nil); code != http.StatusOK {
		t.Fatalf("status returned %d", code)
	}
	resp, err := http.Get(base + "/api/journal/manuscripts")
	if err != nil {
		t.Fatalf("unauthenticated request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, base+"/api/journal/manuscripts", nil)
	req.Header.Set("Authorization", "Bearer sekrit")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("authenticated request: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", resp.StatusCode)
	}
}

func TestSecondInstanceRefused(t *testing.T) {
	d, cfg := startDaemon(t)
	_ = d

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open second store: %v", err)
	}
	second, err := daemon.New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("new second daemon: %v", err)
	}
	defer second.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := second.Start(ctx); err == nil {
		second.Stop()
		t.Fatal("second instance should fail to acquire the lock")
	}
}
