// Package client is the HTTP client the CLI uses to talk to a running
// colophon daemon.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"colophon/internal/api"
)

var ErrDaemonUnavailable = errors.New("colophon daemon unavailable")

// Client talks to the daemon's API server.
type Client struct {
	base  *url.URL
	token string
	http  *http.Client
}

// New builds a client for the given bind address. An empty bind returns a
// nil client, which every method treats as "daemon unavailable".
func New(bind, token string) (*Client, error) {
	bind = strings.TrimSpace(bind)
	if bind == "" {
		return nil, nil
	}
	if !strings.Contains(bind, "://") {
		bind = "http://" + bind
	}
	base, err := url.Parse(bind)
	if err != nil {
		return nil, err
	}
	base.Path = ""
	base.RawQuery = ""
	base.Fragment = ""

	return &Client{
		base:  base,
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// Status fetches daemon runtime information.
func (c *Client) Status(ctx context.Context) (api.StatusResponse, error) {
	var out api.StatusResponse
	err := c.do(ctx, http.MethodGet, "/api/status", nil, nil, &out)
	return out, err
}

// Manuscripts returns the full manuscript listing, or the acting user's
// feed when email is non-empty.
func (c *Client) Manuscripts(ctx context.Context, email string) ([]api.ManuscriptView, error) {
	values := url.Values{}
	if strings.TrimSpace(email) != "" {
		values.Set("user", email)
	}
	var out struct {
		Manuscripts []api.ManuscriptView `json:"manuscripts"`
	}
	err := c.do(ctx, http.MethodGet, "/api/journal/manuscripts", values, nil, &out)
	return out.Manuscripts, err
}

// Manuscript fetches one manuscript by id.
func (c *Client) Manuscript(ctx context.Context, id string) (api.ManuscriptView, error) {
	var out api.ManuscriptView
	err := c.do(ctx, http.MethodGet, "/api/journal/manuscripts/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

// ManuscriptsByState lists the manuscripts currently in the given state.
func (c *Client) ManuscriptsByState(ctx context.Context, state string) ([]api.ManuscriptView, error) {
	var out struct {
		Manuscripts []api.ManuscriptView `json:"manuscripts"`
	}
	path := "/api/journal/states/" + url.PathEscape(state) + "/manuscripts"
	err := c.do(ctx, http.MethodGet, path, nil, nil, &out)
	return out.Manuscripts, err
}

// SimilarManuscripts lists manuscripts resembling the given one, most
// similar first.
func (c *Client) SimilarManuscripts(ctx context.Context, id string) ([]api.ManuscriptView, error) {
	var out struct {
		Manuscripts []api.ManuscriptView `json:"manuscripts"`
	}
	path := "/api/journal/manuscripts/" + url.PathEscape(id) + "/similar"
	err := c.do(ctx, http.MethodGet, path, nil, nil, &out)
	return out.Manuscripts, err
}

// Submit creates a new manuscript.
func (c *Client) Submit(ctx context.Context, req api.CreateManuscriptRequest) (api.ManuscriptView, error) {
	var out api.ManuscriptView
	err := c.do(ctx, http.MethodPost, "/api/journal/manuscripts", nil, req, &out)
	return out, err
}

// ReceiveAction applies one workflow action.
func (c *Client) ReceiveAction(ctx context.Context, id string, req api.ActionRequest) (api.ActionResponse, error) {
	var out api.ActionResponse
	path := "/api/journal/manuscripts/" + url.PathEscape(id) + "/receive-action"
	err := c.do(ctx, http.MethodPut, path, nil, req, &out)
	return out, err
}

// AvailableActions lists the actions the given person may take.
func (c *Client) AvailableActions(ctx context.Context, id, email string) ([]string, error) {
	values := url.Values{}
	values.Set("user", email)
	var out struct {
		Actions []string `json:"actions"`
	}
	path := "/api/journal/manuscripts/" + url.PathEscape(id) + "/actions"
	err := c.do(ctx, http.MethodGet, path, values, nil, &out)
	return out.Actions, err
}

// UploadFile sends a submission document for the given manuscript.
func (c *Client) UploadFile(ctx context.Context, id, path string) error {
	if c == nil {
		return ErrDaemonUnavailable
	}
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	var form bytes.Buffer
	writer := multipart.NewWriter(&form)
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("build upload form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("finish upload form: %w", err)
	}

	endpoint := c.base.ResolveReference(&url.URL{
		Path: "/api/journal/manuscripts/" + url.PathEscape(id) + "/file",
	})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), &form)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

// People lists directory entries filtered by name substring and role code.
func (c *Client) People(ctx context.Context, name, role string) ([]api.PersonView, error) {
	values := url.Values{}
	if name != "" {
		values.Set("name", name)
	}
	if role != "" {
		values.Set("role", role)
	}
	var out struct {
		People []api.PersonView `json:"people"`
	}
	err := c.do(ctx, http.MethodGet, "/api/journal/people", values, nil, &out)
	return out.People, err
}

// AddPerson creates a directory entry.
func (c *Client) AddPerson(ctx context.Context, req api.PersonRequest) (api.PersonView, error) {
	var out api.PersonView
	err := c.do(ctx, http.MethodPost, "/api/journal/people", nil, req, &out)
	return out, err
}

// Masthead returns the public masthead.
func (c *Client) Masthead(ctx context.Context) ([]api.MastheadSection, error) {
	var out struct {
		Masthead []api.MastheadSection `json:"masthead"`
	}
	err := c.do(ctx, http.MethodGet, "/api/journal/masthead", nil, nil, &out)
	return out.Masthead, err
}

// States returns the state catalog.
func (c *Client) States(ctx context.Context) ([]api.CatalogEntry, error) {
	var out struct {
		States []api.CatalogEntry `json:"states"`
	}
	err := c.do(ctx, http.MethodGet, "/api/journal/states", nil, nil, &out)
	return out.States, err
}

// TestNotification asks the daemon to send a test message through the
// configured mail relay.
func (c *Client) TestNotification(ctx context.Context) (api.NotifyResponse, error) {
	var out api.NotifyResponse
	err := c.do(ctx, http.MethodPost, "/api/test-notify", nil, nil, &out)
	return out, err
}

// Actions returns the action catalog.
func (c *Client) Actions(ctx context.Context) ([]api.CatalogEntry, error) {
	var out struct {
		Actions []api.CatalogEntry `json:"actions"`
	}
	err := c.do(ctx, http.MethodGet, "/api/journal/actions", nil, nil, &out)
	return out.Actions, err
}

func (c *Client) do(ctx context.Context, method, path string, values url.Values, body, out any) error {
	if c == nil {
		return ErrDaemonUnavailable
	}
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}
	ref := &url.URL{Path: path}
	if values != nil {
		ref.RawQuery = values.Encode()
	}
	endpoint := c.base.ResolveReference(ref)
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.authorize(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnavailable, err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 2048)).Decode(&payload); err == nil && payload.Error != "" {
		return fmt.Errorf("daemon returned %d: %s", resp.StatusCode, payload.Error)
	}
	return fmt.Errorf("daemon returned %d", resp.StatusCode)
}
