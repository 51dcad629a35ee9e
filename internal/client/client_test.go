package client_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"colophon/internal/api"
	"colophon/internal/client"
)

func TestNilClientReportsUnavailable(t *testing.T) {
	c, err := client.New("", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c != nil {
		t.Fatal("empty bind should yield a nil client")
	}
	if _, err := c.Status(context.Background()); err != client.ErrDaemonUnavailable {
		t.Fatalf("expected ErrDaemonUnavailable, got %v", err)
	}
}

func TestClientSendsBearerToken(t *testing.T) {
	var captured string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(api.StatusResponse{Running: true})
	}))
	defer server.Close()

	c, err := client.New(server.URL, "sekrit")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	status, err := c.Status(context.Background())
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if !status.Running {
		t.Fatal("status not decoded")
	}
	if captured != "Bearer sekrit" {
		t.Fatalf("authorization header = %q", captured)
	}
}

func TestClientDecodesErrorPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "no manuscript with id x"})
	}))
	defer server.Close()

	c, err := client.New(server.URL, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	_, err = c.Manuscript(context.Background(), "x")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "404") || !strings.Contains(err.Error(), "no manuscript") {
		t.Fatalf("error should carry status and message: %v", err)
	}
}

func TestReceiveActionRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Fatalf("unexpected method %s", r.Method)
		}
		if r.URL.Path != "/api/journal/manuscripts/abc/receive-action" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		var req api.ActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Action != "assign-referee" || req.Referee != "kris@example.org" {
			t.Fatalf("request not forwarded: %+v", req)
		}
		_ = json.NewEncoder(w).Encode(api.ActionResponse{ID: "abc", State: "referee-review"})
	}))
	defer server.Close()

	c, err := client.New(server.URL, "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	resp, err := c.ReceiveAction(context.Background(), "abc", api.ActionRequest{
		Action:     "assign-referee",
		ActorEmail: "ed@example.org",
		Referee:    "kris@example.org",
	})
	if err != nil {
		t.Fatalf("ReceiveAction failed: %v", err)
	}
	if resp.State != "referee-review" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestBindWithoutSchemeGetsHTTP(t *testing.T) {
	c, err := client.New("127.0.0.1:7846", "")
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if c == nil {
		t.Fatal("expected a client")
	}
}
