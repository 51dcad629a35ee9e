package notifications

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"colophon/internal/config"
	"colophon/internal/manuscripts"
	"colophon/internal/people"
)

const userAgent = "Colophon-Go/0.1.0"

// Service defines the outbound mail surface used by the workflow. Callers
// treat delivery as best-effort: a returned error is for logging, never for
// rolling back a transition.
type Service interface {
	NotifyReferee(ctx context.Context, m manuscripts.Manuscript, refereeEmail string) error
	NotifyEditor(ctx context.Context, m manuscripts.Manuscript) error
	TestNotification(ctx context.Context) error
}

// NewService builds a mail-relay backed notification service. When no mail
// endpoint is configured, a noop implementation is returned.
func NewService(cfg *config.Config, directory *people.Directory) Service {
	endpoint := strings.TrimSpace(cfg.Notifications.MailEndpoint)
	if endpoint == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &mailService{
		endpoint:  endpoint,
		from:      cfg.Notifications.FromAddress,
		client:    &http.Client{Timeout: timeout},
		directory: directory,
	}
}

// message is the relay's wire format.
type message struct {
	To      string `json:"to"`
	From    string `json:"from"`
	ReplyTo string `json:"reply_to,omitempty"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

type mailService struct {
	endpoint  string
	from      string
	client    *http.Client
	directory *people.Directory
}

func (s *mailService) NotifyReferee(ctx context.Context, m manuscripts.Manuscript, refereeEmail string) error {
	refereeEmail = strings.TrimSpace(refereeEmail)
	if refereeEmail == "" {
		return fmt.Errorf("referee email is empty")
	}
	replyTo, err := s.directory.EditorEmail(ctx)
	if err != nil {
		replyTo = ""
	}
	body := fmt.Sprintf(
		"Hello %s, you've been asked to referee the manuscript %q.\n\nAbstract:\n%s\n",
		refereeEmail, m.Title, m.Abstract)
	return s.send(ctx, message{
		To:      refereeEmail,
		ReplyTo: replyTo,
		Subject: "Manuscript Referee",
		Body:    body,
	})
}

func (s *mailService) NotifyEditor(ctx context.Context, m manuscripts.Manuscript) error {
	editor, err := s.directory.EditorEmail(ctx)
	if err != nil {
		return fmt.Errorf("resolve editor: %w", err)
	}
	body := fmt.Sprintf("Hello %s, a new manuscript has been submitted: %q.", editor, m.Title)
	if m.Text != "" {
		body += fmt.Sprintf("\n\nOnly text was provided. It is attached here:\n%s", m.Text)
	}
	return s.send(ctx, message{
		To:      editor,
		Subject: "New Manuscript Submitted",
		Body:    body,
	})
}

func (s *mailService) TestNotification(ctx context.Context) error {
	editor, err := s.directory.EditorEmail(ctx)
	if err != nil {
		return fmt.Errorf("resolve editor: %w", err)
	}
	return s.send(ctx, message{
		To:      editor,
		Subject: "Colophon - Test",
		Body:    "Notification system test",
	})
}

func (s *mailService) send(ctx context.Context, msg message) error {
	if s == nil || s.client == nil {
		return nil
	}
	msg.From = s.from

	encoded, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode mail payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(encoded))
	if err != nil {
		return fmt.Errorf("build mail request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("mail relay returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyReferee(context.Context, manuscripts.Manuscript, string) error { return nil }
func (noopService) NotifyEditor(context.Context, manuscripts.Manuscript) error          { return nil }
func (noopService) TestNotification(context.Context) error                              { return nil }
