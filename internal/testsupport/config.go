package testsupport

import (
	"path/filepath"
	"testing"

	"colophon/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Journal.Code = "TEST"
	cfg.Paths.DataDir = filepath.Join(base, "data")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Paths.SubmissionsDir = filepath.Join(base, "submissions")
	cfg.Paths.APIBind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithJournalCode overrides the journal code on the test config.
func WithJournalCode(code string) ConfigOption {
	return func(c *config.Config) {
		c.Journal.Code = code
	}
}

// WithMailEndpoint points the notification relay at the given URL.
func WithMailEndpoint(url string) ConfigOption {
	return func(c *config.Config) {
		c.Notifications.MailEndpoint = url
	}
}

// WithAPIToken requires the given bearer token on journal API routes.
func WithAPIToken(token string) ConfigOption {
	return func(c *config.Config) {
		c.Paths.APIToken = token
	}
}
