package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colophon/internal/config"
)

func TestDefaultIsValidAfterNormalize(t *testing.T) {
	cfg, path, exists, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected missing config file to be reported as absent")
	}
	if path == "" {
		t.Fatal("expected resolved path")
	}
	if cfg.Journal.Code == "" {
		t.Fatal("expected default journal code")
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("default log format = %q", cfg.Logging.Format)
	}
}

func TestLoadParsesFileAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[journal]
code = "bk"

[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
api_bind = "127.0.0.1:0"

[logging]
format = "JSON"
level = "DEBUG"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be found")
	}
	if cfg.Journal.Code != "BK" {
		t.Fatalf("journal code = %q, want BK", cfg.Journal.Code)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("logging not normalized: %+v", cfg.Logging)
	}
	if !strings.HasSuffix(cfg.DatabasePath(), "journal.db") {
		t.Fatalf("unexpected database path %q", cfg.DatabasePath())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("COLOPHON_JOURNAL_CODE", "zine9")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Journal.Code != "ZINE9" {
		t.Fatalf("journal code = %q, want ZINE9", cfg.Journal.Code)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty journal code", func(c *config.Config) { c.Journal.Code = "" }},
		{"journal code punctuation", func(c *config.Config) { c.Journal.Code = "A-B" }},
		{"empty bind", func(c *config.Config) { c.Paths.APIBind = "" }},
		{"bad log format", func(c *config.Config) { c.Logging.Format = "yaml" }},
		{"bad log level", func(c *config.Config) { c.Logging.Level = "loud" }},
		{"zero mail timeout", func(c *config.Config) { c.Notifications.RequestTimeout = 0 }},
		{"endpoint without from", func(c *config.Config) {
			c.Notifications.MailEndpoint = "https://mail.example.com/send"
			c.Notifications.FromAddress = ""
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSampleConfigMentionsEverySection(t *testing.T) {
	sample := config.SampleConfig()
	for _, section := range []string{"[journal]", "[paths]", "[notifications]", "[logging]"} {
		if !strings.Contains(sample, section) {
			t.Fatalf("sample config missing %s", section)
		}
	}
}
