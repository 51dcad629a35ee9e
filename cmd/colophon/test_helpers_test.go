package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"colophon/internal/api"
	"colophon/internal/config"
	"colophon/internal/daemon"
	"colophon/internal/logging"
	"colophon/internal/store"
	"colophon/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	address    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}

	configPath := filepath.Join(homeDir, ".config", "colophon", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	d, err := daemon.New(cfg, st, logging.NewNop())
	if err != nil {
		t.Fatalf("daemon.New: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := d.Start(ctx); err != nil {
		t.Fatalf("start daemon: %v", err)
	}
	t.Cleanup(func() {
		cancel()
		_ = d.Close()
	})

	return &cliTestEnv{
		cfg:        cfg,
		daemon:     d,
		address:    d.Addr(),
		configPath: configPath,
	}
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\nsubmissions_dir = %q\napi_bind = %q\n\n[journal]\ncode = %q\nname = %q\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Paths.SubmissionsDir,
		cfg.Paths.APIBind,
		cfg.Journal.Code,
		"Test Journal",
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, env *cliTestEnv, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{"--config", env.configPath}
	if env.address != "" {
		flags = append(flags, "--address", env.address)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func seedPerson(t *testing.T, env *cliTestEnv, name, email string, roleCodes ...string) {
	t.Helper()
	args := []string{"people", "add", "--name", name, "--email", email}
	for _, code := range roleCodes {
		args = append(args, "--role", code)
	}
	if _, _, err := runCLI(t, env, args...); err != nil {
		t.Fatalf("seed person %s: %v", email, err)
	}
}

func submitViaAPI(t *testing.T, env *cliTestEnv, title string) string {
	t.Helper()
	body := fmt.Sprintf(`{"title":%q,"authors":[{"name":"Ann","email":"ann@example.org"}]}`, title)
	resp, err := http.Post(
		"http://"+env.address+"/api/journal/manuscripts",
		"application/json",
		strings.NewReader(body),
	)
	if err != nil {
		t.Fatalf("submit manuscript: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("submit manuscript returned %d", resp.StatusCode)
	}
	var view api.ManuscriptView
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		t.Fatalf("decode manuscript: %v", err)
	}
	return view.ID
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
