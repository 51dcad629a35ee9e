package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Running")
	requireContains(t, out, "yes")
	requireContains(t, out, "TEST")
}

func TestManuscriptsListAndShow(t *testing.T) {
	env := setupCLITestEnv(t)
	id := submitViaAPI(t, env, "On the Care of Ledgers")

	out, _, err := runCLI(t, env, "manuscripts", "list")
	if err != nil {
		t.Fatalf("manuscripts list: %v", err)
	}
	requireContains(t, out, "On the Care of Ledgers")
	requireContains(t, out, "Submitted")

	out, _, err = runCLI(t, env, "manuscripts", "show", id)
	if err != nil {
		t.Fatalf("manuscripts show: %v", err)
	}
	requireContains(t, out, "On the Care of Ledgers")
	requireContains(t, out, "Ann")
}

func TestActionCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	seedPerson(t, env, "Ed", "ed@example.org", "ED")
	id := submitViaAPI(t, env, "A Study of Margins")

	out, _, err := runCLI(t, env,
		"action", "assign-referee", id, "kris@example.org", "--user", "ed@example.org")
	if err != nil {
		t.Fatalf("assign-referee: %v", err)
	}
	requireContains(t, out, "referee-review")

	out, _, err = runCLI(t, env, "manuscripts", "list", "--state", "referee-review")
	if err != nil {
		t.Fatalf("list by state: %v", err)
	}
	requireContains(t, out, "A Study of Margins")

	out, _, err = runCLI(t, env,
		"action", "apply", id, "accept", "--user", "ed@example.org")
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	requireContains(t, out, "copy-editing")
}

func TestActionForbiddenForAuthor(t *testing.T) {
	env := setupCLITestEnv(t)
	seedPerson(t, env, "Ed", "ed@example.org", "ED")
	id := submitViaAPI(t, env, "Forbidden Fruit")

	_, _, err := runCLI(t, env,
		"action", "apply", id, "reject", "--user", "ann@example.org")
	if err == nil {
		t.Fatal("expected author reject to fail")
	}
	requireContains(t, err.Error(), "403")
}

func TestManuscriptsActionsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	seedPerson(t, env, "Ed", "ed@example.org", "ED")
	id := submitViaAPI(t, env, "Actions Probe")

	out, _, err := runCLI(t, env,
		"manuscripts", "actions", id, "--user", "ed@example.org")
	if err != nil {
		t.Fatalf("manuscripts actions: %v", err)
	}
	requireContains(t, out, "assign-referee")
	requireContains(t, out, "reject")
}

func TestPeopleAndMastheadCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	seedPerson(t, env, "Ed", "ed@example.org", "ED")
	seedPerson(t, env, "Sal", "sal@example.org", "SE")

	out, _, err := runCLI(t, env, "people", "list")
	if err != nil {
		t.Fatalf("people list: %v", err)
	}
	requireContains(t, out, "ed@example.org")
	requireContains(t, out, "sal@example.org")

	out, _, err = runCLI(t, env, "people", "list", "--role", "ED")
	if err != nil {
		t.Fatalf("people list by role: %v", err)
	}
	requireContains(t, out, "ed@example.org")
	if strings.Contains(out, "sal@example.org") {
		t.Fatal("role filter leaked a non-editor")
	}

	out, _, err = runCLI(t, env, "masthead")
	if err != nil {
		t.Fatalf("masthead: %v", err)
	}
	requireContains(t, out, "Ed")
	requireContains(t, out, "Sal")
}

func TestCatalogCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "catalog", "states")
	if err != nil {
		t.Fatalf("catalog states: %v", err)
	}
	requireContains(t, out, "submitted")
	requireContains(t, out, "published")

	out, _, err = runCLI(t, env, "catalog", "actions")
	if err != nil {
		t.Fatalf("catalog actions: %v", err)
	}
	requireContains(t, out, "assign-referee")
	requireContains(t, out, "withdraw")
}

func TestSubmitCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env,
		"submit",
		"--title", "Submitted From the Terminal",
		"--author", "Ann <ann@example.org>")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireContains(t, out, "Submitted From the Terminal")
}

func TestSubmitCommandInfersTitleFromFile(t *testing.T) {
	env := setupCLITestEnv(t)

	docPath := filepath.Join(t.TempDir(), "on_the-care.of.ledgers.md")
	if err := os.WriteFile(docPath, []byte("draft text"), 0o644); err != nil {
		t.Fatalf("write document: %v", err)
	}

	out, _, err := runCLI(t, env,
		"submit",
		"--file", docPath,
		"--author", "Ann <ann@example.org>")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	requireContains(t, out, "Submitted On The Care Of Ledgers")
	requireContains(t, out, "Uploaded "+docPath)
}
