package people_test

import (
	"context"
	"errors"
	"testing"

	"colophon/internal/people"
	"colophon/internal/roles"
	"colophon/internal/services"
	"colophon/internal/testsupport"
)

func newDirectory(t *testing.T) *people.Directory {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return people.NewDirectory(testsupport.MustOpenStore(t, cfg))
}

func TestAddAndFetchByEmail(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	id, err := d.Add(ctx, people.Person{
		Name:  "Kris",
		Email: "Kris@Example.org",
		Roles: []roles.Role{roles.Author},
	})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	// Lookup is case-insensitive and the stored address is normalized.
	p, err := d.FetchByEmail(ctx, "kris@example.org")
	if err != nil {
		t.Fatalf("FetchByEmail failed: %v", err)
	}
	if p.ID != id {
		t.Fatalf("id mismatch: %q vs %q", p.ID, id)
	}
	if p.Email != "kris@example.org" {
		t.Fatalf("email not normalized: %q", p.Email)
	}
	if !p.HasRole(roles.Author) {
		t.Fatalf("missing author role: %v", p.Roles)
	}
}

func TestAddRejectsDuplicateEmail(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	if _, err := d.Add(ctx, people.Person{Name: "Kris", Email: "kris@example.org"}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	_, err := d.Add(ctx, people.Person{Name: "Other Kris", Email: "KRIS@example.org"})
	if !errors.Is(err, services.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}
}

func TestFetchByEmailMissing(t *testing.T) {
	d := newDirectory(t)
	_, err := d.FetchByEmail(context.Background(), "ghost@example.org")
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAddRoleIsIdempotent(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	id, err := d.Add(ctx, people.Person{Name: "Kris", Email: "kris@example.org", Roles: []roles.Role{roles.Author}})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if err := d.AddRole(ctx, id, roles.Referee); err != nil {
			t.Fatalf("AddRole failed: %v", err)
		}
	}
	p, err := d.FetchByID(ctx, id)
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if len(p.Roles) != 2 {
		t.Fatalf("expected 2 roles, got %v", p.Roles)
	}
	if !p.HasRole(roles.Author) || !p.HasRole(roles.Referee) {
		t.Fatalf("roles lost: %v", p.Roles)
	}
}

func TestPossiblyNewPersonAddRole(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	// Unknown email creates the record with the role.
	id, err := d.PossiblyNewPersonAddRole(ctx, "New Referee", "ref@example.org", roles.Referee)
	if err != nil {
		t.Fatalf("create path failed: %v", err)
	}
	p, err := d.FetchByID(ctx, id)
	if err != nil {
		t.Fatalf("FetchByID failed: %v", err)
	}
	if !p.HasRole(roles.Referee) {
		t.Fatalf("new person missing role: %v", p.Roles)
	}

	// Known email keeps the same record and grants the role.
	again, err := d.PossiblyNewPersonAddRole(ctx, "Ignored Name", "ref@example.org", roles.Author)
	if err != nil {
		t.Fatalf("grant path failed: %v", err)
	}
	if again != id {
		t.Fatalf("expected existing id %q, got %q", id, again)
	}
	p, _ = d.FetchByID(ctx, id)
	if p.Name != "New Referee" {
		t.Fatalf("existing name overwritten: %q", p.Name)
	}
	if !p.HasRole(roles.Author) {
		t.Fatalf("role not granted: %v", p.Roles)
	}
}

func TestSelectFiltersByNameAndRole(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	seed := []people.Person{
		{Name: "Ada Editor", Email: "ada@example.org", Roles: []roles.Role{roles.Editor}},
		{Name: "Ben Board", Email: "ben@example.org", Roles: []roles.Role{roles.EditorialBoard}},
		{Name: "Cal Author", Email: "cal@example.org", Roles: []roles.Role{roles.Author}},
	}
	for _, p := range seed {
		if _, err := d.Add(ctx, p); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	byRole, err := d.Select(ctx, "", roles.Editor)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(byRole) != 1 || byRole[0].Name != "Ada Editor" {
		t.Fatalf("role filter wrong: %v", byRole)
	}

	byName, err := d.Select(ctx, "ben", "")
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if len(byName) != 1 || byName[0].Name != "Ben Board" {
		t.Fatalf("name filter wrong: %v", byName)
	}
}

func TestMastheadGroupsByRole(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	seed := []people.Person{
		{Name: "Ada", Email: "ada@example.org", Roles: []roles.Role{roles.Editor}},
		{Name: "Ben", Email: "ben@example.org", Roles: []roles.Role{roles.EditorialBoard}},
		{Name: "Abe", Email: "abe@example.org", Roles: []roles.Role{roles.EditorialBoard}},
		{Name: "Cal", Email: "cal@example.org", Roles: []roles.Role{roles.Author}},
	}
	for _, p := range seed {
		if _, err := d.Add(ctx, p); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	masthead, err := d.Masthead(ctx)
	if err != nil {
		t.Fatalf("Masthead failed: %v", err)
	}
	if len(masthead[roles.Editor]) != 1 {
		t.Fatalf("expected 1 editor, got %v", masthead[roles.Editor])
	}
	board := masthead[roles.EditorialBoard]
	if len(board) != 2 || board[0].Name != "Abe" || board[1].Name != "Ben" {
		t.Fatalf("board not sorted by name: %v", board)
	}
	for role := range masthead {
		if role == roles.Author {
			t.Fatal("author role leaked into masthead")
		}
	}
}

func TestEditorEmail(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	_, err := d.EditorEmail(ctx)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound without an editor, got %v", err)
	}

	if _, err := d.Add(ctx, people.Person{Name: "Ada", Email: "ada@example.org", Roles: []roles.Role{roles.Editor}}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	email, err := d.EditorEmail(ctx)
	if err != nil {
		t.Fatalf("EditorEmail failed: %v", err)
	}
	if email != "ada@example.org" {
		t.Fatalf("unexpected editor email %q", email)
	}
}

func TestDelete(t *testing.T) {
	d := newDirectory(t)
	ctx := context.Background()

	id, err := d.Add(ctx, people.Person{Name: "Kris", Email: "kris@example.org"})
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if err := d.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := d.Delete(ctx, id); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
