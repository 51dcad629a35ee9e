// Package people maintains the journal's directory of authors, editors,
// referees, and masthead members.
package people

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"colophon/internal/roles"
	"colophon/internal/services"
	"colophon/internal/store"
)

const collection = "people"

// Person is a directory record. Roles accumulate over time; a person keeps
// the Author role after becoming a referee, for example.
type Person struct {
	ID          string       `json:"id,omitempty"`
	Name        string       `json:"name"`
	Email       string       `json:"email"`
	Roles       []roles.Role `json:"roles"`
	Affiliation string       `json:"affiliation,omitempty"`
	Position    string       `json:"position,omitempty"`
	Bio         string       `json:"bio,omitempty"`
}

// HasRole reports whether the person holds the given role.
func (p Person) HasRole(role roles.Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Directory provides lookup and mutation over the people collection.
type Directory struct {
	store *store.Store
}

func NewDirectory(s *store.Store) *Directory {
	return &Directory{store: s}
}

// FetchByEmail returns the person with the given email address, or
// ErrNotFound when no directory entry matches. Email comparison is
// case-insensitive.
func (d *Directory) FetchByEmail(ctx context.Context, email string) (Person, error) {
	id, err := d.FetchIDByEmail(ctx, email)
	if err != nil {
		return Person{}, err
	}
	return d.FetchByID(ctx, id)
}

// FetchIDByEmail returns the record id for the given email address.
func (d *Directory) FetchIDByEmail(ctx context.Context, email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", services.Wrap(services.ErrValidation, "people", "fetch", "email is required", nil)
	}
	matches, err := d.store.FindByField(ctx, collection, "email", normalized)
	if err != nil {
		return "", err
	}
	for id := range matches {
		return id, nil
	}
	return "", services.Wrap(services.ErrNotFound, "people", "fetch",
		fmt.Sprintf("no person with email %s", normalized), nil)
}

// FetchByID returns the person stored under the given id.
func (d *Directory) FetchByID(ctx context.Context, id string) (Person, error) {
	raw, err := d.store.Get(ctx, collection, id)
	if err != nil {
		return Person{}, err
	}
	if raw == nil {
		return Person{}, services.Wrap(services.ErrNotFound, "people", "fetch",
			fmt.Sprintf("no person with id %s", id), nil)
	}
	var p Person
	if err := json.Unmarshal(raw, &p); err != nil {
		return Person{}, services.Wrap(nil, "people", "fetch", "corrupt person record", err)
	}
	p.ID = id
	return p, nil
}

// Email returns the email address for the given person id.
func (d *Directory) Email(ctx context.Context, id string) (string, error) {
	p, err := d.FetchByID(ctx, id)
	if err != nil {
		return "", err
	}
	return p.Email, nil
}

// Add creates a new directory entry and returns its id. The email must not
// already be registered.
func (d *Directory) Add(ctx context.Context, p Person) (string, error) {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Name == "" || p.Email == "" {
		return "", services.Wrap(services.ErrValidation, "people", "add", "name and email are required", nil)
	}
	for _, r := range p.Roles {
		if !r.IsValid() {
			return "", services.Wrap(services.ErrValidation, "people", "add",
				fmt.Sprintf("unknown role %q", r), nil)
		}
	}
	if _, err := d.FetchIDByEmail(ctx, p.Email); err == nil {
		return "", services.Wrap(services.ErrConflict, "people", "add",
			fmt.Sprintf("email %s already registered", p.Email), nil)
	}
	p.ID = ""
	return d.store.Add(ctx, collection, p)
}

// Update replaces the stored record for the given id.
func (d *Directory) Update(ctx context.Context, id string, p Person) error {
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	if p.Name == "" || p.Email == "" {
		return services.Wrap(services.ErrValidation, "people", "update", "name and email are required", nil)
	}
	p.ID = ""
	return d.store.Put(ctx, collection, id, p)
}

// Delete removes the directory entry for the given id.
func (d *Directory) Delete(ctx context.Context, id string) error {
	removed, err := d.store.Delete(ctx, collection, id)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "people", "delete",
			fmt.Sprintf("no person with id %s", id), nil)
	}
	return nil
}

// AddRole grants a role to an existing person. Granting a role the person
// already holds is a no-op.
func (d *Directory) AddRole(ctx context.Context, id string, role roles.Role) error {
	if !role.IsValid() {
		return services.Wrap(services.ErrValidation, "people", "add-role",
			fmt.Sprintf("unknown role %q", role), nil)
	}
	p, err := d.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	if p.HasRole(role) {
		return nil
	}
	p.Roles = append(p.Roles, role)
	return d.store.SetField(ctx, collection, id, "roles", p.Roles)
}

// PossiblyNewPersonAddRole grants a role to the person with the given email,
// creating the directory entry first when none exists. It returns the
// person's id.
func (d *Directory) PossiblyNewPersonAddRole(ctx context.Context, name, email string, role roles.Role) (string, error) {
	id, err := d.FetchIDByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, services.ErrNotFound) {
			return "", err
		}
		return d.Add(ctx, Person{Name: name, Email: email, Roles: []roles.Role{role}})
	}
	if err := d.AddRole(ctx, id, role); err != nil {
		return "", err
	}
	return id, nil
}

// All returns every directory entry keyed by id.
func (d *Directory) All(ctx context.Context) (map[string]Person, error) {
	raw, err := d.store.All(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make(map[string]Person, len(raw))
	for id, doc := range raw {
		var p Person
		if err := json.Unmarshal(doc, &p); err != nil {
			return nil, services.Wrap(nil, "people", "list", "corrupt person record", err)
		}
		p.ID = id
		out[id] = p
	}
	return out, nil
}

// Select returns every person holding the given role, optionally filtered by
// a case-insensitive name substring. Results are sorted by name.
func (d *Directory) Select(ctx context.Context, name string, role roles.Role) ([]Person, error) {
	all, err := d.All(ctx)
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	var out []Person
	for _, p := range all {
		if role != "" && !p.HasRole(role) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(p.Name), needle) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Masthead returns the journal masthead grouped by role, in masthead role
// order. People within a role are sorted by name.
func (d *Directory) Masthead(ctx context.Context) (map[roles.Role][]Person, error) {
	all, err := d.All(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[roles.Role][]Person)
	for _, role := range roles.Masthead() {
		for _, p := range all {
			if p.HasRole(role) {
				out[role] = append(out[role], p)
			}
		}
		sort.Slice(out[role], func(i, j int) bool { return out[role][i].Name < out[role][j].Name })
	}
	return out, nil
}

// EditorEmail returns the email address of the journal's editor. When more
// than one person holds the editor role the lexically first name wins, which
// keeps the choice stable across restarts.
func (d *Directory) EditorEmail(ctx context.Context) (string, error) {
	editors, err := d.Select(ctx, "", roles.Editor)
	if err != nil {
		return "", err
	}
	if len(editors) == 0 {
		return "", services.Wrap(services.ErrNotFound, "people", "editor", "journal has no editor", nil)
	}
	return editors[0].Email, nil
}
