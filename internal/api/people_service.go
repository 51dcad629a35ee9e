package api

import (
	"context"
	"fmt"

	"colophon/internal/people"
	"colophon/internal/roles"
	"colophon/internal/services"
)

// PeopleService exposes the person directory over wire types.
type PeopleService struct {
	directory *people.Directory
}

func NewPeopleService(directory *people.Directory) *PeopleService {
	return &PeopleService{directory: directory}
}

// List returns directory entries, optionally filtered by name substring and
// role code.
func (s *PeopleService) List(ctx context.Context, name, role string) ([]PersonView, error) {
	filter := roles.Role(role)
	if role != "" && !filter.IsValid() {
		return nil, services.Wrap(services.ErrValidation, "api", "list-people",
			fmt.Sprintf("unknown role %q", role), nil)
	}
	matched, err := s.directory.Select(ctx, name, filter)
	if err != nil {
		return nil, err
	}
	out := make([]PersonView, 0, len(matched))
	for _, p := range matched {
		out = append(out, fromPerson(p))
	}
	return out, nil
}

// Get returns one directory entry by id.
func (s *PeopleService) Get(ctx context.Context, id string) (PersonView, error) {
	p, err := s.directory.FetchByID(ctx, id)
	if err != nil {
		return PersonView{}, err
	}
	return fromPerson(p), nil
}

// Create adds a directory entry.
func (s *PeopleService) Create(ctx context.Context, req PersonRequest) (PersonView, error) {
	id, err := s.directory.Add(ctx, toPerson(req))
	if err != nil {
		return PersonView{}, err
	}
	return s.Get(ctx, id)
}

// Update replaces a directory entry.
func (s *PeopleService) Update(ctx context.Context, id string, req PersonRequest) (PersonView, error) {
	if err := s.directory.Update(ctx, id, toPerson(req)); err != nil {
		return PersonView{}, err
	}
	return s.Get(ctx, id)
}

// Delete removes a directory entry.
func (s *PeopleService) Delete(ctx context.Context, id string) error {
	return s.directory.Delete(ctx, id)
}

// Masthead returns the public masthead grouped by role, in masthead order.
func (s *PeopleService) Masthead(ctx context.Context) ([]MastheadSection, error) {
	grouped, err := s.directory.Masthead(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]MastheadSection, 0, len(roles.Masthead()))
	for _, role := range roles.Masthead() {
		members := make([]PersonView, 0, len(grouped[role]))
		for _, p := range grouped[role] {
			members = append(members, fromPerson(p))
		}
		out = append(out, MastheadSection{
			Role:    string(role),
			Label:   role.Describe(),
			Members: members,
		})
	}
	return out, nil
}

func toPerson(req PersonRequest) people.Person {
	held := make([]roles.Role, 0, len(req.Roles))
	for _, code := range req.Roles {
		held = append(held, roles.Role(code))
	}
	return people.Person{
		Name:        req.Name,
		Email:       req.Email,
		Roles:       held,
		Affiliation: req.Affiliation,
		Position:    req.Position,
		Bio:         req.Bio,
	}
}
