package api

import (
	"context"
	"fmt"
	"io"

	"colophon/internal/manuscripts"
	"colophon/internal/services"
	"colophon/internal/states"
	"colophon/internal/submissions"
	"colophon/internal/workflow"
)

// ManuscriptService translates between wire types and the workflow engine.
type ManuscriptService struct {
	accessor *manuscripts.Accessor
	engine   *workflow.Engine
	intake   *submissions.Intake
}

func NewManuscriptService(accessor *manuscripts.Accessor, engine *workflow.Engine, intake *submissions.Intake) *ManuscriptService {
	return &ManuscriptService{accessor: accessor, engine: engine, intake: intake}
}

// ListForUser returns the manuscripts the given person can act on, each with
// its available actions.
func (s *ManuscriptService) ListForUser(ctx context.Context, email string) ([]ManuscriptView, error) {
	views, err := s.engine.FetchForUser(ctx, email)
	if err != nil {
		return nil, err
	}
	out := make([]ManuscriptView, 0, len(views))
	for _, v := range views {
		out = append(out, fromManuscriptView(v))
	}
	return out, nil
}

// List returns every manuscript.
func (s *ManuscriptService) List(ctx context.Context) ([]ManuscriptView, error) {
	all, err := s.accessor.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]ManuscriptView, 0, len(all))
	for _, m := range all {
		out = append(out, fromManuscript(m))
	}
	return out, nil
}

// Get returns one manuscript by id.
func (s *ManuscriptService) Get(ctx context.Context, id string) (ManuscriptView, error) {
	m, err := s.accessor.Record(ctx, id)
	if err != nil {
		return ManuscriptView{}, err
	}
	return fromManuscript(m), nil
}

// ByState returns every manuscript in the given state.
func (s *ManuscriptService) ByState(ctx context.Context, state string) ([]ManuscriptView, error) {
	matched, err := s.accessor.ByState(ctx, states.State(state))
	if err != nil {
		return nil, err
	}
	out := make([]ManuscriptView, 0, len(matched))
	for _, m := range matched {
		out = append(out, fromManuscript(m))
	}
	return out, nil
}

// Create stores a new submission and returns its view.
func (s *ManuscriptService) Create(ctx context.Context, req CreateManuscriptRequest) (ManuscriptView, error) {
	authors := make([]manuscripts.Author, 0, len(req.Authors))
	for _, a := range req.Authors {
		authors = append(authors, manuscripts.Author{Name: a.Name, Email: a.Email})
	}
	id, err := s.accessor.Add(ctx, manuscripts.Manuscript{
		Title:     req.Title,
		Abstract:  req.Abstract,
		WordCount: req.WordCount,
		Text:      req.Text,
		Authors:   authors,
	})
	if err != nil {
		return ManuscriptView{}, err
	}
	return s.Get(ctx, id)
}

// Similar returns manuscripts resembling the given one, most similar first.
// Editors use this to screen for duplicate submissions.
func (s *ManuscriptService) Similar(ctx context.Context, id string) ([]ManuscriptView, error) {
	matched, err := s.accessor.SimilarTo(ctx, id)
	if err != nil {
		return nil, err
	}
	out := make([]ManuscriptView, 0, len(matched))
	for _, m := range matched {
		out = append(out, fromManuscript(m))
	}
	return out, nil
}

// ReceiveAction applies one workflow action and returns the new state.
func (s *ManuscriptService) ReceiveAction(ctx context.Context, id string, req ActionRequest) (ActionResponse, error) {
	next, err := s.engine.ReceiveAction(ctx, workflow.ActionRequest{
		ManuscriptID: id,
		Action:       states.Action(req.Action),
		ActorEmail:   req.ActorEmail,
		Referee:      req.Referee,
		TargetState:  states.State(req.TargetState),
		Report:       req.Report,
		Verdict:      states.Action(req.Verdict),
	})
	if err != nil {
		return ActionResponse{}, err
	}
	return ActionResponse{ID: id, State: string(next)}, nil
}

// AvailableActions lists the actions the given person may take on a
// manuscript.
func (s *ManuscriptService) AvailableActions(ctx context.Context, email, id string) ([]string, error) {
	actions, err := s.engine.AvailableActions(ctx, email, id)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(actions))
	for _, a := range actions {
		out = append(out, string(a))
	}
	return out, nil
}

// Delete removes a manuscript record. This is an administrative operation
// outside the workflow; it appends no history because the record is gone.
func (s *ManuscriptService) Delete(ctx context.Context, id string) error {
	return s.accessor.Delete(ctx, id)
}

// StoreFile saves an uploaded document for a manuscript.
func (s *ManuscriptService) StoreFile(ctx context.Context, id, filename string, r io.Reader) error {
	if s.intake == nil {
		return services.Wrap(nil, "api", "store-file", "submission intake unavailable", fmt.Errorf("no intake configured"))
	}
	return s.intake.StoreFile(ctx, id, filename, r)
}

// OriginalFile returns the stored submission document path.
func (s *ManuscriptService) OriginalFile(id string) (string, error) {
	if s.intake == nil {
		return "", services.Wrap(services.ErrNotFound, "api", "original-file", "submission intake unavailable", nil)
	}
	return s.intake.OriginalFile(id)
}
