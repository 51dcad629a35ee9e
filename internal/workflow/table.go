package workflow

import (
	"context"
	"fmt"
	"strings"

	"colophon/internal/manuscripts"
	"colophon/internal/roles"
	"colophon/internal/services"
	"colophon/internal/states"
)

// transitionFunc applies an accepted action to a manuscript. It may mutate
// the in-memory record (referee map) and returns the state the manuscript
// moves to. The engine persists the result.
type transitionFunc func(ctx context.Context, e *Engine, m *manuscripts.Manuscript, req ActionRequest) (states.State, error)

// transition is one table entry: who may trigger it, and what it does.
type transition struct {
	roles []roles.Role
	apply transitionFunc
}

func (t transition) permits(role roles.Role) bool {
	for _, r := range t.roles {
		if r == role {
			return true
		}
	}
	return false
}

// moveTo returns a transition function that ignores the payload and lands on
// a fixed state.
func moveTo(next states.State) transitionFunc {
	return func(context.Context, *Engine, *manuscripts.Manuscript, ActionRequest) (states.State, error) {
		return next, nil
	}
}

func editorMove(_ context.Context, _ *Engine, _ *manuscripts.Manuscript, req ActionRequest) (states.State, error) {
	if req.TargetState == "" {
		return "", services.Wrap(services.ErrValidation, "workflow", "editor-move",
			"a target state is required", nil)
	}
	if !req.TargetState.IsValid() {
		return "", services.Wrap(services.ErrValidation, "workflow", "editor-move",
			fmt.Sprintf("unknown target state %q", req.TargetState), nil)
	}
	// Administrative override: any known state is a legal target.
	return req.TargetState, nil
}

func assignReferee(ctx context.Context, e *Engine, m *manuscripts.Manuscript, req ActionRequest) (states.State, error) {
	return e.assignReferee(ctx, m, req.Referee)
}

func removeReferee(ctx context.Context, e *Engine, m *manuscripts.Manuscript, req ActionRequest) (states.State, error) {
	return e.removeReferee(m, req.Referee)
}

func submitReview(_ context.Context, _ *Engine, m *manuscripts.Manuscript, req ActionRequest) (states.State, error) {
	actor := strings.TrimSpace(req.ActorEmail)
	if actor == "" {
		return "", services.Wrap(services.ErrValidation, "workflow", "submit-review",
			"an acting referee is required", nil)
	}
	if req.Verdict != "" && !states.IsValidVerdict(req.Verdict) {
		return "", services.Wrap(services.ErrValidation, "workflow", "submit-review",
			fmt.Sprintf("unknown verdict %q", req.Verdict), nil)
	}
	note := m.Referees[actor]
	note.Report = req.Report
	note.Verdict = req.Verdict
	m.Referees[actor] = note
	return states.RefereeReview, nil
}

// commonActions are merged into every non-terminal state's entry: the editor
// can force a move anywhere, and an author can always withdraw.
func commonActions() map[states.Action]transition {
	return map[states.Action]transition{
		states.EditorMove: {
			roles: []roles.Role{roles.Editor},
			apply: editorMove,
		},
		states.WithdrawAction: {
			roles: []roles.Role{roles.Author},
			apply: moveTo(states.Withdrawn),
		},
	}
}

func withCommon(entries map[states.Action]transition) map[states.Action]transition {
	for action, t := range commonActions() {
		entries[action] = t
	}
	return entries
}

// buildTable returns the full transition table. Terminal states have no
// entry at all, so any action against them resolves to "invalid in state".
func buildTable() map[states.State]map[states.Action]transition {
	return map[states.State]map[states.Action]transition{
		states.Submitted: withCommon(map[states.Action]transition{
			states.Reject: {
				roles: []roles.Role{roles.Editor},
				apply: moveTo(states.Rejected),
			},
			states.AssignReferee: {
				roles: []roles.Role{roles.Editor},
				apply: assignReferee,
			},
		}),
		states.RefereeReview: withCommon(map[states.Action]transition{
			states.Accept: {
				roles: []roles.Role{roles.Editor},
				apply: moveTo(states.CopyEditing),
			},
			states.AcceptWithRev: {
				roles: []roles.Role{roles.Editor},
				apply: moveTo(states.AuthorRevisions),
			},
			states.AssignReferee: {
				roles: []roles.Role{roles.Editor},
				apply: assignReferee,
			},
			states.RemoveReferee: {
				roles: []roles.Role{roles.Editor},
				apply: removeReferee,
			},
			states.Reject: {
				roles: []roles.Role{roles.Editor},
				apply: moveTo(states.Rejected),
			},
			states.SubmitReview: {
				roles: []roles.Role{roles.Referee},
				apply: submitReview,
			},
		}),
		states.AuthorRevisions: withCommon(map[states.Action]transition{
			states.Done: {
				roles: []roles.Role{roles.Author},
				apply: moveTo(states.EditorReview),
			},
		}),
		states.EditorReview: withCommon(map[states.Action]transition{
			states.Accept: {
				roles: []roles.Role{roles.Editor},
				apply: moveTo(states.CopyEditing),
			},
		}),
		states.CopyEditing: withCommon(map[states.Action]transition{
			states.Done: {
				roles: []roles.Role{roles.Editor},
				apply: moveTo(states.AuthorReview),
			},
		}),
		states.AuthorReview: withCommon(map[states.Action]transition{
			states.Done: {
				roles: []roles.Role{roles.Author},
				apply: moveTo(states.Formatting),
			},
		}),
		states.Formatting: withCommon(map[states.Action]transition{
			states.Done: {
				roles: []roles.Role{roles.Editor},
				apply: moveTo(states.Published),
			},
		}),
	}
}
