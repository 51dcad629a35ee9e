package workflow

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sort"
	"sync"
	"time"

	"colophon/internal/manuscripts"
	"colophon/internal/people"
	"colophon/internal/roles"
	"colophon/internal/services"
	"colophon/internal/states"
)

// Notifier delivers workflow emails. Delivery is best-effort: the engine
// logs failures but never rolls back a committed transition over one.
type Notifier interface {
	NotifyReferee(ctx context.Context, m manuscripts.Manuscript, refereeEmail string) error
	NotifyEditor(ctx context.Context, m manuscripts.Manuscript) error
}

// ActionRequest carries one workflow step. Referee, TargetState, Report and
// Verdict are per-action payloads; actions that do not use a field ignore it.
type ActionRequest struct {
	ManuscriptID string
	Action       states.Action
	// ActorEmail identifies the caller. When empty the role gate is
	// skipped, which is reserved for internal administrative calls.
	ActorEmail  string
	Referee     string
	TargetState states.State
	Report      string
	Verdict     states.Action
}

const lockStripes = 64

// Engine runs the manuscript review state machine. All state changes go
// through ReceiveAction, which serializes per manuscript id.
type Engine struct {
	accessor  *manuscripts.Accessor
	directory *people.Directory
	notifier  Notifier
	logger    *slog.Logger
	table     map[states.State]map[states.Action]transition

	locks [lockStripes]sync.Mutex
}

func NewEngine(accessor *manuscripts.Accessor, directory *people.Directory, notifier Notifier, logger *slog.Logger) *Engine {
	return &Engine{
		accessor:  accessor,
		directory: directory,
		notifier:  notifier,
		logger:    logger.With("component", "workflow"),
		table:     buildTable(),
	}
}

func (e *Engine) lockFor(id string) *sync.Mutex {
	h := fnv.New32a()
	h.Write([]byte(id))
	return &e.locks[h.Sum32()%lockStripes]
}

// ReceiveAction validates and applies one workflow step, returning the state
// the manuscript lands in. Validation runs strictly before any mutation:
// manuscript existence, then global action validity, then table lookup for
// the current state, then role permission, then payload. A failure at any
// step leaves the record untouched.
func (e *Engine) ReceiveAction(ctx context.Context, req ActionRequest) (states.State, error) {
	lock := e.lockFor(req.ManuscriptID)
	lock.Lock()
	defer lock.Unlock()

	m, err := e.accessor.Record(ctx, req.ManuscriptID)
	if err != nil {
		return "", err
	}
	if !states.IsValidAction(req.Action) {
		return "", services.Wrap(services.ErrInvalidAction, "workflow", "receive-action",
			fmt.Sprintf("unknown action %q", req.Action), nil)
	}
	entry, ok := e.table[m.State][req.Action]
	if !ok {
		return "", services.Wrap(services.ErrInvalidAction, "workflow", "receive-action",
			fmt.Sprintf("action %s is invalid in state %s", req.Action, m.State), nil)
	}
	if req.ActorEmail != "" {
		role, err := e.resolveRole(ctx, req.ActorEmail, m)
		if err != nil {
			return "", err
		}
		if !entry.permits(role) {
			return "", services.Wrap(services.ErrForbidden, "workflow", "receive-action",
				fmt.Sprintf("%s is not allowed to perform %s on %s", req.ActorEmail, req.Action, m.ID), nil)
		}
	}

	next, err := entry.apply(ctx, e, &m, req)
	if err != nil {
		return "", err
	}

	m.State = next
	m.History = append(m.History, manuscripts.HistoryEntry{
		Seq:         m.NextSeq(),
		Timestamp:   time.Now().UTC(),
		Action:      req.Action,
		NewState:    next,
		Referee:     req.Referee,
		TargetState: req.TargetState,
	})
	if err := e.accessor.Update(ctx, m); err != nil {
		return "", err
	}
	e.logger.Info("transition applied",
		"manuscript", m.ID, "action", string(req.Action), "state", string(next))

	if req.Action == states.AssignReferee && e.notifier != nil {
		e.notifyRefereeAsync(m, req.Referee)
	}
	return next, nil
}

// AvailableActions lists the actions the given person may currently take on
// a manuscript, sorted, based on their resolved role and the current state.
// A person with no role on the manuscript gets an empty list.
func (e *Engine) AvailableActions(ctx context.Context, email, manuscriptID string) ([]states.Action, error) {
	m, err := e.accessor.Record(ctx, manuscriptID)
	if err != nil {
		return nil, err
	}
	return e.actionsFor(ctx, email, m)
}

func (e *Engine) actionsFor(ctx context.Context, email string, m manuscripts.Manuscript) ([]states.Action, error) {
	role, err := e.resolveRole(ctx, email, m)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) || errors.Is(err, services.ErrForbidden) {
			return nil, nil
		}
		return nil, err
	}
	var actions []states.Action
	for action, entry := range e.table[m.State] {
		if entry.permits(role) {
			actions = append(actions, action)
		}
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i] < actions[j] })
	return actions, nil
}

// ManuscriptView is a dashboard row: a manuscript plus the actions the
// viewing user may take on it.
type ManuscriptView struct {
	Manuscript manuscripts.Manuscript
	Actions    []states.Action
}

// FetchForUser returns the manuscripts the given person can act on, most
// recently updated first. Manuscripts where the person has no available
// action are omitted, so an author only sees their own submissions while an
// editor sees everything still in flight.
func (e *Engine) FetchForUser(ctx context.Context, email string) ([]ManuscriptView, error) {
	all, err := e.accessor.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []ManuscriptView
	for _, m := range all {
		actions, err := e.actionsFor(ctx, email, m)
		if err != nil {
			return nil, err
		}
		if len(actions) == 0 {
			continue
		}
		out = append(out, ManuscriptView{Manuscript: m, Actions: actions})
	}
	return out, nil
}

// resolveRole determines the person's single effective role for a
// manuscript. Editor wins over author, author over referee: anyone holding
// the global editor role has access to every manuscript, a policy rather
// than an accident of ordering. Returns ErrForbidden when the person has no
// role on the manuscript, ErrNotFound when the email is unknown.
func (e *Engine) resolveRole(ctx context.Context, email string, m manuscripts.Manuscript) (roles.Role, error) {
	person, err := e.directory.FetchByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	switch {
	case person.HasRole(roles.Editor):
		return roles.Editor, nil
	case m.HasAuthor(person.Email):
		return roles.Author, nil
	case m.HasReferee(person.Email):
		return roles.Referee, nil
	}
	return "", services.Wrap(services.ErrForbidden, "workflow", "resolve-role",
		fmt.Sprintf("%s has no role on manuscript %s", email, m.ID), nil)
}

// AssignReferee adds a referee to a manuscript outside the normal action
// path. It shares the table's validation and always goes through
// ReceiveAction so history stays complete.
func (e *Engine) AssignReferee(ctx context.Context, manuscriptID, refereeEmail, actorEmail string) (states.State, error) {
	return e.ReceiveAction(ctx, ActionRequest{
		ManuscriptID: manuscriptID,
		Action:       states.AssignReferee,
		ActorEmail:   actorEmail,
		Referee:      refereeEmail,
	})
}

// RemoveReferee removes a referee via the normal action path.
func (e *Engine) RemoveReferee(ctx context.Context, manuscriptID, refereeEmail, actorEmail string) (states.State, error) {
	return e.ReceiveAction(ctx, ActionRequest{
		ManuscriptID: manuscriptID,
		Action:       states.RemoveReferee,
		ActorEmail:   actorEmail,
		Referee:      refereeEmail,
	})
}

// assignReferee implements the assign-referee transition. Re-adding an
// existing referee is a no-op on the map. The referee gains the global
// referee role when their directory entry exists; an unknown email still
// becomes a map key so the invitation can go out before they register.
func (e *Engine) assignReferee(ctx context.Context, m *manuscripts.Manuscript, refereeEmail string) (states.State, error) {
	if refereeEmail == "" {
		return "", services.Wrap(services.ErrValidation, "workflow", "assign-referee",
			"a referee is required", nil)
	}
	if _, ok := m.Referees[refereeEmail]; !ok {
		m.Referees[refereeEmail] = manuscripts.RefereeNote{}
	}
	if id, err := e.directory.FetchIDByEmail(ctx, refereeEmail); err == nil {
		if err := e.directory.AddRole(ctx, id, roles.Referee); err != nil {
			return "", err
		}
	} else if !errors.Is(err, services.ErrNotFound) {
		return "", err
	}
	return states.RefereeReview, nil
}

func (e *Engine) removeReferee(m *manuscripts.Manuscript, refereeEmail string) (states.State, error) {
	if refereeEmail == "" {
		return "", services.Wrap(services.ErrValidation, "workflow", "remove-referee",
			"a referee is required", nil)
	}
	if _, ok := m.Referees[refereeEmail]; !ok {
		return "", services.Wrap(services.ErrValidation, "workflow", "remove-referee",
			fmt.Sprintf("referee %s is not assigned to %s", refereeEmail, m.ID), nil)
	}
	delete(m.Referees, refereeEmail)
	if len(m.Referees) == 0 {
		return states.Submitted, nil
	}
	return states.RefereeReview, nil
}

// notifyRefereeAsync dispatches the invitation after the transition has
// committed. Failures are logged and dropped.
func (e *Engine) notifyRefereeAsync(m manuscripts.Manuscript, refereeEmail string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := e.notifier.NotifyReferee(ctx, m, refereeEmail); err != nil {
			e.logger.Warn("referee notification failed",
				"manuscript", m.ID, "referee", refereeEmail, "error", err)
		}
	}()
}
