// Package manuscripts persists submissions and their review history.
package manuscripts

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"colophon/internal/people"
	"colophon/internal/roles"
	"colophon/internal/services"
	"colophon/internal/states"
	"colophon/internal/store"
)

const collection = "manuscripts"

// Author identifies a manuscript author. The email links the author to a
// directory entry.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RefereeNote holds a referee's submitted review. Report and Verdict stay
// empty until the referee submits.
type RefereeNote struct {
	Report  string        `json:"report,omitempty"`
	Verdict states.Action `json:"verdict,omitempty"`
}

// HistoryEntry records one workflow step. Seq orders entries even when two
// steps land inside the same clock tick.
type HistoryEntry struct {
	Seq         int           `json:"seq"`
	Timestamp   time.Time     `json:"timestamp"`
	Action      states.Action `json:"action"`
	NewState    states.State  `json:"new_state"`
	Referee     string        `json:"referee,omitempty"`
	TargetState states.State  `json:"target_state,omitempty"`
}

// Manuscript is the full persisted record for one submission.
type Manuscript struct {
	ID          string                 `json:"id,omitempty"`
	Title       string                 `json:"title"`
	Abstract    string                 `json:"abstract,omitempty"`
	WordCount   int                    `json:"word_count,omitempty"`
	Text        string                 `json:"text,omitempty"`
	Authors     []Author               `json:"authors"`
	State       states.State           `json:"state"`
	Referees    map[string]RefereeNote `json:"referees"`
	History     []HistoryEntry         `json:"history"`
	LastUpdated time.Time              `json:"last_updated"`
}

// HasAuthor reports whether the given email belongs to one of the
// manuscript's authors.
func (m Manuscript) HasAuthor(email string) bool {
	for _, a := range m.Authors {
		if a.Email == email {
			return true
		}
	}
	return false
}

// HasReferee reports whether the given email is an assigned referee.
func (m Manuscript) HasReferee(email string) bool {
	_, ok := m.Referees[email]
	return ok
}

// NextSeq returns the sequence number the next history entry should carry.
func (m Manuscript) NextSeq() int {
	if len(m.History) == 0 {
		return 1
	}
	return m.History[len(m.History)-1].Seq + 1
}

// Accessor provides storage operations over the manuscripts collection.
type Accessor struct {
	store     *store.Store
	directory *people.Directory
}

func NewAccessor(s *store.Store, d *people.Directory) *Accessor {
	return &Accessor{store: s, directory: d}
}

// Record returns the manuscript with the given id.
func (a *Accessor) Record(ctx context.Context, id string) (Manuscript, error) {
	raw, err := a.store.Get(ctx, collection, id)
	if err != nil {
		return Manuscript{}, err
	}
	if raw == nil {
		return Manuscript{}, services.Wrap(services.ErrNotFound, "manuscripts", "fetch",
			fmt.Sprintf("no manuscript with id %s", id), nil)
	}
	return decode(id, raw)
}

// List returns every manuscript, most recently updated first.
func (a *Accessor) List(ctx context.Context) ([]Manuscript, error) {
	raw, err := a.store.All(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := make([]Manuscript, 0, len(raw))
	for id, doc := range raw {
		m, err := decode(id, doc)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastUpdated.After(out[j].LastUpdated) })
	return out, nil
}

// ByState returns every manuscript currently in the given state.
func (a *Accessor) ByState(ctx context.Context, state states.State) ([]Manuscript, error) {
	if !state.IsValid() {
		return nil, services.Wrap(services.ErrInvalidState, "manuscripts", "by-state",
			fmt.Sprintf("unknown state %q", state), nil)
	}
	all, err := a.List(ctx)
	if err != nil {
		return nil, err
	}
	var out []Manuscript
	for _, m := range all {
		if m.State == state {
			out = append(out, m)
		}
	}
	return out, nil
}

// Add stores a new submission. The manuscript starts in the submitted state
// with a single history entry, and every author gets a directory entry with
// the author role.
func (a *Accessor) Add(ctx context.Context, m Manuscript) (string, error) {
	if m.Title == "" {
		return "", services.Wrap(services.ErrValidation, "manuscripts", "add", "title is required", nil)
	}
	if len(m.Authors) == 0 {
		return "", services.Wrap(services.ErrValidation, "manuscripts", "add", "at least one author is required", nil)
	}
	for _, author := range m.Authors {
		if author.Name == "" || author.Email == "" {
			return "", services.Wrap(services.ErrValidation, "manuscripts", "add",
				"every author needs a name and email", nil)
		}
	}

	now := time.Now().UTC()
	m.ID = ""
	m.State = states.Submitted
	if m.Referees == nil {
		m.Referees = map[string]RefereeNote{}
	}
	// The seed entry records the submission itself; the state code doubles
	// as the action since no table action produced it.
	m.History = []HistoryEntry{{
		Seq:       1,
		Timestamp: now,
		Action:    states.Action(states.Submitted),
		NewState:  states.Submitted,
	}}
	m.LastUpdated = now

	id, err := a.store.Add(ctx, collection, m)
	if err != nil {
		return "", err
	}
	for _, author := range m.Authors {
		if _, err := a.directory.PossiblyNewPersonAddRole(ctx, author.Name, author.Email, roles.Author); err != nil {
			return "", services.Wrap(nil, "manuscripts", "add", "registering author failed", err)
		}
	}
	return id, nil
}

// Update replaces the stored record. Callers are expected to have read the
// record through Record first.
func (a *Accessor) Update(ctx context.Context, m Manuscript) error {
	if m.ID == "" {
		return services.Wrap(services.ErrValidation, "manuscripts", "update", "manuscript id is required", nil)
	}
	id := m.ID
	m.ID = ""
	m.LastUpdated = time.Now().UTC()
	return a.store.Put(ctx, collection, id, m)
}

// SetState updates only the manuscript's state field.
func (a *Accessor) SetState(ctx context.Context, id string, state states.State) error {
	return a.patch(ctx, id, map[string]any{"state": state})
}

// SetText replaces the manuscript's full text.
func (a *Accessor) SetText(ctx context.Context, id, text string) error {
	return a.patch(ctx, id, map[string]any{"text": text})
}

// SetReferees replaces the referee assignment map.
func (a *Accessor) SetReferees(ctx context.Context, id string, referees map[string]RefereeNote) error {
	return a.patch(ctx, id, map[string]any{"referees": referees})
}

// AppendHistory adds an entry to the manuscript's history, assigning the
// next sequence number.
func (a *Accessor) AppendHistory(ctx context.Context, id string, entry HistoryEntry) error {
	m, err := a.Record(ctx, id)
	if err != nil {
		return err
	}
	entry.Seq = m.NextSeq()
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}
	return a.patch(ctx, id, map[string]any{"history": append(m.History, entry)})
}

// Delete removes a manuscript record.
func (a *Accessor) Delete(ctx context.Context, id string) error {
	removed, err := a.store.Delete(ctx, collection, id)
	if err != nil {
		return err
	}
	if !removed {
		return services.Wrap(services.ErrNotFound, "manuscripts", "delete",
			fmt.Sprintf("no manuscript with id %s", id), nil)
	}
	return nil
}

func (a *Accessor) patch(ctx context.Context, id string, fields map[string]any) error {
	fields["last_updated"] = time.Now().UTC()
	return a.store.Patch(ctx, collection, id, fields)
}

func decode(id string, raw json.RawMessage) (Manuscript, error) {
	var m Manuscript
	if err := json.Unmarshal(raw, &m); err != nil {
		return Manuscript{}, services.Wrap(nil, "manuscripts", "fetch", "corrupt manuscript record", err)
	}
	m.ID = id
	if m.Referees == nil {
		m.Referees = map[string]RefereeNote{}
	}
	return m, nil
}
