package api

import (
	"time"

	"colophon/internal/manuscripts"
	"colophon/internal/people"
	"colophon/internal/states"
	"colophon/internal/texts"
	"colophon/internal/workflow"
)

// AuthorView is one author on a manuscript.
type AuthorView struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// RefereeView is one referee assignment, including any filed review.
type RefereeView struct {
	Email   string `json:"email"`
	Report  string `json:"report,omitempty"`
	Verdict string `json:"verdict,omitempty"`
}

// HistoryView is one audit log entry.
type HistoryView struct {
	Seq         int       `json:"seq"`
	Timestamp   time.Time `json:"timestamp"`
	Action      string    `json:"action"`
	NewState    string    `json:"new_state"`
	Referee     string    `json:"referee,omitempty"`
	TargetState string    `json:"target_state,omitempty"`
}

// ManuscriptView is the full wire representation of a manuscript. Actions
// is populated for per-user listings and is empty otherwise.
type ManuscriptView struct {
	ID          string        `json:"id"`
	Title       string        `json:"title"`
	Abstract    string        `json:"abstract,omitempty"`
	WordCount   int           `json:"word_count,omitempty"`
	Text        string        `json:"text,omitempty"`
	Authors     []AuthorView  `json:"authors"`
	State       string        `json:"state"`
	StateLabel  string        `json:"state_label"`
	Referees    []RefereeView `json:"referees"`
	History     []HistoryView `json:"history"`
	LastUpdated time.Time     `json:"last_updated"`
	Actions     []string      `json:"actions,omitempty"`
}

// CreateManuscriptRequest is the submission payload.
type CreateManuscriptRequest struct {
	Title     string       `json:"title"`
	Abstract  string       `json:"abstract"`
	WordCount int          `json:"word_count"`
	Text      string       `json:"text"`
	Authors   []AuthorView `json:"authors"`
}

// ActionRequest asks the workflow to apply one action. Referee, TargetState,
// Report and Verdict are per-action payload fields.
type ActionRequest struct {
	Action      string `json:"action"`
	ActorEmail  string `json:"actor_email"`
	Referee     string `json:"referee,omitempty"`
	TargetState string `json:"target_state,omitempty"`
	Report      string `json:"report,omitempty"`
	Verdict     string `json:"verdict,omitempty"`
}

// ActionResponse reports the state a manuscript landed in.
type ActionResponse struct {
	ID    string `json:"id"`
	State string `json:"state"`
}

// PersonView is the wire representation of a directory entry.
type PersonView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Affiliation string   `json:"affiliation,omitempty"`
	Position    string   `json:"position,omitempty"`
	Bio         string   `json:"bio,omitempty"`
}

// PersonRequest creates or updates a directory entry.
type PersonRequest struct {
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Roles       []string `json:"roles"`
	Affiliation string   `json:"affiliation,omitempty"`
	Position    string   `json:"position,omitempty"`
	Bio         string   `json:"bio,omitempty"`
}

// MastheadSection groups the masthead members holding one role.
type MastheadSection struct {
	Role    string       `json:"role"`
	Label   string       `json:"label"`
	Members []PersonView `json:"members"`
}

// TextView is the wire representation of a content page.
type TextView struct {
	Title    string    `json:"title"`
	Text     string    `json:"text"`
	Editor   string    `json:"editor,omitempty"`
	LastEdit time.Time `json:"last_edit"`
}

// TextRequest creates or updates a content page.
type TextRequest struct {
	Title  string `json:"title"`
	Text   string `json:"text"`
	Editor string `json:"editor,omitempty"`
}

// CatalogEntry is one state or action with its display label.
type CatalogEntry struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// StatusResponse reports daemon runtime information.
type StatusResponse struct {
	Running      bool   `json:"running"`
	PID          int    `json:"pid"`
	JournalCode  string `json:"journal_code"`
	JournalName  string `json:"journal_name"`
	DatabasePath string `json:"database_path"`
	LockFilePath string `json:"lock_file_path"`
}

// NotifyResponse reports the outcome of a test notification.
type NotifyResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}

func fromManuscript(m manuscripts.Manuscript) ManuscriptView {
	authors := make([]AuthorView, 0, len(m.Authors))
	for _, a := range m.Authors {
		authors = append(authors, AuthorView{Name: a.Name, Email: a.Email})
	}
	referees := make([]RefereeView, 0, len(m.Referees))
	for email, note := range m.Referees {
		referees = append(referees, RefereeView{
			Email:   email,
			Report:  note.Report,
			Verdict: string(note.Verdict),
		})
	}
	history := make([]HistoryView, 0, len(m.History))
	for _, h := range m.History {
		history = append(history, HistoryView{
			Seq:         h.Seq,
			Timestamp:   h.Timestamp,
			Action:      string(h.Action),
			NewState:    string(h.NewState),
			Referee:     h.Referee,
			TargetState: string(h.TargetState),
		})
	}
	return ManuscriptView{
		ID:          m.ID,
		Title:       m.Title,
		Abstract:    m.Abstract,
		WordCount:   m.WordCount,
		Text:        m.Text,
		Authors:     authors,
		State:       string(m.State),
		StateLabel:  m.State.Describe(),
		Referees:    referees,
		History:     history,
		LastUpdated: m.LastUpdated,
	}
}

func fromManuscriptView(v workflow.ManuscriptView) ManuscriptView {
	out := fromManuscript(v.Manuscript)
	out.Actions = make([]string, 0, len(v.Actions))
	for _, a := range v.Actions {
		out.Actions = append(out.Actions, string(a))
	}
	return out
}

func fromPerson(p people.Person) PersonView {
	codes := make([]string, 0, len(p.Roles))
	for _, r := range p.Roles {
		codes = append(codes, string(r))
	}
	return PersonView{
		ID:          p.ID,
		Name:        p.Name,
		Email:       p.Email,
		Roles:       codes,
		Affiliation: p.Affiliation,
		Position:    p.Position,
		Bio:         p.Bio,
	}
}

func fromText(t texts.Text) TextView {
	return TextView{
		Title:    t.Title,
		Text:     t.Text,
		Editor:   t.Editor,
		LastEdit: t.LastEdit,
	}
}

// StateCatalog lists every state with its display label, in pipeline order.
func StateCatalog() []CatalogEntry {
	valid := states.Valid()
	out := make([]CatalogEntry, 0, len(valid))
	for _, s := range valid {
		out = append(out, CatalogEntry{Code: string(s), Label: s.Describe()})
	}
	return out
}

// ActionCatalog lists every action with its display label.
func ActionCatalog() []CatalogEntry {
	valid := states.ValidActions()
	out := make([]CatalogEntry, 0, len(valid))
	for _, a := range valid {
		out = append(out, CatalogEntry{Code: string(a), Label: a.Describe()})
	}
	return out
}

// DashboardColumns lists the dashboard column states in display order.
func DashboardColumns() []CatalogEntry {
	out := make([]CatalogEntry, 0, len(workflow.ColumnOrder()))
	for _, s := range workflow.ColumnOrder() {
		out = append(out, CatalogEntry{Code: string(s), Label: s.Describe()})
	}
	return out
}
