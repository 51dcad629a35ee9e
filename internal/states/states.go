// Package states enumerates the manuscript lifecycle states and the action
// vocabulary, independent of the transition table. The same action code can
// mean different things in different states; this package only answers
// "is this code known" and "how is it displayed".
package states

// State is a manuscript's position in the editorial pipeline.
type State string

const (
	AuthorReview    State = "author-review"
	AuthorRevisions State = "author-revisions"
	CopyEditing     State = "copy-editing"
	EditorReview    State = "editor-review"
	Formatting      State = "formatting"
	Published       State = "published"
	RefereeReview   State = "referee-review"
	Rejected        State = "rejected"
	Submitted       State = "submitted"
	Withdrawn       State = "withdrawn"
)

// Action is a caller-initiated request to move a manuscript, interpreted
// relative to its current state.
type Action string

const (
	Accept         Action = "accept"
	AcceptWithRev  Action = "accept-with-revisions"
	AssignReferee  Action = "assign-referee"
	Done           Action = "done"
	EditorMove     Action = "editor-move"
	Reject         Action = "reject"
	RemoveReferee  Action = "remove-referee"
	SubmitReview   Action = "submit-review"
	WithdrawAction Action = "withdraw"
)

var stateDescriptions = map[State]string{
	AuthorReview:    "Awaiting author review",
	AuthorRevisions: "Author revising",
	CopyEditing:     "Copy editing",
	EditorReview:    "Awaiting editor review",
	Formatting:      "Undergoing formatting",
	Published:       "Published",
	RefereeReview:   "Referees reviewing",
	Rejected:        "Rejected",
	Submitted:       "Submitted",
	Withdrawn:       "Author has withdrawn",
}

var actionDescriptions = map[Action]string{
	Accept:         "Accept",
	AcceptWithRev:  "Accept with revisions",
	AssignReferee:  "Assign a new referee",
	Done:           "Done",
	EditorMove:     "Editor forces a state change",
	Reject:         "Reject",
	RemoveReferee:  "Remove a referee",
	SubmitReview:   "Submit your review",
	WithdrawAction: "Author withdraws",
}

var orderedStates = []State{
	Submitted,
	RefereeReview,
	AuthorRevisions,
	EditorReview,
	CopyEditing,
	AuthorReview,
	Formatting,
	Published,
	Rejected,
	Withdrawn,
}

var orderedActions = []Action{
	Accept,
	AcceptWithRev,
	AssignReferee,
	Done,
	EditorMove,
	Reject,
	RemoveReferee,
	SubmitReview,
	WithdrawAction,
}

// IsValid reports whether the state code is known.
func (s State) IsValid() bool {
	return IsValid(s)
}

// Describe returns the state's display text, or empty for unknown codes.
func (s State) Describe() string {
	descr, _ := Describe(s)
	return descr
}

// IsValid reports whether the action code is known.
func (a Action) IsValid() bool {
	return IsValidAction(a)
}

// Describe returns the action's display text, or empty for unknown codes.
func (a Action) Describe() string {
	descr, _ := DescribeAction(a)
	return descr
}

// Valid returns every known state in pipeline order, terminal states last.
func Valid() []State {
	out := make([]State, len(orderedStates))
	copy(out, orderedStates)
	return out
}

// IsValid reports whether code names a known state.
func IsValid(code State) bool {
	_, ok := stateDescriptions[code]
	return ok
}

// Describe returns the display text for a state.
func Describe(code State) (string, bool) {
	descr, ok := stateDescriptions[code]
	return descr, ok
}

// Terminal reports whether a state has no outgoing transitions.
func Terminal(code State) bool {
	switch code {
	case Published, Rejected, Withdrawn:
		return true
	}
	return false
}

// ValidActions returns every known action code in stable order.
func ValidActions() []Action {
	out := make([]Action, len(orderedActions))
	copy(out, orderedActions)
	return out
}

// IsValidAction reports whether code names a known action.
func IsValidAction(code Action) bool {
	_, ok := actionDescriptions[code]
	return ok
}

// DescribeAction returns the display text for an action.
func DescribeAction(code Action) (string, bool) {
	descr, ok := actionDescriptions[code]
	return descr, ok
}

// StateChoices returns the state code to display text mapping.
func StateChoices() map[State]string {
	out := make(map[State]string, len(stateDescriptions))
	for code, descr := range stateDescriptions {
		out[code] = descr
	}
	return out
}

// ActionChoices returns the action code to display text mapping.
func ActionChoices() map[Action]string {
	out := make(map[Action]string, len(actionDescriptions))
	for code, descr := range actionDescriptions {
		out[code] = descr
	}
	return out
}

// Verdicts are what a referee can say about a manuscript in a review.
var Verdicts = []Action{Accept, AcceptWithRev, Reject}

// IsValidVerdict reports whether code is a referee verdict.
func IsValidVerdict(code Action) bool {
	for _, verdict := range Verdicts {
		if verdict == code {
			return true
		}
	}
	return false
}
