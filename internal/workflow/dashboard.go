package workflow

import "colophon/internal/states"

// columnOrder is the left-to-right board layout for manuscripts still in
// flight. Terminal states are not columns.
var columnOrder = []states.State{
	states.Submitted,
	states.RefereeReview,
	states.AuthorRevisions,
	states.EditorReview,
	states.CopyEditing,
	states.AuthorReview,
	states.Formatting,
}

// ColumnOrder returns the dashboard column layout.
func ColumnOrder() []states.State {
	out := make([]states.State, len(columnOrder))
	copy(out, columnOrder)
	return out
}

// IsColumn reports whether the given state appears on the dashboard.
func IsColumn(state states.State) bool {
	for _, s := range columnOrder {
		if s == state {
			return true
		}
	}
	return false
}
