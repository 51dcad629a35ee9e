// Package roles enumerates the permission classifications a person can hold
// in the journal. Roles are held globally but interpreted per manuscript by
// the workflow engine's role resolution.
package roles

// Role is a two-letter role code.
type Role string

const (
	Author         Role = "AU"
	CopyEditor     Role = "CO"
	DeputyEditor   Role = "DE"
	EditorialBoard Role = "EB"
	Editor         Role = "ED"
	JuniorEditor   Role = "JE"
	ManagingEditor Role = "ME"
	Referee        Role = "RE"
	SeniorAdvisor  Role = "SE"
	SpecialAdvisor Role = "SP"
)

var descriptions = map[Role]string{
	Author:         "Author",
	CopyEditor:     "Copy Editor",
	DeputyEditor:   "Deputy Editor",
	EditorialBoard: "Editorial Board",
	Editor:         "Editor",
	JuniorEditor:   "Junior Editor",
	ManagingEditor: "Managing Editor",
	Referee:        "Referee",
	SeniorAdvisor:  "Senior Advisor",
	SpecialAdvisor: "Special Advisor Council",
}

var ordered = []Role{
	Author,
	CopyEditor,
	DeputyEditor,
	EditorialBoard,
	Editor,
	JuniorEditor,
	ManagingEditor,
	Referee,
	SeniorAdvisor,
	SpecialAdvisor,
}

// mastheadRoles is the subset of roles shown on the public masthead.
var mastheadRoles = []Role{Editor, EditorialBoard, JuniorEditor, SeniorAdvisor, SpecialAdvisor}

// IsValid reports whether the role code is known.
func (r Role) IsValid() bool {
	return IsValid(r)
}

// Describe returns the role's display text, or empty for unknown codes.
func (r Role) Describe() string {
	descr, _ := Describe(r)
	return descr
}

// Valid returns every known role code in stable order.
func Valid() []Role {
	out := make([]Role, len(ordered))
	copy(out, ordered)
	return out
}

// IsValid reports whether code names a known role.
func IsValid(code Role) bool {
	_, ok := descriptions[code]
	return ok
}

// Describe returns the display text for a role code.
func Describe(code Role) (string, bool) {
	descr, ok := descriptions[code]
	return descr, ok
}

// Masthead returns the role codes displayed publicly, in display order.
func Masthead() []Role {
	out := make([]Role, len(mastheadRoles))
	copy(out, mastheadRoles)
	return out
}

// Choices returns the role code to display text mapping used by UI forms.
func Choices() map[Role]string {
	out := make(map[Role]string, len(descriptions))
	for code, descr := range descriptions {
		out[code] = descr
	}
	return out
}
