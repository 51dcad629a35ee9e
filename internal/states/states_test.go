package states_test

import (
	"testing"

	"colophon/internal/states"
)

func TestValidStates(t *testing.T) {
	valid := states.Valid()
	if len(valid) != 10 {
		t.Fatalf("expected 10 states, got %d", len(valid))
	}
	for _, state := range valid {
		if !states.IsValid(state) {
			t.Fatalf("state %q from Valid() not valid", state)
		}
		if _, ok := states.Describe(state); !ok {
			t.Fatalf("state %q has no description", state)
		}
	}
	if states.IsValid("pineapple") {
		t.Fatal("expected unknown state to be invalid")
	}
}

func TestValidActions(t *testing.T) {
	valid := states.ValidActions()
	if len(valid) != 9 {
		t.Fatalf("expected 9 actions, got %d", len(valid))
	}
	for _, action := range valid {
		if !states.IsValidAction(action) {
			t.Fatalf("action %q from ValidActions() not valid", action)
		}
		if _, ok := states.DescribeAction(action); !ok {
			t.Fatalf("action %q has no description", action)
		}
	}
	if states.IsValidAction("defenestrate") {
		t.Fatal("expected unknown action to be invalid")
	}
}

func TestCodeMethods(t *testing.T) {
	if !states.Submitted.IsValid() {
		t.Fatal("submitted should be valid")
	}
	if states.State("pineapple").IsValid() {
		t.Fatal("unknown state should be invalid")
	}
	if got := states.RefereeReview.Describe(); got != "Referees reviewing" {
		t.Fatalf("state Describe() = %q", got)
	}
	if got := states.State("pineapple").Describe(); got != "" {
		t.Fatalf("unknown state Describe() = %q, want empty", got)
	}
	if !states.AssignReferee.IsValid() {
		t.Fatal("assign-referee should be valid")
	}
	if got := states.AcceptWithRev.Describe(); got != "Accept with revisions" {
		t.Fatalf("action Describe() = %q", got)
	}
	if got := states.Action("defenestrate").Describe(); got != "" {
		t.Fatalf("unknown action Describe() = %q, want empty", got)
	}
}

func TestTerminalStates(t *testing.T) {
	terminal := []states.State{states.Published, states.Rejected, states.Withdrawn}
	for _, state := range terminal {
		if !states.Terminal(state) {
			t.Fatalf("expected %q to be terminal", state)
		}
	}
	for _, state := range []states.State{states.Submitted, states.RefereeReview, states.Formatting} {
		if states.Terminal(state) {
			t.Fatalf("expected %q to be non-terminal", state)
		}
	}
}

func TestVerdicts(t *testing.T) {
	for _, verdict := range states.Verdicts {
		if !states.IsValidVerdict(verdict) {
			t.Fatalf("verdict %q not accepted", verdict)
		}
	}
	if states.IsValidVerdict(states.WithdrawAction) {
		t.Fatal("withdraw is not a referee verdict")
	}
}

func TestChoicesCoverEveryCode(t *testing.T) {
	stateChoices := states.StateChoices()
	if len(stateChoices) != len(states.Valid()) {
		t.Fatalf("state choices size = %d, want %d", len(stateChoices), len(states.Valid()))
	}
	actionChoices := states.ActionChoices()
	if len(actionChoices) != len(states.ValidActions()) {
		t.Fatalf("action choices size = %d, want %d", len(actionChoices), len(states.ValidActions()))
	}
}
