package api_test

import (
	"testing"

	"colophon/internal/api"
	"colophon/internal/states"
	"colophon/internal/workflow"
)

func TestStateCatalogOrderAndLabels(t *testing.T) {
	catalog := api.StateCatalog()
	valid := states.Valid()
	if len(catalog) != len(valid) {
		t.Fatalf("catalog size = %d, want %d", len(catalog), len(valid))
	}
	for i, entry := range catalog {
		if entry.Code != string(valid[i]) {
			t.Fatalf("entry %d code = %q, want %q", i, entry.Code, valid[i])
		}
		if entry.Label != valid[i].Describe() {
			t.Fatalf("entry %d label = %q, want %q", i, entry.Label, valid[i].Describe())
		}
	}
	if catalog[0].Code != string(states.Submitted) {
		t.Fatalf("first state = %q, want submitted", catalog[0].Code)
	}
}

func TestActionCatalogOrderAndLabels(t *testing.T) {
	catalog := api.ActionCatalog()
	valid := states.ValidActions()
	if len(catalog) != len(valid) {
		t.Fatalf("catalog size = %d, want %d", len(catalog), len(valid))
	}
	for i, entry := range catalog {
		if entry.Code != string(valid[i]) {
			t.Fatalf("entry %d code = %q, want %q", i, entry.Code, valid[i])
		}
		if entry.Label != valid[i].Describe() {
			t.Fatalf("entry %d label = %q, want %q", i, entry.Label, valid[i].Describe())
		}
	}
}

func TestDashboardColumnsMatchColumnOrder(t *testing.T) {
	columns := api.DashboardColumns()
	order := workflow.ColumnOrder()
	if len(columns) != len(order) {
		t.Fatalf("columns size = %d, want %d", len(columns), len(order))
	}
	for i, entry := range columns {
		if entry.Code != string(order[i]) {
			t.Fatalf("column %d = %q, want %q", i, entry.Code, order[i])
		}
	}
}
