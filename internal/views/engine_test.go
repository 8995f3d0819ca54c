package views

import (
	"reflect"
	"testing"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

func TestEngineServesCachedValueForSameRevision(t *testing.T) {
	e := NewEngine()
	snap := setupSnapshot(t)

	first := e.Leaderboard(snap)
	second := e.Leaderboard(snap)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached output differs from recomputation")
	}
	// same backing array proves the memo was served
	if len(first) > 0 && &first[0] != &second[0] {
		t.Error("expected the memoized slice for an unchanged revision")
	}
}

func TestEngineRecomputesOnNewRevision(t *testing.T) {
	s := store.New()
	s.Load(
		[]model.User{{ID: 1, Name: "Alice"}},
		[]model.Project{{ID: 1, Name: "P", OwnerID: 1}},
		[]model.Task{{ID: 1, Title: "a", Status: model.StatusTodo, Priority: model.PriorityLow, ProjectID: 1}},
	)

	e := NewEngine()
	before := e.Dashboard(s.Snapshot())
	if before.CompletedTasks != 0 {
		t.Fatalf("unexpected initial stats %+v", before)
	}

	if _, err := s.PatchTask(1, model.StatusPatch(model.StatusCompleted)); err != nil {
		t.Fatalf("PatchTask() error = %v", err)
	}

	after := e.Dashboard(s.Snapshot())
	if after.CompletedTasks != 1 {
		t.Errorf("stats after mutation = %+v, memo went stale", after)
	}
}

func TestEngineColumnsKeyedOnFilter(t *testing.T) {
	e := NewEngine()
	snap := setupSnapshot(t)

	all := e.Columns(snap, Filter{})
	scoped := e.Columns(snap, Filter{ProjectID: 11})

	if len(all.Completed) == len(scoped.Completed) {
		t.Error("filter change did not recompute the columns")
	}

	// flipping back recomputes again rather than serving the scoped value
	again := e.Columns(snap, Filter{})
	if !reflect.DeepEqual(all, again) {
		t.Errorf("columns for repeated filter differ: %+v vs %+v", all, again)
	}
}

func TestEngineMatchesPureFunctions(t *testing.T) {
	e := NewEngine()
	snap := setupSnapshot(t)

	if got, want := e.Dashboard(snap), Dashboard(snap); got != want {
		t.Errorf("Dashboard() = %+v, want %+v", got, want)
	}
	if got, want := e.Distribution(snap), Distribution(snap); got != want {
		t.Errorf("Distribution() = %+v, want %+v", got, want)
	}
	if got, want := e.Activity(snap), Activity(snap); !reflect.DeepEqual(got, want) {
		t.Errorf("Activity() = %+v, want %+v", got, want)
	}
}
