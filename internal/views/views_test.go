package views

import (
	"reflect"
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

func day(n int) time.Time {
	return time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func setupSnapshot(t *testing.T) store.Snapshot {
	t.Helper()

	s := store.New()
	s.Load(
		[]model.User{
			{ID: 1, Name: "Alice"},
			{ID: 2, Name: "Bob"},
			{ID: 3, Name: "Carol"},
			{ID: 4, Name: "Dave"},
		},
		[]model.Project{
			{ID: 10, Name: "Website Redesign", Status: "active", OwnerID: 1, CreatedAt: day(1)},
			{ID: 11, Name: "CRM Migration", Status: "planning", OwnerID: 2, CreatedAt: day(2)},
		},
		[]model.Task{
			{ID: 100, Title: "Design UI", Status: model.StatusCompleted, Priority: model.PriorityMedium, ProjectID: 10, AssigneeID: 1, CreatedAt: day(3)},
			{ID: 101, Title: "Develop Backend", Status: model.StatusCompleted, Priority: model.PriorityHigh, ProjectID: 10, AssigneeID: 2, CreatedAt: day(4)},
			{ID: 102, Title: "Testing", Status: model.StatusInProgress, Priority: model.PriorityLow, ProjectID: 10, AssigneeID: 2, CreatedAt: day(5)},
			{ID: 103, Title: "Deployment", Status: model.StatusTodo, Priority: model.PriorityCritical, ProjectID: 11, AssigneeID: 3, CreatedAt: day(6)},
			{ID: 104, Title: "Documentation", Status: model.StatusCompleted, Priority: model.PriorityLow, ProjectID: 11, AssigneeID: 1, CreatedAt: day(7)},
		},
	)
	return s.Snapshot()
}

func TestDashboard(t *testing.T) {
	stats := Dashboard(setupSnapshot(t))

	if stats.TotalProjects != 2 {
		t.Errorf("total projects = %d, want 2", stats.TotalProjects)
	}
	if stats.TotalTasks != 5 {
		t.Errorf("total tasks = %d, want 5", stats.TotalTasks)
	}
	if stats.CompletedTasks != 3 {
		t.Errorf("completed = %d, want 3", stats.CompletedTasks)
	}
	// pending counts todo only, in_progress is neither
	if stats.PendingTasks != 1 {
		t.Errorf("pending = %d, want 1", stats.PendingTasks)
	}
	if stats.CompletionRate != 60 {
		t.Errorf("completion rate = %v, want 60", stats.CompletionRate)
	}
}

func TestDashboardEmpty(t *testing.T) {
	s := store.New()
	stats := Dashboard(s.Snapshot())
	if stats.CompletionRate != 0 {
		t.Errorf("completion rate of empty workspace = %v, want 0", stats.CompletionRate)
	}
}

func TestLeaderboardRankingAndTruncation(t *testing.T) {
	entries := Leaderboard(setupSnapshot(t))

	if len(entries) != 3 {
		t.Fatalf("leaderboard size = %d, want 3", len(entries))
	}
	if entries[0].Name != "Alice" || entries[0].Completed != 2 {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Name != "Bob" || entries[1].Completed != 1 {
		t.Errorf("entry 1 = %+v", entries[1])
	}
	if entries[2].Completed != 0 {
		t.Errorf("entry 2 = %+v", entries[2])
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("rank of entry %d = %d", i, e.Rank)
		}
	}
}

func TestLeaderboardTieKeepsCollectionOrder(t *testing.T) {
	s := store.New()
	s.Load(
		[]model.User{{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}, {ID: 3, Name: "Carol"}},
		[]model.Project{{ID: 1, Name: "P", OwnerID: 1}},
		[]model.Task{
			{ID: 1, Title: "a", Status: model.StatusCompleted, ProjectID: 1, AssigneeID: 1, CreatedAt: day(1)},
			{ID: 2, Title: "b", Status: model.StatusCompleted, ProjectID: 1, AssigneeID: 2, CreatedAt: day(2)},
			{ID: 3, Title: "c", Status: model.StatusCompleted, ProjectID: 1, AssigneeID: 3, CreatedAt: day(3)},
		},
	)

	entries := Leaderboard(s.Snapshot())
	names := []string{entries[0].Name, entries[1].Name, entries[2].Name}
	if names[0] != "Alice" || names[1] != "Bob" || names[2] != "Carol" {
		t.Errorf("tie order = %v, want collection order", names)
	}
}

func TestLeaderboardSortsTiedCountsByCollectionOrder(t *testing.T) {
	s := store.New()
	tasks := []model.Task{}
	id := 1
	addCompleted := func(assignee, n int) {
		for i := 0; i < n; i++ {
			tasks = append(tasks, model.Task{
				ID: id, Title: "t", Status: model.StatusCompleted,
				ProjectID: 1, AssigneeID: assignee, CreatedAt: day(id),
			})
			id++
		}
	}
	addCompleted(1, 3) // Alice: 3
	addCompleted(2, 3) // Bob: 3
	addCompleted(3, 1) // Carol: 1

	// Carol sits first in the collection but loses on count; the Alice/Bob
	// tie resolves to their collection order.
	s.Load(
		[]model.User{{ID: 3, Name: "Carol"}, {ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}},
		[]model.Project{{ID: 1, Name: "P", OwnerID: 1}},
		tasks,
	)

	entries := Leaderboard(s.Snapshot())
	want := []model.LeaderboardEntry{
		{UserID: 1, Name: "Alice", Completed: 3, Rank: 1},
		{UserID: 2, Name: "Bob", Completed: 3, Rank: 2},
		{UserID: 3, Name: "Carol", Completed: 1, Rank: 3},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("leaderboard = %+v, want %+v", entries, want)
	}
}

func TestActivityWindowAndOrder(t *testing.T) {
	events := Activity(setupSnapshot(t))

	// 5 tasks + 2 projects, all within the windows
	if len(events) != 7 {
		t.Fatalf("activity size = %d, want 7", len(events))
	}
	for i := 1; i < len(events); i++ {
		if events[i].Timestamp.After(events[i-1].Timestamp) {
			t.Errorf("events not sorted descending at %d", i)
		}
	}
	if events[0].Title != "Documentation" {
		t.Errorf("newest event = %q, want Documentation", events[0].Title)
	}
}

func TestActivityWindowIsPositional(t *testing.T) {
	s := store.New()
	tasks := make([]model.Task, 0, 8)
	for i := 0; i < 8; i++ {
		tasks = append(tasks, model.Task{
			ID: 100 + i, Title: "t", Status: model.StatusTodo,
			ProjectID: 1, CreatedAt: day(i),
		})
	}
	s.Load(nil, []model.Project{{ID: 1, Name: "P", OwnerID: 1}}, tasks)

	events := Activity(s.Snapshot())
	// 5 task window + 1 project
	if len(events) != 6 {
		t.Fatalf("activity size = %d, want 6", len(events))
	}
	// the first three tasks sit outside the positional window
	for _, ev := range events {
		if ev.Type == model.ActivityTask && ev.Timestamp.Before(day(3)) {
			t.Errorf("event outside the task window included: %+v", ev)
		}
	}
}

func TestActivityEqualTimestampsTasksFirst(t *testing.T) {
	ts := day(1)
	s := store.New()
	s.Load(
		[]model.User{{ID: 1, Name: "Alice"}},
		[]model.Project{{ID: 1, Name: "Same Instant", OwnerID: 1, CreatedAt: ts}},
		[]model.Task{{ID: 1, Title: "Same Instant Task", Status: model.StatusTodo, ProjectID: 1, CreatedAt: ts}},
	)

	events := Activity(s.Snapshot())
	if len(events) != 2 {
		t.Fatalf("activity size = %d, want 2", len(events))
	}
	if events[0].Type != model.ActivityTask {
		t.Errorf("equal timestamps: first event type = %q, want task", events[0].Type)
	}
}

func TestDistributionSumsToTotal(t *testing.T) {
	snap := setupSnapshot(t)
	d := Distribution(snap)

	if got := d.Total(); got != len(snap.Tasks) {
		t.Errorf("distribution sum = %d, want %d", got, len(snap.Tasks))
	}
	if d.Completed != 3 || d.InProgress != 1 || d.Todo != 1 {
		t.Errorf("distribution = %+v", d)
	}
}

func TestDistributionAndRateExample(t *testing.T) {
	s := store.New()
	statuses := []model.TaskStatus{
		model.StatusCompleted, model.StatusCompleted, model.StatusInProgress, model.StatusTodo,
	}
	tasks := make([]model.Task, 0, len(statuses))
	for i, st := range statuses {
		tasks = append(tasks, model.Task{ID: i + 1, Title: "t", Status: st, ProjectID: 1})
	}
	s.Load(nil, []model.Project{{ID: 1, Name: "P", OwnerID: 1}}, tasks)
	snap := s.Snapshot()

	d := Distribution(snap)
	if d.Completed != 2 || d.InProgress != 1 || d.Todo != 1 {
		t.Errorf("distribution = %+v, want {2 1 1}", d)
	}
	if rate := Dashboard(snap).CompletionRate; rate != 50.0 {
		t.Errorf("completion rate = %v, want 50.0", rate)
	}
}

func TestColumnsSeeOnlyFilteredTasks(t *testing.T) {
	snap := setupSnapshot(t)

	cols := Columns(snap, Filter{ProjectID: 10})
	if len(cols.Completed) != 2 || len(cols.InProgress) != 1 || len(cols.Todo) != 0 {
		t.Errorf("project-scoped columns = %+v", cols)
	}

	// the filter only narrows the board, never the dashboard numbers
	stats := Dashboard(snap)
	if stats.TotalTasks != 5 {
		t.Errorf("dashboard saw the board filter: %+v", stats)
	}
}

func TestColumnsPreserveOrder(t *testing.T) {
	snap := setupSnapshot(t)
	cols := Columns(snap, Filter{})

	if len(cols.Completed) != 3 {
		t.Fatalf("completed column size = %d, want 3", len(cols.Completed))
	}
	if cols.Completed[0].ID != 100 || cols.Completed[1].ID != 101 || cols.Completed[2].ID != 104 {
		t.Errorf("completed column order = %v", []int{cols.Completed[0].ID, cols.Completed[1].ID, cols.Completed[2].ID})
	}
}

func TestDanglingAssigneeDegradesToHint(t *testing.T) {
	s := store.New()
	s.Load(
		nil,
		[]model.Project{{ID: 1, Name: "P", OwnerID: 1}},
		[]model.Task{{
			ID: 1, Title: "Ghost", Status: model.StatusTodo, ProjectID: 1,
			AssigneeID: 42, AssigneeName: "Departed User", CreatedAt: day(1),
		}},
	)

	events := Activity(s.Snapshot())
	if len(events) != 1 {
		t.Fatalf("activity size = %d", len(events))
	}
	if events[0].Actor != "Departed User" {
		t.Errorf("actor = %q, want display hint", events[0].Actor)
	}
}
