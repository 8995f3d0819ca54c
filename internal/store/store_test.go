package store

import (
	"errors"
	"reflect"
	"testing"

	"taskboard/internal/model"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	s := New()
	s.Load(
		[]model.User{
			{ID: 1, Name: "John Doe", Role: model.RoleAdmin},
			{ID: 2, Name: "Jane Smith", Role: model.RoleUser},
		},
		[]model.Project{
			{ID: 10, Name: "Website Redesign", Status: model.ProjectStatusActive, OwnerID: 1},
			{ID: 11, Name: "CRM Migration", Status: model.ProjectStatusPlanning, OwnerID: 2},
		},
		[]model.Task{
			{ID: 100, Title: "Design UI", Status: model.StatusTodo, Priority: model.PriorityMedium, ProjectID: 10, AssigneeID: 1},
			{ID: 101, Title: "Develop Backend", Status: model.StatusInProgress, Priority: model.PriorityHigh, ProjectID: 10, AssigneeID: 2},
			{ID: 102, Title: "Testing", Status: model.StatusCompleted, Priority: model.PriorityLow, ProjectID: 11, AssigneeID: 2},
		},
	)
	return s
}

func TestSnapshotIsolation(t *testing.T) {
	s := setupStore(t)
	snap := s.Snapshot()

	if _, err := s.PatchTask(100, model.StatusPatch(model.StatusCompleted)); err != nil {
		t.Fatalf("PatchTask() error = %v", err)
	}

	if snap.Tasks[0].Status != model.StatusTodo {
		t.Error("snapshot observed a later mutation")
	}

	// mutating the snapshot must not reach the store
	snap.Tasks[1].Title = "changed"
	if task, _ := s.Task(101); task.Title != "Develop Backend" {
		t.Error("snapshot mutation leaked into the store")
	}
}

func TestLoadReplacesWholesale(t *testing.T) {
	s := setupStore(t)
	before := s.Revision()

	s.Load(nil, nil, nil)

	snap := s.Snapshot()
	if len(snap.Users)+len(snap.Projects)+len(snap.Tasks) != 0 {
		t.Errorf("expected empty collections, got %+v", snap)
	}
	if snap.Revision != before+1 {
		t.Errorf("revision = %d, want %d", snap.Revision, before+1)
	}
}

func TestPatchTaskReturnsPrevious(t *testing.T) {
	s := setupStore(t)

	prev, err := s.PatchTask(100, model.StatusPatch(model.StatusInProgress))
	if err != nil {
		t.Fatalf("PatchTask() error = %v", err)
	}
	if prev.Status != model.StatusTodo {
		t.Errorf("previous status = %q, want %q", prev.Status, model.StatusTodo)
	}

	task, ok := s.Task(100)
	if !ok || task.Status != model.StatusInProgress {
		t.Errorf("task after patch = %+v", task)
	}
}

func TestPatchTaskMissing(t *testing.T) {
	s := setupStore(t)
	_, err := s.PatchTask(999, model.StatusPatch(model.StatusTodo))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestInsertTaskRequiresProject(t *testing.T) {
	s := setupStore(t)

	err := s.InsertTask(model.Task{
		ID: 200, Title: "Orphan", Status: model.StatusTodo,
		Priority: model.PriorityLow, ProjectID: 999,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestInsertTaskRejectsDuplicate(t *testing.T) {
	s := setupStore(t)

	err := s.InsertTask(model.Task{
		ID: 100, Title: "Dup", Status: model.StatusTodo,
		Priority: model.PriorityLow, ProjectID: 10,
	})
	if err == nil {
		t.Error("expected duplicate id to be rejected")
	}
}

func TestRemoveRestoreTaskRoundTrip(t *testing.T) {
	s := setupStore(t)
	before := s.Snapshot()

	rm, err := s.RemoveTask(101)
	if err != nil {
		t.Fatalf("RemoveTask() error = %v", err)
	}
	if rm.Index != 1 {
		t.Errorf("removal index = %d, want 1", rm.Index)
	}
	if _, ok := s.Task(101); ok {
		t.Fatal("task still present after removal")
	}

	s.RestoreTaskAt(rm)

	after := s.Snapshot()
	if !reflect.DeepEqual(before.Tasks, after.Tasks) {
		t.Errorf("task order not restored:\nbefore %+v\nafter  %+v", before.Tasks, after.Tasks)
	}
}

func TestRemoveProjectCascades(t *testing.T) {
	s := setupStore(t)
	before := s.Snapshot()

	rm, err := s.RemoveProject(10)
	if err != nil {
		t.Fatalf("RemoveProject() error = %v", err)
	}
	if len(rm.Tasks) != 2 {
		t.Fatalf("cascaded tasks = %d, want 2", len(rm.Tasks))
	}

	snap := s.Snapshot()
	for _, task := range snap.Tasks {
		if task.ProjectID == 10 {
			t.Errorf("dangling task %d still references removed project", task.ID)
		}
	}

	s.RestoreProject(rm)

	after := s.Snapshot()
	if !reflect.DeepEqual(before.Projects, after.Projects) {
		t.Errorf("project order not restored")
	}
	if !reflect.DeepEqual(before.Tasks, after.Tasks) {
		t.Errorf("cascaded tasks not restored in order:\nbefore %+v\nafter  %+v", before.Tasks, after.Tasks)
	}
}

func TestReplaceTaskSwapsPlaceholder(t *testing.T) {
	s := setupStore(t)

	placeholder := model.Task{ID: -1, Title: "New", Status: model.StatusTodo, Priority: model.PriorityMedium, ProjectID: 10}
	if err := s.InsertTask(placeholder); err != nil {
		t.Fatalf("InsertTask() error = %v", err)
	}

	created := placeholder
	created.ID = 500
	if err := s.ReplaceTask(-1, created); err != nil {
		t.Fatalf("ReplaceTask() error = %v", err)
	}

	if _, ok := s.Task(-1); ok {
		t.Error("placeholder id still present")
	}
	if task, ok := s.Task(500); !ok || task.Title != "New" {
		t.Errorf("replaced task = %+v, ok = %v", task, ok)
	}
}

func TestSetUserRoleRoundTrip(t *testing.T) {
	s := setupStore(t)

	prev, err := s.SetUserRole(2, model.RoleAdmin)
	if err != nil {
		t.Fatalf("SetUserRole() error = %v", err)
	}
	if prev.Role != model.RoleUser {
		t.Errorf("previous role = %q, want %q", prev.Role, model.RoleUser)
	}

	s.RestoreUser(prev)
	if u, _ := s.User(2); u.Role != model.RoleUser {
		t.Errorf("role after restore = %q", u.Role)
	}
}

func TestSetUserRoleRejectsUnknown(t *testing.T) {
	s := setupStore(t)
	if _, err := s.SetUserRole(1, "owner"); err == nil {
		t.Error("expected unknown role to be rejected")
	}
}

func TestEveryMutationBumpsRevision(t *testing.T) {
	s := setupStore(t)

	steps := []func() error{
		func() error { _, err := s.PatchTask(100, model.StatusPatch(model.StatusCompleted)); return err },
		func() error {
			return s.InsertTask(model.Task{ID: 300, Title: "X", Status: model.StatusTodo, Priority: model.PriorityLow, ProjectID: 10})
		},
		func() error { _, err := s.RemoveTask(300); return err },
		func() error { _, err := s.SetUserRole(1, model.RoleUser); return err },
	}

	rev := s.Revision()
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d error = %v", i, err)
		}
		next := s.Revision()
		if next <= rev {
			t.Errorf("step %d did not bump revision (%d -> %d)", i, rev, next)
		}
		rev = next
	}
}

func TestFailedMutationLeavesRevision(t *testing.T) {
	s := setupStore(t)
	rev := s.Revision()

	if _, err := s.RemoveTask(999); err == nil {
		t.Fatal("expected error")
	}
	if s.Revision() != rev {
		t.Error("failed mutation bumped revision")
	}
}
