package model

import (
	"testing"
	"time"
)

func TestTaskStatusIsValid(t *testing.T) {
	valid := []TaskStatus{StatusTodo, StatusInProgress, StatusCompleted}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	invalid := []TaskStatus{"", "done", "TODO", "archived"}
	for _, s := range invalid {
		if s.IsValid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestPriorityIsValid(t *testing.T) {
	for _, p := range []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical} {
		if !p.IsValid() {
			t.Errorf("expected %q to be valid", p)
		}
	}
	if Priority("urgent").IsValid() {
		t.Error("expected unknown priority to be invalid")
	}
}

func TestTaskValidate(t *testing.T) {
	base := Task{
		Title:     "Design UI",
		Status:    StatusTodo,
		Priority:  PriorityMedium,
		ProjectID: 1,
	}

	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr bool
	}{
		{"valid", func(*Task) {}, false},
		{"missing title", func(task *Task) { task.Title = "" }, true},
		{"missing project", func(task *Task) { task.ProjectID = 0 }, true},
		{"bad status", func(task *Task) { task.Status = "done" }, true},
		{"bad priority", func(task *Task) { task.Priority = "urgent" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := base
			tt.mutate(&task)
			err := task.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestTaskPatchApply(t *testing.T) {
	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	task := Task{
		ID:         7,
		Title:      "Develop Backend",
		Status:     StatusTodo,
		Priority:   PriorityLow,
		ProjectID:  2,
		AssigneeID: 3,
	}

	title := "Develop Backend v2"
	status := StatusInProgress
	unassign := 0
	patch := TaskPatch{
		Title:      &title,
		Status:     &status,
		AssigneeID: &unassign,
		DueDate:    &due,
	}
	patch.Apply(&task)

	if task.Title != title {
		t.Errorf("title = %q, want %q", task.Title, title)
	}
	if task.Status != StatusInProgress {
		t.Errorf("status = %q, want %q", task.Status, StatusInProgress)
	}
	if task.AssigneeID != 0 {
		t.Errorf("assignee = %d, want 0", task.AssigneeID)
	}
	if task.DueDate == nil || !task.DueDate.Equal(due) {
		t.Errorf("due date = %v, want %v", task.DueDate, due)
	}
	// untouched fields survive
	if task.Priority != PriorityLow || task.ProjectID != 2 {
		t.Errorf("unset fields changed: %+v", task)
	}
}

func TestTaskPatchValidate(t *testing.T) {
	empty := ""
	bad := TaskStatus("done")
	if err := (TaskPatch{Title: &empty}).Validate(); err == nil {
		t.Error("expected error for empty title patch")
	}
	if err := (TaskPatch{Status: &bad}).Validate(); err == nil {
		t.Error("expected error for unknown status patch")
	}
	if err := (TaskPatch{}).Validate(); err != nil {
		t.Errorf("empty patch should be valid, got %v", err)
	}
}

func TestStatusPatch(t *testing.T) {
	patch := StatusPatch(StatusCompleted)
	if patch.Status == nil || *patch.Status != StatusCompleted {
		t.Fatalf("StatusPatch() = %+v", patch)
	}
	if patch.Title != nil || patch.AssigneeID != nil {
		t.Errorf("StatusPatch() set unexpected fields: %+v", patch)
	}
}
