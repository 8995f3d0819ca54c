package model

import (
	"errors"
	"fmt"
	"time"
)

type TaskStatus string

const (
	StatusTodo       TaskStatus = "todo"
	StatusInProgress TaskStatus = "in_progress"
	StatusCompleted  TaskStatus = "completed"
)

// TaskStatuses enumerates the board columns in display order.
var TaskStatuses = []TaskStatus{StatusTodo, StatusInProgress, StatusCompleted}

func (s TaskStatus) IsValid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityCritical:
		return true
	}
	return false
}

// Task is a single card on the board. AssigneeID 0 means unassigned.
type Task struct {
	ID          int        `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	Priority    Priority   `json:"priority"`
	ProjectID   int        `json:"project_id"`
	AssigneeID  int        `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date"`
	CreatedAt   time.Time  `json:"created_at"`

	// AssigneeName is a display hint joined in by the list endpoint.
	AssigneeName string `json:"assignee_name,omitempty"`
}

func (t *Task) Validate() error {
	if t.Title == "" {
		return errors.New("task title is required")
	}
	if t.ProjectID == 0 {
		return errors.New("task project is required")
	}
	if !t.Status.IsValid() {
		return fmt.Errorf("invalid task status %q", t.Status)
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("invalid task priority %q", t.Priority)
	}
	return nil
}

// TaskPatch is a partial task update. Nil fields are left untouched; an
// AssigneeID of 0 unassigns the task.
type TaskPatch struct {
	Title       *string     `json:"title,omitempty"`
	Description *string     `json:"description,omitempty"`
	Status      *TaskStatus `json:"status,omitempty"`
	Priority    *Priority   `json:"priority,omitempty"`
	AssigneeID  *int        `json:"assignee_id,omitempty"`
	DueDate     *time.Time  `json:"due_date,omitempty"`
}

func (p TaskPatch) Validate() error {
	if p.Title != nil && *p.Title == "" {
		return errors.New("task title is required")
	}
	if p.Status != nil && !p.Status.IsValid() {
		return fmt.Errorf("invalid task status %q", *p.Status)
	}
	if p.Priority != nil && !p.Priority.IsValid() {
		return fmt.Errorf("invalid task priority %q", *p.Priority)
	}
	return nil
}

// Apply writes the set fields of the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.Priority != nil {
		t.Priority = *p.Priority
	}
	if p.AssigneeID != nil {
		t.AssigneeID = *p.AssigneeID
	}
	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}
}

// StatusPatch builds the one-field patch a board drag produces.
func StatusPatch(status TaskStatus) TaskPatch {
	return TaskPatch{Status: &status}
}
