package mq

import "taskboard/internal/model"

// Routing keys for board events.
const (
	KeyTaskCreated    = "task.created"
	KeyTaskUpdated    = "task.updated"
	KeyTaskDeleted    = "task.deleted"
	KeyProjectCreated = "project.created"
	KeyProjectDeleted = "project.deleted"
)

// TaskEventPayload is broadcast when a task changes.
type TaskEventPayload struct {
	TaskID    int              `json:"task_id"`
	Title     string           `json:"title"`
	Status    model.TaskStatus `json:"status"`
	ProjectID int              `json:"project_id"`
}

// ProjectEventPayload is broadcast when a project changes.
type ProjectEventPayload struct {
	ProjectID int    `json:"project_id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	OwnerID   int    `json:"owner_id"`
}
