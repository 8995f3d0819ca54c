package model

import (
	"errors"
	"time"
)

// Project statuses are an open set; these are the values the server seeds.
const (
	ProjectStatusPlanning = "planning"
	ProjectStatusActive   = "active"
)

type Project struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Status      string          `json:"status"`
	OwnerID     int             `json:"owner_id"`
	Members     []ProjectMember `json:"members,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`

	// Display hints populated by the list endpoint, never recomputed locally.
	TaskCount      int `json:"task_count,omitempty"`
	CompletedTasks int `json:"completed_tasks,omitempty"`

	// Tasks is only populated by the project detail endpoint.
	Tasks []Task `json:"tasks,omitempty"`
}

type ProjectMember struct {
	UserID   int       `json:"id"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

func (p *Project) Validate() error {
	if p.Name == "" {
		return errors.New("project name is required")
	}
	if p.OwnerID == 0 {
		return errors.New("project owner is required")
	}
	return nil
}
