package model

import "time"

// Derived view types. All of these are computed from the collections and
// never stored or mutated independently.

type DashboardStats struct {
	TotalProjects  int     `json:"total_projects"`
	TotalTasks     int     `json:"total_tasks"`
	CompletedTasks int     `json:"completed_tasks"`
	PendingTasks   int     `json:"pending_tasks"`
	CompletionRate float64 `json:"completion_rate"`
}

// LeaderboardEntry ranks a user by completed task count.
type LeaderboardEntry struct {
	UserID    int    `json:"user_id"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
	Rank      int    `json:"rank"`
}

type ActivityType string

const (
	ActivityTask    ActivityType = "task"
	ActivityProject ActivityType = "project"
)

// ActivityEvent is one entry of the recent-activity feed.
type ActivityEvent struct {
	Type      ActivityType `json:"type"`
	Title     string       `json:"title"`
	Actor     string       `json:"actor,omitempty"`
	Timestamp time.Time    `json:"timestamp"`
	Status    TaskStatus   `json:"status,omitempty"` // tasks only
}

type StatusDistribution struct {
	Completed  int `json:"completed"`
	InProgress int `json:"in_progress"`
	Todo       int `json:"todo"`
}

func (d StatusDistribution) Total() int {
	return d.Completed + d.InProgress + d.Todo
}

// BoardColumns partitions the project-scoped tasks by status, preserving
// collection order within each column.
type BoardColumns struct {
	Todo       []Task `json:"todo"`
	InProgress []Task `json:"in_progress"`
	Completed  []Task `json:"completed"`
}

// Column returns the tasks of one column.
func (b BoardColumns) Column(status TaskStatus) []Task {
	switch status {
	case StatusTodo:
		return b.Todo
	case StatusInProgress:
		return b.InProgress
	case StatusCompleted:
		return b.Completed
	}
	return nil
}
