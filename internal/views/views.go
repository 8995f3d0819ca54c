// Package views computes the derived read models (dashboard stats,
// leaderboard, activity feed, status distribution, board columns) from a
// store snapshot. Every computation here is a pure function of the snapshot
// and the active filter; nothing in this package mutates its inputs.
package views

import (
	"sort"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

const (
	activityTaskWindow    = 5
	activityProjectWindow = 3
	leaderboardSize       = 3
)

// Dashboard computes workspace-wide statistics. The numbers match what the
// server's stats endpoint reports for the same collections.
func Dashboard(snap store.Snapshot) model.DashboardStats {
	stats := model.DashboardStats{
		TotalProjects: len(snap.Projects),
		TotalTasks:    len(snap.Tasks),
	}
	for _, t := range snap.Tasks {
		switch t.Status {
		case model.StatusCompleted:
			stats.CompletedTasks++
		case model.StatusTodo:
			stats.PendingTasks++
		}
	}
	if stats.TotalTasks > 0 {
		stats.CompletionRate = float64(stats.CompletedTasks) / float64(stats.TotalTasks) * 100
	}
	return stats
}

// Leaderboard ranks users by completed task count, descending, truncated to
// the top three. Ties keep the user collection order.
func Leaderboard(snap store.Snapshot) []model.LeaderboardEntry {
	completed := make(map[int]int, len(snap.Users))
	for _, t := range snap.Tasks {
		if t.Status == model.StatusCompleted && t.AssigneeID != 0 {
			completed[t.AssigneeID]++
		}
	}

	entries := make([]model.LeaderboardEntry, 0, len(snap.Users))
	for _, u := range snap.Users {
		entries = append(entries, model.LeaderboardEntry{
			UserID:    u.ID,
			Name:      u.Name,
			Completed: completed[u.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Completed > entries[j].Completed
	})

	if len(entries) > leaderboardSize {
		entries = entries[:leaderboardSize]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// Activity builds the recent-activity feed from the last five tasks and last
// three projects in collection order, merged tasks-first and sorted by
// timestamp descending. On equal timestamps the merge order is kept, so a
// task created at the same instant as a project sorts ahead of it. The window
// is taken by collection position, not by recency; an old task sitting at the
// tail of the collection is included while a newer one further up is not.
func Activity(snap store.Snapshot) []model.ActivityEvent {
	tasks := tail(snap.Tasks, activityTaskWindow)
	projects := tailProjects(snap.Projects, activityProjectWindow)

	events := make([]model.ActivityEvent, 0, len(tasks)+len(projects))
	for _, t := range tasks {
		events = append(events, model.ActivityEvent{
			Type:      model.ActivityTask,
			Title:     t.Title,
			Actor:     taskActor(snap.Users, t),
			Timestamp: t.CreatedAt,
			Status:    t.Status,
		})
	}
	for _, p := range projects {
		events = append(events, model.ActivityEvent{
			Type:      model.ActivityProject,
			Title:     p.Name,
			Actor:     userName(snap.Users, p.OwnerID),
			Timestamp: p.CreatedAt,
		})
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
	return events
}

// Distribution buckets the full task collection by status. The buckets always
// sum to the total task count.
func Distribution(snap store.Snapshot) model.StatusDistribution {
	var d model.StatusDistribution
	for _, t := range snap.Tasks {
		switch t.Status {
		case model.StatusCompleted:
			d.Completed++
		case model.StatusInProgress:
			d.InProgress++
		case model.StatusTodo:
			d.Todo++
		}
	}
	return d
}

// Columns partitions the filtered tasks into the three board columns,
// preserving collection order within each column. Unlike the dashboard views
// this computation sees only the project-scoped subset: changing the board
// filter moves cards between being visible and hidden but never changes the
// workspace statistics.
func Columns(snap store.Snapshot, f Filter) model.BoardColumns {
	var cols model.BoardColumns
	for _, t := range Tasks(snap.Tasks, f) {
		switch t.Status {
		case model.StatusTodo:
			cols.Todo = append(cols.Todo, t)
		case model.StatusInProgress:
			cols.InProgress = append(cols.InProgress, t)
		case model.StatusCompleted:
			cols.Completed = append(cols.Completed, t)
		}
	}
	return cols
}

// RecentTasks returns the last n tasks of the collection, newest position
// first.
func RecentTasks(snap store.Snapshot, n int) []model.Task {
	tasks := tail(snap.Tasks, n)
	out := make([]model.Task, 0, len(tasks))
	for i := len(tasks) - 1; i >= 0; i-- {
		out = append(out, tasks[i])
	}
	return out
}

// RecentProjects returns the last n projects of the collection, newest
// position first.
func RecentProjects(snap store.Snapshot, n int) []model.Project {
	projects := tailProjects(snap.Projects, n)
	out := make([]model.Project, 0, len(projects))
	for i := len(projects) - 1; i >= 0; i-- {
		out = append(out, projects[i])
	}
	return out
}

// taskActor resolves the display name for a task event. A dangling assignee
// reference degrades to the joined-in display hint or to empty, never to an
// error.
func taskActor(users []model.User, t model.Task) string {
	if name := userName(users, t.AssigneeID); name != "" {
		return name
	}
	return t.AssigneeName
}

func userName(users []model.User, id int) string {
	if id == 0 {
		return ""
	}
	for _, u := range users {
		if u.ID == id {
			return u.Name
		}
	}
	return ""
}

func tail(tasks []model.Task, n int) []model.Task {
	if len(tasks) <= n {
		return tasks
	}
	return tasks[len(tasks)-n:]
}

func tailProjects(projects []model.Project, n int) []model.Project {
	if len(projects) <= n {
		return projects
	}
	return projects[len(projects)-n:]
}
