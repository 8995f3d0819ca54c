package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

func renderDashboard(w io.Writer, stats model.DashboardStats, leaderboard []model.LeaderboardEntry, activity []model.ActivityEvent, dist model.StatusDistribution) {
	fmt.Fprintf(w, "Projects: %d   Tasks: %d   Completed: %d   Pending: %d   Completion: %.1f%%\n\n",
		stats.TotalProjects, stats.TotalTasks, stats.CompletedTasks, stats.PendingTasks, stats.CompletionRate)

	fmt.Fprintf(w, "Status: %d todo / %d in progress / %d completed\n\n",
		dist.Todo, dist.InProgress, dist.Completed)

	if len(leaderboard) > 0 {
		fmt.Fprintln(w, "Top performers:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, entry := range leaderboard {
			fmt.Fprintf(tw, "  %d.\t%s\t%d completed\n", entry.Rank, entry.Name, entry.Completed)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}

	if len(activity) > 0 {
		fmt.Fprintln(w, "Recent activity:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, ev := range activity {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n",
				ev.Timestamp.Format("Jan 02 15:04"), ev.Type, ev.Title, ev.Actor)
		}
		tw.Flush()
	}
}

func renderBoard(w io.Writer, columns model.BoardColumns, snap store.Snapshot) {
	projectNames := make(map[int]string, len(snap.Projects))
	for _, p := range snap.Projects {
		projectNames[p.ID] = p.Name
	}

	for _, status := range model.TaskStatuses {
		tasks := columns.Column(status)
		fmt.Fprintf(w, "%s (%d)\n%s\n", columnTitle(status), len(tasks), strings.Repeat("-", 40))
		if len(tasks) == 0 {
			fmt.Fprintln(w, "  (empty)")
		}
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, t := range tasks {
			assignee := t.AssigneeName
			if assignee == "" {
				assignee = "unassigned"
			}
			fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\t%s\n",
				t.ID, t.Title, t.Priority, projectNames[t.ProjectID], assignee)
		}
		tw.Flush()
		fmt.Fprintln(w)
	}
}

func renderProject(w io.Writer, p model.Project) {
	fmt.Fprintf(w, "#%d %s (%s)\n", p.ID, p.Name, p.Status)
	if p.Description != "" {
		fmt.Fprintln(w, p.Description)
	}
	if p.TaskCount > 0 {
		fmt.Fprintf(w, "Tasks: %d (%d completed)\n", p.TaskCount, p.CompletedTasks)
	}
	if len(p.Members) > 0 {
		fmt.Fprintln(w, "Members:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, m := range p.Members {
			fmt.Fprintf(tw, "  %d\t%s\n", m.UserID, m.Role)
		}
		tw.Flush()
	}
	if len(p.Tasks) > 0 {
		fmt.Fprintln(w, "Tasks:")
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, t := range p.Tasks {
			fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\n", t.ID, t.Title, t.Status, t.Priority)
		}
		tw.Flush()
	}
}

func columnTitle(status model.TaskStatus) string {
	switch status {
	case model.StatusTodo:
		return "To Do"
	case model.StatusInProgress:
		return "In Progress"
	case model.StatusCompleted:
		return "Completed"
	}
	return string(status)
}
