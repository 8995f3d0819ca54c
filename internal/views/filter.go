package views

import (
	"strings"

	"taskboard/internal/model"
)

// Filter is the conjunctive filter specification applied to the collections.
// Zero values mean "all": ProjectID 0 matches every project scope, Status ""
// every status, OwnerID 0 every owner, Query "" every row.
type Filter struct {
	ProjectID int
	Status    string
	OwnerID   int
	Query     string
}

// Tasks returns the ordered subsequence of tasks matching the filter. The
// input is never mutated and identical inputs yield identical output.
func Tasks(tasks []model.Task, f Filter) []model.Task {
	query := strings.ToLower(f.Query)

	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if f.ProjectID != 0 && t.ProjectID != f.ProjectID {
			continue
		}
		if f.Status != "" && string(t.Status) != f.Status {
			continue
		}
		if f.OwnerID != 0 && t.AssigneeID != f.OwnerID {
			continue
		}
		if !matches(query, t.Title, t.Description) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Projects returns the ordered subsequence of projects matching the filter.
func Projects(projects []model.Project, f Filter) []model.Project {
	query := strings.ToLower(f.Query)

	out := make([]model.Project, 0, len(projects))
	for _, p := range projects {
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		if f.OwnerID != 0 && p.OwnerID != f.OwnerID {
			continue
		}
		if !matches(query, p.Name, p.Description) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// matches reports whether the lowercased query is a substring of any field.
func matches(query string, fields ...string) bool {
	if query == "" {
		return true
	}
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), query) {
			return true
		}
	}
	return false
}
