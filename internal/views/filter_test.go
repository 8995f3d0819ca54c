package views

import (
	"testing"

	"taskboard/internal/model"
)

func filterTasks() []model.Task {
	return []model.Task{
		{ID: 1, Title: "Design UI", Description: "mockups for the landing page", Status: model.StatusTodo, ProjectID: 1, AssigneeID: 1},
		{ID: 2, Title: "API Integration", Description: "payments", Status: model.StatusInProgress, ProjectID: 1, AssigneeID: 2},
		{ID: 3, Title: "Security Review", Description: "audit the API surface", Status: model.StatusTodo, ProjectID: 2, AssigneeID: 1},
		{ID: 4, Title: "Deployment", Description: "", Status: model.StatusCompleted, ProjectID: 2, AssigneeID: 2},
	}
}

func TestTasksFilter(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []int
	}{
		{"zero filter matches all", Filter{}, []int{1, 2, 3, 4}},
		{"by project", Filter{ProjectID: 1}, []int{1, 2}},
		{"by status", Filter{Status: "todo"}, []int{1, 3}},
		{"by owner", Filter{OwnerID: 2}, []int{2, 4}},
		{"query matches title", Filter{Query: "api"}, []int{2, 3}},
		{"query matches description", Filter{Query: "landing"}, []int{1}},
		{"query is case insensitive", Filter{Query: "SECURITY"}, []int{3}},
		{"conjunction", Filter{ProjectID: 2, Status: "todo"}, []int{3}},
		{"conjunction with query", Filter{ProjectID: 1, Query: "api"}, []int{2}},
		{"no match", Filter{Query: "nonexistent"}, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Tasks(filterTasks(), tt.filter)
			ids := make([]int, 0, len(got))
			for _, task := range got {
				ids = append(ids, task.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("ids = %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("ids = %v, want %v", ids, tt.want)
				}
			}
		})
	}
}

func TestTasksFilterDoesNotMutateInput(t *testing.T) {
	input := filterTasks()
	Tasks(input, Filter{Status: "todo"})

	if input[0].ID != 1 || input[3].ID != 4 || len(input) != 4 {
		t.Errorf("input mutated: %+v", input)
	}
}

func TestProjectsFilter(t *testing.T) {
	projects := []model.Project{
		{ID: 1, Name: "Website Redesign", Description: "marketing site", Status: "active", OwnerID: 1},
		{ID: 2, Name: "CRM Migration", Description: "move customer data", Status: "planning", OwnerID: 2},
		{ID: 3, Name: "Data Warehouse", Description: "centralize analytics", Status: "active", OwnerID: 1},
	}

	got := Projects(projects, Filter{Status: "active", OwnerID: 1})
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("filtered projects = %+v", got)
	}

	got = Projects(projects, Filter{Query: "data"})
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 3 {
		t.Errorf("query filtered projects = %+v", got)
	}
}
