// Package store holds the in-memory user/project/task collections that every
// derived view is computed from. It is the only mutable state in the client
// core; the sync controller is its only writer.
package store

import (
	"errors"
	"fmt"
	"sync"

	"taskboard/internal/model"
)

var ErrNotFound = errors.New("not found")

// Store keeps the three collections plus a revision counter that bumps on
// every visible change. The revision is what the view engine memoizes on.
type Store struct {
	mu       sync.RWMutex
	users    []model.User
	projects []model.Project
	tasks    []model.Task
	revision uint64
}

// Snapshot is an immutable copy of the collections at one revision. It is
// safe to hold across mutations and to use as a rollback reference.
type Snapshot struct {
	Users    []model.User
	Projects []model.Project
	Tasks    []model.Task
	Revision uint64
}

// TaskRemoval captures a removed task and its collection position so a
// rollback can restore the exact pre-mutation ordering.
type TaskRemoval struct {
	Task  model.Task
	Index int
}

// ProjectRemoval captures a removed project together with its cascaded tasks.
type ProjectRemoval struct {
	Project model.Project
	Index   int
	Tasks   []TaskRemoval
}

func New() *Store {
	return &Store{}
}

// Load replaces all three collections atomically. Readers never observe a
// partially replaced state.
func (s *Store) Load(users []model.User, projects []model.Project, tasks []model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = append([]model.User(nil), users...)
	s.projects = append([]model.Project(nil), projects...)
	s.tasks = append([]model.Task(nil), tasks...)
	s.revision++
}

// Snapshot returns a deep copy of the current collections.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Snapshot{
		Users:    append([]model.User(nil), s.users...),
		Projects: copyProjects(s.projects),
		Tasks:    append([]model.Task(nil), s.tasks...),
		Revision: s.revision,
	}
}

func (s *Store) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// Task returns the task with the given id, if present.
func (s *Store) Task(id int) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexTask(s.tasks, id); i >= 0 {
		return s.tasks[i], true
	}
	return model.Task{}, false
}

func (s *Store) Project(id int) (model.Project, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexProject(s.projects, id); i >= 0 {
		return s.projects[i], true
	}
	return model.Project{}, false
}

func (s *Store) User(id int) (model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := indexUser(s.users, id); i >= 0 {
		return s.users[i], true
	}
	return model.User{}, false
}

// PatchTask applies a partial update in place and returns the previous value
// for rollback.
func (s *Store) PatchTask(id int, patch model.TaskPatch) (model.Task, error) {
	if err := patch.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexTask(s.tasks, id)
	if i < 0 {
		return model.Task{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	prev := s.tasks[i]
	patch.Apply(&s.tasks[i])
	s.revision++
	return prev, nil
}

// InsertTask appends a task. The referenced project must exist; an insert can
// never leave the collection with a dangling project reference.
func (s *Store) InsertTask(t model.Task) error {
	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexProject(s.projects, t.ProjectID) < 0 {
		return fmt.Errorf("project %d: %w", t.ProjectID, ErrNotFound)
	}
	if indexTask(s.tasks, t.ID) >= 0 {
		return fmt.Errorf("task %d already exists", t.ID)
	}

	s.tasks = append(s.tasks, t)
	s.revision++
	return nil
}

// RemoveTask deletes a task and reports its prior value and position.
func (s *Store) RemoveTask(id int) (TaskRemoval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexTask(s.tasks, id)
	if i < 0 {
		return TaskRemoval{}, fmt.Errorf("task %d: %w", id, ErrNotFound)
	}

	removed := TaskRemoval{Task: s.tasks[i], Index: i}
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	s.revision++
	return removed, nil
}

// RestoreTask writes a prior task value back. If the task vanished in the
// meantime it is reinserted; the last completed mutation wins either way.
func (s *Store) RestoreTask(t model.Task) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexTask(s.tasks, t.ID); i >= 0 {
		s.tasks[i] = t
	} else {
		s.tasks = append(s.tasks, t)
	}
	s.revision++
}

// RestoreTaskAt reinserts a removed task at its original position.
func (s *Store) RestoreTaskAt(rm TaskRemoval) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = insertTaskAt(s.tasks, rm)
	s.revision++
}

// ReplaceTask swaps the task with oldID for the given value. Used to merge
// the server-assigned entity over an optimistic placeholder.
func (s *Store) ReplaceTask(oldID int, t model.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexTask(s.tasks, oldID)
	if i < 0 {
		return fmt.Errorf("task %d: %w", oldID, ErrNotFound)
	}

	s.tasks[i] = t
	s.revision++
	return nil
}

// InsertProject appends a project. The owner must exist.
func (s *Store) InsertProject(p model.Project) error {
	if err := p.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexUser(s.users, p.OwnerID) < 0 {
		return fmt.Errorf("user %d: %w", p.OwnerID, ErrNotFound)
	}
	if indexProject(s.projects, p.ID) >= 0 {
		return fmt.Errorf("project %d already exists", p.ID)
	}

	s.projects = append(s.projects, p)
	s.revision++
	return nil
}

// RemoveProject deletes a project and all of its tasks in one visible update,
// so no task is ever left pointing at a project the store no longer holds.
func (s *Store) RemoveProject(id int) (ProjectRemoval, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexProject(s.projects, id)
	if i < 0 {
		return ProjectRemoval{}, fmt.Errorf("project %d: %w", id, ErrNotFound)
	}

	removal := ProjectRemoval{Project: s.projects[i], Index: i}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)

	kept := s.tasks[:0]
	for j, t := range s.tasks {
		if t.ProjectID == id {
			removal.Tasks = append(removal.Tasks, TaskRemoval{Task: t, Index: j})
		} else {
			kept = append(kept, t)
		}
	}
	s.tasks = kept
	s.revision++
	return removal, nil
}

// RestoreProject undoes a RemoveProject, reinserting the project and its
// tasks at their original positions.
func (s *Store) RestoreProject(rm ProjectRemoval) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := rm.Index
	if i > len(s.projects) {
		i = len(s.projects)
	}
	s.projects = append(s.projects[:i], append([]model.Project{rm.Project}, s.projects[i:]...)...)

	for _, t := range rm.Tasks {
		s.tasks = insertTaskAt(s.tasks, t)
	}
	s.revision++
}

// ReplaceProject swaps the project with oldID for the given value.
func (s *Store) ReplaceProject(oldID int, p model.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexProject(s.projects, oldID)
	if i < 0 {
		return fmt.Errorf("project %d: %w", oldID, ErrNotFound)
	}

	s.projects[i] = p
	s.revision++
	return nil
}

// RemoveProjectOnly drops an optimistically inserted project placeholder.
func (s *Store) RemoveProjectOnly(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexProject(s.projects, id)
	if i < 0 {
		return fmt.Errorf("project %d: %w", id, ErrNotFound)
	}
	s.projects = append(s.projects[:i], s.projects[i+1:]...)
	s.revision++
	return nil
}

// SetUserRole updates a user's role and returns the previous value.
func (s *Store) SetUserRole(id int, role model.Role) (model.User, error) {
	if !role.IsValid() {
		return model.User{}, fmt.Errorf("invalid role %q", role)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := indexUser(s.users, id)
	if i < 0 {
		return model.User{}, fmt.Errorf("user %d: %w", id, ErrNotFound)
	}

	prev := s.users[i]
	s.users[i].Role = role
	s.revision++
	return prev, nil
}

// RestoreUser writes a prior user value back.
func (s *Store) RestoreUser(u model.User) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i := indexUser(s.users, u.ID); i >= 0 {
		s.users[i] = u
	} else {
		s.users = append(s.users, u)
	}
	s.revision++
}

func insertTaskAt(tasks []model.Task, rm TaskRemoval) []model.Task {
	i := rm.Index
	if i > len(tasks) {
		i = len(tasks)
	}
	return append(tasks[:i], append([]model.Task{rm.Task}, tasks[i:]...)...)
}

func copyProjects(projects []model.Project) []model.Project {
	out := append([]model.Project(nil), projects...)
	for i := range out {
		if out[i].Members != nil {
			out[i].Members = append([]model.ProjectMember(nil), out[i].Members...)
		}
		if out[i].Tasks != nil {
			out[i].Tasks = append([]model.Task(nil), out[i].Tasks...)
		}
	}
	return out
}

func indexTask(tasks []model.Task, id int) int {
	for i := range tasks {
		if tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func indexProject(projects []model.Project, id int) int {
	for i := range projects {
		if projects[i].ID == id {
			return i
		}
	}
	return -1
}

func indexUser(users []model.User, id int) int {
	for i := range users {
		if users[i].ID == id {
			return i
		}
	}
	return -1
}
