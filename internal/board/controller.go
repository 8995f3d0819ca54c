// Package board implements the mutation/sync controller: every user-initiated
// change goes through an optimistic local apply, a single remote call, and a
// merge or rollback when that call completes.
package board

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/store"
)

// RemoteAPI is the slice of the workspace service the controller talks to.
// *remote.Client implements it; tests substitute a fake.
type RemoteAPI interface {
	Users(ctx context.Context) ([]model.User, error)
	Projects(ctx context.Context) ([]model.Project, error)
	Tasks(ctx context.Context) ([]model.Task, error)

	CreateTask(ctx context.Context, t model.Task) (model.Task, error)
	UpdateTask(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error)
	DeleteTask(ctx context.Context, id int) error
	CreateProject(ctx context.Context, p model.Project) (model.Project, error)
	DeleteProject(ctx context.Context, id int) error
	UpdateUserRole(ctx context.Context, id int, role model.Role) (model.User, error)
}

// Controller owns all writes to the collection store. Mutations on different
// entities may run concurrently; the controller never serializes them, and
// when two mutations race on one entity the last completion wins.
type Controller struct {
	store    *store.Store
	remote   RemoteAPI
	notifier Notifier
	logger   *zap.Logger

	mu          sync.Mutex
	closed      bool
	placeholder int // descending counter for optimistic ids
}

func NewController(st *store.Store, remote RemoteAPI, notifier Notifier, logger *zap.Logger) *Controller {
	return &Controller{
		store:    st,
		remote:   remote,
		notifier: notifier,
		logger:   logger,
	}
}

// Close marks the controller as torn down. Completions of in-flight remote
// calls are discarded afterwards; there is no way to cancel the calls
// themselves.
func (c *Controller) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *Controller) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// nextPlaceholderID returns a fresh negative id for an optimistically
// inserted entity. Server ids are positive, so the two can never collide.
func (c *Controller) nextPlaceholderID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.placeholder--
	return c.placeholder
}

// Refresh replaces the collections wholesale from the remote service.
func (c *Controller) Refresh(ctx context.Context) error {
	users, err := c.remote.Users(ctx)
	if err != nil {
		return err
	}
	projects, err := c.remote.Projects(ctx)
	if err != nil {
		return err
	}
	tasks, err := c.remote.Tasks(ctx)
	if err != nil {
		return err
	}

	c.store.Load(users, projects, tasks)
	c.logger.Info("collections refreshed",
		zap.Int("users", len(users)),
		zap.Int("projects", len(projects)),
		zap.Int("tasks", len(tasks)),
	)
	return nil
}

// Drop handles a drag-and-drop gesture. Drops that resolve to no move are
// ignored entirely; everything else becomes a status transition.
func (c *Controller) Drop(ctx context.Context, taskID int, source, dest string) error {
	move, ok := ResolveDrop(taskID, source, dest)
	if !ok {
		return nil
	}
	return c.MoveTask(ctx, move)
}

// MoveTask transitions a task between board columns. All six directed
// transitions between the three statuses are legal.
func (c *Controller) MoveTask(ctx context.Context, move Move) error {
	if move.From == move.To {
		return nil
	}

	patch := model.StatusPatch(move.To)
	var prev model.Task

	return c.run(ctx, command{
		name:    "move task",
		success: "Task status updated!",
		apply: func() (func(), error) {
			p, err := c.store.PatchTask(move.TaskID, patch)
			if err != nil {
				return nil, err
			}
			prev = p
			return func() { c.store.RestoreTask(prev) }, nil
		},
		call: func(ctx context.Context) (func(), error) {
			_, err := c.remote.UpdateTask(ctx, move.TaskID, patch)
			return nil, err
		},
	})
}

// TaskDraft is the form input for a new task. ProjectID is the active board
// scope; zero means no project is selected.
type TaskDraft struct {
	Title       string
	Description string
	Priority    model.Priority
	AssigneeID  int
	DueDate     *time.Time
	ProjectID   int
}

// CreateTask optimistically inserts a task under a placeholder id, then
// swaps in the server-assigned entity on success.
func (c *Controller) CreateTask(ctx context.Context, draft TaskDraft) error {
	if draft.Priority == "" {
		draft.Priority = model.PriorityMedium
	}

	task := model.Task{
		ID:          c.nextPlaceholderID(),
		Title:       draft.Title,
		Description: draft.Description,
		Status:      model.StatusTodo,
		Priority:    draft.Priority,
		ProjectID:   draft.ProjectID,
		AssigneeID:  draft.AssigneeID,
		DueDate:     draft.DueDate,
		CreatedAt:   time.Now(),
	}

	return c.run(ctx, command{
		name:    "create task",
		success: "Task created successfully!",
		validate: func() error {
			if draft.ProjectID == 0 {
				return &ValidationError{Reason: "Please select a project first"}
			}
			return task.Validate()
		},
		apply: func() (func(), error) {
			if err := c.store.InsertTask(task); err != nil {
				return nil, err
			}
			return func() { _, _ = c.store.RemoveTask(task.ID) }, nil
		},
		call: func(ctx context.Context) (func(), error) {
			created, err := c.remote.CreateTask(ctx, task)
			if err != nil {
				return nil, err
			}
			return func() { _ = c.store.ReplaceTask(task.ID, created) }, nil
		},
	})
}

// UpdateTask applies a partial edit from the task form.
func (c *Controller) UpdateTask(ctx context.Context, id int, patch model.TaskPatch) error {
	var prev model.Task

	return c.run(ctx, command{
		name:     "update task",
		success:  "Task updated successfully!",
		validate: patch.Validate,
		apply: func() (func(), error) {
			p, err := c.store.PatchTask(id, patch)
			if err != nil {
				return nil, err
			}
			prev = p
			return func() { c.store.RestoreTask(prev) }, nil
		},
		call: func(ctx context.Context) (func(), error) {
			_, err := c.remote.UpdateTask(ctx, id, patch)
			return nil, err
		},
	})
}

// DeleteTask removes a task, restoring it at its original position when the
// remote delete is rejected.
func (c *Controller) DeleteTask(ctx context.Context, id int) error {
	var removed store.TaskRemoval

	return c.run(ctx, command{
		name:    "delete task",
		success: "Task deleted",
		apply: func() (func(), error) {
			rm, err := c.store.RemoveTask(id)
			if err != nil {
				return nil, err
			}
			removed = rm
			return func() { c.store.RestoreTaskAt(removed) }, nil
		},
		call: func(ctx context.Context) (func(), error) {
			return nil, c.remote.DeleteTask(ctx, id)
		},
	})
}

// ProjectDraft is the form input for a new project. OwnerID is the
// authenticated user.
type ProjectDraft struct {
	Name        string
	Description string
	OwnerID     int
}

func (c *Controller) CreateProject(ctx context.Context, draft ProjectDraft) error {
	project := model.Project{
		ID:          c.nextPlaceholderID(),
		Name:        draft.Name,
		Description: draft.Description,
		Status:      model.ProjectStatusActive,
		OwnerID:     draft.OwnerID,
		CreatedAt:   time.Now(),
	}

	return c.run(ctx, command{
		name:     "create project",
		success:  "Project created successfully!",
		validate: project.Validate,
		apply: func() (func(), error) {
			if err := c.store.InsertProject(project); err != nil {
				return nil, err
			}
			return func() { _ = c.store.RemoveProjectOnly(project.ID) }, nil
		},
		call: func(ctx context.Context) (func(), error) {
			created, err := c.remote.CreateProject(ctx, project)
			if err != nil {
				return nil, err
			}
			return func() { _ = c.store.ReplaceProject(project.ID, created) }, nil
		},
	})
}

// DeleteProject removes a project and its tasks locally, restoring both when
// the remote delete fails.
func (c *Controller) DeleteProject(ctx context.Context, id int) error {
	var removed store.ProjectRemoval

	return c.run(ctx, command{
		name:    "delete project",
		success: "Project deleted",
		apply: func() (func(), error) {
			rm, err := c.store.RemoveProject(id)
			if err != nil {
				return nil, err
			}
			removed = rm
			return func() { c.store.RestoreProject(removed) }, nil
		},
		call: func(ctx context.Context) (func(), error) {
			return nil, c.remote.DeleteProject(ctx, id)
		},
	})
}

// SetUserRole edits a user's role.
func (c *Controller) SetUserRole(ctx context.Context, id int, role model.Role) error {
	var prev model.User

	return c.run(ctx, command{
		name:    "update role",
		success: "User role updated",
		validate: func() error {
			if !role.IsValid() {
				return &ValidationError{Reason: "invalid role " + string(role)}
			}
			return nil
		},
		apply: func() (func(), error) {
			p, err := c.store.SetUserRole(id, role)
			if err != nil {
				return nil, err
			}
			prev = p
			return func() { c.store.RestoreUser(prev) }, nil
		},
		call: func(ctx context.Context) (func(), error) {
			_, err := c.remote.UpdateUserRole(ctx, id, role)
			return nil, err
		},
	})
}
