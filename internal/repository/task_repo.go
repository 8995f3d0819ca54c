package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

type TaskRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewTaskRepository(db *pgxpool.Pool, logger *zap.Logger) *TaskRepository {
	return &TaskRepository{db: db, logger: logger}
}

const taskColumns = `
        t.id, t.title, t.description, t.status, t.priority, t.project_id,
        COALESCE(t.assignee_id, 0), t.due_date, t.created_at,
        COALESCE(u.name, '')
`

// List returns tasks in insertion order, optionally narrowed to a project
// and/or status, with the assignee display name joined in.
func (r *TaskRepository) List(ctx context.Context, projectID int, status string) ([]model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks t
        LEFT JOIN users u ON u.id = t.assignee_id
    `
	conditions := []string{}
	args := []any{}
	if projectID != 0 {
		args = append(args, projectID)
		conditions = append(conditions, fmt.Sprintf("t.project_id = $%d", len(args)))
	}
	if status != "" {
		args = append(args, status)
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", len(args)))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY t.id"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to query tasks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID,
			&t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.AssigneeName,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// FindByID returns a single task.
func (r *TaskRepository) FindByID(ctx context.Context, id int) (*model.Task, error) {
	query := `
        SELECT ` + taskColumns + `
        FROM tasks t
        LEFT JOIN users u ON u.id = t.assignee_id
        WHERE t.id = $1
    `
	var t model.Task
	err := r.db.QueryRow(ctx, query, id).Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.ProjectID,
		&t.AssigneeID, &t.DueDate, &t.CreatedAt, &t.AssigneeName,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Create inserts a task. An AssigneeID of 0 is stored as NULL.
func (r *TaskRepository) Create(ctx context.Context, t *model.Task, createdBy int) error {
	query := `
        INSERT INTO tasks (title, description, status, priority, project_id,
                           assignee_id, created_by, due_date, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, NULLIF($6, 0), $7, $8, NOW(), NOW())
        RETURNING id, created_at
    `
	err := r.db.QueryRow(ctx, query,
		t.Title, t.Description, t.Status, t.Priority, t.ProjectID,
		t.AssigneeID, createdBy, t.DueDate,
	).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to insert task",
			zap.Error(err),
			zap.String("title", t.Title),
			zap.Int("project_id", t.ProjectID),
		)
		return err
	}

	r.logger.Info("Task inserted", zap.Int("task_id", t.ID), zap.Int("project_id", t.ProjectID))
	return nil
}

// Update applies the set fields of the patch and returns the updated row.
// Returns nil, nil when the task does not exist.
func (r *TaskRepository) Update(ctx context.Context, id int, patch model.TaskPatch) (*model.Task, error) {
	sets := []string{}
	args := []any{id}

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Status != nil {
		add("status", *patch.Status)
	}
	if patch.Priority != nil {
		add("priority", *patch.Priority)
	}
	if patch.AssigneeID != nil {
		add("assignee_id", nullableID(*patch.AssigneeID))
	}
	if patch.DueDate != nil {
		add("due_date", *patch.DueDate)
	}

	if len(sets) == 0 {
		return r.findForUpdate(ctx, id)
	}
	sets = append(sets, "updated_at = NOW()")

	query := fmt.Sprintf(`UPDATE tasks SET %s WHERE id = $1`, strings.Join(sets, ", "))
	result, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to update task", zap.Error(err), zap.Int("task_id", id))
		return nil, err
	}
	if result.RowsAffected() == 0 {
		return nil, nil
	}

	return r.findForUpdate(ctx, id)
}

// findForUpdate is FindByID with the missing-row case mapped to nil, nil.
func (r *TaskRepository) findForUpdate(ctx context.Context, id int) (*model.Task, error) {
	t, err := r.FindByID(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return t, err
}

// Delete removes a task.
func (r *TaskRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete task", zap.Error(err), zap.Int("task_id", id))
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// CountAll returns the total number of tasks, optionally scoped to projects.
func (r *TaskRepository) CountAll(ctx context.Context, projectIDs []int) (int, error) {
	if projectIDs == nil {
		var count int
		err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM tasks`).Scan(&count)
		return count, err
	}

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE project_id = ANY($1)`, projectIDs,
	).Scan(&count)
	return count, err
}

// CountByStatus counts tasks with one status, optionally scoped to projects.
func (r *TaskRepository) CountByStatus(ctx context.Context, status model.TaskStatus, projectIDs []int) (int, error) {
	if projectIDs == nil {
		var count int
		err := r.db.QueryRow(ctx,
			`SELECT COUNT(*) FROM tasks WHERE status = $1`, status,
		).Scan(&count)
		return count, err
	}

	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks WHERE status = $1 AND project_id = ANY($2)`, status, projectIDs,
	).Scan(&count)
	return count, err
}

func nullableID(id int) any {
	if id == 0 {
		return nil
	}
	return id
}
