package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"taskboard/internal/model"
)

type ProjectRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewProjectRepository(db *pgxpool.Pool, logger *zap.Logger) *ProjectRepository {
	return &ProjectRepository{db: db, logger: logger}
}

// List returns all projects in insertion order, with the task_count and
// completed_tasks display hints joined in.
func (r *ProjectRepository) List(ctx context.Context) ([]model.Project, error) {
	query := `
        SELECT p.id, p.name, p.description, p.status, p.owner_id, p.created_at,
               COUNT(t.id) AS task_count,
               COUNT(t.id) FILTER (WHERE t.status = 'completed') AS completed_tasks
        FROM projects p
        LEFT JOIN tasks t ON t.project_id = p.id
        GROUP BY p.id
        ORDER BY p.id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to query projects", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	projects := []model.Project{}
	for rows.Next() {
		var p model.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID, &p.CreatedAt,
			&p.TaskCount, &p.CompletedTasks,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// FindByID returns one project with its member list.
func (r *ProjectRepository) FindByID(ctx context.Context, id int) (*model.Project, error) {
	query := `
        SELECT id, name, description, status, owner_id, created_at
        FROM projects
        WHERE id = $1
    `
	var p model.Project
	err := r.db.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.OwnerID, &p.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	members, err := r.listMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Members = members
	return &p, nil
}

func (r *ProjectRepository) listMembers(ctx context.Context, projectID int) ([]model.ProjectMember, error) {
	query := `
        SELECT user_id, role, joined_at
        FROM project_members
        WHERE project_id = $1
        ORDER BY id
    `
	rows, err := r.db.Query(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	members := []model.ProjectMember{}
	for rows.Next() {
		var m model.ProjectMember
		if err := rows.Scan(&m.UserID, &m.Role, &m.JoinedAt); err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	return members, rows.Err()
}

// Create inserts a project and registers the owner as its first member.
func (r *ProjectRepository) Create(ctx context.Context, p *model.Project) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO projects (name, description, status, owner_id, created_at)
        VALUES ($1, $2, $3, $4, NOW())
        RETURNING id, created_at
    `
	if err := tx.QueryRow(ctx, query, p.Name, p.Description, p.Status, p.OwnerID).
		Scan(&p.ID, &p.CreatedAt); err != nil {
		r.logger.Error("Failed to insert project", zap.Error(err), zap.String("name", p.Name))
		return err
	}

	memberQuery := `
        INSERT INTO project_members (project_id, user_id, role, joined_at)
        VALUES ($1, $2, 'owner', NOW())
    `
	if _, err := tx.Exec(ctx, memberQuery, p.ID, p.OwnerID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return err
	}

	r.logger.Info("Project created", zap.Int("project_id", p.ID), zap.Int("owner_id", p.OwnerID))
	return nil
}

// AddMember registers a user on a project. Existing memberships are
// left untouched.
func (r *ProjectRepository) AddMember(ctx context.Context, projectID, userID int, role string) error {
	query := `
        INSERT INTO project_members (project_id, user_id, role, joined_at)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (project_id, user_id) DO NOTHING
    `
	_, err := r.db.Exec(ctx, query, projectID, userID, role)
	return err
}

// Delete removes a project. Tasks and memberships cascade.
func (r *ProjectRepository) Delete(ctx context.Context, id int) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete project", zap.Error(err), zap.Int("project_id", id))
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

// AccessibleIDs returns the ids of projects the user owns or is a member of.
func (r *ProjectRepository) AccessibleIDs(ctx context.Context, userID int) ([]int, error) {
	query := `
        SELECT DISTINCT p.id
        FROM projects p
        LEFT JOIN project_members m ON m.project_id = p.id
        WHERE p.owner_id = $1 OR m.user_id = $1
        ORDER BY p.id
    `
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountAll returns the total number of projects.
func (r *ProjectRepository) CountAll(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM projects`).Scan(&count)
	return count, err
}
