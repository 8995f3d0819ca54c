package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/repository"
)

const (
	statsVersionKey = "stats:version"
	statsCacheTTL   = 30 * time.Second
)

// StatsService computes dashboard counters, scoped to the projects the
// user can see unless the user is an admin. Results are cached in redis
// under a version-stamped key; Invalidate bumps the version so stale
// entries simply age out by TTL.
type StatsService struct {
	userRepo    *repository.UserRepository
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	rdb         *redis.Client
	logger      *zap.Logger
}

func NewStatsService(userRepo *repository.UserRepository, projectRepo *repository.ProjectRepository, taskRepo *repository.TaskRepository, rdb *redis.Client, logger *zap.Logger) *StatsService {
	return &StatsService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		rdb:         rdb,
		logger:      logger,
	}
}

func (s *StatsService) Dashboard(ctx context.Context, userID int) (*model.DashboardStats, error) {
	key := s.cacheKey(ctx, userID)
	if key != "" {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var stats model.DashboardStats
			if err := json.Unmarshal([]byte(cached), &stats); err == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.compute(ctx, userID)
	if err != nil {
		return nil, err
	}

	if key != "" {
		if data, err := json.Marshal(stats); err == nil {
			if err := s.rdb.Set(ctx, key, data, statsCacheTTL).Err(); err != nil {
				s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
			}
		}
	}
	return stats, nil
}

// Invalidate bumps the stats cache version. Existing entries become
// unreachable and expire on their own.
func (s *StatsService) Invalidate(ctx context.Context) {
	if err := s.rdb.Incr(ctx, statsVersionKey).Err(); err != nil {
		s.logger.Warn("failed to invalidate stats cache", zap.Error(err))
	}
}

func (s *StatsService) compute(ctx context.Context, userID int) (*model.DashboardStats, error) {
	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	// Admins see global counters, everyone else only counts tasks in
	// projects they own or belong to.
	var projectIDs []int
	if u.Role != model.RoleAdmin {
		projectIDs, err = s.projectRepo.AccessibleIDs(ctx, userID)
		if err != nil {
			return nil, err
		}
		if len(projectIDs) == 0 {
			return &model.DashboardStats{}, nil
		}
	}

	totalProjects, err := s.countProjects(ctx, u, projectIDs)
	if err != nil {
		return nil, err
	}
	totalTasks, err := s.taskRepo.CountAll(ctx, projectIDs)
	if err != nil {
		return nil, err
	}
	completed, err := s.taskRepo.CountByStatus(ctx, model.StatusCompleted, projectIDs)
	if err != nil {
		return nil, err
	}
	pending, err := s.taskRepo.CountByStatus(ctx, model.StatusTodo, projectIDs)
	if err != nil {
		return nil, err
	}

	stats := &model.DashboardStats{
		TotalProjects:  totalProjects,
		TotalTasks:     totalTasks,
		CompletedTasks: completed,
		PendingTasks:   pending,
	}
	if totalTasks > 0 {
		stats.CompletionRate = float64(completed) / float64(totalTasks) * 100
	}
	return stats, nil
}

func (s *StatsService) countProjects(ctx context.Context, u *model.User, projectIDs []int) (int, error) {
	if u.Role == model.RoleAdmin {
		return s.projectRepo.CountAll(ctx)
	}
	return len(projectIDs), nil
}

func (s *StatsService) cacheKey(ctx context.Context, userID int) string {
	version, err := s.rdb.Get(ctx, statsVersionKey).Int64()
	if err != nil && err != redis.Nil {
		s.logger.Warn("stats cache unavailable", zap.Error(err))
		return ""
	}
	return fmt.Sprintf("stats:%d:%d", version, userID)
}
