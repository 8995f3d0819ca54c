package service

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/internal/repository"
	"taskboard/internal/util"
)

type seedProject struct {
	name   string
	desc   string
	status string
}

type seedTask struct {
	title string
	desc  string
}

var seedUsers = []struct {
	name  string
	email string
	role  model.Role
}{
	{"John Doe", "john@example.com", model.RoleAdmin},
	{"Jane Smith", "jane@example.com", model.RoleUser},
	{"Mike Johnson", "mike@example.com", model.RoleUser},
	{"Sarah Wilson", "sarah@example.com", model.RoleUser},
	{"David Brown", "david@example.com", model.RoleUser},
}

var seedProjects = []seedProject{
	{"Website Redesign", "Complete overhaul of the company website with a modern UI/UX.", "active"},
	{"Mobile App Launch", "Develop and launch a new mobile app for iOS and Android.", "active"},
	{"CRM Migration", "Migrate all customer data to the new CRM platform.", "planning"},
	{"Marketing Campaign Q4", "Plan and execute the Q4 marketing campaign.", "active"},
	{"Cloud Infrastructure", "Move core services to scalable cloud infrastructure.", "active"},
	{"E-commerce Platform", "Build a new e-commerce platform for online sales.", "planning"},
	{"HR Portal", "Develop an internal HR portal for employees.", "active"},
	{"Analytics Dashboard", "Create a dashboard for business analytics and KPIs.", "active"},
	{"Customer Support System", "Implement a new customer support ticketing system.", "planning"},
	{"Security Audit", "Conduct a full security audit of all systems.", "active"},
	{"Inventory Management", "Automate inventory tracking and reporting.", "active"},
	{"API Integration", "Integrate third-party APIs for payments and logistics.", "active"},
	{"Employee Onboarding", "Streamline the onboarding process for new hires.", "planning"},
	{"DevOps Pipeline", "Set up CI/CD pipelines for all projects.", "active"},
	{"Data Warehouse", "Centralize data storage for analytics.", "active"},
	{"Partner Portal", "Build a portal for business partners.", "planning"},
	{"Social Media Automation", "Automate social media posting and analytics.", "active"},
	{"Legal Compliance", "Ensure all systems comply with new regulations.", "active"},
	{"Product Launch", "Coordinate the launch of the new product line.", "active"},
	{"User Feedback Program", "Collect and analyze user feedback for improvements.", "planning"},
}

var seedTasks = []seedTask{
	{"Design UI", "Design the user interface for the project."},
	{"Develop Backend", "Implement backend logic and database."},
	{"Testing", "Perform QA and bug fixing."},
	{"Deployment", "Deploy the project to production."},
	{"Documentation", "Write user and technical documentation."},
	{"Client Meeting", "Meet with client to gather requirements."},
	{"API Integration", "Integrate with third-party APIs."},
	{"Performance Optimization", "Optimize for speed and scalability."},
	{"Security Review", "Review and improve security."},
	{"User Training", "Train users on the new system."},
}

// SeedService fills an empty database with a demo workspace: five users,
// twenty projects with full memberships and five tasks each.
type SeedService struct {
	userRepo    *repository.UserRepository
	projectRepo *repository.ProjectRepository
	taskRepo    *repository.TaskRepository
	logger      *zap.Logger
}

func NewSeedService(userRepo *repository.UserRepository, projectRepo *repository.ProjectRepository, taskRepo *repository.TaskRepository, logger *zap.Logger) *SeedService {
	return &SeedService{
		userRepo:    userRepo,
		projectRepo: projectRepo,
		taskRepo:    taskRepo,
		logger:      logger,
	}
}

// SeedIfEmpty populates sample data when no users exist yet. Returns
// true when seeding ran.
func (s *SeedService) SeedIfEmpty(ctx context.Context) (bool, error) {
	existing, err := s.userRepo.List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}
	if err := s.Seed(ctx); err != nil {
		return false, err
	}
	return true, nil
}

func (s *SeedService) Seed(ctx context.Context) error {
	hash, err := util.HashPassword("password123")
	if err != nil {
		return err
	}

	users := make([]model.User, 0, len(seedUsers))
	for _, su := range seedUsers {
		u := model.User{
			Name:         su.name,
			Email:        su.email,
			Role:         su.role,
			PasswordHash: hash,
		}
		if err := s.userRepo.Create(ctx, &u); err != nil {
			return err
		}
		users = append(users, u)
	}

	taskStatuses := []model.TaskStatus{model.StatusTodo, model.StatusInProgress, model.StatusCompleted}
	priorities := []model.Priority{model.PriorityLow, model.PriorityMedium, model.PriorityHigh, model.PriorityCritical}

	for i, sp := range seedProjects {
		owner := users[i%len(users)]
		p := model.Project{
			Name:        sp.name,
			Description: sp.desc,
			Status:      sp.status,
			OwnerID:     owner.ID,
		}
		if err := s.projectRepo.Create(ctx, &p); err != nil {
			return err
		}
		for _, u := range users {
			if u.ID == owner.ID {
				continue
			}
			if err := s.projectRepo.AddMember(ctx, p.ID, u.ID, "member"); err != nil {
				return err
			}
		}

		for _, idx := range rand.Perm(len(seedTasks))[:5] {
			st := seedTasks[idx]
			due := time.Now().AddDate(0, 0, rand.Intn(41)-10)
			t := model.Task{
				Title:       st.title,
				Description: st.desc,
				Status:      taskStatuses[rand.Intn(len(taskStatuses))],
				Priority:    priorities[rand.Intn(len(priorities))],
				ProjectID:   p.ID,
				AssigneeID:  users[rand.Intn(len(users))].ID,
				DueDate:     &due,
			}
			if err := s.taskRepo.Create(ctx, &t, owner.ID); err != nil {
				return err
			}
		}
	}

	s.logger.Info("Sample data seeded",
		zap.Int("users", len(seedUsers)),
		zap.Int("projects", len(seedProjects)))
	return nil
}
