package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskboard/config"
	"taskboard/internal/board"
	"taskboard/internal/model"
	"taskboard/internal/remote"
	"taskboard/internal/store"
	"taskboard/internal/views"
	"taskboard/pkg/logger"
)

const commandTimeout = 15 * time.Second

// app bundles the client-side state a command works against: the local
// replica, the derived-view engine and the mutation controller.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	store  *store.Store
	engine *views.Engine
	client *remote.Client
	ctrl   *board.Controller
}

func newApp() *app {
	log := logger.NewLogger()
	logger.Log = log

	cfg := config.Load()
	st := store.New()
	client := remote.NewClient(cfg.Client.BaseURL, cfg.Client.Token, log)

	return &app{
		cfg:    cfg,
		logger: log,
		store:  st,
		engine: views.NewEngine(),
		client: client,
		ctrl:   board.NewController(st, client, board.NewLogNotifier(log), log),
	}
}

func (a *app) close() {
	a.ctrl.Close()
	a.logger.Sync()
}

func (a *app) refresh(ctx context.Context) error {
	if a.cfg.Client.Token == "" {
		return fmt.Errorf("no token configured, run `board login` first")
	}
	return a.ctrl.Refresh(ctx)
}

func main() {
	root := &cobra.Command{
		Use:           "board",
		Short:         "Team task board from the terminal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(),
		newDashboardCmd(),
		newBoardCmd(),
		newMoveCmd(),
		newTaskCmd(),
		newProjectCmd(),
		newRoleCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLoginCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate and print an access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if email == "" {
				email = a.cfg.Client.Email
			}
			user, err := a.client.Login(ctx, email, password)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s (%s)\n", user.Name, user.Role)
			fmt.Println("Export the token for later commands:")
			fmt.Printf("  export BOARD_TOKEN=%s\n", a.client.Token())
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.MarkFlagRequired("password")
	return cmd
}

func newDashboardCmd() *cobra.Command {
	var verify bool

	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show workspace stats, leaderboard and recent activity",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}

			snap := a.store.Snapshot()
			stats := a.engine.Dashboard(snap)
			renderDashboard(os.Stdout,
				stats,
				a.engine.Leaderboard(snap),
				a.engine.Activity(snap),
				a.engine.Distribution(snap),
			)

			if verify {
				remoteStats, err := a.client.Stats(ctx)
				if err != nil {
					return err
				}
				if remoteStats == stats {
					fmt.Println("Server stats match the local computation.")
				} else {
					fmt.Printf("Server stats diverge:\n  local  %+v\n  server %+v\n", stats, remoteStats)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&verify, "verify", false, "cross-check the numbers against the server stats endpoint")
	return cmd
}

func newBoardCmd() *cobra.Command {
	var projectID int
	var status, query string
	var ownerID int

	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show the kanban board",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}

			filter := views.Filter{
				ProjectID: projectID,
				Status:    status,
				OwnerID:   ownerID,
				Query:     query,
			}
			snap := a.store.Snapshot()
			renderBoard(os.Stdout, a.engine.Columns(snap, filter), snap)
			return nil
		},
	}

	cmd.Flags().IntVar(&projectID, "project", 0, "only tasks in this project")
	cmd.Flags().StringVar(&status, "status", "", "only tasks with this status")
	cmd.Flags().IntVar(&ownerID, "owner", 0, "only projects owned by this user")
	cmd.Flags().StringVar(&query, "query", "", "title/description substring match")
	return cmd
}

func newMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move <task-id> <from> <to>",
		Short: "Move a task between board columns",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}
			return a.ctrl.Drop(ctx, taskID, args[1], args[2])
		},
	}
}

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, edit and delete tasks",
	}
	cmd.AddCommand(newTaskAddCmd(), newTaskEditCmd(), newTaskRmCmd())
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var draft board.TaskDraft
	var priority, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a task in a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}

			draft.Priority = model.Priority(priority)
			if due != "" {
				d, err := time.Parse("2006-01-02", due)
				if err != nil {
					return fmt.Errorf("invalid due date %q, expected YYYY-MM-DD", due)
				}
				draft.DueDate = &d
			}
			return a.ctrl.CreateTask(ctx, draft)
		},
	}

	cmd.Flags().StringVar(&draft.Title, "title", "", "task title")
	cmd.Flags().StringVar(&draft.Description, "desc", "", "task description")
	cmd.Flags().IntVar(&draft.ProjectID, "project", 0, "project id")
	cmd.Flags().IntVar(&draft.AssigneeID, "assignee", 0, "assignee user id")
	cmd.Flags().StringVar(&priority, "priority", "", "low, medium, high or critical")
	cmd.Flags().StringVar(&due, "due", "", "due date, YYYY-MM-DD")
	cmd.MarkFlagRequired("title")
	return cmd
}

func newTaskEditCmd() *cobra.Command {
	var title, desc, status, priority string
	var assignee int

	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Update fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			var patch model.TaskPatch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("status") {
				s := model.TaskStatus(status)
				patch.Status = &s
			}
			if cmd.Flags().Changed("priority") {
				p := model.Priority(priority)
				patch.Priority = &p
			}
			if cmd.Flags().Changed("assignee") {
				patch.AssigneeID = &assignee
			}

			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}
			return a.ctrl.UpdateTask(ctx, taskID, patch)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().IntVar(&assignee, "assignee", 0, "new assignee, 0 unassigns")
	return cmd
}

func newTaskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			taskID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid task id %q", args[0])
			}

			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}
			return a.ctrl.DeleteTask(ctx, taskID)
		},
	}
}

func newProjectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Create and delete projects",
	}
	cmd.AddCommand(newProjectAddCmd(), newProjectShowCmd(), newProjectRmCmd())
	return cmd
}

func newProjectShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show one project with its members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			project, err := a.client.Project(ctx, projectID)
			if err != nil {
				return err
			}
			renderProject(os.Stdout, project)
			return nil
		},
	}
}

func newProjectAddCmd() *cobra.Command {
	var draft board.ProjectDraft

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}
			return a.ctrl.CreateProject(ctx, draft)
		},
	}

	cmd.Flags().StringVar(&draft.Name, "name", "", "project name")
	cmd.Flags().StringVar(&draft.Description, "desc", "", "project description")
	cmd.Flags().IntVar(&draft.OwnerID, "owner", 0, "owner user id")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <project-id>",
		Short: "Delete a project and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			projectID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid project id %q", args[0])
			}

			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}
			return a.ctrl.DeleteProject(ctx, projectID)
		},
	}
}

func newRoleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "role <user-id> <role>",
		Short: "Change a user's role (admin only)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid user id %q", args[0])
			}

			a := newApp()
			defer a.close()

			ctx, cancel := context.WithTimeout(cmd.Context(), commandTimeout)
			defer cancel()

			if err := a.refresh(ctx); err != nil {
				return err
			}
			return a.ctrl.SetUserRole(ctx, userID, model.Role(args[1]))
		},
	}
}
