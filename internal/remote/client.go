// Package remote is the HTTP client for the workspace service. It is the
// only place the client core touches the network; everything above it deals
// in model types and plain errors.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/model"
	"taskboard/pkg/circuitbreaker"
	"taskboard/pkg/metrics"
)

// APIError is the decoded error payload of a non-success response. The sync
// controller treats every APIError the same way: mutation failed, roll back.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remote service returned %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	breaker *circuitbreaker.CircuitBreaker
	logger  *zap.Logger
}

func NewClient(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 10 * time.Second},
		breaker: circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:  logger,
	}
}

// SetToken installs the bearer token used for authenticated calls.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

type loginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

// Login authenticates and installs the returned token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (model.User, error) {
	body := map[string]string{"email": email, "password": password}
	var resp loginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &resp, "login"); err != nil {
		return model.User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var users []model.User
	err := c.do(ctx, http.MethodGet, "/api/users", nil, &users, "list users")
	return users, err
}

func (c *Client) Projects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	err := c.do(ctx, http.MethodGet, "/api/projects", nil, &projects, "list projects")
	return projects, err
}

func (c *Client) Project(ctx context.Context, id int) (model.Project, error) {
	var project model.Project
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/projects/%d", id), nil, &project, "get project")
	return project, err
}

func (c *Client) Tasks(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks, "list tasks")
	return tasks, err
}

// Stats fetches the server-computed dashboard numbers. The view engine
// reproduces these from the raw collections; the endpoint exists as a
// cross-check.
func (c *Client) Stats(ctx context.Context) (model.DashboardStats, error) {
	var stats model.DashboardStats
	err := c.do(ctx, http.MethodGet, "/api/dashboard/stats", nil, &stats, "dashboard stats")
	return stats, err
}

type taskCreateRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	ProjectID   int        `json:"project_id"`
	AssigneeID  int        `json:"assignee_id,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

func (c *Client) CreateTask(ctx context.Context, t model.Task) (model.Task, error) {
	req := taskCreateRequest{
		Title:       t.Title,
		Description: t.Description,
		Priority:    string(t.Priority),
		ProjectID:   t.ProjectID,
		AssigneeID:  t.AssigneeID,
		DueDate:     t.DueDate,
	}
	var created model.Task
	err := c.do(ctx, http.MethodPost, "/api/tasks", req, &created, "create task")
	return created, err
}

func (c *Client) UpdateTask(ctx context.Context, id int, patch model.TaskPatch) (model.Task, error) {
	var updated model.Task
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/tasks/%d", id), patch, &updated, "update task")
	return updated, err
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil, "delete task")
}

type projectCreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (c *Client) CreateProject(ctx context.Context, p model.Project) (model.Project, error) {
	req := projectCreateRequest{Name: p.Name, Description: p.Description}
	var created model.Project
	err := c.do(ctx, http.MethodPost, "/api/projects", req, &created, "create project")
	return created, err
}

func (c *Client) DeleteProject(ctx context.Context, id int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/projects/%d", id), nil, nil, "delete project")
}

func (c *Client) UpdateUserRole(ctx context.Context, id int, role model.Role) (model.User, error) {
	req := map[string]model.Role{"role": role}
	var updated model.User
	err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/users/%d", id), req, &updated, "update role")
	return updated, err
}

// do performs one JSON round trip under circuit breaker protection. Any
// non-2xx response is decoded into an APIError.
func (c *Client) do(ctx context.Context, method, path string, body, out any, op string) error {
	start := time.Now()

	err := c.breaker.Execute(func() error {
		return c.roundTrip(ctx, method, path, body, out)
	})

	status := "success"
	if err != nil {
		status = "failed"
		c.logger.Warn("remote call failed",
			zap.String("operation", op),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err),
		)
	}
	metrics.RecordRemoteCall(op, status, time.Since(start))
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return decodeError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeError(resp *http.Response) error {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Error == "" {
		payload.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: payload.Error}
}
