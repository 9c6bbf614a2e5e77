// Package client is the consumer side of the task API: a cached task list
// kept fresh by the change feed, plus the mutations a user can trigger.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"tasktracker/internal/adapter/http/dto"
	"tasktracker/internal/adapter/http/mapper"
	"tasktracker/internal/core/domain"

	"go.uber.org/zap"
)

const defaultRequestTimeout = 10 * time.Second

type State int32

const (
	Disconnected State = iota
	Connected
)

func (s State) String() string {
	if s == Connected {
		return "connected"
	}
	return "disconnected"
}

type NoticeKind string

const (
	NoticeSuccess NoticeKind = "success"
	NoticeError   NoticeKind = "error"
)

// Notice is user-facing feedback for a mutation.
type Notice struct {
	Kind NoticeKind
	Text string
}

const (
	NoticeTaskAdded       = "Task added successfully!"
	NoticeTaskAddFailed   = "Error adding task!"
	NoticeStatusUpdated   = "Task status updated!"
	NoticeStatusFailed    = "Error updating task status!"
	NoticeTaskDeleted     = "Task deleted successfully!"
	NoticeTaskDeleteError = "Error deleting task!"
)

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// WithNoticeHandler receives every notice. Handlers must not block.
func WithNoticeHandler(fn func(Notice)) Option {
	return func(c *Client) { c.onNotice = fn }
}

// WithRefreshHandler is called with the new cache after every successful refresh.
func WithRefreshHandler(fn func([]domain.Task)) Option {
	return func(c *Client) { c.onRefresh = fn }
}

type Client struct {
	baseURL   string
	http      *http.Client
	logger    *zap.Logger
	onNotice  func(Notice)
	onRefresh func([]domain.Task)

	mu    sync.RWMutex
	tasks []domain.Task
	state atomic.Int32
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultRequestTimeout},
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("client")
	return c
}

// Tasks returns a copy of the cached list, newest first.
func (c *Client) Tasks() []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]domain.Task(nil), c.tasks...)
}

// Filtered applies filter to the cache only.
func (c *Client) Filtered(filter domain.TaskFilter) []domain.Task {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return domain.FilterTasks(c.tasks, filter)
}

func (c *Client) State() State {
	return State(c.state.Load())
}

// Refresh replaces the cache with the server's list. On failure the cache
// is left as it was.
func (c *Client) Refresh(ctx context.Context) error {
	var items []dto.TaskItem
	if err := c.do(ctx, http.MethodGet, "/tasks", nil, &items); err != nil {
		c.logger.Error("failed to fetch tasks", zap.Error(err))
		return err
	}

	tasks, err := mapper.ToDomainTasks(items)
	if err != nil {
		c.logger.Error("failed to decode tasks", zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()

	if c.onRefresh != nil {
		c.onRefresh(append([]domain.Task(nil), tasks...))
	}
	return nil
}

// Create adds a task. A blank name is ignored without contacting the server.
// The cache is updated by the change feed or the next Refresh.
func (c *Client) Create(ctx context.Context, name string, status domain.TaskStatus) (domain.Task, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.Task{}, nil
	}

	req := dto.CreateTaskRequest{Name: name}
	if status != "" {
		s := string(status)
		req.Status = &s
	}

	var item dto.TaskItem
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &item); err != nil {
		c.logger.Error("failed to create task", zap.String("name", name), zap.Error(err))
		c.notify(NoticeError, NoticeTaskAddFailed)
		return domain.Task{}, err
	}

	c.notify(NoticeSuccess, NoticeTaskAdded)
	return mapper.ToDomainTask(item)
}

func (c *Client) MarkCompleted(ctx context.Context, id uint64) error {
	req := dto.UpdateTaskStatusRequest{Status: string(domain.TaskStatusCompleted)}
	if err := c.do(ctx, http.MethodPut, taskPath(id), req, nil); err != nil {
		c.logger.Error("failed to update task status", zap.Uint64("task_id", id), zap.Error(err))
		c.notify(NoticeError, NoticeStatusFailed)
		return err
	}

	c.notify(NoticeSuccess, NoticeStatusUpdated)
	return nil
}

func (c *Client) Delete(ctx context.Context, id uint64) error {
	if err := c.do(ctx, http.MethodDelete, taskPath(id), nil, nil); err != nil {
		c.logger.Error("failed to delete task", zap.Uint64("task_id", id), zap.Error(err))
		c.notify(NoticeError, NoticeTaskDeleteError)
		return err
	}

	c.notify(NoticeSuccess, NoticeTaskDeleted)
	return nil
}

func (c *Client) notify(kind NoticeKind, text string) {
	if c.onNotice != nil {
		c.onNotice(Notice{Kind: kind, Text: text})
	}
}

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned %d", e.StatusCode)
	}
	return fmt.Sprintf("backend returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var envelope struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(data, &envelope) == nil {
			apiErr.Message = envelope.Error.Message
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func taskPath(id uint64) string {
	return "/tasks/" + strconv.FormatUint(id, 10)
}
