package domain

import (
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

func (s TaskStatus) Valid() bool {
	return s == TaskStatusPending || s == TaskStatusCompleted
}

type Task struct {
	ID        uint64
	Name      string
	Status    TaskStatus
	CreatedAt time.Time
}

type CreateTaskInput struct {
	Name   string
	Status TaskStatus
}

// TaskFilter narrows a cached task list without touching the backend.
type TaskFilter string

const (
	TaskFilterAll       TaskFilter = "all"
	TaskFilterPending   TaskFilter = "pending"
	TaskFilterCompleted TaskFilter = "completed"
)

func ParseTaskFilter(value string) (TaskFilter, bool) {
	switch f := TaskFilter(strings.ToLower(strings.TrimSpace(value))); f {
	case TaskFilterAll, TaskFilterPending, TaskFilterCompleted:
		return f, true
	default:
		return "", false
	}
}

func (f TaskFilter) Match(task Task) bool {
	if f == TaskFilterAll || f == "" {
		return true
	}
	return strings.EqualFold(string(task.Status), string(f))
}

func FilterTasks(tasks []Task, filter TaskFilter) []Task {
	filtered := make([]Task, 0, len(tasks))
	for _, task := range tasks {
		if filter.Match(task) {
			filtered = append(filtered, task)
		}
	}
	return filtered
}
