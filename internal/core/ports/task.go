package ports

import (
	"context"

	"tasktracker/internal/core/domain"
)

type TaskRepository interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id uint64) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id uint64, status domain.TaskStatus) error
	DeleteTask(ctx context.Context, id uint64) error
}

type TaskService interface {
	ListTasks(ctx context.Context) ([]domain.Task, error)
	GetTask(ctx context.Context, id uint64) (domain.Task, error)
	CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error)
	UpdateTaskStatus(ctx context.Context, id uint64, status domain.TaskStatus) error
	DeleteTask(ctx context.Context, id uint64) error
}

// TaskNotifier fans a change tag out to connected clients. Implementations
// must not block the caller on delivery.
type TaskNotifier interface {
	Notify(ctx context.Context, event domain.TaskEvent)
}
