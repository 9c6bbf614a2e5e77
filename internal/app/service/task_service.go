package service

import (
	"context"
	"fmt"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"
)

type TaskService struct {
	taskRepository ports.TaskRepository
	notifier       ports.TaskNotifier
}

func NewTaskService(taskRepository ports.TaskRepository, notifier ports.TaskNotifier) *TaskService {
	return &TaskService{taskRepository: taskRepository, notifier: notifier}
}

func (s *TaskService) ListTasks(ctx context.Context) ([]domain.Task, error) {
	return s.taskRepository.ListTasks(ctx)
}

func (s *TaskService) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	return s.taskRepository.GetTask(ctx, id)
}

func (s *TaskService) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	if input.Status == "" {
		input.Status = domain.TaskStatusPending
	}
	if !input.Status.Valid() {
		return domain.Task{}, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, input.Status)
	}

	task, err := s.taskRepository.CreateTask(ctx, input)
	if err != nil {
		return domain.Task{}, err
	}

	s.notify(ctx, domain.TaskEventAdded)
	return task, nil
}

// UpdateTaskStatus replaces the status of a task. An unknown id is not an
// error: the statement simply matches no row.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id uint64, status domain.TaskStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}

	if err := s.taskRepository.UpdateTaskStatus(ctx, id, status); err != nil {
		return err
	}

	s.notify(ctx, domain.TaskEventUpdated)
	return nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uint64) error {
	if err := s.taskRepository.DeleteTask(ctx, id); err != nil {
		return err
	}

	s.notify(ctx, domain.TaskEventDeleted)
	return nil
}

func (s *TaskService) notify(ctx context.Context, event domain.TaskEvent) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(ctx, event)
}

var _ ports.TaskService = (*TaskService)(nil)
