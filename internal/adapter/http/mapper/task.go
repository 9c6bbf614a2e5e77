package mapper

import (
	"fmt"
	"time"

	"tasktracker/internal/adapter/http/dto"
	"tasktracker/internal/core/domain"
)

func ToTaskItems(tasks []domain.Task) []dto.TaskItem {
	items := make([]dto.TaskItem, 0, len(tasks))
	for _, task := range tasks {
		items = append(items, ToTaskItem(task))
	}
	return items
}

func ToTaskItem(task domain.Task) dto.TaskItem {
	item := dto.TaskItem{
		ID:     task.ID,
		Name:   task.Name,
		Status: string(task.Status),
	}

	if !task.CreatedAt.IsZero() {
		item.CreatedAt = task.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	return item
}

// ToDomainTasks is the inverse of ToTaskItems, used by API consumers.
func ToDomainTasks(items []dto.TaskItem) ([]domain.Task, error) {
	tasks := make([]domain.Task, 0, len(items))
	for _, item := range items {
		task, err := ToDomainTask(item)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, nil
}

func ToDomainTask(item dto.TaskItem) (domain.Task, error) {
	task := domain.Task{
		ID:     item.ID,
		Name:   item.Name,
		Status: domain.TaskStatus(item.Status),
	}

	if item.CreatedAt != "" {
		createdAt, err := time.Parse(time.RFC3339Nano, item.CreatedAt)
		if err != nil {
			return domain.Task{}, fmt.Errorf("task %d: created_at: %w", item.ID, err)
		}
		task.CreatedAt = createdAt
	}

	return task, nil
}
