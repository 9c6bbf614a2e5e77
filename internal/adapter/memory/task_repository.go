package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"
)

// TaskRepository keeps tasks in process memory with the same observable
// behaviour as the MySQL table: store-assigned ids and created_at, newest
// first listing, and silent no-ops for unknown ids.
type TaskRepository struct {
	mu     sync.RWMutex
	nextID uint64
	tasks  map[uint64]domain.Task
	now    func() time.Time
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository() *TaskRepository {
	return &TaskRepository{
		tasks: make(map[uint64]domain.Task),
		now:   time.Now,
	}
}

// WithClock replaces the timestamp source, mostly for tests.
func (r *TaskRepository) WithClock(now func() time.Time) *TaskRepository {
	r.now = now
	return r
}

func (r *TaskRepository) ListTasks(_ context.Context) ([]domain.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tasks := make([]domain.Task, 0, len(r.tasks))
	for _, task := range r.tasks {
		tasks = append(tasks, task)
	}

	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})

	return tasks, nil
}

func (r *TaskRepository) GetTask(_ context.Context, id uint64) (domain.Task, error) {
	r.mu.RLock()
	task, ok := r.tasks[id]
	r.mu.RUnlock()

	if !ok {
		return domain.Task{}, domain.ErrTaskNotFound
	}
	return task, nil
}

func (r *TaskRepository) CreateTask(_ context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	task := domain.Task{
		ID:        r.nextID,
		Name:      input.Name,
		Status:    input.Status,
		CreatedAt: r.now().UTC(),
	}
	r.tasks[task.ID] = task

	return task, nil
}

func (r *TaskRepository) UpdateTaskStatus(_ context.Context, id uint64, status domain.TaskStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if task, ok := r.tasks[id]; ok {
		task.Status = status
		r.tasks[id] = task
	}
	return nil
}

func (r *TaskRepository) DeleteTask(_ context.Context, id uint64) error {
	r.mu.Lock()
	delete(r.tasks, id)
	r.mu.Unlock()
	return nil
}
