package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"
)

const (
	listTasksQuery = `
SELECT id, name, status, created_at
FROM tasks
ORDER BY created_at DESC, id DESC;
`
	getTaskQuery = `SELECT id, name, status, created_at FROM tasks WHERE id = ?;`

	insertTaskQuery       = `INSERT INTO tasks (name, status) VALUES (?, ?);`
	updateTaskStatusQuery = `UPDATE tasks SET status = ? WHERE id = ?;`
	deleteTaskQuery       = `DELETE FROM tasks WHERE id = ?;`
)

type TaskRepository struct {
	db *sqlx.DB
}

type taskRow struct {
	ID        uint64    `db:"id"`
	Name      string    `db:"name"`
	Status    string    `db:"status"`
	CreatedAt time.Time `db:"created_at"`
}

var _ ports.TaskRepository = (*TaskRepository)(nil)

func NewTaskRepository(db *sqlx.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) ListTasks(ctx context.Context) ([]domain.Task, error) {
	var rows []taskRow
	if err := r.db.SelectContext(ctx, &rows, listTasksQuery); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}

	tasks := make([]domain.Task, 0, len(rows))
	for _, row := range rows {
		tasks = append(tasks, mapTaskRowToDomainTask(row))
	}

	return tasks, nil
}

func (r *TaskRepository) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	var row taskRow
	if err := r.db.GetContext(ctx, &row, getTaskQuery, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.Task{}, domain.ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("get task %d: %w", id, err)
	}

	return mapTaskRowToDomainTask(row), nil
}

// CreateTask inserts the task and reads it back so the store-assigned id
// and created_at are both returned.
func (r *TaskRepository) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	result, err := r.db.ExecContext(ctx, insertTaskQuery, input.Name, string(input.Status))
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: last insert id: %w", err)
	}

	task, err := r.GetTask(ctx, uint64(id))
	if err != nil {
		return domain.Task{}, fmt.Errorf("insert task: read back %d: %w", id, err)
	}
	return task, nil
}

func (r *TaskRepository) UpdateTaskStatus(ctx context.Context, id uint64, status domain.TaskStatus) error {
	if _, err := r.db.ExecContext(ctx, updateTaskStatusQuery, string(status), id); err != nil {
		return fmt.Errorf("update task %d status: %w", id, err)
	}
	return nil
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id uint64) error {
	if _, err := r.db.ExecContext(ctx, deleteTaskQuery, id); err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	return nil
}

func mapTaskRowToDomainTask(row taskRow) domain.Task {
	return domain.Task{
		ID:        row.ID,
		Name:      row.Name,
		Status:    domain.TaskStatus(row.Status),
		CreatedAt: row.CreatedAt,
	}
}
