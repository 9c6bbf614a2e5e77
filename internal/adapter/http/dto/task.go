package dto

type TaskItem struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at,omitempty"`
}

type CreateTaskRequest struct {
	Name   string  `json:"name" binding:"required,max=255"`
	Status *string `json:"status" binding:"omitempty,oneof=pending completed"`
}

type UpdateTaskStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=pending completed"`
}
