package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"tasktracker/internal/adapter/http/dto"
	"tasktracker/internal/adapter/http/mapper"
	"tasktracker/internal/adapter/http/middleware"
	"tasktracker/internal/adapter/http/validation"
	"tasktracker/internal/core/domain"
	"tasktracker/internal/core/ports"
	"tasktracker/pkg/apierrors"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"go.uber.org/zap"
)

type TaskHandler struct {
	taskService ports.TaskService
}

func NewTaskHandler(taskService ports.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

func (h *TaskHandler) ListTasks(c *gin.Context) {
	lang := middleware.GetLang(c)

	tasks, err := h.taskService.ListTasks(c.Request.Context())
	if err != nil {
		zap.L().Error("failed to list tasks", zap.Error(err))
		apierrors.Abort(c, http.StatusInternalServerError, apierrors.MsgFailListTask, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItems(tasks))
}

func (h *TaskHandler) GetTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c, lang)
	if !ok {
		return
	}

	task, err := h.taskService.GetTask(c.Request.Context(), taskID)
	if err != nil {
		if errors.Is(err, domain.ErrTaskNotFound) {
			apierrors.Abort(c, http.StatusNotFound, apierrors.MsgTaskNotFound, lang)
			return
		}

		zap.L().Error("failed to get task", zap.Uint64("task_id", taskID), zap.Error(err))
		apierrors.Abort(c, http.StatusInternalServerError, apierrors.MsgFailGetTask, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) CreateTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	body, err := c.GetRawData()
	if err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	raw, err := validation.DecodeRaw(body)
	if err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	var req dto.CreateTaskRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	input, err := validation.BuildCreateTaskInput(req, raw)
	if err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
			return
		}

		zap.L().Error("failed to create task", zap.String("name", input.Name), zap.Error(err))
		apierrors.Abort(c, http.StatusInternalServerError, apierrors.MsgFailCreateTask, lang)
		return
	}

	c.JSON(http.StatusOK, mapper.ToTaskItem(task))
}

func (h *TaskHandler) UpdateTaskStatus(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c, lang)
	if !ok {
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	raw, err := validation.DecodeRaw(body)
	if err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	var req dto.UpdateTaskStatusRequest
	if err := binding.JSON.BindBody(body, &req); err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	status, err := validation.BuildTaskStatus(req, raw)
	if err != nil {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
		return
	}

	if err := h.taskService.UpdateTaskStatus(c.Request.Context(), taskID, status); err != nil {
		if errors.Is(err, domain.ErrInvalidStatus) {
			apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskPayload, lang)
			return
		}

		zap.L().Error("failed to update task status", zap.Uint64("task_id", taskID), zap.Error(err))
		apierrors.Abort(c, http.StatusInternalServerError, apierrors.MsgFailUpdateTask, lang)
		return
	}

	c.Status(http.StatusOK)
}

func (h *TaskHandler) DeleteTask(c *gin.Context) {
	lang := middleware.GetLang(c)

	taskID, ok := parseTaskID(c, lang)
	if !ok {
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), taskID); err != nil {
		zap.L().Error("failed to delete task", zap.Uint64("task_id", taskID), zap.Error(err))
		apierrors.Abort(c, http.StatusInternalServerError, apierrors.MsgFailDeleteTask, lang)
		return
	}

	c.Status(http.StatusOK)
}

func parseTaskID(c *gin.Context, lang string) (uint64, bool) {
	taskID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || taskID == 0 {
		apierrors.Abort(c, http.StatusBadRequest, apierrors.MsgInvalidTaskID, lang)
		return 0, false
	}
	return taskID, true
}
