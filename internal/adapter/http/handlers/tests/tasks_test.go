package tests

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tasktracker/internal/adapter/http/dto"
	"tasktracker/internal/adapter/http/handlers"
	"tasktracker/internal/adapter/http/middleware"
	"tasktracker/internal/core/domain"
	"tasktracker/pkg/apierrors"
	"tasktracker/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type taskServiceMock struct {
	mock.Mock
}

func (m *taskServiceMock) ListTasks(ctx context.Context) ([]domain.Task, error) {
	args := m.Called(ctx)

	var tasks []domain.Task
	if value := args.Get(0); value != nil {
		tasks = value.([]domain.Task)
	}
	return tasks, args.Error(1)
}

func (m *taskServiceMock) GetTask(ctx context.Context, id uint64) (domain.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) CreateTask(ctx context.Context, input domain.CreateTaskInput) (domain.Task, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.Task), args.Error(1)
}

func (m *taskServiceMock) UpdateTaskStatus(ctx context.Context, id uint64, status domain.TaskStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *taskServiceMock) DeleteTask(ctx context.Context, id uint64) error {
	return m.Called(ctx, id).Error(0)
}

func newTaskRouter(handler *handlers.TaskHandler) *gin.Engine {
	router := gin.New()
	tasks := router.Group("/tasks", middleware.LanguageMiddleware())
	tasks.GET("", handler.ListTasks)
	tasks.POST("", handler.CreateTask)
	tasks.GET("/:id", handler.GetTask)
	tasks.PUT("/:id", handler.UpdateTaskStatus)
	tasks.DELETE("/:id", handler.DeleteTask)
	return router
}

func perform(router *gin.Engine, method, path, body, lang string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept-Language", lang)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apierrors.JsonErr {
	t.Helper()

	var got apierrors.JsonErr
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	return got
}

func TestTaskHandler_ListTasks_Success(t *testing.T) {
	newer := time.Date(2026, 3, 1, 10, 20, 30, 0, time.UTC)
	older := time.Date(2026, 3, 1, 9, 20, 30, 0, time.UTC)

	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything).Return(
		[]domain.Task{
			{ID: 2, Name: "Write report", Status: domain.TaskStatusCompleted, CreatedAt: newer},
			{ID: 1, Name: "Buy milk", Status: domain.TaskStatusPending, CreatedAt: older},
		},
		nil,
	).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodGet, "/tasks", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)

	var got []dto.TaskItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	require.Equal(t, uint64(2), got[0].ID)
	require.Equal(t, "Write report", got[0].Name)
	require.Equal(t, "completed", got[0].Status)
	require.Equal(t, "2026-03-01T10:20:30Z", got[0].CreatedAt)
	require.Equal(t, uint64(1), got[1].ID)
	require.Equal(t, "pending", got[1].Status)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_ListTasks_EmptyIsArray(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything).Return(nil, nil).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodGet, "/tasks", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `[]`, rec.Body.String())
}

func TestTaskHandler_ListTasks_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("ListTasks", mock.Anything).Return(nil, errors.New("db is down")).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodGet, "/tasks", "", translator.LanguageEn)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusInternalServerError, got.ErrDetails.Code)
	require.Equal(t, "failed to list tasks", got.ErrDetails.Message)
	require.NotContains(t, rec.Body.String(), "db is down")
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(4)).Return(
		domain.Task{ID: 4, Name: "Call bank", Status: domain.TaskStatusPending},
		nil,
	).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodGet, "/tasks/4", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":4,"name":"Call bank","status":"pending"}`, rec.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_GetTask_NotFound(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("GetTask", mock.Anything, uint64(999)).Return(domain.Task{}, domain.ErrTaskNotFound).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodGet, "/tasks/999", "", translator.LanguageFr)

	require.Equal(t, http.StatusNotFound, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, http.StatusNotFound, got.ErrDetails.Code)
	require.Equal(t, "Tâche introuvable", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_InvalidTaskID(t *testing.T) {
	serviceMock := new(taskServiceMock)
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	cases := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/tasks/abc", ""},
		{http.MethodGet, "/tasks/0", ""},
		{http.MethodPut, "/tasks/-1", `{"status":"completed"}`},
		{http.MethodDelete, "/tasks/1.5", ""},
	}

	for _, tc := range cases {
		rec := perform(router, tc.method, tc.path, tc.body, translator.LanguageEn)

		require.Equal(t, http.StatusBadRequest, rec.Code, tc.method+" "+tc.path)
		got := decodeError(t, rec)
		require.Equal(t, "Invalid id", got.ErrDetails.Message)
	}
	serviceMock.AssertNotCalled(t, "GetTask", mock.Anything, mock.Anything)
	serviceMock.AssertNotCalled(t, "UpdateTaskStatus", mock.Anything, mock.Anything, mock.Anything)
	serviceMock.AssertNotCalled(t, "DeleteTask", mock.Anything, mock.Anything)
}

func TestTaskHandler_CreateTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, domain.CreateTaskInput{
		Name:   "Buy milk",
		Status: domain.TaskStatusPending,
	}).Return(domain.Task{ID: 1, Name: "Buy milk", Status: domain.TaskStatusPending}, nil).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodPost, "/tasks", `{"name":"Buy milk","status":"pending"}`, translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"id":1,"name":"Buy milk","status":"pending"}`, rec.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_DefaultsStatus(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, domain.CreateTaskInput{
		Name:   "Call bank",
		Status: domain.TaskStatusPending,
	}).Return(domain.Task{ID: 9, Name: "Call bank", Status: domain.TaskStatusPending}, nil).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodPost, "/tasks", `{"name":"Call bank"}`, translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_CreateTask_InvalidPayload(t *testing.T) {
	bodies := []string{
		``,
		`not json`,
		`{}`,
		`{"name":""}`,
		`{"name":"   "}`,
		`{"name":"x","status":null}`,
		`{"name":"x","status":"blocked"}`,
		`{"name":42}`,
	}

	for _, body := range bodies {
		serviceMock := new(taskServiceMock)
		router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

		rec := perform(router, http.MethodPost, "/tasks", body, translator.LanguageEn)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		got := decodeError(t, rec)
		require.Equal(t, "Invalid task payload", got.ErrDetails.Message, body)
		serviceMock.AssertNotCalled(t, "CreateTask", mock.Anything, mock.Anything)
	}
}

func TestTaskHandler_CreateTask_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("CreateTask", mock.Anything, mock.Anything).Return(domain.Task{}, errors.New("db is down")).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodPost, "/tasks", `{"name":"Buy milk"}`, translator.LanguageEn)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "failed to create the task", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTaskStatus_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTaskStatus", mock.Anything, uint64(3), domain.TaskStatusCompleted).Return(nil).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodPut, "/tasks/3", `{"status":"completed"}`, translator.LanguageEn)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Empty(t, rec.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_UpdateTaskStatus_InvalidPayload(t *testing.T) {
	for _, body := range []string{``, `{}`, `{"status":null}`, `{"status":"archived"}`, `{"status":1}`} {
		serviceMock := new(taskServiceMock)
		router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

		rec := perform(router, http.MethodPut, "/tasks/3", body, translator.LanguageFr)

		require.Equal(t, http.StatusBadRequest, rec.Code, body)
		got := decodeError(t, rec)
		require.Equal(t, "Contenu de la tâche invalide", got.ErrDetails.Message, body)
		serviceMock.AssertNotCalled(t, "UpdateTaskStatus", mock.Anything, mock.Anything, mock.Anything)
	}
}

func TestTaskHandler_UpdateTaskStatus_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("UpdateTaskStatus", mock.Anything, uint64(3), domain.TaskStatusPending).
		Return(errors.New("db is down")).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodPut, "/tasks/3", `{"status":"pending"}`, translator.LanguageEn)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "failed to update the task status", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask_Success(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("DeleteTask", mock.Anything, uint64(5)).Return(nil).Twice()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	first := perform(router, http.MethodDelete, "/tasks/5", "", translator.LanguageEn)
	second := perform(router, http.MethodDelete, "/tasks/5", "", translator.LanguageEn)

	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, http.StatusOK, second.Code)
	require.Empty(t, first.Body.String())
	serviceMock.AssertExpectations(t)
}

func TestTaskHandler_DeleteTask_Error(t *testing.T) {
	serviceMock := new(taskServiceMock)
	serviceMock.On("DeleteTask", mock.Anything, uint64(5)).Return(errors.New("db is down")).Once()
	router := newTaskRouter(handlers.NewTaskHandler(serviceMock))

	rec := perform(router, http.MethodDelete, "/tasks/5", "", translator.LanguageEn)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	got := decodeError(t, rec)
	require.Equal(t, "failed to delete the task", got.ErrDetails.Message)
	serviceMock.AssertExpectations(t)
}
