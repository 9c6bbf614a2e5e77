package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"

	"tasktracker/internal/adapter/http/dto"
	"tasktracker/internal/core/domain"
)

var ErrInvalidTaskPayload = errors.New("invalid task payload")

// BuildCreateTaskInput checks the decoded request against the raw body so an
// explicit null status is rejected instead of silently defaulting.
func BuildCreateTaskInput(req dto.CreateTaskRequest, raw map[string]json.RawMessage) (domain.CreateTaskInput, error) {
	if hasJSONField(raw, "status") && req.Status == nil {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	status := domain.TaskStatusPending
	if req.Status != nil {
		status = domain.TaskStatus(*req.Status)
	}
	if !status.Valid() {
		return domain.CreateTaskInput{}, ErrInvalidTaskPayload
	}

	return domain.CreateTaskInput{Name: name, Status: status}, nil
}

func BuildTaskStatus(req dto.UpdateTaskStatusRequest, raw map[string]json.RawMessage) (domain.TaskStatus, error) {
	if !hasJSONField(raw, "status") || isJSONNull(raw["status"]) {
		return "", ErrInvalidTaskPayload
	}

	status := domain.TaskStatus(req.Status)
	if !status.Valid() {
		return "", ErrInvalidTaskPayload
	}

	return status, nil
}

// DecodeRaw splits a JSON object body into its top-level fields.
func DecodeRaw(body []byte) (map[string]json.RawMessage, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil || raw == nil {
		return nil, ErrInvalidTaskPayload
	}
	return raw, nil
}

func hasJSONField(raw map[string]json.RawMessage, field string) bool {
	_, ok := raw[field]
	return ok
}

func isJSONNull(value json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(value), []byte("null"))
}
