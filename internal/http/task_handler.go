package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/application"
)

type taskService interface {
	CreateTask(ctx context.Context, params application.CreateTaskParams) (application.Task, error)
	UpdateTask(ctx context.Context, params application.UpdateTaskParams) (application.Task, error)
	GetTask(ctx context.Context, principal application.Principal, taskID string) (application.Task, error)
	ListTasks(ctx context.Context, params application.ListTasksParams) ([]application.Task, error)
	DeleteTask(ctx context.Context, principal application.Principal, taskID string) error
}

type TaskHandler struct {
	service   taskService
	responder responder
}

func NewTaskHandler(service taskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{service: service, responder: newResponder(logger)}
}

func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	task, err := h.service.CreateTask(r.Context(), application.CreateTaskParams{
		Principal: principal,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, taskResponse{Task: taskToDTO(task)})
}

func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	var req taskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	input, err := req.toInput()
	if err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, err)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	task, err := h.service.UpdateTask(r.Context(), application.UpdateTaskParams{
		Principal: principal,
		TaskID:    taskID,
		Input:     input,
	})
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, taskResponse{Task: taskToDTO(task)})
}

func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	task, err := h.service.GetTask(r.Context(), principal, taskID)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, taskResponse{Task: taskToDTO(task)})
}

func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	values := r.URL.Query()
	params := application.ListTasksParams{
		Principal: principal,
		CaseID:    strings.TrimSpace(values.Get("case_id")),
		Status:    application.TaskStatus(strings.TrimSpace(values.Get("status"))),
	}
	if dueValue := strings.TrimSpace(values.Get("due_before")); dueValue != "" {
		due, err := time.Parse(time.RFC3339, dueValue)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errors.New("due_before must be an RFC 3339 timestamp"))
			return
		}
		params.DueBefore = &due
	}

	tasks, err := h.service.ListTasks(r.Context(), params)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	dtos := make([]taskDTO, 0, len(tasks))
	for _, task := range tasks {
		dtos = append(dtos, taskToDTO(task))
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, listTasksResponse{Tasks: dtos})
}

func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	taskID, ok := ResourceIDFromContext(r.Context())
	if !ok || strings.TrimSpace(taskID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidResourceID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	if err := h.service.DeleteTask(r.Context(), principal, taskID); err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

type taskRequest struct {
	Title    string  `json:"title"`
	CaseID   *string `json:"case_id"`
	DueDate  *string `json:"due_date"`
	Priority string  `json:"priority"`
	Status   string  `json:"status"`
}

func (req taskRequest) toInput() (application.TaskInput, error) {
	input := application.TaskInput{
		Title:    req.Title,
		CaseID:   req.CaseID,
		Priority: application.TaskPriority(req.Priority),
		Status:   application.TaskStatus(req.Status),
	}
	if req.DueDate != nil {
		if value := strings.TrimSpace(*req.DueDate); value != "" {
			due, err := time.Parse(time.RFC3339, value)
			if err != nil {
				return application.TaskInput{}, errors.New("due_date must be an RFC 3339 timestamp")
			}
			input.DueDate = &due
		}
	}
	return input, nil
}

type taskResponse struct {
	Task taskDTO `json:"task"`
}

type listTasksResponse struct {
	Tasks []taskDTO `json:"tasks"`
}

type taskDTO struct {
	ID        string  `json:"id"`
	Title     string  `json:"title"`
	CaseID    *string `json:"case_id,omitempty"`
	DueDate   *string `json:"due_date,omitempty"`
	Priority  string  `json:"priority"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func taskToDTO(task application.Task) taskDTO {
	dto := taskDTO{
		ID:        task.ID,
		Title:     task.Title,
		CaseID:    task.CaseID,
		Priority:  string(task.Priority),
		Status:    string(task.Status),
		CreatedAt: task.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt: task.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
	if task.DueDate != nil {
		due := task.DueDate.UTC().Format(time.RFC3339Nano)
		dto.DueDate = &due
	}
	return dto
}
