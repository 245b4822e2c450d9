package application

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// TaskService manages work items, which may stand alone or attach to a
// case.
type TaskService struct {
	tasks       persistence.TaskRepository
	cases       persistence.CaseRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

func NewTaskService(tasks persistence.TaskRepository, cases persistence.CaseRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TaskService {
	if now == nil {
		now = time.Now
	}
	return &TaskService{tasks: tasks, cases: cases, idGenerator: idGenerator, now: now, logger: logger}
}

// CreateTask records a new work item.
func (s *TaskService) CreateTask(ctx context.Context, params CreateTaskParams) (Task, error) {
	logger := serviceLogger(ctx, s.logger, "task_service", "create_task")

	if err := s.validateTaskInput(ctx, params.Input); err != nil {
		return Task{}, err
	}

	now := s.now()
	record := persistence.Task{
		ID:        s.idGenerator(),
		Title:     strings.TrimSpace(params.Input.Title),
		CaseID:    params.Input.CaseID,
		DueDate:   params.Input.DueDate,
		Priority:  string(params.Input.Priority),
		Status:    string(params.Input.Status),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.tasks.CreateTask(ctx, record); err != nil {
		mapped := mapTaskRepoError(err)
		logger.Error("task creation failed", slog.String("error_kind", ErrorKind(mapped)))
		return Task{}, mapped
	}

	logger.Info("task created", slog.String("task_id", record.ID))
	return taskFromRecord(record), nil
}

// UpdateTask replaces the mutable attributes of a work item.
func (s *TaskService) UpdateTask(ctx context.Context, params UpdateTaskParams) (Task, error) {
	logger := serviceLogger(ctx, s.logger, "task_service", "update_task", slog.String("task_id", params.TaskID))

	if err := s.validateTaskInput(ctx, params.Input); err != nil {
		return Task{}, err
	}

	record, err := s.tasks.GetTask(ctx, params.TaskID)
	if err != nil {
		return Task{}, mapTaskRepoError(err)
	}

	record.Title = strings.TrimSpace(params.Input.Title)
	record.CaseID = params.Input.CaseID
	record.DueDate = params.Input.DueDate
	record.Priority = string(params.Input.Priority)
	record.Status = string(params.Input.Status)
	record.UpdatedAt = s.now()

	if err := s.tasks.UpdateTask(ctx, record); err != nil {
		mapped := mapTaskRepoError(err)
		logger.Error("task update failed", slog.String("error_kind", ErrorKind(mapped)))
		return Task{}, mapped
	}

	logger.Info("task updated")
	return taskFromRecord(record), nil
}

// GetTask returns a single work item.
func (s *TaskService) GetTask(ctx context.Context, principal Principal, taskID string) (Task, error) {
	record, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return Task{}, mapTaskRepoError(err)
	}
	return taskFromRecord(record), nil
}

// ListTasks returns work items, optionally narrowed by case, status, or
// due date.
func (s *TaskService) ListTasks(ctx context.Context, params ListTasksParams) ([]Task, error) {
	if params.Status != "" && !params.Status.valid() {
		verr := &ValidationError{}
		verr.add("status", "status must be one of todo, in_progress, done")
		return nil, verr
	}

	records, err := s.tasks.ListTasks(ctx, persistence.TaskFilter{
		CaseID:    params.CaseID,
		Status:    string(params.Status),
		DueBefore: params.DueBefore,
	})
	if err != nil {
		return nil, mapTaskRepoError(err)
	}
	tasks := make([]Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, taskFromRecord(record))
	}
	return tasks, nil
}

// DeleteTask removes a work item.
func (s *TaskService) DeleteTask(ctx context.Context, principal Principal, taskID string) error {
	logger := serviceLogger(ctx, s.logger, "task_service", "delete_task", slog.String("task_id", taskID))

	if err := s.tasks.DeleteTask(ctx, taskID); err != nil {
		mapped := mapTaskRepoError(err)
		logger.Error("task deletion failed", slog.String("error_kind", ErrorKind(mapped)))
		return mapped
	}

	logger.Info("task deleted")
	return nil
}

func (s *TaskService) validateTaskInput(ctx context.Context, input TaskInput) error {
	verr := &ValidationError{}

	if strings.TrimSpace(input.Title) == "" {
		verr.add("title", "title is required")
	}
	if !input.Priority.valid() {
		verr.add("priority", "priority must be one of low, medium, high")
	}
	if !input.Status.valid() {
		verr.add("status", "status must be one of todo, in_progress, done")
	}
	if input.CaseID != nil {
		if _, err := s.cases.GetCase(ctx, *input.CaseID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				verr.add("case_id", "case does not exist")
			} else {
				return err
			}
		}
	}

	if verr.HasErrors() {
		return verr
	}
	return nil
}

func mapTaskRepoError(err error) error {
	switch {
	case errors.Is(err, persistence.ErrNotFound):
		return ErrNotFound
	default:
		return err
	}
}

func taskFromRecord(record persistence.Task) Task {
	return Task{
		ID:        record.ID,
		Title:     record.Title,
		CaseID:    record.CaseID,
		DueDate:   record.DueDate,
		Priority:  TaskPriority(record.Priority),
		Status:    TaskStatus(record.Status),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
