package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/testfixtures"
)

type taskRepoStub struct {
	tasks map[string]persistence.Task

	created []persistence.Task
	deleted []string
	filters []persistence.TaskFilter
}

func newTaskRepoStub(tasks ...persistence.Task) *taskRepoStub {
	stub := &taskRepoStub{tasks: make(map[string]persistence.Task)}
	for _, task := range tasks {
		stub.tasks[task.ID] = task
	}
	return stub
}

func (s *taskRepoStub) CreateTask(ctx context.Context, task persistence.Task) error {
	s.created = append(s.created, task)
	s.tasks[task.ID] = task
	return nil
}

func (s *taskRepoStub) UpdateTask(ctx context.Context, task persistence.Task) error {
	if _, ok := s.tasks[task.ID]; !ok {
		return persistence.ErrNotFound
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *taskRepoStub) GetTask(ctx context.Context, id string) (persistence.Task, error) {
	task, ok := s.tasks[id]
	if !ok {
		return persistence.Task{}, persistence.ErrNotFound
	}
	return task, nil
}

func (s *taskRepoStub) ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	s.filters = append(s.filters, filter)
	out := make([]persistence.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if filter.CaseID != "" && (task.CaseID == nil || *task.CaseID != filter.CaseID) {
			continue
		}
		if filter.Status != "" && task.Status != filter.Status {
			continue
		}
		if filter.DueBefore != nil && (task.DueDate == nil || !task.DueDate.Before(*filter.DueBefore)) {
			continue
		}
		out = append(out, task)
	}
	return out, nil
}

func (s *taskRepoStub) DeleteTask(ctx context.Context, id string) error {
	if _, ok := s.tasks[id]; !ok {
		return persistence.ErrNotFound
	}
	s.deleted = append(s.deleted, id)
	delete(s.tasks, id)
	return nil
}

func newTestTaskService(tasks *taskRepoStub, cases *caseRepoStub) *TaskService {
	return NewTaskService(tasks, cases, testfixtures.NewIDGenerator("task").Next, testfixtures.NewClock(testfixtures.ReferenceTime()).Now, nil)
}

func TestTaskService_CreateTask(t *testing.T) {
	client := testfixtures.NewClientRecord()
	matter := testfixtures.NewCaseRecord(client.ID)

	t.Run("creates a standalone task", func(t *testing.T) {
		repo := newTaskRepoStub()
		service := newTestTaskService(repo, newCaseRepoStub())

		task, err := service.CreateTask(context.Background(), CreateTaskParams{
			Principal: staffPrincipal,
			Input:     TaskInput{Title: "File response", Priority: TaskPriorityHigh, Status: TaskStatusTodo},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if task.CaseID != nil {
			t.Fatalf("expected no case link, got %v", task.CaseID)
		}
		if len(repo.created) != 1 {
			t.Fatalf("expected 1 persisted task, got %d", len(repo.created))
		}
	})

	t.Run("accepts a link to an existing case", func(t *testing.T) {
		service := newTestTaskService(newTaskRepoStub(), newCaseRepoStub(matter))

		task, err := service.CreateTask(context.Background(), CreateTaskParams{
			Principal: staffPrincipal,
			Input:     TaskInput{Title: "Draft brief", CaseID: &matter.ID, Priority: TaskPriorityMedium, Status: TaskStatusTodo},
		})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if task.CaseID == nil || *task.CaseID != matter.ID {
			t.Fatalf("expected case link %q, got %v", matter.ID, task.CaseID)
		}
	})

	t.Run("rejects a link to an unknown case", func(t *testing.T) {
		service := newTestTaskService(newTaskRepoStub(), newCaseRepoStub())

		ghost := "ghost-case"
		_, err := service.CreateTask(context.Background(), CreateTaskParams{
			Principal: staffPrincipal,
			Input:     TaskInput{Title: "Orphan", CaseID: &ghost, Priority: TaskPriorityLow, Status: TaskStatusTodo},
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		if verr.FieldErrors["case_id"] != "case does not exist" {
			t.Fatalf("expected a case existence error, got %v", verr.FieldErrors)
		}
	})

	t.Run("collects invalid enum errors", func(t *testing.T) {
		service := newTestTaskService(newTaskRepoStub(), newCaseRepoStub())

		_, err := service.CreateTask(context.Background(), CreateTaskParams{
			Principal: staffPrincipal,
			Input:     TaskInput{Priority: "urgent", Status: "blocked"},
		})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
		for _, field := range []string{"title", "priority", "status"} {
			if _, ok := verr.FieldErrors[field]; !ok {
				t.Fatalf("expected a %q field error, got %v", field, verr.FieldErrors)
			}
		}
	})
}

func TestTaskService_UpdateTask(t *testing.T) {
	existing := testfixtures.NewTaskRecord()
	repo := newTaskRepoStub(existing)
	service := newTestTaskService(repo, newCaseRepoStub())

	updated, err := service.UpdateTask(context.Background(), UpdateTaskParams{
		Principal: staffPrincipal,
		TaskID:    existing.ID,
		Input:     TaskInput{Title: "Reworked", Priority: TaskPriorityHigh, Status: TaskStatusInProgress},
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Title != "Reworked" || updated.Status != TaskStatusInProgress {
		t.Fatalf("unexpected task after update: %+v", updated)
	}
	if !updated.CreatedAt.Equal(existing.CreatedAt) {
		t.Fatal("expected the creation time to be preserved")
	}
}

func TestTaskService_ListTasks(t *testing.T) {
	client := testfixtures.NewClientRecord()
	matter := testfixtures.NewCaseRecord(client.ID)
	due := testfixtures.ReferenceTime().Add(24 * time.Hour)

	linked := testfixtures.NewTaskRecord(func(task *persistence.Task) {
		task.CaseID = &matter.ID
		task.DueDate = &due
	})
	unlinked := testfixtures.NewTaskRecord(func(task *persistence.Task) {
		task.Status = "done"
	})
	repo := newTaskRepoStub(linked, unlinked)
	service := newTestTaskService(repo, newCaseRepoStub(matter))

	t.Run("filters by case", func(t *testing.T) {
		tasks, err := service.ListTasks(context.Background(), ListTasksParams{Principal: staffPrincipal, CaseID: matter.ID})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != linked.ID {
			t.Fatalf("expected only the linked task, got %+v", tasks)
		}
	})

	t.Run("filters by due date", func(t *testing.T) {
		cutoff := due.Add(time.Hour)
		tasks, err := service.ListTasks(context.Background(), ListTasksParams{Principal: staffPrincipal, DueBefore: &cutoff})
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(tasks) != 1 || tasks[0].ID != linked.ID {
			t.Fatalf("expected only the dated task, got %+v", tasks)
		}
	})

	t.Run("unknown status filter is rejected", func(t *testing.T) {
		_, err := service.ListTasks(context.Background(), ListTasksParams{Principal: staffPrincipal, Status: "blocked"})
		var verr *ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("expected a validation error, got %v", err)
		}
	})
}

func TestTaskService_DeleteTask(t *testing.T) {
	existing := testfixtures.NewTaskRecord()
	repo := newTaskRepoStub(existing)
	service := newTestTaskService(repo, newCaseRepoStub())

	if err := service.DeleteTask(context.Background(), staffPrincipal, existing.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := service.DeleteTask(context.Background(), staffPrincipal, existing.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on repeat delete, got %v", err)
	}
}
