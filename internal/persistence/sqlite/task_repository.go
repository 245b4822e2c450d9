package sqlite

import (
	"context"
	"strings"

	"github.com/VooribindyJayasaireddy/legal-manager-sub000/internal/persistence"
)

// TaskRepository implements persistence.TaskRepository on SQLite.
type TaskRepository struct {
	db *DB
}

// NewTaskRepository binds a task repository to the shared pool.
func NewTaskRepository(db *DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = "id, title, case_id, due_date, priority, status, created_at, updated_at"

func (r *TaskRepository) CreateTask(ctx context.Context, task persistence.Task) error {
	return retry(ctx, func() error {
		_, err := r.db.db.ExecContext(ctx,
			`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			task.ID, task.Title, nullString(task.CaseID), nullTime(task.DueDate),
			task.Priority, task.Status, formatTime(task.CreatedAt), formatTime(task.UpdatedAt),
		)
		return mapError(err)
	})
}

func (r *TaskRepository) UpdateTask(ctx context.Context, task persistence.Task) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx,
			`UPDATE tasks SET title = ?, case_id = ?, due_date = ?, priority = ?, status = ?, updated_at = ? WHERE id = ?`,
			task.Title, nullString(task.CaseID), nullTime(task.DueDate),
			task.Priority, task.Status, formatTime(task.UpdatedAt), task.ID,
		)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func (r *TaskRepository) GetTask(ctx context.Context, id string) (persistence.Task, error) {
	row := r.db.db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	return scanTask(row)
}

func (r *TaskRepository) ListTasks(ctx context.Context, filter persistence.TaskFilter) ([]persistence.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks`
	var (
		clauses []string
		args    []any
	)
	if filter.CaseID != "" {
		clauses = append(clauses, "case_id = ?")
		args = append(args, filter.CaseID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, filter.Status)
	}
	if filter.DueBefore != nil {
		clauses = append(clauses, "due_date IS NOT NULL AND due_date < ?")
		args = append(args, formatTime(*filter.DueBefore))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at, id"

	rows, err := r.db.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var tasks []persistence.Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, mapError(rows.Err())
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id string) error {
	return retry(ctx, func() error {
		result, err := r.db.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return mapError(err)
		}
		return requireRowAffected(result)
	})
}

func scanTask(row rowScanner) (persistence.Task, error) {
	var (
		task               persistence.Task
		caseID, dueDate    = nullString(nil), nullString(nil)
		createdAt, updated string
	)
	err := row.Scan(&task.ID, &task.Title, &caseID, &dueDate,
		&task.Priority, &task.Status, &createdAt, &updated)
	if err != nil {
		return persistence.Task{}, mapError(err)
	}
	task.CaseID = stringPtr(caseID)
	if task.DueDate, err = timePtr(dueDate); err != nil {
		return persistence.Task{}, err
	}
	if task.CreatedAt, err = parseTime(createdAt); err != nil {
		return persistence.Task{}, err
	}
	if task.UpdatedAt, err = parseTime(updated); err != nil {
		return persistence.Task{}, err
	}
	return task, nil
}
