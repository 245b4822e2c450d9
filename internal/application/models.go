package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID  string
	IsAdmin bool
}

// UserInput captures caller provided user attributes.
type UserInput struct {
	Email       string
	DisplayName string
	Password    string
	IsAdmin     bool
}

// User represents a staff account exposed by the application services.
type User struct {
	ID          string
	Email       string
	DisplayName string
	IsAdmin     bool
	Disabled    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CreateUserParams wraps the data required to create a user.
type CreateUserParams struct {
	Principal Principal
	Input     UserInput
}

// UpdateUserParams wraps the data required to update a user.
type UpdateUserParams struct {
	Principal Principal
	UserID    string
	Input     UserInput
}

// UserCredentials models the authentication attributes persisted for a user.
type UserCredentials struct {
	User         User
	PasswordHash string
}

// ClientInput captures caller provided client fields.
type ClientInput struct {
	Name    string
	Email   string
	Phone   string
	Address *string
	Notes   *string
}

// Client represents a person or organisation the practice represents.
type Client struct {
	ID        string
	Name      string
	Email     string
	Phone     string
	Address   *string
	Notes     *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateClientParams wraps the data required to create a client.
type CreateClientParams struct {
	Principal Principal
	Input     ClientInput
}

// UpdateClientParams wraps the data required to update a client.
type UpdateClientParams struct {
	Principal Principal
	ClientID  string
	Input     ClientInput
}

// CaseStatus is the lifecycle state of a legal matter.
type CaseStatus string

const (
	CaseStatusOpen     CaseStatus = "open"
	CaseStatusPending  CaseStatus = "pending"
	CaseStatusClosed   CaseStatus = "closed"
	CaseStatusArchived CaseStatus = "archived"
)

func (s CaseStatus) valid() bool {
	switch s {
	case CaseStatusOpen, CaseStatusPending, CaseStatusClosed, CaseStatusArchived:
		return true
	}
	return false
}

// CaseInput captures caller provided case fields.
type CaseInput struct {
	Title        string
	CaseNumber   string
	ClientID     string
	Status       CaseStatus
	PracticeArea string
	Description  *string
}

// Case represents a legal matter handled for a client.
type Case struct {
	ID           string
	Title        string
	CaseNumber   string
	ClientID     string
	CreatorID    string
	Status       CaseStatus
	PracticeArea string
	Description  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CreateCaseParams wraps the data required to create a case.
type CreateCaseParams struct {
	Principal Principal
	Input     CaseInput
}

// UpdateCaseParams wraps the data required to update a case.
type UpdateCaseParams struct {
	Principal Principal
	CaseID    string
	Input     CaseInput
}

// ListCasesParams wraps the data required to list cases.
type ListCasesParams struct {
	Principal Principal
	ClientID  string
	Status    CaseStatus
}

// TaskPriority orders tasks by urgency.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

func (p TaskPriority) valid() bool {
	switch p {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	}
	return false
}

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusDone       TaskStatus = "done"
)

func (s TaskStatus) valid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return true
	}
	return false
}

// TaskInput captures caller provided task fields.
type TaskInput struct {
	Title    string
	CaseID   *string
	DueDate  *time.Time
	Priority TaskPriority
	Status   TaskStatus
}

// Task represents a unit of work, optionally attached to a case.
type Task struct {
	ID        string
	Title     string
	CaseID    *string
	DueDate   *time.Time
	Priority  TaskPriority
	Status    TaskStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateTaskParams wraps the data required to create a task.
type CreateTaskParams struct {
	Principal Principal
	Input     TaskInput
}

// UpdateTaskParams wraps the data required to update a task.
type UpdateTaskParams struct {
	Principal Principal
	TaskID    string
	Input     TaskInput
}

// ListTasksParams wraps the data required to list tasks.
type ListTasksParams struct {
	Principal Principal
	CaseID    string
	Status    TaskStatus
	DueBefore *time.Time
}

// Session represents an authenticated session issued to a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}

// AuthenticateParams captures the data required to authenticate a user.
type AuthenticateParams struct {
	Email    string
	Password string
}

// AuthenticateResult captures the outcome of a successful authentication attempt.
type AuthenticateResult struct {
	User    User
	Session Session
}
