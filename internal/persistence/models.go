package persistence

import "time"

// User represents a staff account in the practice.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	IsAdmin      bool
	Disabled     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
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

// Case represents a legal matter handled for a client.
type Case struct {
	ID           string
	Title        string
	CaseNumber   string
	ClientID     string
	CreatorID    string
	Status       string
	PracticeArea string
	Description  *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Task represents a unit of work, optionally attached to a case.
type Task struct {
	ID        string
	Title     string
	CaseID    *string
	DueDate   *time.Time
	Priority  string
	Status    string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Session represents an authentication session persisted for a user.
type Session struct {
	ID        string
	UserID    string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
	RevokedAt *time.Time
}
