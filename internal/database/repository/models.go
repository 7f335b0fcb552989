package repository

import "time"

// User represents a users row.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Task represents a tasks row.
type Task struct {
	ID        string
	UserID    string
	Title     string
	Done      bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
