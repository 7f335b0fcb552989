package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

// UserRepo handles user rows.
type UserRepo struct {
	db *sql.DB
}

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// Create inserts a new user. Email uniqueness is enforced by the schema
// (case-insensitive); violations map to ErrEmailTaken.
func (r *UserRepo) Create(ctx context.Context, u User) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO users(id, email, password_hash, created_at, updated_at)
	VALUES (?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, u.ID, u.Email, u.PasswordHash)
	if err != nil {
		if isUniqueEmailError(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

// ByEmail looks a user up by email. The users.email column is NOCASE, so the
// lookup is case-insensitive.
func (r *UserRepo) ByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// ByID looks a user up by id.
func (r *UserRepo) ByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at, updated_at FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func scanUser(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

// isUniqueEmailError matches sqlite's unique-constraint message for the email
// column.
func isUniqueEmailError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: users.email")
}
