package repository

import (
	"context"
	"database/sql"
	"errors"
)

var ErrTaskNotFound = errors.New("task not found")

// TaskRepo handles task rows.
type TaskRepo struct {
	db *sql.DB
}

func NewTaskRepo(db *sql.DB) *TaskRepo { return &TaskRepo{db: db} }

func (r *TaskRepo) Create(ctx context.Context, t Task) error {
	_, err := r.db.ExecContext(ctx, `
	INSERT INTO tasks(id, user_id, title, done, created_at, updated_at)
	VALUES (?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP);
	`, t.ID, t.UserID, t.Title, t.Done)
	return err
}

// ListByUser returns the user's tasks, open tasks first, newest first within
// each group.
func (r *TaskRepo) ListByUser(ctx context.Context, userID string) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
	SELECT id, user_id, title, done, created_at, updated_at
	FROM tasks WHERE user_id = ?
	ORDER BY done ASC, created_at DESC, id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.Done, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *TaskRepo) SetDone(ctx context.Context, id string, done bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET done = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, done, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TaskRepo) Rename(ctx context.Context, id, title string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE tasks SET title = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`, title, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *TaskRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTaskNotFound
	}
	return nil
}
