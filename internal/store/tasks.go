package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrTaskNotFound is returned when a task does not exist for the given user.
// A task owned by another user reads identically to a missing task.
var ErrTaskNotFound = errors.New("task not found")

// Task is one todo item owned by a single user.
type Task struct {
	ID          int64
	UserID      string
	Title       string
	Description string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// TaskFilter selects tasks by completion state.
type TaskFilter string

const (
	FilterAll       TaskFilter = "all"
	FilterPending   TaskFilter = "pending"
	FilterCompleted TaskFilter = "completed"
)

// CreateTask inserts a task for userID and returns it with its assigned id.
func (s *Store) CreateTask(ctx context.Context, userID, title, description string) (Task, error) {
	t := Task{
		UserID:      userID,
		Title:       title,
		Description: description,
		CreatedAt:   now(),
	}
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO tasks (user_id, title, description, completed, created_at)
		VALUES (?, ?, ?, 0, ?)`,
		t.UserID, t.Title, t.Description, t.CreatedAt,
	)
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	t.ID, err = res.LastInsertId()
	if err != nil {
		return Task{}, fmt.Errorf("create task: %w", err)
	}
	return t, nil
}

// ListTasks returns userID's tasks matching filter, newest-first by creation
// time with id as tiebreak. The filter is applied before ordering.
func (s *Store) ListTasks(ctx context.Context, userID string, filter TaskFilter) ([]Task, error) {
	query := "SELECT id, user_id, title, description, completed, created_at, updated_at FROM tasks WHERE user_id = ?"
	switch filter {
	case FilterAll:
	case FilterPending:
		query += " AND completed = 0"
	case FilterCompleted:
		query += " AND completed = 1"
	default:
		return nil, fmt.Errorf("invalid task filter %q", filter)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var out []Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return out, nil
}

// GetTask fetches a single task owned by userID, or ErrTaskNotFound.
func (s *Store) GetTask(ctx context.Context, userID string, taskID int64) (Task, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, title, description, completed, created_at, updated_at
		FROM tasks WHERE id = ? AND user_id = ?`,
		taskID, userID,
	)
	t, err := scanTask(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Task{}, ErrTaskNotFound
	}
	if err != nil {
		return Task{}, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// CompleteTask marks the task completed and returns the updated row.
// Completing an already-completed task succeeds and leaves it completed.
func (s *Store) CompleteTask(ctx context.Context, userID string, taskID int64) (Task, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE tasks SET completed = 1, updated_at = ? WHERE id = ? AND user_id = ?`,
		now(), taskID, userID,
	)
	if err != nil {
		return Task{}, fmt.Errorf("complete task: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return Task{}, ErrTaskNotFound
	}
	return s.GetTask(ctx, userID, taskID)
}

// UpdateTask updates whichever of title/description are non-nil and returns
// the updated row. A nil pointer leaves the field untouched.
func (s *Store) UpdateTask(ctx context.Context, userID string, taskID int64, title, description *string) (Task, error) {
	t, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return Task{}, err
	}
	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}
	ts := now()
	t.UpdatedAt = &ts

	_, err = s.db.ExecContext(ctx, `
		UPDATE tasks SET title = ?, description = ?, updated_at = ? WHERE id = ? AND user_id = ?`,
		t.Title, t.Description, ts, taskID, userID,
	)
	if err != nil {
		return Task{}, fmt.Errorf("update task: %w", err)
	}
	return t, nil
}

// DeleteTask removes the task and returns the row as it was before deletion.
func (s *Store) DeleteTask(ctx context.Context, userID string, taskID int64) (Task, error) {
	t, err := s.GetTask(ctx, userID, taskID)
	if err != nil {
		return Task{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE id = ? AND user_id = ?", taskID, userID); err != nil {
		return Task{}, fmt.Errorf("delete task: %w", err)
	}
	return t, nil
}

// UsersWithPendingTasks returns the distinct user ids that have at least one
// incomplete task. Used by the digest scheduler.
func (s *Store) UsersWithPendingTasks(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT DISTINCT user_id FROM tasks WHERE completed = 0 ORDER BY user_id")
	if err != nil {
		return nil, fmt.Errorf("users with pending tasks: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("users with pending tasks: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (Task, error) {
	var (
		t         Task
		desc      sql.NullString
		completed int
		updated   sql.NullTime
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &desc, &completed, &t.CreatedAt, &updated)
	if err != nil {
		return Task{}, err
	}
	t.Description = desc.String
	t.Completed = completed != 0
	if updated.Valid {
		ts := updated.Time
		t.UpdatedAt = &ts
	}
	return t, nil
}
