package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/runoshun/taskdag/internal/domain"
)

const taskColumns = `id, project_id, title, description, status, priority, assignee_id, estimated_hours, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var (
		task             domain.Task
		hours            sql.NullFloat64
		created, updated string
	)
	if err := row.Scan(&task.ID, &task.ProjectID, &task.Title, &task.Description, &task.Status, &task.Priority,
		&task.AssigneeID, &hours, &created, &updated); err != nil {
		return nil, err
	}
	if hours.Valid {
		h := hours.Float64
		task.EstimatedHours = &h
	}
	var err error
	if task.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	if task.Updated, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &task, nil
}

// GetTask retrieves a task by ID.
func (s *Store) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	task, err := scanTask(db.QueryRowContext(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return task, nil
}

// ListTasksByProject retrieves the tasks of a project ordered by ID.
func (s *Store) ListTasksByProject(ctx context.Context, projectID string) ([]*domain.Task, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE project_id = ? ORDER BY id`, projectID)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]*domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// SaveTask creates or updates a task.
// Updates keep the row, so dependencies referencing the task survive.
func (s *Store) SaveTask(ctx context.Context, task *domain.Task) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	var hours sql.NullFloat64
	if task.EstimatedHours != nil {
		hours = sql.NullFloat64{Float64: *task.EstimatedHours, Valid: true}
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			project_id = excluded.project_id,
			title = excluded.title,
			description = excluded.description,
			status = excluded.status,
			priority = excluded.priority,
			assignee_id = excluded.assignee_id,
			estimated_hours = excluded.estimated_hours,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`,
		task.ID,
		task.ProjectID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.AssigneeID,
		hours,
		formatTime(task.Created),
		formatTime(task.Updated),
	)
	if err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// DeleteTask removes a task and every dependency touching it in one transaction.
func (s *Store) DeleteTask(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM dependencies WHERE task_id = ? OR depends_on_id = ?`, id, id); err != nil {
			return fmt.Errorf("delete task dependencies: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("check rows affected: %w", err)
		}
		deleted = n > 0
		return nil
	})
	return deleted, err
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
