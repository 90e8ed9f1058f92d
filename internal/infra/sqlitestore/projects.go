package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/runoshun/taskdag/internal/domain"
)

const projectColumns = `id, name, description, owner_id, status, deadline, created_at, updated_at`

func scanProject(row rowScanner) (*domain.Project, error) {
	var (
		p                          domain.Project
		deadline, created, updated string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.Status,
		&deadline, &created, &updated); err != nil {
		return nil, err
	}
	var err error
	if p.Deadline, err = parseTime(deadline); err != nil {
		return nil, err
	}
	if p.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.Updated, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetProject retrieves a project by ID.
func (s *Store) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	p, err := scanProject(db.QueryRowContext(ctx, `SELECT `+projectColumns+` FROM projects WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// ListProjects retrieves all projects ordered by ID.
func (s *Store) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx, `SELECT `+projectColumns+` FROM projects ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	projects := make([]*domain.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// SaveProject creates or updates a project.
func (s *Store) SaveProject(ctx context.Context, project *domain.Project) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO projects (`+projectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			owner_id = excluded.owner_id,
			status = excluded.status,
			deadline = excluded.deadline,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at
	`,
		project.ID,
		project.Name,
		project.Description,
		project.OwnerID,
		string(project.Status),
		formatTime(project.Deadline),
		formatTime(project.Created),
		formatTime(project.Updated),
	)
	if err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	return nil
}

// DeleteProject removes a project with its tasks and their dependencies in one transaction.
func (s *Store) DeleteProject(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			DELETE FROM dependencies
			WHERE task_id IN (SELECT id FROM tasks WHERE project_id = ?)
			   OR depends_on_id IN (SELECT id FROM tasks WHERE project_id = ?)
		`, id, id); err != nil {
			return fmt.Errorf("delete project dependencies: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE project_id = ?`, id); err != nil {
			return fmt.Errorf("delete project tasks: %w", err)
		}
		result, err := tx.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete project: %w", err)
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
