package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/runoshun/taskdag/internal/domain"
)

const dependencyColumns = `id, task_id, depends_on_id, created_at`

// maxInParams keeps IN lists below SQLite's bound parameter limit.
const maxInParams = 500

func scanDependency(row rowScanner) (*domain.Dependency, error) {
	var (
		d       domain.Dependency
		created string
	)
	if err := row.Scan(&d.ID, &d.TaskID, &d.DependsOnID, &created); err != nil {
		return nil, err
	}
	var err error
	if d.Created, err = parseTime(created); err != nil {
		return nil, err
	}
	return &d, nil
}

// FindDependency returns the edge (taskID, dependsOnID), or nil if absent.
func (s *Store) FindDependency(ctx context.Context, taskID, dependsOnID string) (*domain.Dependency, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	d, err := scanDependency(db.QueryRowContext(ctx,
		`SELECT `+dependencyColumns+` FROM dependencies WHERE task_id = ? AND depends_on_id = ?`,
		taskID, dependsOnID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find dependency: %w", err)
	}
	return d, nil
}

// ListDependenciesWhereTaskIn returns the edges whose dependent task is in ids.
// Large id sets are queried in chunks inside one read transaction.
func (s *Store) ListDependenciesWhereTaskIn(ctx context.Context, ids []string) ([]*domain.Dependency, error) {
	deps := make([]*domain.Dependency, 0)
	if len(ids) == 0 {
		return deps, nil
	}
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for start := 0; start < len(ids); start += maxInParams {
			chunk := ids[start:min(start+maxInParams, len(ids))]
			args := make([]any, len(chunk))
			for i, id := range chunk {
				args[i] = id
			}
			query := `SELECT ` + dependencyColumns + ` FROM dependencies WHERE task_id IN (?` +
				strings.Repeat(", ?", len(chunk)-1) + `)`
			got, err := queryDependencies(ctx, tx, query, args...)
			if err != nil {
				return err
			}
			deps = append(deps, got...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	domain.SortDependencies(deps)
	return deps, nil
}

// ListDependenciesOf returns the edges where taskID is the dependent.
func (s *Store) ListDependenciesOf(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return queryDependencies(ctx, db,
		`SELECT `+dependencyColumns+` FROM dependencies WHERE task_id = ? ORDER BY id`, taskID)
}

// ListDependents returns the edges where taskID is the prerequisite.
func (s *Store) ListDependents(ctx context.Context, taskID string) ([]*domain.Dependency, error) {
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return queryDependencies(ctx, db,
		`SELECT `+dependencyColumns+` FROM dependencies WHERE depends_on_id = ? ORDER BY id`, taskID)
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func queryDependencies(ctx context.Context, q querier, query string, args ...any) ([]*domain.Dependency, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	defer rows.Close()

	deps := make([]*domain.Dependency, 0)
	for rows.Next() {
		d, err := scanDependency(rows)
		if err != nil {
			return nil, fmt.Errorf("scan dependency: %w", err)
		}
		deps = append(deps, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list dependencies: %w", err)
	}
	return deps, nil
}

// InsertDependency persists a new edge.
// Returns domain.ErrDuplicateDependency when the UNIQUE (task_id, depends_on_id)
// constraint rejects the row and domain.ErrTaskNotFound when a foreign key does.
func (s *Store) InsertDependency(ctx context.Context, dep *domain.Dependency) error {
	db, err := s.conn()
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO dependencies (`+dependencyColumns+`) VALUES (?, ?, ?, ?)`,
		dep.ID, dep.TaskID, dep.DependsOnID, formatTime(dep.Created))
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDependency
		}
		if isForeignKeyViolation(err) {
			return fmt.Errorf("%w: %s or %s", domain.ErrTaskNotFound, dep.TaskID, dep.DependsOnID)
		}
		return fmt.Errorf("insert dependency: %w", err)
	}
	return nil
}

// DeleteDependency removes the edge if it belongs to taskID.
func (s *Store) DeleteDependency(ctx context.Context, edgeID, taskID string) (bool, error) {
	db, err := s.conn()
	if err != nil {
		return false, err
	}
	result, err := db.ExecContext(ctx, `DELETE FROM dependencies WHERE id = ? AND task_id = ?`, edgeID, taskID)
	if err != nil {
		return false, fmt.Errorf("delete dependency: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("check rows affected: %w", err)
	}
	return n > 0, nil
}
