package tasks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/s1natex/users-tasks-api/internal/storage/sqlite"
)

// SQLiteRepo stores tasks in the tasks table, ordered by seq.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTask(s rowScanner, extra ...any) (Task, error) {
	var t Task
	var desc sql.NullString
	dest := append(extra, &t.ID, &t.Title, &desc, &t.Completed, &t.UserID)
	if err := s.Scan(dest...); err != nil {
		return Task{}, err
	}
	if desc.Valid {
		t.Description = &desc.String
	}
	return t, nil
}

func nullable(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func (r *SQLiteRepo) List(ctx context.Context) ([]Task, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, description, completed, user_id
		FROM tasks
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	out := []Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("scan task: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Create(ctx context.Context, t Task) (Task, error) {
	if _, err := r.db.ExecContext(ctx, `
		INSERT INTO tasks (id, title, description, completed, user_id)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, t.Title, nullable(t.Description), t.Completed, t.UserID); err != nil {
		return Task{}, fmt.Errorf("insert task: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepo) Replace(ctx context.Context, id int64, t Task) (Task, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE tasks SET id = ?, title = ?, description = ?, completed = ?, user_id = ?
		WHERE seq = (SELECT seq FROM tasks WHERE id = ? ORDER BY seq LIMIT 1)
	`, t.ID, t.Title, nullable(t.Description), t.Completed, t.UserID, id)
	if err != nil {
		return Task{}, fmt.Errorf("replace task: %w", err)
	}
	if err := requireRow(res); err != nil {
		return Task{}, err
	}
	return t, nil
}

func (r *SQLiteRepo) Patch(ctx context.Context, id int64, p Patch) (Task, error) {
	if err := p.Validate(); err != nil {
		return Task{}, err
	}

	var updated Task
	err := sqlite.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var seq int64
		cur, err := scanTask(tx.QueryRowContext(ctx, `
			SELECT seq, id, title, description, completed, user_id FROM tasks
			WHERE id = ? ORDER BY seq LIMIT 1
		`, id), &seq)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load task: %w", err)
		}

		updated = p.Apply(cur)
		if _, err := tx.ExecContext(ctx, `
			UPDATE tasks SET id = ?, title = ?, description = ?, completed = ?, user_id = ?
			WHERE seq = ?
		`, updated.ID, updated.Title, nullable(updated.Description), updated.Completed, updated.UserID, seq); err != nil {
			return fmt.Errorf("patch task: %w", err)
		}
		return nil
	})
	if err != nil {
		return Task{}, err
	}
	return updated, nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM tasks
		WHERE seq = (SELECT seq FROM tasks WHERE id = ? ORDER BY seq LIMIT 1)
	`, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return requireRow(res)
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
