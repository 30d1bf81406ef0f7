package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/s1natex/users-tasks-api/internal/storage/sqlite"
)

// SQLiteRepo stores users in the users table. Rows are ordered by the seq
// column, so the first match for an id is the oldest row carrying it.
type SQLiteRepo struct {
	db *sql.DB
}

func NewSQLiteRepo(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

func (r *SQLiteRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, email
		FROM users
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *SQLiteRepo) Create(ctx context.Context, u User) (User, error) {
	err := sqlite.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists int
		if err := tx.QueryRowContext(ctx,
			`SELECT COUNT(1) FROM users WHERE id = ?`, u.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("check user id: %w", err)
		}
		if exists > 0 {
			return ErrIDExists
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (id, name, email) VALUES (?, ?, ?)`,
			u.ID, u.Name, u.Email,
		); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *SQLiteRepo) Replace(ctx context.Context, id int64, u User) (User, error) {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET id = ?, name = ?, email = ?
		WHERE seq = (SELECT seq FROM users WHERE id = ? ORDER BY seq LIMIT 1)
	`, u.ID, u.Name, u.Email, id)
	if err != nil {
		return User{}, fmt.Errorf("replace user: %w", err)
	}
	if err := requireRow(res); err != nil {
		return User{}, err
	}
	return u, nil
}

func (r *SQLiteRepo) Patch(ctx context.Context, id int64, p Patch) (User, error) {
	if err := p.Validate(); err != nil {
		return User{}, err
	}

	var updated User
	err := sqlite.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		var seq int64
		var cur User
		err := tx.QueryRowContext(ctx, `
			SELECT seq, id, name, email FROM users
			WHERE id = ? ORDER BY seq LIMIT 1
		`, id).Scan(&seq, &cur.ID, &cur.Name, &cur.Email)
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}

		updated = p.Apply(cur)
		if _, err := tx.ExecContext(ctx,
			`UPDATE users SET id = ?, name = ?, email = ? WHERE seq = ?`,
			updated.ID, updated.Name, updated.Email, seq,
		); err != nil {
			return fmt.Errorf("patch user: %w", err)
		}
		return nil
	})
	if err != nil {
		return User{}, err
	}
	return updated, nil
}

func (r *SQLiteRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM users
		WHERE seq = (SELECT seq FROM users WHERE id = ? ORDER BY seq LIMIT 1)
	`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
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
