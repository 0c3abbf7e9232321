package repo

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"

	_ "github.com/mattn/go-sqlite3"
)

// OpenSQLite opens (creating if needed) the SQLite database at path.
// The pool is limited to one connection so writes are serialized.
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("sqlite mkdir: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("sqlite open: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite ping: %w", err)
	}
	return db, nil
}

// SQLiteBoardRepo implements BoardRepo with SQLite.
type SQLiteBoardRepo struct {
	db *sql.DB
}

// NewSQLiteBoardRepo returns a new SQLiteBoardRepo.
func NewSQLiteBoardRepo(db *sql.DB) *SQLiteBoardRepo {
	return &SQLiteBoardRepo{db: db}
}

func (r *SQLiteBoardRepo) ListColumns(ctx context.Context) ([]dom.Column, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, title FROM columns ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Column
	for rows.Next() {
		var c dom.Column
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *SQLiteBoardRepo) ListTasks(ctx context.Context) ([]dom.Task, error) {
	query := `
		SELECT id, title, status, position, COALESCE(description, '')
		FROM tasks ORDER BY position, id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var list []dom.Task
	for rows.Next() {
		var t dom.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Status, &t.Position, &t.Description); err != nil {
			return nil, err
		}
		list = append(list, t)
	}
	return list, rows.Err()
}

func (r *SQLiteBoardRepo) CreateColumn(ctx context.Context, title string) (dom.Column, error) {
	var c dom.Column
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO columns (title) VALUES (?) RETURNING id, title`,
		title,
	).Scan(&c.ID, &c.Title)
	return c, err
}

func (r *SQLiteBoardRepo) SeedColumn(ctx context.Context, title string) (bool, error) {
	n, err := r.exec(ctx,
		`INSERT INTO columns (title) SELECT ? WHERE NOT EXISTS (SELECT 1 FROM columns)`,
		title,
	)
	return n > 0, err
}

func (r *SQLiteBoardRepo) DeleteColumn(ctx context.Context, id int64) (int64, error) {
	return r.exec(ctx, `DELETE FROM columns WHERE id = ?`, id)
}

func (r *SQLiteBoardRepo) DeleteColumnCascade(ctx context.Context, id int64) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `DELETE FROM columns WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil || n == 0 {
		return 0, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE status = ?`, id); err != nil {
		return 0, err
	}
	return n, tx.Commit()
}

func (r *SQLiteBoardRepo) CreateTask(ctx context.Context, title string, status int64) (dom.Task, error) {
	query := `
		INSERT INTO tasks (title, status, position)
		SELECT ?1, ?2, COALESCE(MAX(position) + 1, 0)
		FROM tasks WHERE status = ?2
		RETURNING id, title, status, position`
	var t dom.Task
	err := r.db.QueryRowContext(ctx, query, title, status).Scan(&t.ID, &t.Title, &t.Status, &t.Position)
	return t, err
}

func (r *SQLiteBoardRepo) RenameTask(ctx context.Context, id int64, title string) (int64, error) {
	return r.exec(ctx, `UPDATE tasks SET title = ? WHERE id = ?`, title, id)
}

func (r *SQLiteBoardRepo) MoveTask(ctx context.Context, id, status int64, position int) (int64, error) {
	return r.exec(ctx, `UPDATE tasks SET status = ?, position = ? WHERE id = ?`, status, position, id)
}

func (r *SQLiteBoardRepo) SetTaskDescription(ctx context.Context, id int64, description string) (int64, error) {
	return r.exec(ctx, `UPDATE tasks SET description = ? WHERE id = ?`, description, id)
}

func (r *SQLiteBoardRepo) DeleteTasksByStatus(ctx context.Context, status int64) (int64, error) {
	return r.exec(ctx, `DELETE FROM tasks WHERE status = ?`, status)
}

func (r *SQLiteBoardRepo) ReorderTasks(ctx context.Context, status int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `UPDATE tasks SET status = ?, position = ? WHERE id = ?`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, status, i, id); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *SQLiteBoardRepo) exec(ctx context.Context, query string, args ...any) (int64, error) {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
