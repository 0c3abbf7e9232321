package repo

import (
	"context"
	"errors"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var errRollback = errors.New("rollback")

// PGBoardRepo implements BoardRepo with Postgres.
type PGBoardRepo struct {
	db *pgxpool.Pool
}

// NewPGBoardRepo returns a new PGBoardRepo.
func NewPGBoardRepo(db *pgxpool.Pool) *PGBoardRepo {
	return &PGBoardRepo{db: db}
}

func (r *PGBoardRepo) ListColumns(ctx context.Context) ([]dom.Column, error) {
	rows, err := r.db.Query(ctx, `SELECT id, title FROM columns ORDER BY id`)
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

func (r *PGBoardRepo) ListTasks(ctx context.Context) ([]dom.Task, error) {
	query := `
		SELECT id, title, status, position, COALESCE(description, '')
		FROM tasks ORDER BY position, id`
	rows, err := r.db.Query(ctx, query)
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

func (r *PGBoardRepo) CreateColumn(ctx context.Context, title string) (dom.Column, error) {
	var c dom.Column
	err := r.db.QueryRow(ctx,
		`INSERT INTO columns (title) VALUES ($1) RETURNING id, title`,
		title,
	).Scan(&c.ID, &c.Title)
	return c, err
}

func (r *PGBoardRepo) SeedColumn(ctx context.Context, title string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`INSERT INTO columns (title) SELECT $1::text WHERE NOT EXISTS (SELECT 1 FROM columns)`,
		title,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PGBoardRepo) DeleteColumn(ctx context.Context, id int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGBoardRepo) DeleteColumnCascade(ctx context.Context, id int64) (int64, error) {
	var n int64
	err := pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM columns WHERE id = $1`, id)
		if err != nil {
			return err
		}
		n = tag.RowsAffected()
		if n == 0 {
			return errRollback
		}
		_, err = tx.Exec(ctx, `DELETE FROM tasks WHERE status = $1`, id)
		return err
	})
	if errors.Is(err, errRollback) {
		return 0, nil
	}
	return n, err
}

func (r *PGBoardRepo) CreateTask(ctx context.Context, title string, status int64) (dom.Task, error) {
	query := `
		INSERT INTO tasks (title, status, position)
		SELECT $1::text, $2::bigint, COALESCE(MAX(position) + 1, 0)
		FROM tasks WHERE status = $2::bigint
		RETURNING id, title, status, position`
	var t dom.Task
	err := r.db.QueryRow(ctx, query, title, status).Scan(&t.ID, &t.Title, &t.Status, &t.Position)
	return t, err
}

func (r *PGBoardRepo) RenameTask(ctx context.Context, id int64, title string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET title = $2 WHERE id = $1`, id, title)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGBoardRepo) MoveTask(ctx context.Context, id, status int64, position int) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE tasks SET status = $2, position = $3 WHERE id = $1`,
		id, status, position,
	)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGBoardRepo) SetTaskDescription(ctx context.Context, id int64, description string) (int64, error) {
	tag, err := r.db.Exec(ctx, `UPDATE tasks SET description = $2 WHERE id = $1`, id, description)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGBoardRepo) DeleteTasksByStatus(ctx context.Context, status int64) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE status = $1`, status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PGBoardRepo) ReorderTasks(ctx context.Context, status int64, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for i, id := range ids {
			batch.Queue(`UPDATE tasks SET status = $2, position = $3 WHERE id = $1`, id, status, i)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
}
