package repo

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPGRepo connects to PG_TEST_DSN and truncates the board tables.
func newPGRepo(t *testing.T) *PGBoardRepo {
	t.Helper()
	dsn := os.Getenv("PG_TEST_DSN")
	if dsn == "" {
		t.Skip("PG_TEST_DSN not set")
	}

	db, err := goose.OpenDBWithDriver("pgx", dsn)
	require.NoError(t, err)
	require.NoError(t, RunMigrations(db, DialectPostgres))
	_ = db.Close()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = pool.Exec(ctx, `TRUNCATE columns, tasks RESTART IDENTITY`)
	require.NoError(t, err)
	return NewPGBoardRepo(pool)
}

func TestPGCreateTaskAndReorder(t *testing.T) {
	r := newPGRepo(t)
	ctx := context.Background()

	seeded, err := r.SeedColumn(ctx, "Todo")
	require.NoError(t, err)
	assert.True(t, seeded)
	done, err := r.CreateColumn(ctx, "Done")
	require.NoError(t, err)
	assert.EqualValues(t, 2, done.ID)

	a, err := r.CreateTask(ctx, "a", 1)
	require.NoError(t, err)
	assert.Equal(t, 0, a.Position)
	b, err := r.CreateTask(ctx, "b", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, b.Position)

	require.NoError(t, r.ReorderTasks(ctx, done.ID, []int64{b.ID, a.ID}))
	tasks, err := r.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, done.ID, tasks[0].Status)
	assert.Equal(t, 1, tasks[1].Position)
}

func TestPGDeleteColumnCascade(t *testing.T) {
	r := newPGRepo(t)
	ctx := context.Background()

	col, err := r.CreateColumn(ctx, "Doomed")
	require.NoError(t, err)
	_, err = r.CreateTask(ctx, "gone", col.ID)
	require.NoError(t, err)
	orphan, err := r.CreateTask(ctx, "orphan", 99)
	require.NoError(t, err)

	n, err := r.DeleteColumnCascade(ctx, 99)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = r.DeleteColumnCascade(ctx, col.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	tasks, err := r.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, orphan.ID, tasks[0].ID)
}
