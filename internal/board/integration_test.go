package board_test

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/app"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/board"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/client"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/config"
	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopRenderer struct{}

func (nopRenderer) Render([]board.ColumnView) {}
func (nopRenderer) AppendTask(int64, dom.Task) {}
func (nopRenderer) ShowEditor(int64, string) {}
func (nopRenderer) ShowTitle(int64, string) {}

func startServer(t *testing.T) *client.Client {
	t.Helper()
	cfg := config.Config{
		App: config.AppConfig{Env: "test", Version: "test"},
		DB: config.DBConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "board.db"),
		},
	}
	a, err := app.New(cfg)
	require.NoError(t, err)
	srv := httptest.NewServer(a.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close(context.Background())
	})
	return client.New(srv.URL)
}

// seed builds Todo(1): tasks 1,2,3 and Done(2): tasks 4,5.
func seed(t *testing.T, api *client.Client) {
	t.Helper()
	ctx := context.Background()
	c := board.NewController(api, nopRenderer{})
	require.NoError(t, c.Load(ctx))
	done, err := c.AddColumn(ctx, "Done")
	require.NoError(t, err)
	require.EqualValues(t, 2, done.ID)
	for _, title := range []string{"a0", "a1", "a2"} {
		_, err := c.AddTask(ctx, 1, title)
		require.NoError(t, err)
	}
	for _, title := range []string{"b0", "b1"} {
		_, err := c.AddTask(ctx, 2, title)
		require.NoError(t, err)
	}
}

func serverColumn(t *testing.T, api *client.Client, col int64) []dom.Task {
	t.Helper()
	b, err := api.Board(context.Background())
	require.NoError(t, err)
	return b.TasksIn(col)
}

func taskIDs(tasks []dom.Task) []int64 {
	out := make([]int64, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func taskPositions(tasks []dom.Task) []int {
	out := make([]int, len(tasks))
	for i, t := range tasks {
		out[i] = t.Position
	}
	return out
}

func TestDropPersistsContiguousPositions(t *testing.T) {
	for _, sequential := range []bool{false, true} {
		t.Run(map[bool]string{false: "batched", true: "sequential"}[sequential], func(t *testing.T) {
			api := startServer(t)
			seed(t, api)
			ctx := context.Background()

			c := board.NewController(api, nopRenderer{})
			c.Sequential = sequential
			require.NoError(t, c.Load(ctx))
			require.NoError(t, c.Drop(ctx, 2, 2, 1))

			done := serverColumn(t, api, 2)
			assert.Equal(t, []int64{4, 2, 5}, taskIDs(done))
			assert.Equal(t, []int{0, 1, 2}, taskPositions(done))

			todo := serverColumn(t, api, 1)
			assert.Equal(t, []int64{1, 3}, taskIDs(todo))
			assert.Equal(t, []int{0, 1}, taskPositions(todo))

			assert.Equal(t, taskIDs(done), taskIDs(c.State().TasksIn(2)))
		})
	}
}

func TestRenameAndDeleteColumnRoundTrip(t *testing.T) {
	api := startServer(t)
	seed(t, api)
	ctx := context.Background()

	c := board.NewController(api, nopRenderer{})
	require.NoError(t, c.Load(ctx))

	require.NoError(t, c.BeginEdit(4))
	require.NoError(t, c.SetDraft("shipped"))
	require.NoError(t, c.Commit(ctx))
	assert.Equal(t, "shipped", serverColumn(t, api, 2)[0].Title)

	require.NoError(t, c.DeleteColumn(ctx, 2, func() bool { return true }))
	b, err := api.Board(ctx)
	require.NoError(t, err)
	assert.Equal(t, []dom.Column{{ID: 1, Title: "Todo"}}, b.Columns)
	assert.Equal(t, []int64{1, 2, 3}, taskIDs(b.Tasks))
}

// Two clients that loaded the same snapshot write column orders that each
// only know half of. Nothing reconciles them, so positions collide.
func TestStaleMirrorsCollideOnPositions(t *testing.T) {
	api := startServer(t)
	seed(t, api)
	ctx := context.Background()

	first := board.NewController(api, nopRenderer{})
	second := board.NewController(api, nopRenderer{})
	require.NoError(t, first.Load(ctx))
	require.NoError(t, second.Load(ctx))

	require.NoError(t, first.Drop(ctx, 1, 2, 0))
	// second still sees Done as [4 5].
	require.NoError(t, second.Drop(ctx, 5, 2, 0))

	done := serverColumn(t, api, 2)
	assert.ElementsMatch(t, []int64{1, 4, 5}, taskIDs(done))
	byID := map[int64]int{}
	for _, task := range done {
		byID[task.ID] = task.Position
	}
	assert.Equal(t, 0, byID[1])
	assert.Equal(t, 0, byID[5])
	assert.Equal(t, 1, byID[4])

	require.NoError(t, second.Load(ctx))
	assert.ElementsMatch(t, []int64{1, 4, 5}, taskIDs(second.State().TasksIn(2)))
}
