package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/app"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/client"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T) string {
	t.Helper()
	a, err := app.New(config.Config{
		App: config.AppConfig{Env: "test"},
		DB: config.DBConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "board.db"),
		},
	})
	require.NoError(t, err)
	srv := httptest.NewServer(a.Router())
	t.Cleanup(func() {
		srv.Close()
		_ = a.Close(context.Background())
	})
	return srv.URL
}

func run(t *testing.T, server, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append(args, "--server", server))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func mustRun(t *testing.T, server string, args ...string) string {
	t.Helper()
	out, err := run(t, server, "", args...)
	require.NoError(t, err, out)
	return out
}

func TestBoardPrintsColumns(t *testing.T) {
	server := startServer(t)

	out := mustRun(t, server)
	assert.Equal(t, "Todo (#1)\n  (empty)\n", out)

	mustRun(t, server, "task", "add", "1", "Write", "tests")
	out = mustRun(t, server, "board")
	assert.Contains(t, out, "#1    Write tests")
}

func TestColumnAddAndRemove(t *testing.T) {
	server := startServer(t)

	out := mustRun(t, server, "column", "add", "Done")
	assert.Equal(t, "Added column #2 \"Done\"\n", out)
	mustRun(t, server, "task", "add", "2", "ship")

	out, err := run(t, server, "n\n", "column", "rm", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Cancelled.")

	out, err = run(t, server, "y\n", "column", "rm", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted column #2")

	b, err := client.New(server).Board(context.Background())
	require.NoError(t, err)
	assert.Len(t, b.Columns, 1)
	assert.Empty(t, b.Tasks)
}

func TestColumnRemoveCascade(t *testing.T) {
	server := startServer(t)
	mustRun(t, server, "column", "add", "Done")
	mustRun(t, server, "task", "add", "2", "ship")

	mustRun(t, server, "column", "rm", "--yes", "--cascade", "2")
	b, err := client.New(server).Board(context.Background())
	require.NoError(t, err)
	assert.Len(t, b.Columns, 1)
	assert.Empty(t, b.Tasks)
}

func TestTaskCommands(t *testing.T) {
	server := startServer(t)
	mustRun(t, server, "column", "add", "Done")
	for _, title := range []string{"a", "b"} {
		mustRun(t, server, "task", "add", "1", title)
	}
	mustRun(t, server, "task", "add", "2", "c")

	out := mustRun(t, server, "task", "rename", "1", "alpha")
	assert.Equal(t, "Task #1: alpha\n", out)

	out = mustRun(t, server, "task", "move", "--index", "0", "2", "2")
	assert.Equal(t, "Moved task #2 to column #2 at 0\n", out)
	out = mustRun(t, server, "--sequential", "task", "move", "1", "2")
	assert.Equal(t, "Moved task #1 to column #2 at 2\n", out)

	mustRun(t, server, "task", "describe", "3", "needs", "review")

	b, err := client.New(server).Board(context.Background())
	require.NoError(t, err)
	done := b.TasksIn(2)
	require.Len(t, done, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{done[0].ID, done[1].ID, done[2].ID})
	assert.Equal(t, []int{0, 1, 2}, []int{done[0].Position, done[1].Position, done[2].Position})
	assert.Equal(t, "alpha", done[2].Title)
	assert.Equal(t, "needs review", done[1].Description)
	assert.Empty(t, b.TasksIn(1))
}

func TestErrors(t *testing.T) {
	server := startServer(t)

	_, err := run(t, server, "", "task", "rename", "42", "x")
	assert.ErrorContains(t, err, "task is not on the board")

	_, err = run(t, server, "", "task", "add", "1", " ")
	assert.ErrorContains(t, err, "title must not be blank")

	_, err = run(t, server, "", "task", "describe", "42", "x")
	assert.ErrorContains(t, err, "404")

	_, err = run(t, server, "", "column", "rm", "abc")
	assert.ErrorContains(t, err, `invalid id "abc"`)

	_, err = run(t, "http://127.0.0.1:1", "", "board")
	assert.ErrorContains(t, err, "load board")

	_, err = run(t, "ftp://board", "", "board")
	assert.ErrorContains(t, err, "--server")
}
