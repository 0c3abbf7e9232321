package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/config"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/dto"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) config.Config {
	t.Helper()
	return config.Config{
		App: config.AppConfig{Env: "test", Version: "1.2.3"},
		DB: config.DBConfig{
			Driver:     config.DriverSQLite,
			SQLitePath: filepath.Join(t.TempDir(), "data", "trello.db"),
		},
	}
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	a, err := New(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })
	return a
}

func do(t *testing.T, a *App, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)
	return w
}

func decodeInto(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func TestBoardScenario(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w := do(t, a, http.MethodPost, "/columns", `{"title":"Done"}`)
	require.Equal(t, http.StatusOK, w.Code)
	var col dto.ColumnResponse
	decodeInto(t, w, &col)
	assert.Equal(t, dto.ColumnResponse{ID: 2, Title: "Done"}, col)

	w = do(t, a, http.MethodPost, "/tasks", `{"title":"Write tests","status":1}`)
	require.Equal(t, http.StatusOK, w.Code)
	var task dto.TaskResponse
	decodeInto(t, w, &task)
	assert.Equal(t, dto.TaskResponse{ID: 1, Title: "Write tests", Status: 1, Position: 0}, task)

	w = do(t, a, http.MethodPost, "/tasks/move", `{"id":1,"status":2,"position":0}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = do(t, a, http.MethodGet, "/board", "")
	require.Equal(t, http.StatusOK, w.Code)
	var b dto.BoardResponse
	decodeInto(t, w, &b)
	assert.Equal(t, dto.BoardResponse{
		Columns: []dto.ColumnResponse{{ID: 1, Title: "Todo"}, {ID: 2, Title: "Done"}},
		Tasks:   []dto.TaskResponse{{ID: 1, Title: "Write tests", Status: 2, Position: 0}},
	}, b)

	// Plain delete orphans the task; it stays in the snapshot.
	require.Equal(t, http.StatusOK, do(t, a, http.MethodDelete, "/columns/2", "").Code)
	decodeInto(t, do(t, a, http.MethodGet, "/board", ""), &b)
	assert.Len(t, b.Columns, 1)
	assert.Len(t, b.Tasks, 1)
}

func TestCascadeDelete(t *testing.T) {
	a := newTestApp(t, testConfig(t))
	do(t, a, http.MethodPost, "/columns", `{"title":"Done"}`)
	do(t, a, http.MethodPost, "/tasks", `{"title":"a","status":2}`)

	require.Equal(t, http.StatusOK, do(t, a, http.MethodDelete, "/columns/2?cascade=true", "").Code)
	var b dto.BoardResponse
	decodeInto(t, do(t, a, http.MethodGet, "/board", ""), &b)
	assert.Len(t, b.Columns, 1)
	assert.Empty(t, b.Tasks)
}

func TestSeedSurvivesRestart(t *testing.T) {
	cfg := testConfig(t)
	a, err := New(cfg)
	require.NoError(t, err)
	do(t, a, http.MethodPost, "/columns", `{"title":"Done"}`)
	require.NoError(t, a.Close(context.Background()))

	a = newTestApp(t, cfg)
	var b dto.BoardResponse
	decodeInto(t, do(t, a, http.MethodGet, "/board", ""), &b)
	assert.Equal(t, []dto.ColumnResponse{{ID: 1, Title: "Todo"}, {ID: 2, Title: "Done"}}, b.Columns)
}

func TestServiceEndpoints(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w := do(t, a, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"ok":true,"env":"test"}`, w.Body.String())

	w = do(t, a, http.MethodGet, "/version", "")
	assert.JSONEq(t, `{"version":"1.2.3"}`, w.Body.String())

	w = do(t, a, http.MethodGet, "/about", "")
	var about map[string]any
	decodeInto(t, w, &about)
	assert.Equal(t, "sqlite", about["store"])
	assert.Equal(t, false, about["cache"])

	w = do(t, a, http.MethodGet, "/swagger-doc.json", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/tasks/reorder")
}

func TestServesBoardPage(t *testing.T) {
	a := newTestApp(t, testConfig(t))

	w := do(t, a, http.MethodGet, "/", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "/static/board.js")

	w = do(t, a, http.MethodGet, "/static/board.js", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/tasks/reorder")
}

func TestWithRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(t)
	cfg.Redis.Addr = mr.Addr()
	cfg.Redis.DefaultTTL = config.Seconds(time.Minute)
	a := newTestApp(t, cfg)

	var b dto.BoardResponse
	decodeInto(t, do(t, a, http.MethodGet, "/board", ""), &b)
	assert.True(t, mr.Exists("board:snapshot"))

	do(t, a, http.MethodPost, "/columns", `{"title":"Done"}`)
	assert.False(t, mr.Exists("board:snapshot"), "writes invalidate the snapshot")
	decodeInto(t, do(t, a, http.MethodGet, "/board", ""), &b)
	assert.Len(t, b.Columns, 2)
}

func TestNewFailsOnUnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.Redis.Addr = "127.0.0.1:1"
	_, err := New(cfg)
	assert.ErrorContains(t, err, "redis ping")
}
