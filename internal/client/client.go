// Package client is a typed HTTP client for the board API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/dto"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("board api: %d %s", e.Status, e.Message)
}

// Client wraps http.Client with the board endpoints.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

// New creates a new Client.
func New(baseURL string) *Client {
	return &Client{BaseURL: strings.TrimRight(baseURL, "/"), HTTP: &http.Client{}}
}

func (c *Client) Board(ctx context.Context) (dom.Board, error) {
	var resp dto.BoardResponse
	if err := c.do(ctx, http.MethodGet, "/board", nil, &resp); err != nil {
		return dom.Board{}, err
	}
	b := dom.Board{
		Columns: make([]dom.Column, len(resp.Columns)),
		Tasks:   make([]dom.Task, len(resp.Tasks)),
	}
	for i, col := range resp.Columns {
		b.Columns[i] = dom.Column{ID: col.ID, Title: col.Title}
	}
	for i, t := range resp.Tasks {
		b.Tasks[i] = taskFromResponse(t)
	}
	return b, nil
}

func (c *Client) CreateColumn(ctx context.Context, title string) (dom.Column, error) {
	var resp dto.ColumnResponse
	if err := c.do(ctx, http.MethodPost, "/columns", dto.CreateColumnRequest{Title: title}, &resp); err != nil {
		return dom.Column{}, err
	}
	return dom.Column{ID: resp.ID, Title: resp.Title}, nil
}

// DeleteColumn removes the column row only.
func (c *Client) DeleteColumn(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/columns/%d", id), nil, nil)
}

// DeleteColumnCascade removes the column and its tasks in one server-side transaction.
func (c *Client) DeleteColumnCascade(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/columns/%d?cascade=true", id), nil, nil)
}

func (c *Client) DeleteColumnTasks(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/columns/%d/tasks", id), nil, nil)
}

func (c *Client) CreateTask(ctx context.Context, title string, status int64) (dom.Task, error) {
	req := dto.CreateTaskRequest{Title: title, Status: dto.FlexID(status)}
	var resp dto.TaskResponse
	if err := c.do(ctx, http.MethodPost, "/tasks", req, &resp); err != nil {
		return dom.Task{}, err
	}
	return taskFromResponse(resp), nil
}

func (c *Client) MoveTask(ctx context.Context, id, status int64, position int) error {
	req := dto.MoveTaskRequest{ID: dto.FlexID(id), Status: dto.FlexID(status), Position: &position}
	return c.do(ctx, http.MethodPost, "/tasks/move", req, nil)
}

func (c *Client) RenameTask(ctx context.Context, id int64, title string) error {
	req := dto.RenameTaskRequest{ID: dto.FlexID(id), Title: title}
	return c.do(ctx, http.MethodPost, "/tasks/rename", req, nil)
}

func (c *Client) SetTaskDescription(ctx context.Context, id int64, description string) error {
	req := dto.SetDescriptionRequest{ID: dto.FlexID(id), Description: description}
	return c.do(ctx, http.MethodPost, "/tasks/description", req, nil)
}

func (c *Client) ReorderTasks(ctx context.Context, status int64, ids []int64) error {
	req := dto.ReorderTasksRequest{Status: dto.FlexID(status), IDs: make([]dto.FlexID, len(ids))}
	for i, id := range ids {
		req.IDs[i] = dto.FlexID(id)
	}
	return c.do(ctx, http.MethodPost, "/tasks/reorder", req, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rd io.Reader
	if body != nil {
		buf := new(bytes.Buffer)
		if err := json.NewEncoder(buf).Encode(body); err != nil {
			return err
		}
		rd = buf
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rd)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e dto.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &APIError{Status: resp.StatusCode, Message: e.Error}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func taskFromResponse(t dto.TaskResponse) dom.Task {
	return dom.Task{
		ID:          t.ID,
		Title:       t.Title,
		Status:      t.Status,
		Position:    t.Position,
		Description: t.Description,
	}
}
