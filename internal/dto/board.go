package dto

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexID parses an identifier from JSON as either a number (3) or a numeric
// string ("3"). Browsers read ids back from data attributes as strings.
type FlexID int64

func (f *FlexID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("id must be an integer or a numeric string")
	}
	s := strings.TrimSpace(n.String())
	if s == "" {
		*f = 0
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("id must be an integer or a numeric string: %q", s)
	}
	*f = FlexID(v)
	return nil
}

// Int64 returns the id as int64 for use in service/domain.
func (f FlexID) Int64() int64 { return int64(f) }

type CreateColumnRequest struct {
	Title string `json:"title" binding:"required,max=200"`
}

type CreateTaskRequest struct {
	Title  string `json:"title" binding:"required,max=500"`
	Status FlexID `json:"status" binding:"required"`
}

type MoveTaskRequest struct {
	ID       FlexID `json:"id" binding:"required"`
	Status   FlexID `json:"status" binding:"required"`
	Position *int   `json:"position" binding:"required"`
}

type RenameTaskRequest struct {
	ID    FlexID `json:"id" binding:"required"`
	Title string `json:"title" binding:"required,max=500"`
}

type SetDescriptionRequest struct {
	ID          FlexID `json:"id" binding:"required"`
	Description string `json:"description" binding:"max=5000"`
}

// ReorderTasksRequest assigns positions 0..len(IDs)-1 to IDs, in order,
// and moves all of them into column Status.
type ReorderTasksRequest struct {
	Status FlexID   `json:"status" binding:"required"`
	IDs    []FlexID `json:"ids"`
}

type ColumnResponse struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type TaskResponse struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Status      int64  `json:"status"`
	Position    int    `json:"position"`
	Description string `json:"description,omitempty"`
}

type BoardResponse struct {
	Columns []ColumnResponse `json:"columns"`
	Tasks   []TaskResponse   `json:"tasks"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
