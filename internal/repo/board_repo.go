package repo

import (
	"context"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"
)

// BoardRepo provides column and task persistence.
//
// Update and delete methods report the number of affected rows instead of
// failing on unknown ids; callers decide whether zero rows is an error.
type BoardRepo interface {
	ListColumns(ctx context.Context) ([]dom.Column, error)
	// ListTasks orders by position across all columns, ties broken by id.
	ListTasks(ctx context.Context) ([]dom.Task, error)
	CreateColumn(ctx context.Context, title string) (dom.Column, error)
	// SeedColumn inserts a column only while the columns table is empty.
	SeedColumn(ctx context.Context, title string) (bool, error)
	DeleteColumn(ctx context.Context, id int64) (int64, error)
	// DeleteColumnCascade removes the column and its tasks in one transaction.
	// Nothing is deleted when the column does not exist.
	DeleteColumnCascade(ctx context.Context, id int64) (int64, error)

	// CreateTask appends the task to column status: its position is one past
	// the highest position in that column, or 0 for an empty column.
	CreateTask(ctx context.Context, title string, status int64) (dom.Task, error)
	RenameTask(ctx context.Context, id int64, title string) (int64, error)
	MoveTask(ctx context.Context, id, status int64, position int) (int64, error)
	SetTaskDescription(ctx context.Context, id int64, description string) (int64, error)
	DeleteTasksByStatus(ctx context.Context, status int64) (int64, error)
	// ReorderTasks moves ids into column status with positions 0..len(ids)-1.
	ReorderTasks(ctx context.Context, status int64, ids []int64) error
}
