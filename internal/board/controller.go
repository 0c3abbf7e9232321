// Package board keeps a client-side mirror of the board and applies user
// actions to it: create, rename, delete and drag-and-drop reordering.
//
// The mirror is patched locally after each call instead of being reloaded,
// so a failed or interleaved call leaves it diverged from the server until
// the next Load. A Controller is not safe for concurrent use.
package board

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"
)

var (
	ErrEmptyTitle     = errors.New("title must not be blank")
	ErrNotConfirmed   = errors.New("column deletion not confirmed")
	ErrUnknownTask    = errors.New("task is not on the board")
	ErrUnknownColumn  = errors.New("column is not on the board")
	ErrNotEditing     = errors.New("no task is being edited")
	ErrEditInProgress = errors.New("another task is being edited")
)

// API is the subset of the board endpoints the controller calls.
type API interface {
	Board(ctx context.Context) (dom.Board, error)
	CreateColumn(ctx context.Context, title string) (dom.Column, error)
	DeleteColumn(ctx context.Context, id int64) error
	DeleteColumnTasks(ctx context.Context, id int64) error
	CreateTask(ctx context.Context, title string, status int64) (dom.Task, error)
	MoveTask(ctx context.Context, id, status int64, position int) error
	RenameTask(ctx context.Context, id int64, title string) error
	ReorderTasks(ctx context.Context, status int64, ids []int64) error
}

// ColumnView is one rendered column: its tasks in mirror order.
type ColumnView struct {
	Column dom.Column
	Tasks  []dom.Task
}

// Renderer draws the board. Render replaces everything; the other methods
// patch a single element in place.
type Renderer interface {
	Render(cols []ColumnView)
	AppendTask(colID int64, t dom.Task)
	ShowEditor(taskID int64, draft string)
	ShowTitle(taskID int64, title string)
}

// Mode is the state of the inline title editor.
type Mode int

const (
	Display Mode = iota
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "display"
}

type editState struct {
	mode     Mode
	taskID   int64
	original string
	draft    string
}

type Controller struct {
	api   API
	view  Renderer
	state dom.Board
	edit  editState

	// Sequential writes a drop as one move call per task instead of one
	// reorder call per column.
	Sequential bool
}

// NewController returns a controller with an empty mirror; call Load first.
func NewController(api API, view Renderer) *Controller {
	return &Controller{api: api, view: view}
}

// State returns a copy of the mirror.
func (c *Controller) State() dom.Board {
	return dom.Board{
		Columns: slices.Clone(c.state.Columns),
		Tasks:   slices.Clone(c.state.Tasks),
	}
}

// Load replaces the mirror with a fresh snapshot and renders it.
func (c *Controller) Load(ctx context.Context) error {
	b, err := c.api.Board(ctx)
	if err != nil {
		return fmt.Errorf("load board: %w", err)
	}
	c.state = b
	c.edit = editState{}
	c.Render()
	return nil
}

// Views groups mirror tasks under their columns. Tasks keep mirror order and
// tasks whose column is missing are not shown.
func (c *Controller) Views() []ColumnView {
	views := make([]ColumnView, len(c.state.Columns))
	for i, col := range c.state.Columns {
		views[i] = ColumnView{Column: col, Tasks: c.state.TasksIn(col.ID)}
	}
	return views
}

func (c *Controller) Render() {
	c.view.Render(c.Views())
}

func (c *Controller) AddColumn(ctx context.Context, title string) (dom.Column, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Column{}, ErrEmptyTitle
	}
	col, err := c.api.CreateColumn(ctx, title)
	if err != nil {
		return dom.Column{}, fmt.Errorf("create column: %w", err)
	}
	c.state.Columns = append(c.state.Columns, col)
	c.Render()
	return col, nil
}

// DeleteColumn deletes the column's tasks, then the column, once confirm
// returns true. If the second call fails the tasks are already gone on the
// server, so they are dropped from the mirror while the column stays.
func (c *Controller) DeleteColumn(ctx context.Context, id int64, confirm func() bool) error {
	if confirm == nil || !confirm() {
		return ErrNotConfirmed
	}
	if err := c.api.DeleteColumnTasks(ctx, id); err != nil {
		return fmt.Errorf("delete column tasks: %w", err)
	}
	c.state.Tasks = slices.DeleteFunc(c.state.Tasks, func(t dom.Task) bool { return t.Status == id })

	err := c.api.DeleteColumn(ctx, id)
	if err == nil {
		c.state.Columns = slices.DeleteFunc(c.state.Columns, func(col dom.Column) bool { return col.ID == id })
	}
	c.Render()
	if err != nil {
		return fmt.Errorf("delete column: %w", err)
	}
	return nil
}

// AddTask creates a task at the end of colID and appends it to that
// column's list without a full render.
func (c *Controller) AddTask(ctx context.Context, colID int64, title string) (dom.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return dom.Task{}, ErrEmptyTitle
	}
	if !c.hasColumn(colID) {
		return dom.Task{}, ErrUnknownColumn
	}
	t, err := c.api.CreateTask(ctx, title, colID)
	if err != nil {
		return dom.Task{}, fmt.Errorf("create task: %w", err)
	}
	c.state.Tasks = append(c.state.Tasks, t)
	c.view.AppendTask(colID, t)
	return t, nil
}

// Mode reports the editor state and the task being edited, if any.
func (c *Controller) Mode() (Mode, int64) {
	return c.edit.mode, c.edit.taskID
}

// BeginEdit switches taskID's title to an editor holding the current title.
func (c *Controller) BeginEdit(taskID int64) error {
	if c.edit.mode == Editing {
		if c.edit.taskID == taskID {
			return nil
		}
		return ErrEditInProgress
	}
	i := c.taskIndex(taskID)
	if i < 0 {
		return ErrUnknownTask
	}
	title := c.state.Tasks[i].Title
	c.edit = editState{mode: Editing, taskID: taskID, original: title, draft: title}
	c.view.ShowEditor(taskID, title)
	return nil
}

// SetDraft replaces the uncommitted editor text.
func (c *Controller) SetDraft(text string) error {
	if c.edit.mode != Editing {
		return ErrNotEditing
	}
	c.edit.draft = text
	return nil
}

// Commit saves the draft (Enter or blur). A blank draft is rejected without
// a call and the editor stays open, as it does when the call fails.
func (c *Controller) Commit(ctx context.Context) error {
	if c.edit.mode != Editing {
		return ErrNotEditing
	}
	title := strings.TrimSpace(c.edit.draft)
	if title == "" {
		return ErrEmptyTitle
	}
	id := c.edit.taskID
	if err := c.api.RenameTask(ctx, id, title); err != nil {
		return fmt.Errorf("rename task: %w", err)
	}
	if i := c.taskIndex(id); i >= 0 {
		c.state.Tasks[i].Title = title
	}
	c.edit = editState{}
	c.view.ShowTitle(id, title)
	return nil
}

// Cancel closes the editor (Escape) and restores the original title.
func (c *Controller) Cancel() {
	if c.edit.mode != Editing {
		return
	}
	id, title := c.edit.taskID, c.edit.original
	c.edit = editState{}
	c.view.ShowTitle(id, title)
}

type columnList struct {
	col   int64
	tasks []dom.Task
}

// Drop moves taskID into column toCol at visual index (clamped to the list).
// Every task left in the target list, and in the source list when it
// differs, gets position = its new index. The mirror is patched and rendered
// before the writes go out.
func (c *Controller) Drop(ctx context.Context, taskID, toCol int64, index int) error {
	i := c.taskIndex(taskID)
	if i < 0 {
		return ErrUnknownTask
	}
	if !c.hasColumn(toCol) {
		return ErrUnknownColumn
	}
	moved := c.state.Tasks[i]
	fromCol := moved.Status
	isMoved := func(t dom.Task) bool { return t.ID == taskID }

	target := slices.DeleteFunc(c.state.TasksIn(toCol), isMoved)
	index = max(0, min(index, len(target)))
	target = slices.Insert(target, index, moved)
	lists := []columnList{{col: toCol, tasks: target}}
	if fromCol != toCol {
		source := slices.DeleteFunc(c.state.TasksIn(fromCol), isMoved)
		lists = append(lists, columnList{col: fromCol, tasks: source})
	}

	rest := make([]dom.Task, 0, len(c.state.Tasks))
	for _, t := range c.state.Tasks {
		if t.Status != toCol && t.Status != fromCol {
			rest = append(rest, t)
		}
	}
	for _, l := range lists {
		for pos := range l.tasks {
			l.tasks[pos].Status = l.col
			l.tasks[pos].Position = pos
		}
		rest = append(rest, l.tasks...)
	}
	c.state.Tasks = rest
	c.Render()

	for _, l := range lists {
		if err := c.writeOrder(ctx, l); err != nil {
			return err
		}
	}
	return nil
}

func (c *Controller) writeOrder(ctx context.Context, l columnList) error {
	if c.Sequential {
		for pos, t := range l.tasks {
			if err := c.api.MoveTask(ctx, t.ID, l.col, pos); err != nil {
				return fmt.Errorf("move task %d: %w", t.ID, err)
			}
		}
		return nil
	}
	ids := make([]int64, len(l.tasks))
	for pos, t := range l.tasks {
		ids[pos] = t.ID
	}
	if err := c.api.ReorderTasks(ctx, l.col, ids); err != nil {
		return fmt.Errorf("reorder column %d: %w", l.col, err)
	}
	return nil
}

func (c *Controller) taskIndex(id int64) int {
	return slices.IndexFunc(c.state.Tasks, func(t dom.Task) bool { return t.ID == id })
}

func (c *Controller) hasColumn(id int64) bool {
	return slices.ContainsFunc(c.state.Columns, func(col dom.Column) bool { return col.ID == id })
}
