package domain

// Column is a named lane on the board. Columns are ordered by ID.
type Column struct {
	ID    int64
	Title string
}

// Task is a work item. Status holds the ID of the owning column and
// Position its zero-based rank inside that column.
type Task struct {
	ID          int64
	Title       string
	Status      int64
	Position    int
	Description string
}

// Board is the full snapshot: every column and every task.
type Board struct {
	Columns []Column
	Tasks   []Task
}

// TasksIn returns the tasks whose status is colID, in snapshot order.
func (b Board) TasksIn(colID int64) []Task {
	var out []Task
	for _, t := range b.Tasks {
		if t.Status == colID {
			out = append(out, t)
		}
	}
	return out
}
