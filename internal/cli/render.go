package cli

import (
	"fmt"
	"io"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/board"
	dom "github.com/maharshi-myriadsolutionz/kanlad/internal/domain"
)

// TextRenderer prints the board as plain text, one column per block.
type TextRenderer struct {
	W io.Writer
}

func (r TextRenderer) Render(cols []board.ColumnView) {
	if len(cols) == 0 {
		fmt.Fprintln(r.W, "No columns.")
		return
	}
	for i, v := range cols {
		if i > 0 {
			fmt.Fprintln(r.W)
		}
		fmt.Fprintf(r.W, "%s (#%d)\n", v.Column.Title, v.Column.ID)
		if len(v.Tasks) == 0 {
			fmt.Fprintln(r.W, "  (empty)")
			continue
		}
		for _, t := range v.Tasks {
			fmt.Fprintf(r.W, "  #%-4d %s\n", t.ID, t.Title)
			if t.Description != "" {
				fmt.Fprintf(r.W, "         %s\n", t.Description)
			}
		}
	}
}

func (r TextRenderer) AppendTask(colID int64, t dom.Task) {
	fmt.Fprintf(r.W, "Added task #%d %q to column #%d\n", t.ID, t.Title, colID)
}

func (r TextRenderer) ShowEditor(int64, string) {}

func (r TextRenderer) ShowTitle(taskID int64, title string) {
	fmt.Fprintf(r.W, "Task #%d: %s\n", taskID, title)
}
