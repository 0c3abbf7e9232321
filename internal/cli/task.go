package cli

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"
)

func newTaskCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, rename, move and describe tasks",
	}

	add := &cobra.Command{
		Use:   "add <column-id> <title>",
		Short: "Append a task to the end of a column",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			colID, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			_, err = s.ctrl.AddTask(cmd.Context(), colID, strings.Join(args[1:], " "))
			return err
		},
	}

	rename := &cobra.Command{
		Use:   "rename <task-id> <title>",
		Short: "Change a task's title",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			if err := s.ctrl.BeginEdit(id); err != nil {
				return err
			}
			if err := s.ctrl.SetDraft(strings.Join(args[1:], " ")); err != nil {
				return err
			}
			return s.ctrl.Commit(cmd.Context())
		},
	}

	move := &cobra.Command{
		Use:   "move <task-id> <column-id>",
		Short: "Move a task into a column and renumber both columns",
		Long: `Move a task into a column at --index (default: the end).

Every task in the target column, and in the source column when it differs,
is written back with position equal to its index.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			colID, err := parseID(args[1])
			if err != nil {
				return err
			}
			index, _ := cmd.Flags().GetInt("index")
			if index < 0 {
				index = math.MaxInt32
			}
			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			if err := s.ctrl.Drop(cmd.Context(), id, colID, index); err != nil {
				return err
			}
			for pos, t := range s.ctrl.State().TasksIn(colID) {
				if t.ID == id {
					fmt.Fprintf(s.out, "Moved task #%d to column #%d at %d\n", id, colID, pos)
				}
			}
			return nil
		},
	}
	move.Flags().IntP("index", "i", -1, "Target index in the column; negative means the end")

	describe := &cobra.Command{
		Use:   "describe <task-id> [description]",
		Short: "Set or clear a task's description",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			text := strings.Join(args[1:], " ")
			api, err := opts.client()
			if err != nil {
				return err
			}
			if err := api.SetTaskDescription(cmd.Context(), id, text); err != nil {
				return err
			}
			if text == "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Cleared description of task #%d\n", id)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Described task #%d\n", id)
			}
			return nil
		},
	}

	cmd.AddCommand(add, rename, move, describe)
	return cmd
}
