package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/board"

	"github.com/spf13/cobra"
)

func newColumnCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "column",
		Short: "Add or remove columns",
	}

	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Append a column",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			col, err := s.ctrl.AddColumn(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(s.out, "Added column #%d %q\n", col.ID, col.Title)
			return nil
		},
	}

	rm := &cobra.Command{
		Use:     "rm <column-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a column and all of its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			yes, _ := cmd.Flags().GetBool("yes")
			cascade, _ := cmd.Flags().GetBool("cascade")

			s, err := opts.open(cmd, false)
			if err != nil {
				return err
			}
			confirm := func() bool {
				if yes {
					return true
				}
				fmt.Fprint(s.out, "Are you sure you want to delete this column? All tasks inside will also be deleted. [y/N] ")
				line, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				answer := strings.ToLower(strings.TrimSpace(line))
				return answer == "y" || answer == "yes"
			}

			if cascade {
				if !confirm() {
					fmt.Fprintln(s.out, "Cancelled.")
					return nil
				}
				if err := s.api.DeleteColumnCascade(cmd.Context(), id); err != nil {
					return err
				}
			} else if err := s.ctrl.DeleteColumn(cmd.Context(), id, confirm); err != nil {
				if errors.Is(err, board.ErrNotConfirmed) {
					fmt.Fprintln(s.out, "Cancelled.")
					return nil
				}
				return err
			}
			fmt.Fprintf(s.out, "Deleted column #%d\n", id)
			return nil
		},
	}
	rm.Flags().BoolP("yes", "y", false, "Skip the confirmation prompt")
	rm.Flags().Bool("cascade", false, "Delete in a single server-side transaction")

	cmd.AddCommand(add, rm)
	return cmd
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(raw, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
