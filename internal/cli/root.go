// Package cli implements boardctl, a terminal client for the board API.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/maharshi-myriadsolutionz/kanlad/internal/board"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/client"
	"github.com/maharshi-myriadsolutionz/kanlad/internal/utils"

	"github.com/spf13/cobra"
)

const defaultServer = "http://localhost:8080"

type options struct {
	server     string
	sequential bool
}

// session is one command's view of the board: a client and a loaded
// controller that prints to the command's output.
type session struct {
	api  *client.Client
	ctrl *board.Controller
	out  io.Writer
}

func (o *options) client() (*client.Client, error) {
	base, err := utils.NormalizeBaseURL(o.server)
	if err != nil {
		return nil, fmt.Errorf("--server: %w", err)
	}
	return client.New(base), nil
}

func (o *options) open(cmd *cobra.Command, render bool) (*session, error) {
	api, err := o.client()
	if err != nil {
		return nil, err
	}
	out := cmd.OutOrStdout()
	var view board.Renderer = TextRenderer{W: out}
	if !render {
		view = quietRenderer{TextRenderer{W: out}}
	}
	ctrl := board.NewController(api, view)
	ctrl.Sequential = o.sequential
	if err := ctrl.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return &session{api: api, ctrl: ctrl, out: out}, nil
}

// quietRenderer skips full renders so a write command prints only its result.
type quietRenderer struct{ TextRenderer }

func (quietRenderer) Render([]board.ColumnView) {}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "boardctl",
		Short: "Manage the task board from a terminal",
		Long: `boardctl talks to a running board server.

Without a subcommand it prints the board.`,
		RunE:          func(cmd *cobra.Command, _ []string) error { return runBoard(cmd, opts) },
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv("KANLAD_SERVER")
	if server == "" {
		server = defaultServer
	}
	root.PersistentFlags().StringVarP(&opts.server, "server", "s", server, "Board server base URL (env KANLAD_SERVER)")
	root.PersistentFlags().BoolVar(&opts.sequential, "sequential", false, "Write reorders as one move call per task")

	root.AddCommand(newBoardCmd(opts))
	root.AddCommand(newColumnCmd(opts))
	root.AddCommand(newTaskCmd(opts))
	return root
}

// Execute runs the root command
func Execute(version string) error {
	root := NewRootCmd()
	root.Version = version
	if err := root.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newBoardCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Print every column and its tasks",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, _ []string) error { return runBoard(cmd, opts) },
	}
}

func runBoard(cmd *cobra.Command, opts *options) error {
	_, err := opts.open(cmd, true)
	return err
}
