package terminal

import (
	"context"
	"io"
	"os"

	"github.com/de-tools/revenue-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/revenue-atlas/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	connect    Connector
	reporter   *export.Reporter
	optionFile string
	rootCmd    *cobra.Command
}

// Connector builds the backend for a run; optionFile may be empty.
type Connector func(ctx context.Context, optionFile string) (*commands.Backend, error)

// Options contain configuration for the CLI
type Options struct {
	Connect Connector
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		connect:  opts.Connect,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

// SetArgs overrides os.Args for the next Execute.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "revenue",
		Short:         "Revenue reporting tool",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&cli.optionFile, "mycnf", "",
		"Path to a MySQL option file whose [client] section supplies DB settings")

	backend := func(ctx context.Context) (*commands.Backend, error) {
		return cli.connect(ctx, cli.optionFile)
	}

	cmd.AddCommand(commands.NewReportCmd(backend, cli.reporter))
	cmd.AddCommand(commands.NewBreakdownCmd(backend, cli.reporter))
	cmd.AddCommand(commands.NewExportCmd(backend))

	return cmd
}
