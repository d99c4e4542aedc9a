// Package commands implements the govspec CLI. Commands are a thin shell
// over the govern facade: parse arguments, run one operation, print the
// report, map findings to the exit code.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/govspec/config"
	"github.com/c360studio/govspec/diag"
	"github.com/c360studio/govspec/govern"
)

type rootFlags struct {
	configPath string
	strict     bool
	verbose    bool
}

// Root builds the govspec command tree.
func Root() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "govspec",
		Short: "Governance artifact integrity toolkit",
		Long: `Govspec manages governed documents (RFCs with clauses, ADRs, work items)
as structured records under version control. Rendered markdown is a signed
projection of the records; govspec validates lifecycle transitions,
resolves references, and detects tampered or stale projections.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if flags.verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file path (default gov/config.yaml)")
	cmd.PersistentFlags().BoolVar(&flags.strict, "strict", false, "treat warnings as failures")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		initCmd(flags),
		newCmd(flags),
		listCmd(flags),
		editCmd(flags),
		moveCmd(flags),
		transitionCmd(flags),
		supersedeCmd(flags),
		checkCmd(flags),
		signCmd(flags),
		renderCmd(flags),
		refsCmd(flags),
		deleteCmd(flags),
		bumpCmd(flags),
		releaseCmd(flags),
		watchCmd(flags),
	)
	return cmd
}

// manager loads the resolved configuration and builds the operations facade.
func (f *rootFlags) manager() (*govern.Manager, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}
	return govern.NewManager(cfg, slog.Default())
}

// finish prints any findings and converts the report's exit code into a
// cobra error.
func (f *rootFlags) finish(report diag.Report) error {
	report.Sort()
	if len(report.Diagnostics) > 0 {
		printReport(report)
	}
	if report.ExitCode(f.strict) != 0 {
		return fmt.Errorf("validation failed")
	}
	return nil
}
