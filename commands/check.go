package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/govspec/artifact"
)

func checkCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "check [rfc|adr|work]",
		Short:     "Validate the whole store and verify rendered projections",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"rfc", "adr", "work"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := artifact.Kind("")
			if len(args) == 1 {
				kind = artifact.Kind(args[0])
				if !kind.IsValid() || kind == artifact.KindClause {
					return fmt.Errorf("unknown artifact kind %q", args[0])
				}
			}

			m, err := flags.manager()
			if err != nil {
				return err
			}
			report, err := m.Check(kind)
			if err != nil {
				return err
			}
			printReport(report)
			if report.ExitCode(flags.strict) != 0 {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}
}
