package commands

import (
	"github.com/spf13/cobra"
)

func transitionCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "transition <id> <target>",
		Short: "Move an artifact to a new status or phase",
		Long: `Transition moves an artifact along its lifecycle. For RFCs the target
is a status (draft, normative, deprecated) or a phase (spec, impl, test,
stable); other kinds take their status values. Transitions are forward-only
and nothing is persisted when the validator reports errors.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			report, err := m.Transition(args[0], args[1])
			if err != nil {
				return err
			}
			if err := flags.finish(report); err != nil {
				return err
			}
			success("%s → %s", args[0], args[1])
			return nil
		},
	}
}

func supersedeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "supersede <rfc-id:clause-id> <by-clause-id>",
		Short: "Mark a clause superseded by another clause of the same RFC",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			report, err := m.Supersede(args[0], args[1])
			if err != nil {
				return err
			}
			if err := flags.finish(report); err != nil {
				return err
			}
			success("%s superseded by %s", args[0], args[1])
			return nil
		},
	}
}
