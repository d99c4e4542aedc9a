package commands

import (
	"github.com/spf13/cobra"
)

func deleteCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a clause or a queued work item",
		Long: `Delete removes a clause or a queued work item from the store. Artifacts
with incoming structured references are protected; remove the referrers
first. RFCs and ADRs are never deleted, deprecate or reject them instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			report, err := m.Delete(args[0])
			if err != nil {
				return err
			}
			if err := flags.finish(report); err != nil {
				return err
			}
			success("deleted %s", args[0])
			return nil
		},
	}
}
