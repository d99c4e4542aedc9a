package commands

import (
	"github.com/spf13/cobra"

	"github.com/c360studio/govspec/govern"
)

func bumpCmd(flags *rootFlags) *cobra.Command {
	var changes []string
	cmd := &cobra.Command{
		Use:   "bump <rfc-id> <major|minor|patch> <summary>",
		Short: "Bump an RFC's version and record a changelog entry",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			report, err := m.Bump(args[0], govern.BumpLevel(args[1]), args[2], changes)
			if err != nil {
				return err
			}
			if err := flags.finish(report); err != nil {
				return err
			}
			success("bumped %s (%s)", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&changes, "change", nil, "change description for the entry (repeatable)")
	return cmd
}

func releaseCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "release <version>",
		Short: "Group unreleased done work items into a release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			rel, err := m.Release(args[0])
			if err != nil {
				return err
			}
			success("released %s with %d work item(s)", rel.Version, len(rel.Refs))
			return nil
		},
	}
}
