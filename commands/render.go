package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func signCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "sign <id>",
		Short: "Print the canonical content hash of an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			sig, err := m.Sign(args[0])
			if err != nil {
				return err
			}
			fmt.Println(sig)
			return nil
		},
	}
}

func renderCmd(flags *rootFlags) *cobra.Command {
	var (
		all       bool
		changelog bool
		force     bool
	)
	cmd := &cobra.Command{
		Use:   "render [id]",
		Short: "Render signed markdown projections",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}

			switch {
			case changelog:
				if _, err := m.RenderChangelog(force); err != nil {
					return err
				}
				success("rendered %s", m.Config().ChangelogFile())
				return nil
			case all:
				ids, err := m.RenderAll()
				if err != nil {
					return err
				}
				success("rendered %d projection(s)", len(ids))
				return nil
			case len(args) == 1:
				if _, err := m.Render(args[0]); err != nil {
					return err
				}
				success("rendered %s", args[0])
				return nil
			}
			return fmt.Errorf("give an artifact id, --all, or --changelog")
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "render every artifact")
	cmd.Flags().BoolVar(&changelog, "changelog", false, "render the project changelog")
	cmd.Flags().BoolVar(&force, "force", false, "with --changelog, regenerate released sections")
	return cmd
}
