package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func refsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "refs <id>",
		Short: "Show resolved outgoing and incoming references of an artifact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			resolved, err := m.ResolveRefs(args[0])
			if err != nil {
				return err
			}

			if len(resolved.Outgoing) == 0 && len(resolved.Incoming) == 0 {
				fmt.Printf("%s has no references\n", args[0])
				return nil
			}
			if len(resolved.Outgoing) > 0 {
				fmt.Println("outgoing:")
				for _, ref := range resolved.Outgoing {
					line := fmt.Sprintf("  %s", ref.ID)
					switch {
					case ref.Outdated:
						line += fmt.Sprintf(" (outdated: %s)", ref.Reason)
					case ref.Reason != "":
						line += fmt.Sprintf(" (%s)", ref.Reason)
					}
					fmt.Println(line)
				}
			}
			if len(resolved.Incoming) > 0 {
				fmt.Println("incoming:")
				for _, id := range resolved.Incoming {
					fmt.Printf("  %s\n", id)
				}
			}
			return nil
		},
	}
}
