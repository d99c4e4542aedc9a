package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/c360studio/govspec/artifact"
)

func listCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:       "list [rfc|adr|work]",
		Short:     "List artifacts",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"rfc", "adr", "work"},
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			snap, err := m.Snapshot()
			if err != nil {
				return err
			}

			kind := ""
			if len(args) == 1 {
				kind = args[0]
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			defer w.Flush()

			if kind == "" || kind == "rfc" {
				for _, e := range snap.RFCs {
					fmt.Fprintf(w, "%s\t%s\t%s/%s\tv%s\t%d clauses\n",
						e.RFC.ID, e.RFC.Title, e.RFC.Status, e.RFC.Phase, e.RFC.Version, len(e.Clauses))
				}
			}
			if kind == "" || kind == "adr" {
				for _, a := range snap.ADRs {
					fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", a.ID, a.Title, a.Status, a.Date)
				}
			}
			if kind == "" || kind == "work" {
				for _, item := range snap.Work {
					done := 0
					for _, c := range item.Criteria {
						if c.Status == artifact.CriterionDone {
							done++
						}
					}
					fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d criteria\t\n",
						item.ID, item.Title, item.Status, done, len(item.Criteria))
				}
			}
			return nil
		},
	}
}
