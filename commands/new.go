package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/govspec/artifact"
)

func newCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new artifact",
	}
	cmd.AddCommand(newRFCCmd(flags), newClauseCmd(flags), newADRCmd(flags), newWorkCmd(flags))
	return cmd
}

func newRFCCmd(flags *rootFlags) *cobra.Command {
	var owners []string
	cmd := &cobra.Command{
		Use:   "rfc <title>",
		Short: "Create a draft RFC",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			rfc, err := m.NewRFC(args[0], owners)
			if err != nil {
				return err
			}
			success("created %s: %s", rfc.ID, rfc.Title)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&owners, "owner", nil, "owner (repeatable)")
	return cmd
}

func newClauseCmd(flags *rootFlags) *cobra.Command {
	var (
		section string
		kind    string
		text    string
	)
	cmd := &cobra.Command{
		Use:   "clause <rfc-id> <slug> <title>",
		Short: "Add a clause to an RFC section",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			clause, report, err := m.NewClause(args[0], section, args[1], args[2], artifact.ClauseKind(kind), text)
			if err != nil {
				return err
			}
			if report.HasErrors() {
				return flags.finish(report)
			}
			success("created %s", artifact.ClauseRef(args[0], clause.ID))
			return nil
		},
	}
	cmd.Flags().StringVar(&section, "section", "General", "section title to place the clause under")
	cmd.Flags().StringVar(&kind, "kind", string(artifact.ClauseNormative), "clause kind (normative, informative)")
	cmd.Flags().StringVar(&text, "text", "", "clause text")
	return cmd
}

func newADRCmd(flags *rootFlags) *cobra.Command {
	var (
		context  string
		decision string
		refList  []string
	)
	cmd := &cobra.Command{
		Use:   "adr <title>",
		Short: "Create a proposed ADR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			a, report, err := m.NewADR(args[0], context, decision, refList)
			if err != nil {
				return err
			}
			if report.HasErrors() {
				return flags.finish(report)
			}
			success("created %s: %s", a.ID, a.Title)
			return nil
		},
	}
	cmd.Flags().StringVar(&context, "context", "", "decision context")
	cmd.Flags().StringVar(&decision, "decision", "", "the decision taken")
	cmd.Flags().StringSliceVar(&refList, "ref", nil, "referenced artifact id (repeatable)")
	return cmd
}

func newWorkCmd(flags *rootFlags) *cobra.Command {
	var (
		description string
		criteria    []string
		refList     []string
	)
	cmd := &cobra.Command{
		Use:   "work <title>",
		Short: "Create a queued work item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			w, report, err := m.NewWorkItem(args[0], description, criteria, refList)
			if err != nil {
				return err
			}
			if report.HasErrors() {
				return flags.finish(report)
			}
			success("created %s: %s", w.ID, w.Title)
			if len(w.Criteria) > 0 {
				fmt.Printf("%d acceptance criteria\n", len(w.Criteria))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "work item description")
	cmd.Flags().StringSliceVar(&criteria, "criterion", nil, "acceptance criterion, optionally prefixed with a changelog category (repeatable)")
	cmd.Flags().StringSliceVar(&refList, "ref", nil, "referenced artifact id (repeatable)")
	return cmd
}
