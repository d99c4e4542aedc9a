package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/govspec/artifact"
	"github.com/c360studio/govspec/govern"
)

func editCmd(flags *rootFlags) *cobra.Command {
	var selector string
	cmd := &cobra.Command{
		Use:   "edit <id> <field> <set|add|remove> [value]",
		Short: "Edit one field of an artifact",
		Long: `Edit applies a field-level change. Scalar fields take "set <value>",
array fields take "add <value>" or "remove" with --select. A selector is a
0-based index, "re:<pattern>", "sub:<substring>", or an exact value.
Status and phase are changed with the transition command, never with edit.`,
		Args: cobra.RangeArgs(3, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			op := govern.FieldOp(args[2])
			value := ""
			if len(args) == 4 {
				value = args[3]
			}
			switch op {
			case govern.OpSet, govern.OpAdd:
				if value == "" {
					return fmt.Errorf("%s requires a value", op)
				}
			case govern.OpRemove:
			default:
				return fmt.Errorf("unknown edit op %q, want set, add, or remove", args[2])
			}

			m, err := flags.manager()
			if err != nil {
				return err
			}
			sel := govern.ParseSelector(selector)
			report, err := m.Edit(args[0], args[1], op, value, sel)
			if err != nil {
				return err
			}
			if report.HasErrors() {
				return flags.finish(report)
			}
			success("edited %s %s", args[0], args[1])
			return nil
		},
	}
	cmd.Flags().StringVar(&selector, "select", "", "element selector for array remove")
	return cmd
}

func moveCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "move <work-id> <selector> <pending|done|cancelled>",
		Short: "Tick an acceptance criterion of a work item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := flags.manager()
			if err != nil {
				return err
			}
			sel := govern.ParseSelector(args[1])
			status := artifact.CriterionStatus(args[2])
			if err := m.MoveCriterion(args[0], sel, status); err != nil {
				return err
			}
			success("criterion moved to %s", status)
			return nil
		},
	}
}
