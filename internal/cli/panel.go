package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/quorumlab/tribunal/internal/judges"
)

func newPanelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "panel",
		Short: "Inspect and edit the judge panel",
	}
	cmd.AddCommand(newPanelListCmd(), newPanelAddCmd(), newPanelRemoveCmd())
	return cmd
}

func newPanelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all judges on the panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, def := range loadPanel().List() {
				marker := "custom "
				if def.Builtin {
					marker = "builtin"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %-14s %-18s %s\n", marker, def.ID, def.Name, def.Description)
			}
			return nil
		},
	}
}

func newPanelAddCmd() *cobra.Command {
	var name, description, instruction string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a custom judge",
		RunE: func(cmd *cobra.Command, args []string) error {
			panel := loadPanel()
			def, err := panel.Add(name, description, instruction)
			if err != nil {
				return err
			}
			if err := judges.SaveFile(judgesPath(), panel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "added judge %s (%s)\n", def.Name, def.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&description, "description", "", "one-line description")
	cmd.Flags().StringVar(&instruction, "instruction", "", "instruction text given to the model")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("instruction")
	return cmd
}

func newPanelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a custom judge by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			panel := loadPanel()
			if err := panel.Remove(args[0]); err != nil {
				return err
			}
			if err := judges.SaveFile(judgesPath(), panel); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed judge %s\n", args[0])
			return nil
		},
	}
}
