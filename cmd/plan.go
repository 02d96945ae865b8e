package cmd

import (
	"github.com/spf13/cobra"

	"loom/internal/editors"
)

func newPlanCmd() *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show what apply would change without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			opts := editors.Options{Overwrite: flags.overwrite, Clean: flags.clean}
			return runApply(cmd, root, flags, opts, true)
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.clean, "clean", false, "Include deletions of previously generated files")
	return cmd
}
