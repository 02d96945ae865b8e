package cmd

import (
	"github.com/spf13/cobra"

	"loom/internal/detect"
)

func newEditorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "editors",
		Short: "List supported editors and whether they are detected",
		RunE: func(cmd *cobra.Command, args []string) error {
			root, err := projectRoot()
			if err != nil {
				return err
			}
			results, err := detect.Editors(cmd.Context(), root, "")
			if err != nil {
				return err
			}
			newPrinter(cmd).EditorsTable(results)
			return nil
		},
	}
}
