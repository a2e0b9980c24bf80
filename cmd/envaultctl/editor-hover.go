package main

import (
	"github.com/spf13/cobra"
)

// editorHoverCmd represents the editor hover command
var editorHoverCmd = &cobra.Command{
	Use:   "hover <line> <column>",
	Short: "Describe the environment variable reference under the cursor",
	Long: `Describe the environment variable reference at a zero-based byte column,
as JSON. The output is null when the cursor is not on a reference.

Example:
  envaultctl editor hover 'db := os.Getenv("DATABASE_URL")' 20`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		col, err := parseColumn(args[1])
		if err != nil {
			fail("%v", err)
		}
		hover, err := editorProvider(cmd).Hover(cmd.Context(), args[0], col)
		if err != nil {
			fail("%v", err)
		}
		printJSON(hover)
	},
}

func init() {
	editorCmd.AddCommand(editorHoverCmd)
}
