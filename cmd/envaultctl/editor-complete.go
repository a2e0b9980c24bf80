package main

import (
	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/editor"
)

// editorCompleteCmd represents the editor complete command
var editorCompleteCmd = &cobra.Command{
	Use:   "complete <line-prefix>",
	Short: "List secret keys completing the text before the cursor",
	Long: `List secret keys completing the text before the cursor, as a JSON array.
The array is empty when the text does not end in a reference such as
process.env. or os.Getenv(".

Example:
  envaultctl editor complete 'const url = process.env.DATA'`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		completions, err := editorProvider(cmd).Complete(cmd.Context(), args[0])
		if err != nil {
			fail("%v", err)
		}
		if completions == nil {
			completions = []editor.Completion{}
		}
		printJSON(completions)
	},
}

func init() {
	editorCmd.AddCommand(editorCompleteCmd)
}
