package main

import (
	"encoding/base64"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/envault/envault/pkg/cipher"
)

// dataKeyGenerateCmd represents the data-key > generate command
var dataKeyGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a data encryption key",
	Long: `
Generate a data encryption key

Use this command to generate a new Base64-encoded 256 bit data encryption key.
Once generated, this key should be placed into the environment of the envault
server. It encrypts every secret value stored in the database.

Example:

$ export ENVAULT_DATA_KEY="$(envaultctl data-key generate)"
`,
	Run: func(cmd *cobra.Command, args []string) {
		key, err := generateDataKey()
		if err != nil {
			fail("%v", err)
		}
		fmt.Print(key)
	},
}

func init() {
	dataKeyCmd.AddCommand(dataKeyGenerateCmd)
}

func generateDataKey() (string, error) {
	bytes, err := cipher.RandomBytes(cipher.KeySize)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.Strict().EncodeToString(bytes), nil
}
