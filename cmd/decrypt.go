package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sena/ustudy/internal/crypto"
)

var decryptCmd = &cobra.Command{
	Use:     "decrypt <ciphertext>",
	GroupID: "system",
	Short:   "Decrypt a captured sync request body",
	Long:    "Decrypt a base64 sync request body and pretty-print the JSON inside. Diagnostic helper.",
	Args:    cobra.ExactArgs(1),
	RunE:    runDecrypt,
}

func init() {
	rootCmd.AddCommand(decryptCmd)
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	plain, err := crypto.DecryptSyncBody(args[0])
	if err != nil {
		return fmt.Errorf("decrypt: %w", err)
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, []byte(plain), "", "  "); err != nil {
		// not JSON, print as-is
		fmt.Println(plain)
		return nil
	}
	fmt.Println(pretty.String())
	return nil
}
