package cmd

import (
	"fmt"

	"github.com/BrunoTulio/mongopher/internal/utils"
	"github.com/spf13/cobra"
)

// obscureCmd represents the obscure command
var obscureCmd = &cobra.Command{
	Use:   "obscure [plaintext]",
	Short: "Obscure a secret for safe storage in config files",
	Long: `Obscure passwords and secrets so they are not stored as plain text.

The output carries the XXX: prefix; mongopher reveals such values when it loads
the config file or the environment (SMTP password, OAuth client secret, refresh
token, encryption key, shared secrets).

This protects against accidental exposure only. It is not encryption.

Examples:
  # Obscure the SMTP password
  mongopher obscure "smtp-secret-123"

  # Use the output in mongopher.yaml
  notification:
    smtp_password: "XXX:4Yp8m2qK8nJ5vL9wX..."`,
	Args: cobra.ExactArgs(1),
	Run:  runObscure,
}

func init() {
	rootCmd.AddCommand(obscureCmd)
}

func runObscure(cmd *cobra.Command, args []string) {
	obscured, err := utils.Obscure(args[0])
	if err != nil {
		log.Fatalf("❌ %v", err)
	}

	fmt.Printf("🔒 Obscured:  %s\n\n", obscured)
	fmt.Println("📋 Add to mongopher.yaml:")
	fmt.Printf("  smtp_password: \"%s\"\n", obscured)
}
