package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "giftstore",
	Short: "Personalized gifts storefront backend",
	Long: `giftstore serves the storefront REST API and ships the tooling around it.

Commands:
  serve          - run the HTTP API
  migrate        - create the relational schema and document indexes
  hash-password  - print a bcrypt hash for ADMIN_PASSWORD_HASH
  sync           - run the storefront client against a server`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, hashPasswordCmd, syncCmd)
}
