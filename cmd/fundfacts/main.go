package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fundfacts-ai/fundfacts/internal/cli"
	"github.com/fundfacts-ai/fundfacts/internal/cli/client"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "fundfacts",
		Short: "Fundfacts CLI - grounded mutual fund answers",
		Long: `Fundfacts CLI asks questions against a running fundfactsd instance.

Environment variables:
  FUNDFACTS_API_URL   API base URL (default: http://localhost:8080)`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("api-url", "", "API base URL (overrides env)")
	cli.AddHelpJSONFlag(rootCmd)

	rootCmd.AddCommand(client.AskCmd())
	rootCmd.AddCommand(client.StatusCmd())

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
