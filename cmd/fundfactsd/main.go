package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fundfacts-ai/fundfacts/internal/cli"
	"github.com/fundfacts-ai/fundfacts/internal/cli/daemon"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "fundfactsd",
		Short: "Fundfacts daemon and index tooling",
		Long:  "Fundfacts daemon for serving grounded mutual fund answers and maintaining the vector index",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(daemon.ServeCmd())
	rootCmd.AddCommand(daemon.IndexCmd())
	rootCmd.AddCommand(daemon.AskCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
