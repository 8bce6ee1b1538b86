package client

import (
	"fmt"

	"github.com/spf13/cobra"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the fundfacts API is reachable",
		RunE:  runStatus,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	apiClient := NewAPIClientWithCmd(cmd)

	var resp struct {
		Status string `json:"status"`
	}
	if err := apiClient.Get("/health", &resp); err != nil {
		return err
	}

	fmt.Println(resp.Status)
	return nil
}
