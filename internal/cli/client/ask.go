package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

type askRequest struct {
	Query string `json:"query"`
}

type askResponse struct {
	Answer   string `json:"answer"`
	Source   string `json:"source"`
	IsAdvice bool   `json:"is_advice"`
}

// AskCmd returns the ask command
func AskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a mutual fund question",
		Long:  "Send a question to the fundfacts API and print the grounded answer",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}

	cmd.Flags().Bool("json", false, "Print the raw JSON response")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	apiClient := NewAPIClientWithCmd(cmd)

	var resp askResponse
	err := apiClient.Post("/query", askRequest{Query: strings.Join(args, " ")}, &resp)
	if err != nil {
		return err
	}

	if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
		data, err := json.MarshalIndent(resp, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}

	fmt.Println(resp.Answer)
	return nil
}
