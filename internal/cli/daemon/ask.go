package daemon

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fundfacts-ai/fundfacts/internal/config"
)

// AskCmd returns the ask command
func AskCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question locally, without going through the HTTP API",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runAsk,
	}
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	app, err := newApp(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer app.Close()

	answer, err := app.pipeline.Answer(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	fmt.Println(answer.Answer)
	return nil
}
