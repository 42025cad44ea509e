package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"balance-backend/internal/assistant"
	"balance-backend/internal/config"
)

func main() {
	var apiURL, token string

	root := &cobra.Command{
		Use:   "coach",
		Short: "Chat with the balance task assistant",
		Long: `coach is a small chat client for your tasks. It understands plain
requests like "show my high priority tasks" or "create a task 'Evening
walk' with high priority" and talks to the balance API on your behalf.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			if apiURL == "" {
				apiURL = cfg.APIBaseURL
			}
			if token == "" {
				token = cfg.APIToken
			}
			if token == "" {
				return fmt.Errorf("no API token: pass --token or set API_TOKEN")
			}

			// diagnostics go to stderr; the chat transcript owns stdout
			logger, err := zap.NewProduction()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			exec := assistant.NewExecutor(assistant.NewClient(apiURL, token), logger)
			return runChat(cmd.Context(), exec)
		},
	}

	root.Flags().StringVar(&apiURL, "api", "", "task API base URL")
	root.Flags().StringVar(&token, "token", "", "bearer token for the task API")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runChat(ctx context.Context, exec *assistant.Executor) error {
	fmt.Println("Hi! Ask me about your tasks (type 'quit' to leave).")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "quit" || line == "exit" {
			break
		}
		fmt.Println(reply(ctx, exec, line))
	}
	return scanner.Err()
}

// reply runs one utterance through parse -> execute -> format. Submission
// is serialized: the loop blocks until the round trip resolves.
func reply(ctx context.Context, exec *assistant.Executor, line string) string {
	cmd, ok := assistant.Parse(line)
	if !ok {
		return assistant.Help()
	}
	return assistant.Format(exec.Execute(ctx, cmd))
}
