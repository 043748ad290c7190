package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoir-cli/internal/adapters/driving/tui"
	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat [memoir-id]",
	Short: "Ask questions in the interactive terminal UI",
	Long: `Launch the interactive terminal UI. Pick a memoir from the list and ask
questions about it one after another. Pass a memoir ID to open it directly.

Controls:
  ↑/k, ↓/j - Navigate memoirs
  Enter    - Open memoir / Ask
  Esc      - Back to memoirs
  r        - Reload memoirs
  Ctrl+C   - Quit`,
	Args: cobra.MaximumNArgs(1),
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if memoirService == nil {
		return notConfigured("memoir", false)
	}
	if askService == nil {
		return notConfigured("ask", true)
	}

	app, err := tui.NewApp(&tui.Ports{Memoir: memoirService, Ask: askService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if len(args) == 1 {
		memoir, err := memoirService.Get(cmd.Context(), args[0])
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("memoir %s not found", args[0])
		}
		if err != nil {
			return fmt.Errorf("failed to load memoir: %w", err)
		}
		app.WithMemoir(*memoir)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
