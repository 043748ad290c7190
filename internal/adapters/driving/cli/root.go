// Package cli provides the memoir command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services holds the driving ports the commands call.
type Services struct {
	Ingest     driving.IngestService
	Ask        driving.AskService
	Memoir     driving.MemoirService
	Annotation driving.AnnotationService
	Eval       driving.EvalService
	Settings   driving.SettingsService

	// AIError explains why the remote-backed services are missing.
	AIError error
}

// Options are the global flags handed to the setup hook.
type Options struct {
	Verbose  bool
	InMemory bool
	DataDir  string
}

// SetupFunc builds the services for one invocation. The returned cleanup
// runs after the command finishes.
type SetupFunc func(ctx context.Context, opts Options) (*Services, func(), error)

var (
	ingestService     driving.IngestService
	askService        driving.AskService
	memoirService     driving.MemoirService
	annotationService driving.AnnotationService
	evalService       driving.EvalService
	settingsService   driving.SettingsService
	aiError           error
)

var (
	globalOpts Options
	setup      SetupFunc
	cleanup    func()
)

var rootCmd = &cobra.Command{
	Use:   "memoir",
	Short: "Ask questions about memoirs",
	Long: `Memoir ingests long-form memoir text, indexes it locally and answers
natural-language questions about it.

Every question passes a safety check, is reduced to keywords, matched against
the memoir's full-text index and answered from the best matching section.`,
	SilenceUsage:       true,
	PersistentPreRunE:  runSetup,
	PersistentPostRunE: runCleanup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&globalOpts.Verbose, "verbose", "v", false, "print pipeline transitions and diagnostics")
	flags.BoolVar(&globalOpts.InMemory, "in-memory", false, "use a throwaway in-memory store")
	flags.StringVar(&globalOpts.DataDir, "data-dir", "", "data directory (default ~/.memoir)")
}

// SetSetup registers the hook that builds services before each command.
func SetSetup(fn SetupFunc) {
	setup = fn
}

// SetServices installs the driving ports used by the commands.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	askService = s.Ask
	memoirService = s.Memoir
	annotationService = s.Annotation
	evalService = s.Eval
	settingsService = s.Settings
	aiError = s.AIError
}

// Execute runs the root command. Cleanup also runs when the command fails.
func Execute(ctx context.Context) error {
	defer runCleanup(nil, nil) //nolint:errcheck // always nil
	return rootCmd.ExecuteContext(ctx)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(globalOpts.Verbose)
	if setup == nil {
		return nil
	}

	services, done, err := setup(cmd.Context(), globalOpts)
	if err != nil {
		return err
	}
	SetServices(services)
	cleanup = done
	return nil
}

func runCleanup(_ *cobra.Command, _ []string) error {
	if cleanup != nil {
		cleanup()
		cleanup = nil
	}
	return nil
}

// notConfigured explains a missing service, preferring the AI setup error.
func notConfigured(name string, remote bool) error {
	if remote && aiError != nil {
		return fmt.Errorf("%s unavailable: %w", name, aiError)
	}
	return errors.New(name + " service not configured")
}
