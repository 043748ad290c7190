package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

var settingsModeration bool

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the LLM provider, the safety check, remote call limits
and segmentation.

Use subcommands to change individual settings or configure a provider interactively.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a single setting",
	Long: `Set a single setting by key. An empty value removes the setting so the
default applies again. Run 'memoir settings keys' for the list of keys.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsSetKeyCmd = &cobra.Command{
	Use:   "set-key",
	Short: "Store an API key",
	Long: `Prompts for an API key without echo and stores it in the config file.
Use --moderation to store the key for the OpenAI moderation endpoint.`,
	Args: cobra.NoArgs,
	RunE: runSettingsSetKey,
}

var settingsLLMCmd = &cobra.Command{
	Use:   "llm",
	Short: "Configure LLM provider",
	Long:  `Configure the LLM provider used for keywords, answers and guard checks.`,
	RunE:  runSettingsLLM,
}

var settingsModerationCmd = &cobra.Command{
	Use:   "moderation",
	Short: "Configure the safety check",
	RunE:  runSettingsModeration,
}

func init() {
	settingsSetKeyCmd.Flags().BoolVar(&settingsModeration, "moderation", false, "store the moderation endpoint key")
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsSetKeyCmd)
	settingsCmd.AddCommand(settingsLLMCmd)
	settingsCmd.AddCommand(settingsModerationCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings", false)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	// LLM settings
	cmd.Println("[LLM]")
	cmd.Printf("  Provider: %s\n", settings.LLM.Provider.Description())
	cmd.Printf("  Model: %s\n", settings.LLM.EffectiveModel())
	if url := settings.LLM.EffectiveBaseURL(); url != "" {
		cmd.Printf("  Base URL: %s\n", url)
	}
	if settings.LLM.Provider.RequiresAPIKey() {
		printAPIKey(cmd, settings.LLM.APIKey)
	}
	status := "configured"
	if !settings.LLM.IsConfigured() {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
	cmd.Println()

	// Safety check
	cmd.Println("[Moderation]")
	cmd.Printf("  Provider: %s\n", settings.Moderation.Provider.Description())
	if model := settings.Moderation.EffectiveModel(settings.LLM.Provider); model != "" {
		cmd.Printf("  Model: %s\n", model)
	}
	if settings.Moderation.Provider == domain.ModerationOpenAI {
		printAPIKey(cmd, settings.Moderation.EffectiveAPIKey(settings.LLM))
	}
	if len(settings.Moderation.BlockedPhrases) > 0 {
		cmd.Printf("  Extra phrases: %s\n", strings.Join(settings.Moderation.BlockedPhrases, ", "))
	}
	cmd.Println()

	cmd.Println("[Remote]")
	cmd.Printf("  Timeout: %s\n", settings.Remote.Timeout)
	cmd.Printf("  Retries: %d (backoff %s)\n", settings.Remote.MaxRetries, settings.Remote.Backoff)
	if settings.Remote.RequestsPerSecond > 0 {
		cmd.Printf("  Rate: %.2f/s (burst %d)\n", settings.Remote.RequestsPerSecond, settings.Remote.Burst)
	} else {
		cmd.Printf("  Rate: unlimited\n")
	}
	cmd.Println()

	cmd.Println("[Segmenter]")
	cmd.Printf("  Window size: %d\n", settings.Segment.WindowSize)
	if settings.Segment.HeadingPattern != "" {
		cmd.Printf("  Heading pattern: %s\n", settings.Segment.HeadingPattern)
	}
	cmd.Println()

	cmd.Println("[Ask]")
	cmd.Printf("  Query limit: %d\n", settings.Ask.QueryLimit)
	if settings.Ask.Seed != nil {
		cmd.Printf("  Seed: %d\n", *settings.Ask.Seed)
	} else {
		cmd.Printf("  Seed: (none)\n")
	}
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'memoir settings llm' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func printAPIKey(cmd *cobra.Command, key string) {
	if key != "" {
		cmd.Printf("  API Key: %s\n", maskAPIKey(key))
	} else {
		cmd.Printf("  API Key: (not set)\n")
	}
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings", false)
	}

	key := args[0]
	value := ""
	if len(args) == 2 {
		value = args[1]
	}
	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	switch {
	case value == "":
		cmd.Printf("Removed %s\n", key)
	case isSecretKey(key):
		cmd.Printf("Set %s = %s\n", key, maskAPIKey(value))
	default:
		cmd.Printf("Set %s = %s\n", key, value)
	}
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings", false)
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsSetKey(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings", false)
	}

	cmd.Print("Enter API key: ")
	key := readPassword(cmd, bufio.NewReader(cmd.InOrStdin()))
	cmd.Println()
	if key == "" {
		return errors.New("API key is required")
	}

	if err := settingsService.SetAPIKey(key, settingsModeration); err != nil {
		return fmt.Errorf("failed to store API key: %w", err)
	}
	cmd.Printf("API key stored: %s\n", maskAPIKey(key))
	return nil
}

func runSettingsLLM(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings", false)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureLLMProvider(cmd, reader)
}

func runSettingsModeration(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings", false)
	}

	reader := bufio.NewReader(cmd.InOrStdin())
	return configureModeration(cmd, reader)
}

func configureLLMProvider(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select LLM Provider")
	providers := domain.AllLLMProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	input := readLine(reader)
	idx := parseChoice(input, len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaultModel := domain.DefaultLLMModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.LLM.Provider = selectedProvider
	settings.LLM.Model = model

	// Get API key if needed
	if selectedProvider.RequiresAPIKey() {
		cmd.Printf("Enter API key (blank to use %s): ", selectedProvider.APIKeyEnv())
		if apiKey := readPassword(cmd, reader); apiKey != "" {
			settings.LLM.APIKey = apiKey
		}
		cmd.Println()
	}

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to configure LLM provider: %w", err)
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateLLMConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("LLM configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("LLM provider configured: %s (%s)\n\n", selectedProvider.Description(), model)
	return nil
}

func configureModeration(cmd *cobra.Command, reader *bufio.Reader) error {
	cmd.Println("Select Safety Check")
	providers := domain.AllModerationProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selected := providers[idx-1]

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	settings.Moderation.Provider = selected
	settings.Moderation.Model = ""

	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to configure moderation: %w", err)
	}

	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateModerationConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("moderation configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Safety check configured: %s\n\n", selected.Description())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

func readPassword(cmd *cobra.Command, reader *bufio.Reader) string {
	// Try to read password without echo
	if in, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(in.Fd())) {
		password, err := term.ReadPassword(int(in.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	// Fallback to regular input
	return readLine(reader)
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "api_key")
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
