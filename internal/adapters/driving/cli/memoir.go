package cli

import (
	"bufio"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

var (
	memoirShowFull   bool
	memoirDeleteYes  bool
	memoirSearchN    int
	memoirSearchJSON bool
	memoirClearImage bool
)

// previewLength is how much chunk content memoir show prints without --full.
const previewLength = 120

var memoirCmd = &cobra.Command{
	Use:   "memoir",
	Short: "Manage stored memoirs",
	Long:  `List, inspect, search, reindex or delete stored memoirs.`,
}

var memoirListCmd = &cobra.Command{
	Use:   "list",
	Short: "List memoirs",
	Args:  cobra.NoArgs,
	RunE:  runMemoirList,
}

var memoirShowCmd = &cobra.Command{
	Use:   "show [memoir-id]",
	Short: "Show a memoir's sections",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoirShow,
}

var memoirSearchCmd = &cobra.Command{
	Use:   "search [memoir-id] [query]",
	Short: "Rank sections against a query",
	Long: `Ranks the memoir's sections against the words of the query using the
local full-text index. No remote service is called.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runMemoirSearch,
}

var memoirDeleteCmd = &cobra.Command{
	Use:   "delete [memoir-id]",
	Short: "Delete a memoir",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoirDelete,
}

var memoirReindexCmd = &cobra.Command{
	Use:   "reindex [memoir-id]",
	Short: "Rebuild a memoir's full-text index",
	Args:  cobra.ExactArgs(1),
	RunE:  runMemoirReindex,
}

var memoirSetImageCmd = &cobra.Command{
	Use:   "set-image [memoir-id] [ordinal] [image-ref]",
	Short: "Attach an image reference to a section",
	Args:  cobra.RangeArgs(2, 3),
	RunE:  runMemoirSetImage,
}

func init() {
	memoirShowCmd.Flags().BoolVar(&memoirShowFull, "full", false, "print full section content")
	memoirDeleteCmd.Flags().BoolVarP(&memoirDeleteYes, "yes", "y", false, "skip confirmation")
	memoirSearchCmd.Flags().IntVarP(&memoirSearchN, "limit", "n", domain.DefaultQueryLimit, "maximum number of results")
	memoirSearchCmd.Flags().BoolVar(&memoirSearchJSON, "json", false, "output results as JSON")
	memoirSetImageCmd.Flags().BoolVar(&memoirClearImage, "clear", false, "remove the image reference")

	memoirCmd.AddCommand(memoirListCmd)
	memoirCmd.AddCommand(memoirShowCmd)
	memoirCmd.AddCommand(memoirSearchCmd)
	memoirCmd.AddCommand(memoirDeleteCmd)
	memoirCmd.AddCommand(memoirReindexCmd)
	memoirCmd.AddCommand(memoirSetImageCmd)
	rootCmd.AddCommand(memoirCmd)
}

func runMemoirList(cmd *cobra.Command, _ []string) error {
	if memoirService == nil {
		return notConfigured("memoir", false)
	}

	memoirs, err := memoirService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list memoirs: %w", err)
	}
	if len(memoirs) == 0 {
		cmd.Println("No memoirs found. Run 'memoir ingest' to add one.")
		return nil
	}

	cmd.Println("Memoirs:")
	cmd.Println()
	for i := range memoirs {
		m := memoirs[i].Memoir
		cmd.Printf("  %s\n", m.ID)
		cmd.Printf("      %s by %s\n", m.Title, m.Author)
		cmd.Printf("      %d section(s), %d characters, ingested %s\n",
			memoirs[i].ChunkCount, memoirs[i].TotalChars, m.CreatedAt.Format("2006-01-02 15:04"))
		cmd.Println()
	}
	return nil
}

func runMemoirShow(cmd *cobra.Command, args []string) error {
	if memoirService == nil {
		return notConfigured("memoir", false)
	}

	ctx := cmd.Context()
	memoir, err := memoirService.Get(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get memoir: %w", err)
	}
	chunks, err := memoirService.Chunks(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to get sections: %w", err)
	}

	cmd.Printf("%s by %s\n", memoir.Title, memoir.Author)
	cmd.Printf("ID: %s\n", memoir.ID)
	cmd.Printf("Sections: %d\n", len(chunks))
	cmd.Println()

	for i := range chunks {
		c := &chunks[i]
		content := c.Content
		if !memoirShowFull {
			content = preview(content, previewLength)
		}
		cmd.Printf("[%d] %s\n", c.Ordinal, content)
		if c.ImageRef != "" {
			cmd.Printf("    Image: %s\n", c.ImageRef)
		}
		for _, key := range sortedAnnotationKeys(c.Annotations) {
			cmd.Printf("    %s:\n", key)
			for _, line := range strings.Split(strings.TrimSpace(c.Annotations[key]), "\n") {
				cmd.Printf("      %s\n", line)
			}
		}
		cmd.Println()
	}
	return nil
}

func runMemoirSearch(cmd *cobra.Command, args []string) error {
	if memoirService == nil {
		return notConfigured("memoir", false)
	}

	query := strings.Join(args[1:], " ")
	results, err := memoirService.Search(cmd.Context(), args[0], query, domain.SearchOptions{Limit: memoirSearchN})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if memoirSearchJSON {
		data, err := json.MarshalIndent(results, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}
	cmd.Println("Results:")
	cmd.Println()
	for i := range results {
		cmd.Printf("  [%d] section %d (%.2f)\n", i+1, results[i].Ordinal, results[i].Score)
		cmd.Printf("      %s\n", preview(results[i].Content, previewLength))
		cmd.Println()
	}
	return nil
}

func runMemoirDelete(cmd *cobra.Command, args []string) error {
	if memoirService == nil {
		return notConfigured("memoir", false)
	}

	id := args[0]
	if !memoirDeleteYes {
		cmd.Printf("Delete memoir %s and all its sections? [y/N]: ", id)
		reader := bufio.NewReader(cmd.InOrStdin())
		answer := strings.ToLower(readLine(reader))
		if answer != "y" && answer != "yes" {
			cmd.Println("Cancelled.")
			return nil
		}
	}

	if err := memoirService.Delete(cmd.Context(), id); err != nil {
		return fmt.Errorf("failed to delete memoir: %w", err)
	}
	cmd.Printf("Deleted memoir %s\n", id)
	return nil
}

func runMemoirReindex(cmd *cobra.Command, args []string) error {
	if memoirService == nil {
		return notConfigured("memoir", false)
	}
	if err := memoirService.Reindex(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}
	cmd.Printf("Reindexed memoir %s\n", args[0])
	return nil
}

func runMemoirSetImage(cmd *cobra.Command, args []string) error {
	if memoirService == nil {
		return notConfigured("memoir", false)
	}

	ordinal, err := strconv.Atoi(args[1])
	if err != nil || ordinal < 0 {
		return fmt.Errorf("invalid ordinal %q", args[1])
	}

	var ref string
	switch {
	case memoirClearImage:
	case len(args) == 3:
		ref = args[2]
	default:
		return fmt.Errorf("an image reference or --clear is required")
	}

	if err := memoirService.SetImage(cmd.Context(), args[0], ordinal, ref); err != nil {
		return fmt.Errorf("failed to set image: %w", err)
	}
	if ref == "" {
		cmd.Printf("Cleared image for section %d\n", ordinal)
	} else {
		cmd.Printf("Set image for section %d: %s\n", ordinal, ref)
	}
	return nil
}

func preview(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}

func sortedAnnotationKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
