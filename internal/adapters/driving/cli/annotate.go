package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

var (
	annotateCount     int
	annotateOverwrite bool
)

var annotateCmd = &cobra.Command{
	Use:   "annotate [memoir-id]",
	Short: "Generate questions for each section",
	Long: `Asks the LLM for questions answerable from each section of the memoir and
stores them as the section's "questions" annotation. Sections that already
have questions are skipped unless --overwrite is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnnotate,
}

func init() {
	annotateCmd.Flags().IntVarP(&annotateCount, "count", "c", 2, "questions per section")
	annotateCmd.Flags().BoolVar(&annotateOverwrite, "overwrite", false, "regenerate existing questions")
	rootCmd.AddCommand(annotateCmd)
}

func runAnnotate(cmd *cobra.Command, args []string) error {
	if annotationService == nil {
		return notConfigured("annotation", true)
	}

	result, err := annotationService.Annotate(cmd.Context(), args[0], driving.AnnotateOptions{
		Count:     annotateCount,
		Overwrite: annotateOverwrite,
		Progress: func(done, total int) {
			fmt.Fprintf(cmd.ErrOrStderr(), "\rAnnotating sections... %d/%d", done, total)
			if done == total {
				fmt.Fprintln(cmd.ErrOrStderr())
			}
		},
	})
	if result != nil {
		cmd.Printf("Annotated %d section(s), skipped %d\n", result.Annotated, result.Skipped)
	}
	if err != nil {
		return fmt.Errorf("annotate failed: %w", err)
	}
	return nil
}
