package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
)

var (
	ingestTitle  string
	ingestAuthor string
	ingestAppend bool
	ingestNoWait bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Segment and index a memoir",
	Long: `Reads a memoir from a file (or stdin when the file is "-"), splits it
into sections and stores the sections with their full-text index.

Plain text, Markdown (.md), HTML (.html) and Word (.docx) files are converted
to text first. Without --title the title comes from the file: the first
Markdown heading, the HTML <title>, the document title or the file name.

Text with "Section N -" or "Chapter N -" headings is split at each heading.
Other text is split into windows of roughly segment.window_size characters.

Use --append to add the sections to an existing memoir with the same title
and author instead of creating a new one.`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVarP(&ingestTitle, "title", "t", "", "memoir title (default taken from the file)")
	ingestCmd.Flags().StringVarP(&ingestAuthor, "author", "a", "", "memoir author (required)")
	ingestCmd.Flags().BoolVar(&ingestAppend, "append", false, "append to the existing memoir with this title and author")
	ingestCmd.Flags().BoolVar(&ingestNoWait, "no-wait", false, "fail instead of waiting for a concurrent ingestion")
	_ = ingestCmd.MarkFlagRequired("author") //nolint:errcheck // flag exists
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return notConfigured("ingest", false)
	}

	data, err := readSource(cmd, args[0])
	if err != nil {
		return err
	}

	filename := args[0]
	if filename == "-" {
		filename = ""
	}

	result, err := ingestService.Ingest(cmd.Context(), driving.IngestRequest{
		Title:    ingestTitle,
		Author:   ingestAuthor,
		Source:   data,
		Filename: filename,
		Append:   ingestAppend,
		NoWait:   ingestNoWait,
	})
	if err != nil {
		return fmt.Errorf("ingest failed: %w", err)
	}

	verb := "Appended"
	if result.Created {
		verb = "Created"
	}
	if result.Format != "" {
		cmd.Printf("Read %s as %s\n", args[0], result.Format)
	}
	cmd.Printf("%s memoir %s with %d section(s)\n", verb, result.MemoirID, len(result.ChunkIDs))
	return nil
}

func readSource(cmd *cobra.Command, path string) ([]byte, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if data == nil {
		data = []byte{}
	}
	return data, nil
}
