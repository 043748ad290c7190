package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
)

var (
	askSeed   int64
	askJSON   bool
	askTitle  string
	askAuthor string
)

var askCmd = &cobra.Command{
	Use:   "ask [memoir-id] [question]",
	Short: "Ask a question about a memoir",
	Long: `Answers a question from the memoir's best matching section.

When no section matches, the whole memoir is used. Unsafe questions are
refused, and questions without usable keywords get guidance instead of an
answer.

With --title and --author the memoir is looked up by title and author and
every argument is part of the question.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if askTitle != "" || askAuthor != "" {
			return cobra.MinimumNArgs(1)(cmd, args)
		}
		return cobra.MinimumNArgs(2)(cmd, args)
	},
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Int64Var(&askSeed, "seed", 0, "seed for reproducible answers (overrides ask.seed)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	askCmd.Flags().StringVarP(&askTitle, "title", "t", "", "find the memoir by title (with --author)")
	askCmd.Flags().StringVarP(&askAuthor, "author", "a", "", "find the memoir by author (with --title)")
	rootCmd.AddCommand(askCmd)
}

// askOutput is the JSON form of an answer.
type askOutput struct {
	Outcome  domain.Outcome `json:"outcome"`
	Answer   string         `json:"answer"`
	Category string         `json:"category,omitempty"`
	Keywords string         `json:"keywords,omitempty"`
	Terms    []string       `json:"terms,omitempty"`
	Chunks   []string       `json:"chunks,omitempty"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	if askService == nil {
		return notConfigured("ask", true)
	}

	memoirID, words, err := askTarget(cmd, args)
	if err != nil {
		return err
	}

	q := domain.Question{
		MemoirID: memoirID,
		Text:     strings.Join(words, " "),
	}
	if cmd.Flags().Changed("seed") {
		seed := askSeed
		q.Seed = &seed
	}

	answer, err := askService.Ask(cmd.Context(), q)
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("memoir %s not found", q.MemoirID)
	}

	if askJSON {
		if jsonErr := outputAnswerJSON(cmd, answer); jsonErr != nil {
			return jsonErr
		}
	} else {
		outputAnswer(cmd, answer)
	}

	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}
	return nil
}

// askTarget splits args into the memoir ID and the question words,
// resolving --title and --author when given.
func askTarget(cmd *cobra.Command, args []string) (string, []string, error) {
	if askTitle == "" && askAuthor == "" {
		return args[0], args[1:], nil
	}
	if askTitle == "" || askAuthor == "" {
		return "", nil, errors.New("--title and --author must be used together")
	}
	if memoirService == nil {
		return "", nil, notConfigured("memoir", false)
	}

	memoir, err := memoirService.Find(cmd.Context(), askTitle, askAuthor)
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, fmt.Errorf("no memoir titled %q by %s", askTitle, askAuthor)
	}
	if err != nil {
		return "", nil, fmt.Errorf("failed to find memoir: %w", err)
	}
	return memoir.ID, args, nil
}

func outputAnswer(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Text)
	if !answer.Outcome.Succeeded() && answer.Outcome != "" {
		cmd.Printf("(%s)\n", answer.Outcome.Description())
	}
}

func outputAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	data, err := json.MarshalIndent(askOutput{
		Outcome:  answer.Outcome,
		Answer:   answer.Text,
		Category: answer.Category,
		Keywords: answer.Keywords,
		Terms:    answer.Terms,
		Chunks:   answer.ContextChunkIDs,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
