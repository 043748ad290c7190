package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driven"
	"github.com/custodia-labs/memoir-cli/internal/core/ports/driving"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// Ensure AskService implements the interface.
var _ driving.AskService = (*AskService)(nil)

// User-facing messages for terminal pipeline states.
const (
	MessageNoKeywords   = "I couldn't understand your query. Please try rephrasing."
	MessageNoValidTerms = "No valid keywords found. Please refine your question."
	MessageUnavailable  = "Sorry, the answer service is unavailable right now. Please try again later."
	MessageNotFound     = "That memoir could not be found."
)

// RejectMessage is the refusal shown for an unsafe question.
func RejectMessage(category string) string {
	if category == "" {
		category = "unspecified"
	}
	return fmt.Sprintf("I can't answer that question. It was flagged as unsafe (%s).", category)
}

// askState is a state of the answer pipeline.
type askState int

const (
	stateStart askState = iota
	stateClassify
	stateReject
	stateExtractKeywords
	stateNoKeywords
	stateSanitize
	stateNoValidQueryTerms
	stateIndexQuery
	stateRankAndSelect
	stateFullDocumentFallback
	stateSynthesize
	stateServiceFailure
	stateDone
)

var askStateNames = [...]string{
	stateStart:                "Start",
	stateClassify:             "Classify",
	stateReject:               "Reject",
	stateExtractKeywords:      "ExtractKeywords",
	stateNoKeywords:           "NoKeywords",
	stateSanitize:             "Sanitize",
	stateNoValidQueryTerms:    "NoValidQueryTerms",
	stateIndexQuery:           "IndexQuery",
	stateRankAndSelect:        "RankAndSelect",
	stateFullDocumentFallback: "FullDocumentFallback",
	stateSynthesize:           "Synthesize",
	stateServiceFailure:       "ServiceFailure",
	stateDone:                 "Done",
}

func (s askState) String() string {
	if int(s) < len(askStateNames) {
		return askStateNames[s]
	}
	return fmt.Sprintf("askState(%d)", int(s))
}

// AskService runs the answer pipeline: classify, extract keywords,
// sanitise, query the index, then synthesise from the best chunk or from
// the whole memoir when nothing matched.
type AskService struct {
	store       driven.MemoirStore
	index       driven.SearchIndex
	classifier  driven.SafetyClassifier
	extractor   driven.KeywordExtractor
	synthesizer driven.AnswerSynthesizer
	settings    domain.AskSettings
}

// NewAskService creates a new ask service.
func NewAskService(
	store driven.MemoirStore,
	index driven.SearchIndex,
	classifier driven.SafetyClassifier,
	extractor driven.KeywordExtractor,
	synthesizer driven.AnswerSynthesizer,
	settings domain.AskSettings,
) *AskService {
	return &AskService{
		store:       store,
		index:       index,
		classifier:  classifier,
		extractor:   extractor,
		synthesizer: synthesizer,
		settings:    settings,
	}
}

// askRun carries the state of one question through the pipeline.
type askRun struct {
	question domain.Question
	memoir   *domain.Memoir
	seed     *int64
	state    askState
	answer   domain.Answer
}

func (r *askRun) enter(next askState) {
	logger.Transition(r.state, next)
	r.state = next
}

// finish sets a terminal guidance outcome.
func (r *askRun) finish(next askState, outcome domain.Outcome, text string) (domain.Answer, error) {
	r.enter(next)
	r.answer.Outcome = outcome
	r.answer.Text = text
	return r.answer, nil
}

// fail records a failure at the current state and returns it to the caller.
func (r *askRun) fail(err error) (domain.Answer, error) {
	failed := r.state
	r.enter(stateServiceFailure)
	r.answer.Outcome = domain.OutcomeServiceFailure
	r.answer.Text = MessageUnavailable
	if !errors.Is(err, context.Canceled) {
		logger.Error("%s failed: %v", failed, err)
	}
	return r.answer, fmt.Errorf("%s: %w", strings.ToLower(failed.String()), err)
}

// Ask answers one question about a memoir.
func (s *AskService) Ask(ctx context.Context, q domain.Question) (domain.Answer, error) {
	logger.Section("Answer Pipeline")
	logger.Debug("Question: %q", q.Text)

	run := &askRun{question: q, seed: q.Seed}
	if run.seed == nil {
		run.seed = s.settings.Seed
	}

	memoir, err := s.store.GetMemoir(ctx, q.MemoirID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			run.answer.Outcome = domain.OutcomeNotFound
			run.answer.Text = MessageNotFound
			return run.answer, fmt.Errorf("memoir %s: %w", q.MemoirID, domain.ErrNotFound)
		}
		return run.fail(err)
	}
	run.memoir = memoir

	// The safety gate runs before any other remote or index work.
	run.enter(stateClassify)
	verdict, err := s.classifier.Classify(ctx, q.Text)
	if err != nil {
		return run.fail(err)
	}
	if !verdict.IsSafe() {
		logger.Debug("Rejected as unsafe: %s", verdict.Category)
		run.answer.Category = verdict.Category
		return run.finish(stateReject, domain.OutcomeRejected, RejectMessage(verdict.Category))
	}

	run.enter(stateExtractKeywords)
	keywords, err := s.extractor.Extract(ctx, q.Text, run.seed)
	if err != nil {
		return run.fail(err)
	}
	run.answer.Keywords = keywords
	logger.Debug("Keywords: %q", keywords)
	if strings.TrimSpace(keywords) == "" {
		return run.finish(stateNoKeywords, domain.OutcomeNoKeywords, MessageNoKeywords)
	}

	run.enter(stateSanitize)
	terms := SanitizeTerms(keywords)
	run.answer.Terms = terms
	if len(terms) == 0 {
		return run.finish(stateNoValidQueryTerms, domain.OutcomeNoValidTerms, MessageNoValidTerms)
	}

	run.enter(stateIndexQuery)
	hits, err := s.index.Query(ctx, memoir.ID, terms, domain.SearchOptions{Limit: s.settings.QueryLimit})
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return run.fail(ctxErr)
		}
		logger.Warn("Index query failed, using the full memoir: %v", err)
		hits = nil
	}
	logger.Debug("Index returned %d hits for %v", len(hits), terms)

	var contextText string
	if len(hits) > 0 {
		run.enter(stateRankAndSelect)
		best := hits[0]
		logger.Debug("Selected chunk %d (score %.4f)", best.Ordinal, best.Score)
		contextText = best.Content
		run.answer.Outcome = domain.OutcomeAnswered
		run.answer.ContextChunkIDs = []string{best.ChunkID}
	} else {
		run.enter(stateFullDocumentFallback)
		chunks, err := s.store.GetChunks(ctx, memoir.ID)
		if err != nil {
			return run.fail(err)
		}
		run.answer.Outcome = domain.OutcomeFallback
		if len(chunks) == 0 {
			run.answer.Text = domain.NotAddressedText
			run.enter(stateDone)
			return run.answer, nil
		}
		contextText = domain.ConcatChunks(chunks)
		run.answer.ContextChunkIDs = make([]string, len(chunks))
		for i := range chunks {
			run.answer.ContextChunkIDs[i] = chunks[i].ID
		}
		logger.Debug("Fallback context: %d chunks, %d characters", len(chunks), len([]rune(contextText)))
	}

	run.enter(stateSynthesize)
	text, err := s.synthesizer.Synthesize(ctx, driven.SynthesisRequest{
		Context:  contextText,
		Question: q.Text,
		Author:   memoir.Author,
		Seed:     run.seed,
	})
	if err != nil {
		return run.fail(err)
	}

	run.answer.Text = strings.TrimSpace(text)
	run.enter(stateDone)
	return run.answer, nil
}
