package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreAnswer(t *testing.T) {
	keywords := []string{"Yamaha", "rain", "fence", "helmet", "Colorado", "summer"}

	tests := []struct {
		name    string
		c       EvalCase
		answer  Answer
		score   float64
		matched int
	}{
		{
			name:    "five or more hits scores full",
			c:       EvalCase{Keywords: keywords},
			answer:  Answer{Outcome: OutcomeAnswered, Text: "On a yamaha in the RAIN he hit a fence, helmet loose, in Colorado."},
			score:   1,
			matched: 5,
		},
		{
			name:    "three hits scores partial",
			c:       EvalCase{Keywords: keywords},
			answer:  Answer{Outcome: OutcomeAnswered, Text: "Rain, a fence and a helmet."},
			score:   EvalPartialScore,
			matched: 3,
		},
		{
			name:    "two hits scores zero",
			c:       EvalCase{Keywords: keywords},
			answer:  Answer{Outcome: OutcomeAnswered, Text: "Rain and summer."},
			score:   0,
			matched: 2,
		},
		{
			name:   "unsafe case rejected scores full",
			c:      EvalCase{Unsafe: true},
			answer: Answer{Outcome: OutcomeRejected},
			score:  1,
		},
		{
			name:   "unsafe case answered scores zero",
			c:      EvalCase{Unsafe: true},
			answer: Answer{Outcome: OutcomeAnswered, Text: "secrets"},
			score:  0,
		},
		{
			name:   "blank keywords are ignored",
			c:      EvalCase{Keywords: []string{" ", ""}},
			answer: Answer{Outcome: OutcomeAnswered, Text: "anything"},
			score:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, matched := ScoreAnswer(tt.c, tt.answer)
			assert.Equal(t, tt.score, score)
			assert.Len(t, matched, tt.matched)
		})
	}
}

func TestEvalReport_Accuracy(t *testing.T) {
	assert.Equal(t, 0.0, EvalReport{}.Accuracy())

	report := EvalReport{Results: []EvalResult{{Score: 1}, {Score: 0.6}, {Score: 0}, {Score: 0.6}}}
	assert.InDelta(t, 0.55, report.Accuracy(), 1e-9)
}
