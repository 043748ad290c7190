// Package segmenter splits memoir text into ordered chunk contents.
//
// Text with section headings is split at each heading. Text without headings
// is cut into windows of roughly equal size on whitespace boundaries.
package segmenter

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/custodia-labs/memoir-cli/internal/core/domain"
	"github.com/custodia-labs/memoir-cli/internal/logger"
)

// DefaultHeadingPattern matches lines such as "Section 3 - The Move" or
// "Chapter 5 – Jones Beach". Hyphen, en dash and em dash are accepted.
const DefaultHeadingPattern = `(?m)^[ \t]*(?:Section|Chapter)[ \t]+\d+[ \t]*[-–—]`

// Segmenter splits text into chunk contents. It is safe for concurrent use.
type Segmenter struct {
	windowSize int
	heading    *regexp.Regexp
}

// Option configures the segmenter.
type Option func(*config)

type config struct {
	windowSize int
	pattern    string
}

// WithWindowSize sets the window size in characters for text without headings.
func WithWindowSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.windowSize = size
		}
	}
}

// WithHeadingPattern replaces the heading regular expression. Each match
// must start at the beginning of a heading line.
func WithHeadingPattern(pattern string) Option {
	return func(c *config) {
		if pattern != "" {
			c.pattern = pattern
		}
	}
}

// New creates a segmenter with the given options.
func New(opts ...Option) (*Segmenter, error) {
	c := config{
		windowSize: domain.DefaultWindowSize,
		pattern:    DefaultHeadingPattern,
	}
	for _, opt := range opts {
		opt(&c)
	}

	heading, err := regexp.Compile(c.pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: heading pattern: %w", domain.ErrInvalidInput, err)
	}
	return &Segmenter{windowSize: c.windowSize, heading: heading}, nil
}

// FromSettings creates a segmenter from application settings.
func FromSettings(settings domain.SegmentSettings) (*Segmenter, error) {
	return New(WithWindowSize(settings.WindowSize), WithHeadingPattern(settings.HeadingPattern))
}

// WindowSize returns the configured window size.
func (s *Segmenter) WindowSize() int {
	return s.windowSize
}

// Segment splits text into ordered chunk contents. Empty or whitespace-only
// text yields no chunks.
func (s *Segmenter) Segment(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	starts := s.headingStarts(text)
	if len(starts) == 0 {
		return window(text, s.windowSize)
	}

	if preamble := strings.TrimSpace(text[:starts[0]]); preamble != "" {
		logger.Debug("segmenter: dropping %d characters before the first heading", len([]rune(preamble)))
	}

	chunks := make([]string, 0, len(starts))
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		chunk := strings.TrimRightFunc(text[start:end], unicode.IsSpace)
		chunk = strings.TrimLeft(chunk, " \t")
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
	}
	return chunks
}

func (s *Segmenter) headingStarts(text string) []int {
	matches := s.heading.FindAllStringIndex(text, -1)
	starts := make([]int, 0, len(matches))
	for _, m := range matches {
		starts = append(starts, m[0])
	}
	return starts
}

// window cuts text into pieces of at most size runes, ending each piece
// after the whitespace that precedes a word. A word longer than size becomes
// one oversized piece. The pieces concatenate back to text exactly.
func window(text string, size int) []string {
	runes := []rune(text)
	n := len(runes)

	var chunks []string
	start := 0
	for start < n {
		if n-start <= size {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		cut := -1
		seenWord := false
		for i := start + 1; i < n; i++ {
			if !unicode.IsSpace(runes[i-1]) {
				seenWord = true
			}
			if !seenWord || !unicode.IsSpace(runes[i-1]) || unicode.IsSpace(runes[i]) {
				continue
			}
			if i-start <= size {
				cut = i
				continue
			}
			if cut == -1 {
				cut = i
			}
			break
		}
		if cut == -1 {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		chunks = append(chunks, string(runes[start:cut]))
		start = cut
	}
	return chunks
}
