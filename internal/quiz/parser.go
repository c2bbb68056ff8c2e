package quiz

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Parser runs the full recognition pipeline over an extracted text stream:
// segmentation, option parsing, answer-key extraction, and matching. The
// pipeline is a synchronous computation; callers that need it off the hot
// path run Parse on a background goroutine (see internal/loader).
type Parser struct {
	segmenter *Segmenter
}

// NewParser creates a parser with default segmentation configuration
func NewParser() *Parser {
	return &Parser{segmenter: NewSegmenter()}
}

// NewParserWithConfig creates a parser with custom segmentation configuration
func NewParserWithConfig(config *SegmenterConfig) *Parser {
	return &Parser{segmenter: NewSegmenterWithConfig(config)}
}

// Parse converts page-ordered text into a question set. Per-question
// recognition anomalies never fail the parse; they surface as needsReview
// statuses on the affected questions. The context is checked between
// pipeline stages and per question block so a cancelled load aborts cleanly.
func (p *Parser) Parse(ctx context.Context, pages []Page) (*QuestionSet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lines := flattenPages(pages)
	keyStart := findAnswerKeyStart(lines)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blocks := p.segmenter.segmentLines(lines[:keyStart])

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries := extractAnswerEntries(lines[keyStart:])

	parsed := make([]parsedBlock, 0, len(blocks))
	for _, b := range blocks {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed = append(parsed, parseBlock(b))
	}

	questions := matchQuestions(parsed, entries)

	pageCount := 0
	for _, page := range pages {
		if page.Number > pageCount {
			pageCount = page.Number
		}
	}

	return &QuestionSet{
		ID:        uuid.NewString(),
		Questions: questions,
		PageCount: pageCount,
		ParsedAt:  time.Now(),
	}, nil
}
