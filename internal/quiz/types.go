package quiz

import (
	"sort"
	"strings"
	"time"
)

// QuestionType represents the derived type of a question
type QuestionType string

const (
	QuestionTypeSingle   QuestionType = "single"
	QuestionTypeMultiple QuestionType = "multiple"
)

// DisplayName returns a human-readable name for a question type
func (qt QuestionType) DisplayName() string {
	switch qt {
	case QuestionTypeSingle:
		return "Single Choice"
	case QuestionTypeMultiple:
		return "Multiple Choice"
	default:
		return "Unknown"
	}
}

// IsValid checks if the question type is valid
func (qt QuestionType) IsValid() bool {
	return qt == QuestionTypeSingle || qt == QuestionTypeMultiple
}

// QuestionStatus represents the recognition status of a question
type QuestionStatus string

const (
	StatusOK          QuestionStatus = "ok"
	StatusNeedsReview QuestionStatus = "needsReview"
)

// AnswerConfidence indicates how an answer was associated with a question
type AnswerConfidence string

const (
	// ConfidenceExplicit marks answers bound by an explicit index token in the answer key.
	ConfidenceExplicit AnswerConfidence = "explicit"
	// ConfidenceInline marks answers found inside the question block itself.
	ConfidenceInline AnswerConfidence = "inline"
	// ConfidencePositional marks answers mapped by position from unindexed answer lines.
	ConfidencePositional AnswerConfidence = "positional"
)

// Review reasons recorded when recognition anomalies demote a question to needsReview
const (
	ReasonMissingAnswer   = "missing_answer"
	ReasonTooFewOptions   = "too_few_options"
	ReasonEmptyBody       = "empty_body"
	ReasonUnknownLabel    = "unknown_answer_label"
	ReasonDuplicateOption = "duplicate_option_label"
)

// Page represents one page of extracted text in reading order
type Page struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// Option represents a single labeled choice within a question
type Option struct {
	Label string `json:"label"`
	Text  string `json:"text"`
}

// AnswerEntry represents one parsed entry from the answer-key region
type AnswerEntry struct {
	Index       int              `json:"index"` // 0 when the entry carried no index token
	Labels      []string         `json:"labels"`
	Explanation string           `json:"explanation,omitempty"`
	Confidence  AnswerConfidence `json:"confidence"`
	Line        int              `json:"line"` // line offset within the answer region
}

// Question is the fully recognized record produced by matching blocks with answers
type Question struct {
	Index            int              `json:"index"`
	Text             string           `json:"text"`
	Options          []Option         `json:"options"`
	AnswerLabels     []string         `json:"answer_labels"`
	Explanation      string           `json:"explanation,omitempty"`
	Type             QuestionType     `json:"type"`
	Status           QuestionStatus   `json:"status"`
	ReviewReasons    []string         `json:"review_reasons,omitempty"`
	AnswerConfidence AnswerConfidence `json:"answer_confidence,omitempty"`
	SourcePage       int              `json:"source_page"`
}

// NeedsReview reports whether the question was flagged for manual review
func (q *Question) NeedsReview() bool {
	return q.Status == StatusNeedsReview
}

// OptionLabels returns the ordered labels of all parsed options
func (q *Question) OptionLabels() []string {
	labels := make([]string, 0, len(q.Options))
	for _, opt := range q.Options {
		labels = append(labels, opt.Label)
	}
	return labels
}

// HasOption checks whether an option with the given label exists
func (q *Question) HasOption(label string) bool {
	for _, opt := range q.Options {
		if opt.Label == label {
			return true
		}
	}
	return false
}

// AnswerString renders the answer labels sorted and joined for display
func (q *Question) AnswerString() string {
	if len(q.AnswerLabels) == 0 {
		return ""
	}
	labels := make([]string, len(q.AnswerLabels))
	copy(labels, q.AnswerLabels)
	sort.Strings(labels)
	return strings.Join(labels, "")
}

// QuestionSet holds all recognized questions for one loaded document
type QuestionSet struct {
	ID         string     `json:"id"`
	SourcePath string     `json:"source_path,omitempty"`
	Title      string     `json:"title,omitempty"`
	Questions  []Question `json:"questions"`
	Warnings   []string   `json:"warnings,omitempty"`
	PageCount  int        `json:"page_count"`
	ParsedAt   time.Time  `json:"parsed_at"`
}

// SetStatistics summarizes a question set for reporting
type SetStatistics struct {
	Total           int `json:"total"`
	Single          int `json:"single"`
	Multiple        int `json:"multiple"`
	NeedsReview     int `json:"needs_review"`
	WithExplanation int `json:"with_explanation"`
	Pages           int `json:"pages"`
}

// Statistics computes summary statistics over the set
func (qs *QuestionSet) Statistics() SetStatistics {
	stats := SetStatistics{
		Total: len(qs.Questions),
		Pages: qs.PageCount,
	}

	for i := range qs.Questions {
		q := &qs.Questions[i]
		switch q.Type {
		case QuestionTypeMultiple:
			stats.Multiple++
		default:
			stats.Single++
		}
		if q.NeedsReview() {
			stats.NeedsReview++
		}
		if q.Explanation != "" {
			stats.WithExplanation++
		}
	}

	return stats
}
