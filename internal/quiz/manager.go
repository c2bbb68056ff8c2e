package quiz

import (
	"fmt"
	"sync"
)

// FilterCriterion selects a subsequence of questions by status or type
type FilterCriterion string

const (
	FilterAll         FilterCriterion = "all"
	FilterNeedsReview FilterCriterion = "needsReview"
	FilterSingle      FilterCriterion = "single"
	FilterMultiple    FilterCriterion = "multiple"
)

// ParseFilterCriterion validates a criterion string. The empty string maps
// to FilterAll.
func ParseFilterCriterion(s string) (FilterCriterion, error) {
	switch FilterCriterion(s) {
	case "":
		return FilterAll, nil
	case FilterAll, FilterNeedsReview, FilterSingle, FilterMultiple:
		return FilterCriterion(s), nil
	default:
		return "", fmt.Errorf("unknown filter criterion: %q (must be one of: all, needsReview, single, multiple)", s)
	}
}

// Manager owns the question set for the current document session. The set is
// written exactly once per load, via Replace; every read operation works on
// the published snapshot, so readers never observe a partial load.
type Manager struct {
	mu  sync.RWMutex
	set *QuestionSet
}

// NewManager creates a manager with no document loaded
func NewManager() *Manager {
	return &Manager{}
}

// Replace atomically swaps the held question set. Loading a new document
// discards the previous session's set entirely.
func (m *Manager) Replace(set *QuestionSet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = set
}

// Current returns the published question set, or nil before the first load
func (m *Manager) Current() *QuestionSet {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.set
}

// Loaded reports whether a document session is active
func (m *Manager) Loaded() bool {
	return m.Current() != nil
}

// Questions returns a copy of the full ordered question sequence
func (m *Manager) Questions() []Question {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.set == nil {
		return nil
	}
	out := make([]Question, len(m.set.Questions))
	copy(out, m.set.Questions)
	return out
}

// Question looks up one question by its declared index
func (m *Manager) Question(index int) (Question, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.set == nil {
		return Question{}, false
	}
	for i := range m.set.Questions {
		if m.set.Questions[i].Index == index {
			return m.set.Questions[i], true
		}
	}
	return Question{}, false
}

// Filter returns the ordered subsequence of questions matching the criterion
func (m *Manager) Filter(criterion FilterCriterion) ([]Question, error) {
	criterion, err := ParseFilterCriterion(string(criterion))
	if err != nil {
		return nil, err
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.set == nil {
		return nil, nil
	}

	var out []Question
	for i := range m.set.Questions {
		q := m.set.Questions[i]
		if matchesCriterion(&q, criterion) {
			out = append(out, q)
		}
	}
	return out, nil
}

func matchesCriterion(q *Question, criterion FilterCriterion) bool {
	switch criterion {
	case FilterNeedsReview:
		return q.NeedsReview()
	case FilterSingle:
		return q.Type == QuestionTypeSingle
	case FilterMultiple:
		return q.Type == QuestionTypeMultiple
	default:
		return true
	}
}

// SelectByRange returns the ordered subsequence of questions whose declared
// index falls inside the expression's index set. Indices in the expression
// with no matching question are silently ignored; a syntactically invalid
// token fails the whole call with a SyntaxError.
func (m *Manager) SelectByRange(expr string) ([]Question, error) {
	indices, err := ParseRangeExpr(expr)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(indices))
	for _, n := range indices {
		wanted[n] = true
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.set == nil {
		return nil, nil
	}

	var out []Question
	for i := range m.set.Questions {
		if wanted[m.set.Questions[i].Index] {
			out = append(out, m.set.Questions[i])
		}
	}
	return out, nil
}

// Select combines a filter criterion with an optional range expression,
// preserving original document order. An empty expression selects all
// indices.
func (m *Manager) Select(criterion FilterCriterion, expr string) ([]Question, error) {
	questions, err := m.Filter(criterion)
	if err != nil {
		return nil, err
	}
	if expr == "" {
		return questions, nil
	}

	indices, err := ParseRangeExpr(expr)
	if err != nil {
		return nil, err
	}
	wanted := make(map[int]bool, len(indices))
	for _, n := range indices {
		wanted[n] = true
	}

	var out []Question
	for i := range questions {
		if wanted[questions[i].Index] {
			out = append(out, questions[i])
		}
	}
	return out, nil
}

// Statistics summarizes the current set; zero-valued when nothing is loaded
func (m *Manager) Statistics() SetStatistics {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.set == nil {
		return SetStatistics{}
	}
	return m.set.Statistics()
}
