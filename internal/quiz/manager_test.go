package quiz

import (
	"errors"
	"sync"
	"testing"
)

func managerWithQuestions(indices ...int) *Manager {
	set := &QuestionSet{ID: "test"}
	for _, idx := range indices {
		q := Question{
			Index: idx,
			Text:  "stem",
			Options: []Option{
				{Label: "A", Text: "one"},
				{Label: "B", Text: "two"},
			},
			AnswerLabels: []string{"A"},
			Type:         QuestionTypeSingle,
			Status:       StatusOK,
		}
		set.Questions = append(set.Questions, q)
	}

	m := NewManager()
	m.Replace(set)
	return m
}

func TestManagerEmptyBeforeLoad(t *testing.T) {
	m := NewManager()

	if m.Loaded() {
		t.Error("expected no document loaded")
	}

	questions, err := m.Filter(FilterAll)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if questions != nil {
		t.Errorf("expected nil questions, got %v", questions)
	}
}

func TestManagerFilterCriteria(t *testing.T) {
	set := &QuestionSet{
		Questions: []Question{
			{Index: 1, Type: QuestionTypeSingle, Status: StatusOK},
			{Index: 2, Type: QuestionTypeMultiple, Status: StatusNeedsReview},
			{Index: 3, Type: QuestionTypeSingle, Status: StatusNeedsReview},
			{Index: 4, Type: QuestionTypeMultiple, Status: StatusOK},
		},
	}
	m := NewManager()
	m.Replace(set)

	tests := []struct {
		criterion FilterCriterion
		want      []int
	}{
		{FilterAll, []int{1, 2, 3, 4}},
		{FilterNeedsReview, []int{2, 3}},
		{FilterSingle, []int{1, 3}},
		{FilterMultiple, []int{2, 4}},
	}

	for _, tt := range tests {
		questions, err := m.Filter(tt.criterion)
		if err != nil {
			t.Fatalf("Filter(%s) returned error: %v", tt.criterion, err)
		}
		if len(questions) != len(tt.want) {
			t.Fatalf("Filter(%s): expected %v questions, got %d", tt.criterion, tt.want, len(questions))
		}
		for i, q := range questions {
			if q.Index != tt.want[i] {
				t.Errorf("Filter(%s)[%d]: expected index %d, got %d", tt.criterion, i, tt.want[i], q.Index)
			}
		}
	}
}

func TestManagerFilterUnknownCriterion(t *testing.T) {
	m := managerWithQuestions(1)
	if _, err := m.Filter("bogus"); err == nil {
		t.Error("expected error for unknown criterion")
	}
}

func TestManagerSelectByRange(t *testing.T) {
	indices := make([]int, 30)
	for i := range indices {
		indices[i] = i + 1
	}
	m := managerWithQuestions(indices...)

	questions, err := m.SelectByRange("1-10,15,20-25")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 15, 20, 21, 22, 23, 24, 25}
	if len(questions) != len(want) {
		t.Fatalf("expected %d questions, got %d", len(want), len(questions))
	}
	for i, q := range questions {
		if q.Index != want[i] {
			t.Errorf("position %d: expected index %d, got %d", i, want[i], q.Index)
		}
	}
}

func TestManagerSelectByRangeUnknownIndicesIgnored(t *testing.T) {
	m := managerWithQuestions(1, 2, 3)

	questions, err := m.SelectByRange("2,99")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 || questions[0].Index != 2 {
		t.Errorf("expected only index 2, got %v", questions)
	}
}

func TestManagerSelectByRangeSyntaxError(t *testing.T) {
	m := managerWithQuestions(1, 2, 3)

	for _, expr := range []string{"5-2", "", "1,x"} {
		questions, err := m.SelectByRange(expr)
		var syntaxErr *SyntaxError
		if !errors.As(err, &syntaxErr) {
			t.Errorf("SelectByRange(%q): expected SyntaxError, got %v", expr, err)
		}
		if questions != nil {
			t.Errorf("SelectByRange(%q): expected no partial selection, got %v", expr, questions)
		}
	}
}

func TestManagerSelectCombined(t *testing.T) {
	set := &QuestionSet{
		Questions: []Question{
			{Index: 1, Type: QuestionTypeSingle, Status: StatusOK},
			{Index: 2, Type: QuestionTypeSingle, Status: StatusNeedsReview},
			{Index: 3, Type: QuestionTypeSingle, Status: StatusNeedsReview},
		},
	}
	m := NewManager()
	m.Replace(set)

	questions, err := m.Select(FilterNeedsReview, "1-2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(questions) != 1 || questions[0].Index != 2 {
		t.Errorf("expected only index 2, got %v", questions)
	}
}

func TestManagerReplaceSwapsAtomically(t *testing.T) {
	m := managerWithQuestions(1, 2)

	first := m.Current()
	m.Replace(&QuestionSet{ID: "second"})

	if m.Current().ID != "second" {
		t.Errorf("expected replacement set, got %s", m.Current().ID)
	}
	if first.ID == m.Current().ID {
		t.Error("expected old set to be discarded")
	}
}

func TestManagerConcurrentReaders(t *testing.T) {
	m := managerWithQuestions(1, 2, 3, 4, 5)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if _, err := m.Filter(FilterAll); err != nil {
					t.Errorf("filter failed: %v", err)
					return
				}
				_ = m.Statistics()
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for j := 0; j < 50; j++ {
			m.Replace(&QuestionSet{ID: "swap"})
		}
	}()

	wg.Wait()
	<-done
}

func TestManagerQuestionLookup(t *testing.T) {
	m := managerWithQuestions(4, 7)

	if q, ok := m.Question(7); !ok || q.Index != 7 {
		t.Errorf("expected to find question 7, got %v ok=%v", q, ok)
	}
	if _, ok := m.Question(99); ok {
		t.Error("expected lookup miss for index 99")
	}
}
