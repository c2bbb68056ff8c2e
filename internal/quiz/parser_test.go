package quiz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEndToEndSingleChoice(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "3. What is 2+2?\nA. 3\nB. 4\nC. 5"},
		{Number: 2, Text: "参考答案\n3.【正确答案】B"},
	}

	set, err := NewParser().Parse(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, set.Questions, 1)

	q := set.Questions[0]
	assert.Equal(t, 3, q.Index)
	assert.Equal(t, "What is 2+2?", q.Text)
	assert.Equal(t, QuestionTypeSingle, q.Type)
	assert.Equal(t, []string{"B"}, q.AnswerLabels)
	assert.Equal(t, StatusOK, q.Status)
	assert.Equal(t, 1, q.SourcePage)
}

func TestParseEndToEndPositionalKey(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "1. first question\nA. x\nB. y\n2. second question\nA. x\nB. y"},
		{Number: 2, Text: "参考答案\n【正确答案】A\n【正确答案】B"},
	}

	set, err := NewParser().Parse(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, set.Questions, 2)

	assert.Equal(t, []string{"A"}, set.Questions[0].AnswerLabels)
	assert.Equal(t, ConfidencePositional, set.Questions[0].AnswerConfidence)
	assert.Equal(t, []string{"B"}, set.Questions[1].AnswerLabels)
	assert.Equal(t, StatusOK, set.Questions[0].Status)
}

func TestParseSingleOptionNeedsReview(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "1. a question with one option\nA. lonely"},
		{Number: 2, Text: "1.【正确答案】A"},
	}

	set, err := NewParser().Parse(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, set.Questions, 1)

	q := set.Questions[0]
	assert.Equal(t, StatusNeedsReview, q.Status)
	assert.Contains(t, q.ReviewReasons, ReasonTooFewOptions)
}

func TestParseMissingAnswerNeedsReview(t *testing.T) {
	pages := []Page{{Number: 1, Text: "1. no key anywhere\nA. x\nB. y"}}

	set, err := NewParser().Parse(context.Background(), pages)
	require.NoError(t, err)
	require.Len(t, set.Questions, 1)
	assert.Equal(t, StatusNeedsReview, set.Questions[0].Status)
	assert.Contains(t, set.Questions[0].ReviewReasons, ReasonMissingAnswer)
}

func TestParseInlineAnswerBank(t *testing.T) {
	text := "1. 下列哪项正确\nA. 甲\nB. 乙\nC. 丙\n【答案】C\n【解析】说明文字\n" +
		"2. 多选题示例\nA. 甲\nB. 乙\nC. 丙\nD. 丁\n【答案】ABD"

	set, err := NewParser().Parse(context.Background(), []Page{{Number: 1, Text: text}})
	require.NoError(t, err)
	require.Len(t, set.Questions, 2)

	first := set.Questions[0]
	assert.Equal(t, []string{"C"}, first.AnswerLabels)
	assert.Equal(t, ConfidenceInline, first.AnswerConfidence)
	assert.Equal(t, "说明文字", first.Explanation)
	assert.Equal(t, StatusOK, first.Status)

	second := set.Questions[1]
	assert.Equal(t, QuestionTypeMultiple, second.Type)
	assert.Equal(t, []string{"A", "B", "D"}, second.AnswerLabels)
}

func TestParseUniqueIndices(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "1. q1\nA. x\nB. y\n2. q2\nA. x\nB. y\n3. q3\nA. x\nB. y"},
		{Number: 2, Text: "参考答案\n1. A\n2. B\n3. A"},
	}

	set, err := NewParser().Parse(context.Background(), pages)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, q := range set.Questions {
		assert.False(t, seen[q.Index], "index %d appears more than once", q.Index)
		seen[q.Index] = true
	}
}

func TestParseIdempotent(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "1. 第一题\nA. 甲\nB. 乙\n2. 第二题\nA. 甲\nB. 乙\nC. 丙"},
		{Number: 2, Text: "参考答案\n1.【正确答案】A\n2.【正确答案】BC"},
	}

	parser := NewParser()
	first, err := parser.Parse(context.Background(), pages)
	require.NoError(t, err)
	second, err := parser.Parse(context.Background(), pages)
	require.NoError(t, err)

	// Field-for-field identical questions; only set identity differs.
	assert.Equal(t, first.Questions, second.Questions)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestParseCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	set, err := NewParser().Parse(ctx, []Page{{Number: 1, Text: "1. q\nA. x\nB. y"}})
	assert.Nil(t, set)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestParseEmptyStreamYieldsEmptySet(t *testing.T) {
	set, err := NewParser().Parse(context.Background(), []Page{{Number: 1, Text: "封面页，没有题目"}})
	require.NoError(t, err)
	assert.Empty(t, set.Questions)
}

func TestParseOKImpliesConsistency(t *testing.T) {
	// For every ok question: answers non-empty, within option labels, >= 2 options.
	text := "1. q1\nA. x\nB. y\n2. q2\nA. x\nB. y\nC. z\n3. q3 with dangling answer\nA. x\nB. y"
	key := "参考答案\n1.【正确答案】A\n2.【正确答案】BC\n3.【正确答案】F"

	set, err := NewParser().Parse(context.Background(), []Page{
		{Number: 1, Text: text},
		{Number: 2, Text: key},
	})
	require.NoError(t, err)
	require.Len(t, set.Questions, 3)

	for _, q := range set.Questions {
		if q.Status != StatusOK {
			continue
		}
		require.NotEmpty(t, q.AnswerLabels)
		assert.GreaterOrEqual(t, len(q.Options), 2)
		for _, label := range q.AnswerLabels {
			assert.True(t, q.HasOption(label), "question %d: answer %s not among options", q.Index, label)
		}
		assert.Equal(t, q.Type == QuestionTypeMultiple, len(q.AnswerLabels) > 1)
	}

	// Question 3 carries the dangling reference.
	assert.Equal(t, StatusNeedsReview, set.Questions[2].Status)
	assert.Contains(t, set.Questions[2].ReviewReasons, ReasonUnknownLabel)
}

func TestQuestionSetStatistics(t *testing.T) {
	pages := []Page{
		{Number: 1, Text: "1. q1\nA. x\nB. y\n2. q2\nA. x\nB. y\n3. q3\nA. x\nB. y"},
		{Number: 2, Text: "参考答案\n1.【正确答案】A\n2.【正确答案】AB\n【答案解析】解析"},
	}

	set, err := NewParser().Parse(context.Background(), pages)
	require.NoError(t, err)

	stats := set.Statistics()
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Single)
	assert.Equal(t, 1, stats.Multiple)
	assert.Equal(t, 1, stats.NeedsReview) // q3 has no answer entry
	assert.Equal(t, 1, stats.WithExplanation)
	assert.Equal(t, 2, stats.Pages)
}
