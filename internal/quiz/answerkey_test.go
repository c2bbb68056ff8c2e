package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tagged(lines ...string) []taggedLine {
	out := make([]taggedLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, taggedLine{page: 1, text: normalizeWidth(l)})
	}
	return out
}

func TestFindAnswerKeyStartHeading(t *testing.T) {
	lines := tagged(
		"1. question one",
		"A. x",
		"B. y",
		"参考答案",
		"1.【正确答案】A",
	)

	assert.Equal(t, 3, findAnswerKeyStart(lines))
}

func TestFindAnswerKeyStartIndexedEntry(t *testing.T) {
	lines := tagged(
		"1. question one",
		"A. x",
		"B. y",
		"1.【正确答案】A",
		"2.【正确答案】B",
	)

	assert.Equal(t, 3, findAnswerKeyStart(lines))
}

func TestFindAnswerKeyStartAbsent(t *testing.T) {
	lines := tagged("1. question one", "A. x", "B. y")
	assert.Equal(t, len(lines), findAnswerKeyStart(lines))
}

func TestExtractEntriesBracketForm(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"1.【正确答案】A",
		"【答案解析】第一题的解析",
		"2.【正确答案】BD",
		"3.【答案】C",
	))

	require.Len(t, entries, 3)

	assert.Equal(t, 1, entries[0].Index)
	assert.Equal(t, []string{"A"}, entries[0].Labels)
	assert.Equal(t, ConfidenceExplicit, entries[0].Confidence)
	assert.Equal(t, "第一题的解析", entries[0].Explanation)

	assert.Equal(t, 2, entries[1].Index)
	assert.Equal(t, []string{"B", "D"}, entries[1].Labels)

	assert.Equal(t, 3, entries[2].Index)
	assert.Equal(t, []string{"C"}, entries[2].Labels)
}

func TestExtractEntriesColonAndParenForms(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"1. 答案: AB",
		"2. (答案:C)",
		"3. 答案：D",
	))

	require.Len(t, entries, 3)
	assert.Equal(t, []string{"A", "B"}, entries[0].Labels)
	assert.Equal(t, []string{"C"}, entries[1].Labels)
	assert.Equal(t, []string{"D"}, entries[2].Labels)
	for _, e := range entries {
		assert.Equal(t, ConfidenceExplicit, e.Confidence)
	}
}

func TestExtractEntriesBareLetterRuns(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"参考答案",
		"1. A",
		"2. BC",
		"B",
	))

	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Index)
	assert.Equal(t, []string{"A"}, entries[0].Labels)
	assert.Equal(t, 2, entries[1].Index)
	assert.Equal(t, []string{"B", "C"}, entries[1].Labels)

	// Bare run with no index maps positionally.
	assert.Equal(t, 0, entries[2].Index)
	assert.Equal(t, ConfidencePositional, entries[2].Confidence)
}

func TestExtractEntriesIndexOnOwnLine(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"12.",
		"【正确答案】B",
		"【答案解析】解析内容",
	))

	require.Len(t, entries, 1)
	assert.Equal(t, 12, entries[0].Index)
	assert.Equal(t, []string{"B"}, entries[0].Labels)
	assert.Equal(t, ConfidenceExplicit, entries[0].Confidence)
	assert.Equal(t, "解析内容", entries[0].Explanation)
}

func TestExtractEntriesUnindexedNotationIsPositional(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"【正确答案】A",
		"【正确答案】BC",
	))

	require.Len(t, entries, 2)
	assert.Equal(t, 0, entries[0].Index)
	assert.Equal(t, ConfidencePositional, entries[0].Confidence)
	assert.Equal(t, []string{"B", "C"}, entries[1].Labels)
}

func TestExtractEntriesLettersNormalized(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"1.【答案】b、a、b",
		"2.【答案】①③",
	))

	require.Len(t, entries, 2)
	// Case-insensitive, deduplicated, first-seen order.
	assert.Equal(t, []string{"B", "A"}, entries[0].Labels)
	assert.Equal(t, []string{"A", "C"}, entries[1].Labels)
}

func TestExtractEntriesTrailingExplanationSameLine(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"1.【正确答案】B 本题考查基本概念",
	))

	require.Len(t, entries, 1)
	assert.Equal(t, []string{"B"}, entries[0].Labels)
	assert.Equal(t, "本题考查基本概念", entries[0].Explanation)
}

func TestExtractEntriesMultilineExplanation(t *testing.T) {
	entries := extractAnswerEntries(tagged(
		"1.【正确答案】A",
		"【解析】第一行",
		"第二行继续",
		"2.【正确答案】B",
	))

	require.Len(t, entries, 2)
	assert.Equal(t, "第一行\n第二行继续", entries[0].Explanation)
	assert.Empty(t, entries[1].Explanation)
}

func TestMatchAnswerLineCheckmarks(t *testing.T) {
	match, ok := matchAnswerLine("A√ C√")
	require.True(t, ok)
	assert.Equal(t, []string{"A", "C"}, match.Labels)
}

func TestMatchAnswerLinePickVerbs(t *testing.T) {
	for _, line := range []string{"故选B", "本题选B", "应选B", "正确答案是B"} {
		match, ok := matchAnswerLine(normalizeWidth(line))
		require.True(t, ok, "line %q", line)
		assert.Equal(t, []string{"B"}, match.Labels, "line %q", line)
	}
}
