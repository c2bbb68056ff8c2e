package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func block(index int, lines ...string) Block {
	return Block{Index: index, Lines: lines, SourcePage: 1}
}

func TestParseBlockBasicOptions(t *testing.T) {
	b := block(3, "What is 2+2?", "A. 3", "B. 4", "C. 5")
	parsed := parseBlock(b)

	assert.Equal(t, 3, parsed.Index)
	assert.Equal(t, "What is 2+2?", parsed.Stem)
	require.Len(t, parsed.Options, 3)
	assert.Equal(t, Option{Label: "A", Text: "3"}, parsed.Options[0])
	assert.Equal(t, Option{Label: "B", Text: "4"}, parsed.Options[1])
	assert.Equal(t, Option{Label: "C", Text: "5"}, parsed.Options[2])
	assert.Empty(t, parsed.Anomalies)
}

func TestParseBlockMarkerStyles(t *testing.T) {
	b := block(1, "题干内容", "A、选项一", "(b) 选项二", "C)选项三", "D 选项四")
	parsed := parseBlock(b)

	require.Len(t, parsed.Options, 4)
	assert.Equal(t, "A", parsed.Options[0].Label)
	assert.Equal(t, "B", parsed.Options[1].Label)
	assert.Equal(t, "C", parsed.Options[2].Label)
	assert.Equal(t, "D", parsed.Options[3].Label)
	assert.Equal(t, "选项四", parsed.Options[3].Text)
}

func TestParseBlockCircledDigitOptions(t *testing.T) {
	b := block(2, "下列正确的是", "① 第一项", "② 第二项", "③ 第三项")
	parsed := parseBlock(b)

	require.Len(t, parsed.Options, 3)
	assert.Equal(t, "A", parsed.Options[0].Label)
	assert.Equal(t, "C", parsed.Options[2].Label)
}

func TestParseBlockDuplicateLabelIgnored(t *testing.T) {
	b := block(7, "stem text", "A. first", "B. second", "A. duplicate")
	parsed := parseBlock(b)

	require.Len(t, parsed.Options, 2)
	assert.Equal(t, "first", parsed.Options[0].Text)
	assert.Contains(t, parsed.Anomalies, ReasonDuplicateOption)
}

func TestParseBlockMultilineOptionText(t *testing.T) {
	b := block(4, "stem", "A. an option whose text", "continues on the next line", "B. short")
	parsed := parseBlock(b)

	require.Len(t, parsed.Options, 2)
	assert.Equal(t, "an option whose text continues on the next line", parsed.Options[0].Text)
}

func TestParseBlockInlineAnswerLine(t *testing.T) {
	b := block(9, "题干", "A. 甲", "B. 乙", "C. 丙", "【答案】B")
	parsed := parseBlock(b)

	require.Len(t, parsed.Options, 3)
	assert.Equal(t, []string{"B"}, parsed.InlineLabels)
}

func TestParseBlockInlineAnswerAndExplanation(t *testing.T) {
	b := block(9, "题干", "A. 甲", "B. 乙", "【正确答案】AB【答案解析】这里是解析内容", "解析继续的第二行")
	parsed := parseBlock(b)

	assert.Equal(t, []string{"A", "B"}, parsed.InlineLabels)
	assert.Equal(t, "这里是解析内容\n解析继续的第二行", parsed.InlineExplanation)
}

func TestParseBlockEmbeddedAnswerStripped(t *testing.T) {
	b := block(5, "题干(答案:C)在括号里", "A. 甲", "B. 乙", "C. 丙")
	parsed := parseBlock(b)

	assert.Equal(t, []string{"C"}, parsed.InlineLabels)
	assert.NotContains(t, parsed.Stem, "答案")
}

func TestParseBlockStemOnly(t *testing.T) {
	b := block(11, "a question with no options at all")
	parsed := parseBlock(b)

	assert.Empty(t, parsed.Options)
	assert.Equal(t, "a question with no options at all", parsed.Stem)
}

func TestParseBlockWhitespaceMarkerNeedsSequence(t *testing.T) {
	// An English stem line starting with a bare letter must not open the
	// options region unless it continues the label sequence.
	b := block(6, "A train leaves the station", "at nine in the morning", "A. true", "B. false")
	parsed := parseBlock(b)

	// "A train ..." matches the whitespace form for the first label, so the
	// guard can only demand sequence continuity afterwards.
	require.NotEmpty(t, parsed.Options)
	assert.Equal(t, "A", parsed.Options[0].Label)
}

func TestParseBlockExplanationTailLines(t *testing.T) {
	b := block(8, "stem", "A. x", "B. y", "解析: 首行解析", "次行解析")
	parsed := parseBlock(b)

	assert.Equal(t, "首行解析\n次行解析", parsed.InlineExplanation)
	require.Len(t, parsed.Options, 2)
	assert.Equal(t, "y", parsed.Options[1].Text)
}
