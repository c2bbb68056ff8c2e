package quiz

import (
	"regexp"
	"strings"
)

// Answer notations are matched in a fixed priority order per line. Lower
// numbers win when one block carries several notations.
const (
	notationBracketTag = iota + 1
	notationParenTag
	notationColonTag
	notationBareTag
	notationPickVerb
	notationCheckmark
	notationStatedCorrect
	notationSquareTag
)

// answerMatch is the result of recognizing one answer notation
type answerMatch struct {
	Labels   []string
	Priority int
}

// Line-start forms used to classify whole lines as answer notations.
var (
	lineBracketRe = regexp.MustCompile(`^\s*【(?:正确答案|参考答案|本题答案|答案)】\s*:?\s*([A-Za-z①-⑩、,，\s]+)`)
	lineParenRe   = regexp.MustCompile(`^\s*\((?:正确答案|参考答案|答案)\s*:\s*([A-Za-z①-⑩、,，\s]+?)\)`)
	lineColonRe   = regexp.MustCompile(`^\s*(?:正确答案|参考答案|本题答案|答案)\s*:\s*([A-Za-z①-⑩、,，\s]+)`)
	lineBareTagRe = regexp.MustCompile(`^\s*(?:正确答案|参考答案|答\s*案)\s*([A-Za-z①-⑩、,，]+)\s*$`)
	linePickRe    = regexp.MustCompile(`^\s*(?:应选|故选择|故选|本题选|选)\s*([A-Za-z①-⑩]+)`)
	lineCheckRe   = regexp.MustCompile(`^\s*(?:[A-Za-z]\s*[√✓]\s*)+$`)
	lineStatedRe  = regexp.MustCompile(`^\s*正确(?:选项|答案)(?:为|是)\s*([A-Za-z①-⑩、,，]+)`)
	lineSquareRe  = regexp.MustCompile(`^\s*\[(?:正确答案|参考答案|答案)\]\s*:?\s*([A-Za-z①-⑩、,，\s]+)`)

	checkmarkPairRe = regexp.MustCompile(`([A-Za-z])\s*[√✓]`)
)

// Embedded forms stripped out of option or stem text.
var (
	embeddedBracketRe = regexp.MustCompile(`【(?:正确答案|参考答案|本题答案|答案)】\s*:?\s*([A-Za-z①-⑩、,，]+)`)
	embeddedParenRe   = regexp.MustCompile(`\((?:正确答案|参考答案|答案)\s*:\s*([A-Za-z①-⑩、,，\s]+?)\)`)
	embeddedSquareRe  = regexp.MustCompile(`\[(?:正确答案|参考答案|答案)\]\s*:?\s*([A-Za-z①-⑩、,，]+)`)
)

var (
	explanationTagRe  = regexp.MustCompile(`^\s*(?:【(?:答案解析|解析|解答|分析|详解)】|\[(?:答案解析|解析|解答|分析)\]|(?:答案解析|解析|解答|分析|详解)\s*:)\s*(.*)$`)
	inlineExplSplitRe = regexp.MustCompile(`【(?:答案解析|解析|解答|分析|详解)】\s*`)
)

// parseLetters extracts answer labels from a notation payload. Latin letters
// normalize to uppercase and circled digits map to A-J. Separators (、 , ，)
// and whitespace are ignored, duplicates collapse, first-seen order is kept.
func parseLetters(s string) []string {
	var labels []string
	seen := make(map[string]bool)

	for _, r := range s {
		var label string
		switch {
		case r >= 'A' && r <= 'Z':
			label = string(r)
		case r >= 'a' && r <= 'z':
			label = string(r - 'a' + 'A')
		default:
			label = circledToLetter(r)
		}
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		labels = append(labels, label)
	}
	return labels
}

// matchAnswerLine classifies a line that opens with an answer notation and
// returns the extracted labels with the notation's priority. Lines whose
// notation appears mid-text are not classified here; see scanEmbeddedAnswer.
func matchAnswerLine(line string) (answerMatch, bool) {
	match, _, ok := matchAnswerLineWithRest(line)
	return match, ok
}

// matchAnswerLineWithRest works like matchAnswerLine but also returns the
// text following the matched notation, which answer-key entries treat as
// explanation text.
func matchAnswerLineWithRest(line string) (answerMatch, string, bool) {
	type candidate struct {
		re       *regexp.Regexp
		priority int
	}
	candidates := []candidate{
		{lineBracketRe, notationBracketTag},
		{lineParenRe, notationParenTag},
		{lineColonRe, notationColonTag},
		{lineBareTagRe, notationBareTag},
		{linePickRe, notationPickVerb},
		{lineStatedRe, notationStatedCorrect},
		{lineSquareRe, notationSquareTag},
	}

	for _, c := range candidates {
		loc := c.re.FindStringSubmatchIndex(line)
		if loc == nil {
			continue
		}
		labels := parseLetters(line[loc[2]:loc[3]])
		if len(labels) == 0 {
			continue
		}
		rest := strings.TrimSpace(line[loc[1]:])
		return answerMatch{Labels: labels, Priority: c.priority}, rest, true
	}

	if lineCheckRe.MatchString(line) {
		var payload strings.Builder
		for _, m := range checkmarkPairRe.FindAllStringSubmatch(line, -1) {
			payload.WriteString(m[1])
		}
		labels := parseLetters(payload.String())
		if len(labels) > 0 {
			return answerMatch{Labels: labels, Priority: notationCheckmark}, "", true
		}
	}

	return answerMatch{}, "", false
}

// scanEmbeddedAnswer finds an answer notation inside option or stem text,
// strips it, and returns the cleaned text together with the labels.
func scanEmbeddedAnswer(text string) (match answerMatch, cleaned string, ok bool) {
	type candidate struct {
		re       *regexp.Regexp
		priority int
	}
	candidates := []candidate{
		{embeddedBracketRe, notationBracketTag},
		{embeddedParenRe, notationParenTag},
		{embeddedSquareRe, notationSquareTag},
	}

	for _, c := range candidates {
		loc := c.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		labels := parseLetters(text[loc[2]:loc[3]])
		if len(labels) == 0 {
			continue
		}
		cleaned = strings.TrimSpace(strings.TrimSpace(text[:loc[0]]) + " " + strings.TrimSpace(text[loc[1]:]))
		return answerMatch{Labels: labels, Priority: c.priority}, cleaned, true
	}

	return answerMatch{}, text, false
}

// matchExplanationTag checks whether a line opens an explanation section and
// returns any content following the tag on the same line.
func matchExplanationTag(line string) (string, bool) {
	m := explanationTagRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// splitInlineExplanation cuts a combined segment such as
// 【正确答案】A【答案解析】... into its answer part and explanation part.
func splitInlineExplanation(s string) (answerPart, explanation string) {
	loc := inlineExplSplitRe.FindStringIndex(s)
	if loc == nil {
		return s, ""
	}
	return s[:loc[0]], strings.TrimSpace(s[loc[1]:])
}
