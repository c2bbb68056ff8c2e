package quiz

import (
	"regexp"
	"strings"
)

// parsedBlock is one question block after option parsing: the stem, the
// ordered options, and any answer or explanation text the block itself
// carried inline.
type parsedBlock struct {
	Index             int
	Stem              string
	Options           []Option
	InlineLabels      []string
	InlinePriority    int
	InlineExplanation string
	Anomalies         []string
	SourcePage        int
}

// Option markers accepted at the start of a line. The whitespace-separated
// form has no punctuation to anchor on, so it is only accepted when the
// letter continues the label sequence (A for the first option, then B, C...).
var (
	optionSepRe    = regexp.MustCompile(`^\s*([A-Za-z])\s*[.、):]\s*(.*)$`)
	optionParenRe  = regexp.MustCompile(`^\s*\(([A-Za-z])\)\s*[.、):]?\s*(.*)$`)
	optionCircleRe = regexp.MustCompile(`^\s*([①-⑩])\s*[.、):]?\s*(.*)$`)
	optionSpaceRe  = regexp.MustCompile(`^\s*([A-Z])\s+(\S.*)$`)
)

// matchOptionMarker checks whether a line opens a new option. nextLabel is
// the label that would continue the current sequence; it gates only the
// whitespace-separated form.
func matchOptionMarker(line, nextLabel string) (label, rest string, ok bool) {
	if m := optionSepRe.FindStringSubmatch(line); m != nil {
		return strings.ToUpper(m[1]), m[2], true
	}
	if m := optionParenRe.FindStringSubmatch(line); m != nil {
		return strings.ToUpper(m[1]), m[2], true
	}
	if m := optionCircleRe.FindStringSubmatch(line); m != nil {
		r := []rune(m[1])[0]
		if letter := circledToLetter(r); letter != "" {
			return letter, m[2], true
		}
	}
	if m := optionSpaceRe.FindStringSubmatch(line); m != nil && m[1] == nextLabel {
		return m[1], m[2], true
	}
	return "", "", false
}

// parseBlock splits one raw block into stem, options, and inline
// answer/explanation parts. Lines before the first option marker form the
// stem; a repeated option label is dropped and recorded as an anomaly.
func parseBlock(b Block) parsedBlock {
	result := parsedBlock{
		Index:      b.Index,
		SourcePage: b.SourcePage,
	}

	var stemLines []string
	var explLines []string
	seen := make(map[string]bool)
	current := -1 // index into result.Options receiving continuation lines
	inExplanation := false

	appendText := func(text string) {
		switch {
		case inExplanation:
			explLines = append(explLines, text)
		case current >= 0:
			opt := &result.Options[current]
			opt.Text = strings.TrimSpace(opt.Text + " " + text)
		default:
			stemLines = append(stemLines, text)
		}
	}

	for _, line := range b.Lines {
		// Combined answer+explanation segments split first so that the
		// answer part still classifies as a notation line.
		ansPart, expl := splitInlineExplanation(line)
		if expl != "" {
			inExplanation = true
			explLines = append(explLines, expl)
			line = ansPart
			if strings.TrimSpace(line) == "" {
				continue
			}
		}

		if tail, ok := matchExplanationTag(line); ok {
			inExplanation = true
			if tail != "" {
				explLines = append(explLines, tail)
			}
			continue
		}

		if match, ok := matchAnswerLine(line); ok {
			result.recordInline(match)
			continue
		}

		label, rest, ok := matchOptionMarker(line, nextOptionLabel(result.Options))
		if !ok || inExplanation {
			appendText(strings.TrimSpace(line))
			continue
		}

		if seen[label] {
			result.Anomalies = append(result.Anomalies, ReasonDuplicateOption)
			continue
		}
		seen[label] = true
		result.Options = append(result.Options, Option{
			Label: label,
			Text:  strings.TrimSpace(rest),
		})
		current = len(result.Options) - 1
	}

	result.Stem = strings.TrimSpace(strings.Join(stemLines, "\n"))
	result.InlineExplanation = strings.TrimSpace(strings.Join(explLines, "\n"))
	result.stripEmbeddedAnswers()

	return result
}

// nextOptionLabel returns the label that would continue the option sequence
func nextOptionLabel(options []Option) string {
	if len(options) == 0 {
		return "A"
	}
	last := options[len(options)-1].Label
	if len(last) != 1 || last[0] >= 'Z' {
		return ""
	}
	return string(last[0] + 1)
}

// recordInline keeps the highest-priority inline answer found in the block
func (p *parsedBlock) recordInline(match answerMatch) {
	if p.InlinePriority != 0 && p.InlinePriority <= match.Priority {
		return
	}
	p.InlineLabels = match.Labels
	p.InlinePriority = match.Priority
}

// stripEmbeddedAnswers removes answer notations embedded mid-text in the stem
// or in option texts, recording the extracted labels as inline answers.
func (p *parsedBlock) stripEmbeddedAnswers() {
	if match, cleaned, ok := scanEmbeddedAnswer(p.Stem); ok {
		p.recordInline(match)
		p.Stem = cleaned
	}
	for i := range p.Options {
		if match, cleaned, ok := scanEmbeddedAnswer(p.Options[i].Text); ok {
			p.recordInline(match)
			p.Options[i].Text = cleaned
		}
	}
}
