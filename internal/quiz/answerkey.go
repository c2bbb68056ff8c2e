package quiz

import (
	"regexp"
	"strings"
)

// The answer key is the trailing region of the document where correct
// answers are listed separately from the question bodies, typically:
//
//	参考答案
//	1.【正确答案】A
//	【答案解析】...
//	2.【正确答案】BD
//
// findAnswerKeyStart locates where that region begins and extractAnswerEntries
// parses it into AnswerEntry records.

var (
	keyHeadingRe = regexp.MustCompile(
		`(?i)^\s*(?:参考答案(?:及解析|与解析|速查)?|答案(?:部分|汇总|速查|及解析|与解析)?|正确答案|answer\s*key|answers?)\s*:?\s*$`)
	indexTokenRe    = regexp.MustCompile(`^\s*(\d{1,3})\s*[.、):]?\s*(.*)$`)
	bareIndexRe     = regexp.MustCompile(`^\s*(\d{1,3})\s*[.、):]?\s*$`)
	bareLetterRunRe = regexp.MustCompile(`^\s*([A-Za-z](?:\s*[、,]?\s*[A-Za-z]){0,7})\s*$`)
)

// looksLikeKeyEntry reports whether a line is an indexed answer entry such as
// "12.【正确答案】B" or "12. AB". Unindexed notation lines do not count here:
// those also occur inline inside question blocks.
func looksLikeKeyEntry(line string) bool {
	m := indexTokenRe.FindStringSubmatch(line)
	if m == nil || atoiSafe(m[1]) == 0 {
		return false
	}
	rest := m[2]
	if _, ok := matchAnswerLine(rest); ok {
		return true
	}
	return false
}

// findAnswerKeyStart returns the offset of the first line belonging to the
// answer-key region, or len(lines) when the document has no separate key.
// The boundary is either a key heading or the first indexed answer entry.
func findAnswerKeyStart(lines []taggedLine) int {
	for i, ln := range lines {
		if keyHeadingRe.MatchString(ln.text) {
			return i
		}
		if looksLikeKeyEntry(ln.text) {
			return i
		}
	}
	return len(lines)
}

// extractAnswerEntries parses the answer-key region into ordered entries.
// Entries carrying an index token (on the same line, or on a bare number
// line immediately before) are explicit; notation lines with no index at
// all become positional entries resolved later by the matcher.
func extractAnswerEntries(lines []taggedLine) []AnswerEntry {
	var entries []AnswerEntry
	var current *AnswerEntry
	pendingIndex := 0
	inExplanation := false

	flush := func() {
		if current != nil {
			current.Explanation = strings.TrimSpace(current.Explanation)
			entries = append(entries, *current)
			current = nil
		}
		inExplanation = false
	}

	open := func(entry AnswerEntry) {
		flush()
		entry.Line = len(entries)
		current = &entry
	}

	appendExplanation := func(text string) {
		if current == nil {
			return
		}
		if current.Explanation != "" {
			text = current.Explanation + "\n" + text
		}
		current.Explanation = text
	}

	for _, ln := range lines {
		line := ln.text
		if keyHeadingRe.MatchString(line) {
			continue
		}

		ansPart, expl := splitInlineExplanation(line)

		// A line holding just a number token binds the next notation line.
		if m := bareIndexRe.FindStringSubmatch(ansPart); m != nil && expl == "" {
			pendingIndex = atoiSafe(m[1])
			continue
		}

		if m := indexTokenRe.FindStringSubmatch(ansPart); m != nil && atoiSafe(m[1]) > 0 {
			idx := atoiSafe(m[1])
			rest := m[2]
			if match, tail, ok := matchAnswerLineWithRest(rest); ok {
				open(AnswerEntry{
					Index:      idx,
					Labels:     match.Labels,
					Confidence: ConfidenceExplicit,
				})
				pendingIndex = 0
				if tail != "" {
					appendExplanation(tail)
				}
				if expl != "" {
					inExplanation = true
					appendExplanation(expl)
				}
				continue
			}
			// "12. AB" with no keyword at all
			if lm := bareLetterRunRe.FindStringSubmatch(rest); lm != nil {
				if labels := parseLetters(lm[1]); len(labels) > 0 {
					open(AnswerEntry{
						Index:      idx,
						Labels:     labels,
						Confidence: ConfidenceExplicit,
					})
					pendingIndex = 0
					if expl != "" {
						inExplanation = true
						appendExplanation(expl)
					}
					continue
				}
			}
		}

		if tail, ok := matchExplanationTag(ansPart); ok {
			inExplanation = true
			if tail != "" {
				appendExplanation(tail)
			}
			if expl != "" {
				appendExplanation(expl)
			}
			continue
		}

		if match, tail, ok := matchAnswerLineWithRest(ansPart); ok {
			entry := AnswerEntry{Labels: match.Labels, Confidence: ConfidencePositional}
			if pendingIndex > 0 {
				entry.Index = pendingIndex
				entry.Confidence = ConfidenceExplicit
				pendingIndex = 0
			}
			open(entry)
			if tail != "" {
				appendExplanation(tail)
			}
			if expl != "" {
				inExplanation = true
				appendExplanation(expl)
			}
			continue
		}

		if inExplanation {
			appendExplanation(strings.TrimSpace(line))
			continue
		}

		// Bare letter runs inside the key region map positionally.
		if m := bareLetterRunRe.FindStringSubmatch(ansPart); m != nil {
			if labels := parseLetters(m[1]); len(labels) > 0 {
				entry := AnswerEntry{Labels: labels, Confidence: ConfidencePositional}
				if pendingIndex > 0 {
					entry.Index = pendingIndex
					entry.Confidence = ConfidenceExplicit
					pendingIndex = 0
				}
				open(entry)
				continue
			}
		}
	}

	flush()
	return entries
}
