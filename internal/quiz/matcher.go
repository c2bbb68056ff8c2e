package quiz

// matchQuestions joins parsed blocks with answer-key entries and produces
// the final Question records. It is a pure function of its inputs: no I/O,
// identical output on every invocation.
//
// Answer sources in order of preference: an answer-key entry explicitly
// bound to the question's index, then an answer found inline in the block,
// then the next unclaimed positional key entry. The source is recorded on
// the question as its answer confidence.
func matchQuestions(blocks []parsedBlock, entries []AnswerEntry) []Question {
	explicit := make(map[int]AnswerEntry)
	var positional []AnswerEntry
	for _, e := range entries {
		if e.Index > 0 {
			if _, dup := explicit[e.Index]; !dup {
				explicit[e.Index] = e
			}
			continue
		}
		positional = append(positional, e)
	}

	nextPositional := 0
	questions := make([]Question, 0, len(blocks))
	for _, b := range blocks {
		q := Question{
			Index:       b.Index,
			Text:        b.Stem,
			Options:     b.Options,
			Explanation: b.InlineExplanation,
			SourcePage:  b.SourcePage,
		}

		switch {
		case hasEntry(explicit, b.Index):
			e := explicit[b.Index]
			q.AnswerLabels = e.Labels
			q.AnswerConfidence = ConfidenceExplicit
			if e.Explanation != "" {
				q.Explanation = e.Explanation
			}
		case len(b.InlineLabels) > 0:
			q.AnswerLabels = b.InlineLabels
			q.AnswerConfidence = ConfidenceInline
		case nextPositional < len(positional):
			e := positional[nextPositional]
			nextPositional++
			q.AnswerLabels = e.Labels
			q.AnswerConfidence = ConfidencePositional
			if e.Explanation != "" {
				q.Explanation = e.Explanation
			}
		}

		if len(q.AnswerLabels) > 1 {
			q.Type = QuestionTypeMultiple
		} else {
			q.Type = QuestionTypeSingle
		}

		q.ReviewReasons = reviewReasons(&q, b.Anomalies)
		if len(q.ReviewReasons) > 0 {
			q.Status = StatusNeedsReview
		} else {
			q.Status = StatusOK
		}

		questions = append(questions, q)
	}

	return questions
}

func hasEntry(m map[int]AnswerEntry, index int) bool {
	_, ok := m[index]
	return ok
}

// reviewReasons collects every recognition anomaly on one question. Anomalies
// never abort the batch; they demote the question to needsReview so a human
// can confirm it before export.
func reviewReasons(q *Question, anomalies []string) []string {
	var reasons []string
	reasons = append(reasons, anomalies...)

	if q.Text == "" {
		reasons = append(reasons, ReasonEmptyBody)
	}
	if len(q.Options) < 2 {
		reasons = append(reasons, ReasonTooFewOptions)
	}
	if len(q.AnswerLabels) == 0 {
		reasons = append(reasons, ReasonMissingAnswer)
	}
	for _, label := range q.AnswerLabels {
		if !q.HasOption(label) {
			reasons = append(reasons, ReasonUnknownLabel)
			break
		}
	}

	return reasons
}
