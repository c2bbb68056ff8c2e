// Package export renders recognized question sets into Anki-importable
// artifacts: a two-column CSV and a full APKG package.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cjh28/pdf-to-anki/internal/quiz"
)

// ErrNoQuestions is returned when an export is requested for an empty set
var ErrNoQuestions = errors.New("no questions to export")

// utf8BOM makes Excel detect the encoding of exported CSV files correctly
const utf8BOM = "\xEF\xBB\xBF"

// CSVExporter writes questions as front/back card rows
type CSVExporter struct{}

// NewCSVExporter creates a CSV exporter
func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

// FormatCard renders one question as card front and back text. The front
// carries the numbered stem and all options; the back carries the answer,
// with multiple-choice answers labeled and sorted.
func (e *CSVExporter) FormatCard(q *quiz.Question) (front, back string) {
	parts := make([]string, 0, len(q.Options)+1)
	parts = append(parts, fmt.Sprintf("%d. %s", q.Index, q.Text))
	for _, opt := range q.Options {
		parts = append(parts, fmt.Sprintf("%s. %s", opt.Label, opt.Text))
	}
	front = strings.Join(parts, "\n")

	switch {
	case q.Type == quiz.QuestionTypeMultiple:
		labels := make([]string, len(q.AnswerLabels))
		copy(labels, q.AnswerLabels)
		sort.Strings(labels)
		back = "【多选题答案】" + strings.Join(labels, "、")
	case len(q.AnswerLabels) > 0:
		back = "答案：" + q.AnswerLabels[0]
	default:
		back = "答案：未知"
	}

	return front, back
}

// Export writes the questions to a CSV file with a UTF-8 BOM and a
// front,back header row.
func (e *CSVExporter) Export(questions []quiz.Question, outputPath string) error {
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	if dir := filepath.Dir(outputPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(utf8BOM); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}

	if err := e.write(f, questions); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// Render returns the CSV content as a string, without the BOM
func (e *CSVExporter) Render(questions []quiz.Question) (string, error) {
	if len(questions) == 0 {
		return "", ErrNoQuestions
	}

	var sb strings.Builder
	if err := e.write(&sb, questions); err != nil {
		return "", err
	}
	return sb.String(), nil
}

func (e *CSVExporter) write(w io.Writer, questions []quiz.Question) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"front", "back"}); err != nil {
		return err
	}

	for i := range questions {
		front, back := e.FormatCard(&questions[i])
		if err := cw.Write([]string{front, back}); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
