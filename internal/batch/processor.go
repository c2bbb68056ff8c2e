// Package batch converts many question-bank PDFs in one run. A failing
// file never aborts the run: its error is recorded per file and the rest
// of the batch continues.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/cjh28/pdf-to-anki/internal/export"
	"github.com/cjh28/pdf-to-anki/internal/pdf"
	"github.com/cjh28/pdf-to-anki/internal/quiz"
)

// Mode selects how batch output files are laid out
type Mode string

const (
	// ModeMerged writes all questions from all source files into one output file.
	ModeMerged Mode = "merged"
	// ModeSeparate writes one output file per source file.
	ModeSeparate Mode = "separate"
)

// Format selects the export artifact type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatAPKG Format = "apkg"
)

// FileResult records the outcome of one source file within a batch run
type FileResult struct {
	Path          string            `json:"path"`
	Set           *quiz.QuestionSet `json:"-"`
	QuestionCount int               `json:"question_count"`
	Error         string            `json:"error,omitempty"`
}

// OK reports whether the file was processed successfully
func (r *FileResult) OK() bool {
	return r.Error == ""
}

// Result aggregates a whole batch run
type Result struct {
	RunID          string       `json:"run_id"`
	TotalFiles     int          `json:"total_files"`
	Succeeded      int          `json:"succeeded"`
	Failed         int          `json:"failed"`
	TotalQuestions int          `json:"total_questions"`
	Files          []FileResult `json:"files"`
	Outputs        []string     `json:"outputs,omitempty"`
}

// Processor runs the recognition pipeline over multiple files
type Processor struct {
	service *pdf.Service
	parser  *quiz.Parser
}

// NewProcessor creates a batch processor on top of the PDF service
func NewProcessor(service *pdf.Service) *Processor {
	return &Processor{
		service: service,
		parser:  quiz.NewParser(),
	}
}

// ProcessFiles runs recognition over each path in order. Only context
// cancellation returns an error; per-file failures are recorded in the
// result and processing continues with the next file.
func (p *Processor) ProcessFiles(ctx context.Context, paths []string) (*Result, error) {
	result := &Result{
		RunID:      uuid.NewString(),
		TotalFiles: len(paths),
		Files:      make([]FileResult, 0, len(paths)),
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		fr := FileResult{Path: path}
		set, err := p.processFile(ctx, path)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			fr.Error = err.Error()
			result.Failed++
		} else {
			fr.Set = set
			fr.QuestionCount = len(set.Questions)
			result.Succeeded++
			result.TotalQuestions += fr.QuestionCount
		}
		result.Files = append(result.Files, fr)
	}

	return result, nil
}

// ProcessDirectory discovers all PDFs under dir and processes them
func (p *Processor) ProcessDirectory(ctx context.Context, dir string) (*Result, error) {
	files, err := p.service.FindPDFsInDirectory(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to discover PDF files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s", dir)
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		paths = append(paths, f.Path)
	}
	return p.ProcessFiles(ctx, paths)
}

func (p *Processor) processFile(ctx context.Context, path string) (*quiz.QuestionSet, error) {
	validation, err := p.service.ValidateFile(path)
	if err != nil {
		return nil, err
	}
	if !validation.Valid {
		return nil, fmt.Errorf("%s", validation.Message)
	}

	extracted, err := p.service.ExtractPages(ctx, path)
	if err != nil {
		return nil, err
	}

	pages := make([]quiz.Page, 0, len(extracted.Pages))
	for _, pg := range extracted.Pages {
		pages = append(pages, quiz.Page{Number: pg.Number, Text: pg.Text})
	}

	set, err := p.parser.Parse(ctx, pages)
	if err != nil {
		return nil, err
	}
	set.SourcePath = path
	set.Warnings = extracted.Warnings
	return set, nil
}

// Export writes the batch result in the requested format and layout. In
// merged mode outputPath names the single output file; in separate mode it
// names a directory receiving one file per source. The paths written are
// recorded on the result and returned.
func (p *Processor) Export(result *Result, format Format, mode Mode, outputPath, deckName string) ([]string, error) {
	if result.Succeeded == 0 {
		return nil, fmt.Errorf("no files were processed successfully, nothing to export")
	}

	var outputs []string
	var err error
	switch mode {
	case ModeMerged, "":
		outputs, err = p.exportMerged(result, format, outputPath, deckName)
	case ModeSeparate:
		outputs, err = p.exportSeparate(result, format, outputPath)
	default:
		return nil, fmt.Errorf("unknown batch mode: %s", mode)
	}
	if err != nil {
		return nil, err
	}

	result.Outputs = outputs
	return outputs, nil
}

func (p *Processor) exportMerged(result *Result, format Format, outputPath, deckName string) ([]string, error) {
	var questions []quiz.Question
	for i := range result.Files {
		fr := &result.Files[i]
		if fr.OK() {
			questions = append(questions, fr.Set.Questions...)
		}
	}

	var err error
	switch format {
	case FormatAPKG:
		err = export.NewAPKGExporter(deckName).Export(questions, outputPath)
	case FormatCSV, "":
		err = export.NewCSVExporter().Export(questions, outputPath)
	default:
		return nil, fmt.Errorf("unknown export format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("merged export failed: %w", err)
	}
	return []string{outputPath}, nil
}

func (p *Processor) exportSeparate(result *Result, format Format, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var outputs []string
	for i := range result.Files {
		fr := &result.Files[i]
		if !fr.OK() || len(fr.Set.Questions) == 0 {
			continue
		}

		base := strings.TrimSuffix(filepath.Base(fr.Path), filepath.Ext(fr.Path))
		var out string
		var err error
		switch format {
		case FormatAPKG:
			out = filepath.Join(outputDir, base+".apkg")
			err = export.NewAPKGExporter(base).Export(fr.Set.Questions, out)
		case FormatCSV, "":
			out = filepath.Join(outputDir, base+".csv")
			err = export.NewCSVExporter().Export(fr.Set.Questions, out)
		default:
			return nil, fmt.Errorf("unknown export format: %s", format)
		}
		if err != nil {
			return nil, fmt.Errorf("export failed for %s: %w", fr.Path, err)
		}
		outputs = append(outputs, out)
	}

	return outputs, nil
}
