package pdf

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Reader extracts page-ordered text from PDF files
type Reader struct {
	maxFileSize int64
	maxTextSize int
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64) *Reader {
	return &Reader{
		maxFileSize: maxFileSize,
		maxTextSize: 10 * 1024 * 1024, // 10MB text limit
	}
}

// ExtractPages extracts text page by page, preserving document reading
// order. A page that fails text extraction is skipped and recorded as a
// warning; a document yielding no text at all is an error. The context is
// checked between pages so a cancelled load aborts promptly.
func (r *Reader) ExtractPages(ctx context.Context, path string) (*ExtractResult, error) {
	if path == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot access file: %w", err)
	}

	if err := r.checkFileInfo(path, fileInfo); err != nil {
		return nil, err
	}

	f, pdfReader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer f.Close()

	result := &ExtractResult{
		Path:      path,
		PageCount: pdfReader.NumPage(),
		Size:      fileInfo.Size(),
	}

	totalLength := 0
	for pageNum := 1; pageNum <= pdfReader.NumPage(); pageNum++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := pdfReader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		content, err := extractPageText(page)
		if err != nil {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("page %d: %v", pageNum, err))
			continue
		}
		if strings.TrimSpace(content) == "" {
			continue
		}

		if totalLength+len(content) > r.maxTextSize {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("page %d: text limit reached, remaining pages skipped", pageNum))
			break
		}
		totalLength += len(content)

		result.Pages = append(result.Pages, PageText{
			Number: pageNum,
			Text:   content,
		})
	}

	if len(result.Pages) == 0 {
		return nil, fmt.Errorf("no text content could be extracted from PDF")
	}

	return result, nil
}

// extractPageText wraps the library call so a panic inside the PDF parser
// on a malformed page downgrades to a per-page error.
func extractPageText(page pdf.Page) (content string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("text extraction panicked: %v", r)
		}
	}()
	return page.GetPlainText(nil)
}

// checkFileInfo performs basic validation before opening the file
func (r *Reader) checkFileInfo(path string, fileInfo os.FileInfo) error {
	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", path)
	}

	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return fmt.Errorf("file is not a PDF: %s", path)
	}

	if fileInfo.Size() > r.maxFileSize {
		return fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), r.maxFileSize)
	}

	return nil
}
