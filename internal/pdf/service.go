package pdf

import (
	"context"
	"fmt"

	"github.com/cjh28/pdf-to-anki/internal/pdf/security"
)

// Service is the facade over the PDF components: text extraction,
// validation, metadata, and discovery. All file access is bounded to the
// configured directory.
type Service struct {
	maxFileSize   int64
	reader        *Reader
	validator     *Validator
	stats         *Stats
	search        *Search
	pathValidator *security.PathValidator
}

// NewService creates a new PDF service with all components
func NewService(maxFileSize int64, configuredDirectory string) (*Service, error) {
	pathValidator, err := security.NewPathValidator(configuredDirectory)
	if err != nil {
		return nil, fmt.Errorf("failed to create path validator: %w", err)
	}

	return &Service{
		maxFileSize:   maxFileSize,
		reader:        NewReader(maxFileSize),
		validator:     NewValidator(maxFileSize),
		stats:         NewStats(maxFileSize),
		search:        NewSearch(maxFileSize),
		pathValidator: pathValidator,
	}, nil
}

// ExtractPages extracts page-ordered text from a PDF file
func (s *Service) ExtractPages(ctx context.Context, path string) (*ExtractResult, error) {
	if err := s.pathValidator.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.reader.ExtractPages(ctx, path)
}

// ValidateFile performs validation on a PDF file
func (s *Service) ValidateFile(path string) (*ValidateResult, error) {
	if err := s.pathValidator.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.validator.ValidateFile(path)
}

// FileStats returns detailed statistics about a single PDF file
func (s *Service) FileStats(path string) (*FileStats, error) {
	if err := s.pathValidator.ValidatePath(path); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}
	return s.stats.GetFileStats(path)
}

// SearchDirectory searches for PDF files in a directory
func (s *Service) SearchDirectory(req SearchRequest) (*SearchResult, error) {
	if req.Directory == "" {
		req.Directory = s.pathValidator.GetConfiguredDirectory()
	}

	if err := s.pathValidator.ValidateDirectory(req.Directory); err != nil {
		return nil, fmt.Errorf("security validation failed: %w", err)
	}

	return s.search.SearchDirectory(req)
}

// FindPDFsInDirectory finds all PDF files in a directory without filtering
func (s *Service) FindPDFsInDirectory(directory string) ([]FileInfo, error) {
	return s.search.FindPDFsInDirectory(directory)
}

// CountPDFsInDirectory counts the number of valid PDF files in a directory
func (s *Service) CountPDFsInDirectory(directory string) (int, error) {
	return s.search.CountPDFsInDirectory(directory)
}

// IsValidPDF performs a quick validation check on a file
func (s *Service) IsValidPDF(path string) bool {
	return s.validator.IsValidPDF(path)
}

// MaxFileSize returns the maximum file size limit
func (s *Service) MaxFileSize() int64 {
	return s.maxFileSize
}

// ConfiguredDirectory returns the directory all file access is bounded to
func (s *Service) ConfiguredDirectory() string {
	return s.pathValidator.GetConfiguredDirectory()
}

// NormalizePath resolves a possibly-relative path against the configured
// directory and validates the result stays inside it.
func (s *Service) NormalizePath(path string) (string, error) {
	return s.pathValidator.NormalizePath(path)
}
