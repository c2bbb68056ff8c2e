package pdf

// PageText is one page of extracted text, in document reading order
type PageText struct {
	Number int    `json:"number"`
	Text   string `json:"text"`
}

// ExtractResult is the outcome of text extraction over a whole document
type ExtractResult struct {
	Path      string     `json:"path"`
	Pages     []PageText `json:"pages"`
	PageCount int        `json:"page_count"`
	Size      int64      `json:"size"`
	Warnings  []string   `json:"warnings,omitempty"`
}

// ValidateResult reports whether a file is a readable PDF
type ValidateResult struct {
	Path    string `json:"path"`
	Valid   bool   `json:"valid"`
	Message string `json:"message,omitempty"`
}

// FileStats holds file-level and document-level metadata for one PDF
type FileStats struct {
	Path         string `json:"path"`
	Size         int64  `json:"size"`
	Pages        int    `json:"pages"`
	ModifiedDate string `json:"modified_date"`
	Title        string `json:"title,omitempty"`
	Author       string `json:"author,omitempty"`
	Subject      string `json:"subject,omitempty"`
	Producer     string `json:"producer,omitempty"`
	CreatedDate  string `json:"created_date,omitempty"`
}

// FileInfo describes one discovered PDF file
type FileInfo struct {
	Path         string `json:"path"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	ModifiedTime string `json:"modified_time"`
}

// SearchRequest asks for PDF files in a directory, optionally fuzzy-matched
type SearchRequest struct {
	Directory string `json:"directory"`
	Query     string `json:"query,omitempty"`
	Limit     int    `json:"limit,omitempty"`
}

// SearchResult lists the PDF files found by a directory search
type SearchResult struct {
	Files       []FileInfo `json:"files"`
	TotalCount  int        `json:"total_count"`
	Directory   string     `json:"directory"`
	SearchQuery string     `json:"search_query,omitempty"`
}
