package quiz

import (
	"regexp"
	"strings"
)

// SegmenterConfig holds configuration for question segmentation
type SegmenterConfig struct {
	// MaxIndexJump limits how far the declared index may advance between
	// consecutive questions. Markers that jump further are treated as body
	// text. Zero disables the limit.
	MaxIndexJump int
}

// DefaultSegmenterConfig returns the default segmentation configuration
func DefaultSegmenterConfig() *SegmenterConfig {
	return &SegmenterConfig{
		MaxIndexJump: 50,
	}
}

// Segmenter splits extracted text into per-question blocks
type Segmenter struct {
	config *SegmenterConfig
}

// NewSegmenter creates a segmenter with default configuration
func NewSegmenter() *Segmenter {
	return NewSegmenterWithConfig(DefaultSegmenterConfig())
}

// NewSegmenterWithConfig creates a segmenter with the given configuration
func NewSegmenterWithConfig(config *SegmenterConfig) *Segmenter {
	if config == nil {
		config = DefaultSegmenterConfig()
	}
	return &Segmenter{config: config}
}

// Block is a contiguous run of lines claimed by one question marker.
// Lines[0] holds the first line with the marker stripped.
type Block struct {
	Index      int      `json:"index"`
	Lines      []string `json:"lines"`
	SourcePage int      `json:"source_page"`
}

// Body joins the block lines back into a single text
func (b *Block) Body() string {
	return strings.TrimSpace(strings.Join(b.Lines, "\n"))
}

// taggedLine is a normalized text line annotated with its source page number.
type taggedLine struct {
	page int
	text string
}

// flattenPages splits page texts into width-normalized, page-tagged lines.
// Empty lines are dropped.
func flattenPages(pages []Page) []taggedLine {
	var lines []taggedLine
	for _, page := range pages {
		for _, raw := range strings.Split(page.Text, "\n") {
			text := strings.TrimRight(normalizeWidth(raw), " \t\r")
			if strings.TrimSpace(text) == "" {
				continue
			}
			lines = append(lines, taggedLine{page: page.Number, text: text})
		}
	}
	return lines
}

var (
	arabicMarkerRe    = regexp.MustCompile(`^\s*(\d{1,3})\s*[.、):]\s*(.*)$`)
	parenMarkerRe     = regexp.MustCompile(`^\s*\(\s*(\d{1,3})\s*\)\s*(.*)$`)
	diMarkerRe        = regexp.MustCompile(`^\s*第\s*(\d{1,3})\s*题[.、):]?\s*(.*)$`)
	chineseMarkerRe   = regexp.MustCompile(`^\s*([一二三四五六七八九十百零]{1,5})\s*[.、):]\s*(.*)$`)
	chineseDiMarkerRe = regexp.MustCompile(`^\s*第\s*([一二三四五六七八九十百零]{1,5})\s*题[.、):]?\s*(.*)$`)
)

// matchQuestionMarker checks whether a normalized line opens with a question
// numbering marker. It returns the declared index and the remainder of the
// line after the marker.
func matchQuestionMarker(line string) (index int, rest string, ok bool) {
	if m := arabicMarkerRe.FindStringSubmatch(line); m != nil {
		return atoiSafe(m[1]), m[2], true
	}
	if m := parenMarkerRe.FindStringSubmatch(line); m != nil {
		return atoiSafe(m[1]), m[2], true
	}
	if m := diMarkerRe.FindStringSubmatch(line); m != nil {
		return atoiSafe(m[1]), m[2], true
	}
	if m := chineseDiMarkerRe.FindStringSubmatch(line); m != nil {
		if n := parseChineseNumeral(m[1]); n > 0 {
			return n, m[2], true
		}
	}
	if m := chineseMarkerRe.FindStringSubmatch(line); m != nil {
		if n := parseChineseNumeral(m[1]); n > 0 {
			return n, m[2], true
		}
	}
	return 0, "", false
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// Segment splits pages into question blocks
func (s *Segmenter) Segment(pages []Page) []Block {
	return s.segmentLines(flattenPages(pages))
}

// segmentLines walks tagged lines and opens a new block whenever a marker
// with an acceptable index appears. Text before the first marker is
// discarded, and marker-shaped lines whose index does not advance the
// sequence stay inside the current block.
func (s *Segmenter) segmentLines(lines []taggedLine) []Block {
	var blocks []Block
	var current *Block

	for _, ln := range lines {
		index, rest, matched := matchQuestionMarker(ln.text)
		if matched && s.acceptsIndex(current, index) {
			if current != nil {
				blocks = append(blocks, *current)
			}
			current = &Block{
				Index:      index,
				Lines:      []string{strings.TrimSpace(rest)},
				SourcePage: ln.page,
			}
			continue
		}

		if current == nil {
			continue
		}
		current.Lines = append(current.Lines, strings.TrimSpace(ln.text))
	}

	if current != nil {
		blocks = append(blocks, *current)
	}
	return blocks
}

// acceptsIndex decides whether a marker index may open a new block. The index
// must strictly exceed the current block's index, and once a block is open it
// may not jump further than MaxIndexJump ahead. The first marker of the
// document is accepted at any index so banks that start midway still parse.
func (s *Segmenter) acceptsIndex(current *Block, index int) bool {
	if index <= 0 {
		return false
	}
	if current == nil {
		return true
	}
	if index <= current.Index {
		return false
	}
	if s.config.MaxIndexJump > 0 && index-current.Index > s.config.MaxIndexJump {
		return false
	}
	return true
}
