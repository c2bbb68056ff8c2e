package quiz

import (
	"strings"

	"golang.org/x/text/width"
)

// normalizeWidth maps full-width ASCII variants (Ａ, １, ．, （) to their
// canonical narrow forms so that one set of patterns matches both encodings.
// CJK ideographs and canonical punctuation such as 、 pass through unchanged.
func normalizeWidth(s string) string {
	return width.Fold.String(s)
}

// circledLetters maps enumeration marks U+2460..U+2469 to option labels A-J.
var circledLetters = map[rune]string{
	'①': "A", '②': "B", '③': "C", '④': "D", '⑤': "E",
	'⑥': "F", '⑦': "G", '⑧': "H", '⑨': "I", '⑩': "J",
}

// circledToLetter converts a circled digit to its letter label.
// Returns "" for runes outside the supported range.
func circledToLetter(r rune) string {
	return circledLetters[r]
}

var chineseDigits = map[rune]int{
	'零': 0, '一': 1, '二': 2, '三': 3, '四': 4,
	'五': 5, '六': 6, '七': 7, '八': 8, '九': 9,
}

var chineseUnits = map[rune]int{
	'十': 10,
	'百': 100,
}

// parseChineseNumeral converts a numeral written with 一二三...十百 into its
// integer value: 一 through 九, 十, 十一, 二十一, 一百, 一百零五 and so on.
// Returns 0 when the string is not a recognized numeral or falls outside
// 1..999.
func parseChineseNumeral(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}

	result := 0
	pending := 0
	for _, r := range s {
		if d, ok := chineseDigits[r]; ok {
			pending = d
			continue
		}
		if unit, ok := chineseUnits[r]; ok {
			if pending == 0 {
				pending = 1
			}
			result += pending * unit
			pending = 0
			continue
		}
		return 0
	}
	result += pending

	if result < 1 || result > 999 {
		return 0
	}
	return result
}
