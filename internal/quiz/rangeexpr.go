package quiz

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Range-selection expressions choose a subset of questions by declared
// index: a comma-separated list of tokens, each a single positive integer
// "15" or an inclusive range "1-10". Full-width commas, digits, and dashes
// are accepted; surrounding whitespace is ignored.

var (
	singleTokenRe = regexp.MustCompile(`^(\d+)$`)
	rangeTokenRe  = regexp.MustCompile(`^(\d+)\s*-\s*(\d+)$`)
)

// ParseRangeExpr parses a selection expression into an ascending list of
// unique indices. Any malformed token (non-numeric, reversed range, zero
// index, empty token) fails the whole call with a SyntaxError naming every
// offending token; no partial selection is returned.
func ParseRangeExpr(expr string) ([]int, error) {
	normalized := strings.ReplaceAll(normalizeWidth(expr), "－", "-")
	if strings.TrimSpace(normalized) == "" {
		return nil, &SyntaxError{Expr: expr, Tokens: []string{""}}
	}

	indices := make(map[int]bool)
	var bad []string

	for _, token := range strings.Split(normalized, ",") {
		token = strings.TrimSpace(token)

		if m := singleTokenRe.FindStringSubmatch(token); m != nil {
			n, err := strconv.Atoi(m[1])
			if err != nil || n < 1 {
				bad = append(bad, token)
				continue
			}
			indices[n] = true
			continue
		}

		if m := rangeTokenRe.FindStringSubmatch(token); m != nil {
			low, errLow := strconv.Atoi(m[1])
			high, errHigh := strconv.Atoi(m[2])
			if errLow != nil || errHigh != nil || low < 1 || high < low {
				bad = append(bad, token)
				continue
			}
			for n := low; n <= high; n++ {
				indices[n] = true
			}
			continue
		}

		bad = append(bad, token)
	}

	if len(bad) > 0 {
		return nil, &SyntaxError{Expr: expr, Tokens: bad}
	}

	result := make([]int, 0, len(indices))
	for n := range indices {
		result = append(result, n)
	}
	sort.Ints(result)
	return result, nil
}
