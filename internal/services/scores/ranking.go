package scores

import (
	"cmp"
	"errors"
	"math/big"
	"slices"
	"strconv"
	"strings"

	"github.com/mcoot/highscores-go/internal/model"
)

// PageSize is the number of records returned per page
const PageSize = 20

// FilterByLevel keeps records whose level exactly equals level, preserving order
func FilterByLevel(records []model.ScoreRecord, level string) []model.ScoreRecord {
	result := make([]model.ScoreRecord, 0, len(records))
	for _, r := range records {
		if r.Level == level {
			result = append(result, r)
		}
	}
	return result
}

// SortByScoreDesc sorts records by score, highest first, in place.
// Numeric scores compare as numbers and rank above non-numeric ones;
// non-numeric scores compare by their text. Equal scores keep their order.
func SortByScoreDesc(records []model.ScoreRecord) {
	slices.SortStableFunc(records, func(a, b model.ScoreRecord) int {
		return compareScores(b.Score, a.Score)
	})
}

// compareScores orders a before b when a ranks lower
func compareScores(a, b string) int {
	av, aNum := parseScore(a)
	bv, bNum := parseScore(b)

	switch {
	case aNum && bNum:
		return cmp.Compare(av, bv)
	case aNum:
		return 1
	case bNum:
		return -1
	default:
		return strings.Compare(a, b)
	}
}

// parseScore reads a score the way a JavaScript Number() conversion would:
// surrounding whitespace is ignored, blank is zero, overflow is ±Inf and
// 0x/0o/0b integer literals are accepted.
func parseScore(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, true
	}

	if len(s) > 2 && s[0] == '0' {
		if base := literalBase(s[1]); base != 0 {
			return parseIntLiteral(s[2:], base)
		}
	}

	unsigned := strings.TrimLeft(s, "+-")
	if strings.ContainsAny(unsigned, "xX") {
		return 0, false
	}
	switch strings.ToLower(unsigned) {
	case "inf", "infinity", "nan":
		if unsigned != "Infinity" || len(s)-len(unsigned) > 1 {
			return 0, false
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return v, true
}

func literalBase(c byte) int {
	switch c {
	case 'x', 'X':
		return 16
	case 'o', 'O':
		return 8
	case 'b', 'B':
		return 2
	}
	return 0
}

func parseIntLiteral(digits string, base int) (float64, bool) {
	if digits[0] == '+' || digits[0] == '-' {
		return 0, false
	}
	n, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return 0, false
	}
	v, _ := new(big.Float).SetInt(n).Float64()
	return v, true
}

// ParsePage reads a page number the lenient way: leading whitespace, an
// optional sign, then as many digits as are present. Anything without digits,
// or zero, is page 1. ok is false for negative pages and for numbers that do
// not fit in an int; callers treat both as outside the result.
func ParsePage(raw string) (page int, ok bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 || strings.Trim(s[:end], "0") == "" {
		return 1, true
	}
	if negative {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Paginate returns the page-th slice of PageSize records.
// Pages below 1 or past the end return an empty, non-nil slice.
func Paginate(records []model.ScoreRecord, page int) []model.ScoreRecord {
	if page < 1 || page-1 > len(records)/PageSize {
		return []model.ScoreRecord{}
	}

	start := (page - 1) * PageSize
	if start >= len(records) {
		return []model.ScoreRecord{}
	}
	end := min(start+PageSize, len(records))

	result := make([]model.ScoreRecord, end-start)
	copy(result, records[start:end])
	return result
}
