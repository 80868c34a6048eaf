// Package parser turns raw credit report text into typed tradeline records.
//
// The layout it understands is label-before-value: "Account Type:" style
// labels followed by the value on the same or a following line, with
// two-word labels ("Credit Limit", "Status Date") frequently split across
// adjacent lines by the PDF text extraction.
package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Clean replaces non-breaking spaces with ordinary spaces and trims
// surrounding whitespace. PDF extraction litters report text with U+00A0.
func Clean(s string) string {
	return strings.TrimSpace(strings.ReplaceAll(s, "\u00a0", " "))
}

// ParseDate parses a MM/DD/YYYY date. The second return is false on any
// parse failure, including invalid calendar values.
func ParseDate(s string) (time.Time, bool) {
	t, err := time.Parse("1/2/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// ParseMonthYear parses a MM/YYYY date, the granularity status dates are
// reported in. The day is pinned to the first of the month.
func ParseMonthYear(s string) (time.Time, bool) {
	t, err := time.Parse("1/2006", strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthsBetween returns the whole-month difference between d1 and d2,
// ignoring day-of-month. Negative when d2 precedes d1.
func MonthsBetween(d1, d2 time.Time) int {
	return (d2.Year()-d1.Year())*12 + int(d2.Month()) - int(d1.Month())
}

// amountPattern matches a dollar amount with optional thousands separators
// and optional cents. The currency symbol anchors the match so that dates
// and account numbers in nearby lines are never read as amounts.
var amountPattern = regexp.MustCompile(`\$\s*([\d,]+(?:\.\d{2})?)`)

// ExtractLabeledAmount finds a two-word label split across adjacent lines
// (first word on line i, second on line i+1) and returns the first dollar
// amount on any later line, in whole dollars with cents truncated.
// Matching is case-sensitive substring containment, the way the label
// fragments actually appear in extracted report text.
func ExtractLabeledAmount(lines []string, labelFirst, labelSecond string) (int64, bool) {
	idx := -1
	for i := 0; i < len(lines)-1; i++ {
		if strings.Contains(lines[i], labelFirst) && strings.Contains(lines[i+1], labelSecond) {
			idx = i + 1
			break
		}
	}
	if idx == -1 {
		return 0, false
	}

	for i := idx + 1; i < len(lines); i++ {
		m := amountPattern.FindStringSubmatch(Clean(lines[i]))
		if m == nil {
			continue
		}
		if amount, ok := parseAmount(m[1]); ok {
			return amount, true
		}
	}
	return 0, false
}

var (
	fullDatePattern  = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
	monthYearPattern = regexp.MustCompile(`\d{2}/\d{4}`)
)

// ExtractStatusDate finds the "Status"/"Date" label pair split across
// adjacent lines and returns the first MM/YYYY value after it. Lines
// holding a full MM/DD/YYYY date are skipped: the status date field is
// reported in month/year granularity, so full dates near the label are
// other fields' values, not the answer.
func ExtractStatusDate(lines []string) (string, bool) {
	idx := -1
	for i := 0; i < len(lines)-1; i++ {
		if strings.Contains(lines[i], "Status") && strings.Contains(lines[i+1], "Date") {
			idx = i + 1
			break
		}
	}
	if idx == -1 {
		return "", false
	}

	for i := idx + 1; i < len(lines); i++ {
		line := Clean(lines[i])
		if fullDatePattern.MatchString(line) {
			continue
		}
		if m := monthYearPattern.FindString(line); m != "" {
			return m, true
		}
	}
	return "", false
}

// parseAmount strips thousands separators and truncates cents.
func parseAmount(s string) (int64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
