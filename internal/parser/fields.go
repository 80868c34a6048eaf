package parser

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/creditscore-cli/internal/model"
)

// Label patterns. \s* lets the value sit on the line after the label;
// (.*) stops at the line break, so the value is the remainder of the
// first non-empty line.
var (
	accountTypePattern    = regexp.MustCompile(`Account\s*Type:\s*(.*)`)
	accountNumberPattern  = regexp.MustCompile(`Account #:\s*(\d+)`)
	conditionPattern      = regexp.MustCompile(`Account\s*Condition:\s*(.*)`)
	paymentStatusPattern  = regexp.MustCompile(`Payment\s*Status:\s*(.*)`)
	monthsReviewedPattern = regexp.MustCompile(`Months\s*(?:Reviewed|Review\s*ed)\s*:\s*(\d+)`)
	highBalancePattern    = regexp.MustCompile(`High\s*Balance\s*\$([\d,]+)`)
	responsibilityPattern = regexp.MustCompile(`Responsibility:\s*(.*)`)
	openDatePattern       = regexp.MustCompile(`Open\s*Date\s*([\d/]+)`)
)

// ExtractTradelines segments the full report text and extracts one record
// per block. Blocks that do not look like a tradeline are dropped.
func ExtractTradelines(text string) []*model.Tradeline {
	blocks := Segment(text)
	records := make([]*model.Tradeline, 0, len(blocks))
	for _, block := range blocks {
		if t, ok := ExtractTradeline(block); ok {
			records = append(records, t)
		}
	}
	zap.L().Debug("parser: tradelines extracted",
		zap.Int("blocks", len(blocks)),
		zap.Int("records", len(records)),
	)
	return records
}

// ExtractTradeline parses one segmented block into a tradeline record.
// The first line is the account name and gatekeeps the block: without
// both a slash and a dash the block is treated as noise and dropped.
// Every field extraction is independent; a label that is missing or
// unparsable leaves its field at the zero value.
func ExtractTradeline(block string) (*model.Tradeline, bool) {
	lines := strings.Split(strings.TrimSpace(block), "\n")
	if len(lines) == 0 || lines[0] == "" {
		return nil, false
	}
	first := lines[0]
	if !strings.Contains(first, "/") || !strings.Contains(first, "-") {
		return nil, false
	}

	t := &model.Tradeline{
		AccountName: first,
		RawText:     block,
	}

	if m := accountTypePattern.FindStringSubmatch(block); m != nil {
		t.AccountType = strings.TrimSpace(m[1])
	}
	if m := accountNumberPattern.FindStringSubmatch(block); m != nil {
		t.AccountNumber = m[1]
	}
	if m := conditionPattern.FindStringSubmatch(block); m != nil {
		t.AccountCondition = strings.TrimSpace(m[1])
	}
	if m := paymentStatusPattern.FindStringSubmatch(block); m != nil {
		t.PaymentStatus = strings.TrimSpace(m[1])
	}
	if m := monthsReviewedPattern.FindStringSubmatch(block); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 {
			t.MonthsReviewed = &n
		}
	}
	if m := responsibilityPattern.FindStringSubmatch(block); m != nil {
		t.Responsibility = strings.TrimSpace(m[1])
	}
	if m := openDatePattern.FindStringSubmatch(block); m != nil {
		if d, ok := ParseDate(m[1]); ok {
			t.OpenDate = &d
		}
	}

	if amount, ok := ExtractLabeledAmount(lines, "Credit", "Limit"); ok {
		t.CreditLimit = amount
	}
	if amount, ok := ExtractLabeledAmount(lines, "Original", "Amount"); ok {
		t.OriginalAmount = amount
	}
	if m := highBalancePattern.FindStringSubmatch(Clean(block)); m != nil {
		if n, ok := parseAmount(m[1]); ok {
			t.HighBalance = n
		}
	}
	if sd, ok := ExtractStatusDate(lines); ok {
		t.StatusDate = sd
	}

	lower := strings.ToLower(block)
	t.MedicalOrEdu = strings.Contains(lower, "student loan") ||
		strings.Contains(lower, "education loan") ||
		strings.Contains(lower, "medical")

	return t, true
}
