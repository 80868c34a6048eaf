package scorer

import (
	"fmt"
	"strings"

	"github.com/sells-group/creditscore-cli/internal/model"
)

// RenderDetailed formats a ScoreResult as the human-readable analysis
// report: summary, redemption detail, and one section per partition with
// the per-tradeline fields and reason trail.
func RenderDetailed(r *model.ScoreResult) string {
	var b strings.Builder

	b.WriteString("=== CREDIT REPORT ANALYSIS ===\n")
	fmt.Fprintf(&b, "Final Score: %d\n", r.RawScore)
	fmt.Fprintf(&b, "Final Grade: %d\n", r.Grade)
	fmt.Fprintf(&b, "Base Score: %d (Bankruptcy: %v)\n", r.BaseScore, r.HasBankruptcy)
	fmt.Fprintf(&b, "Positive Tradelines: %d\n", r.PositiveCount)
	fmt.Fprintf(&b, "Negative Tradelines: %d\n", r.NegativeCount)

	if r.Redemption.Applied {
		b.WriteString("\n=== REDEMPTION SCENARIO ===\n")
		fmt.Fprintf(&b, "Percentage of negative tradelines older than 2 years: %.2f%%\n",
			r.Redemption.PctOldNegative*100)
		fmt.Fprintf(&b, "Positive tradelines after redemption: %d\n", r.Redemption.PositiveCount)
		fmt.Fprintf(&b, "Negative tradelines after redemption: %d\n", r.Redemption.NegativeCount)
		fmt.Fprintf(&b, "Score after redemption: %d\n", r.Redemption.Score)
	}

	writeSection(&b, "ACCEPTED TRADELINES", r.Accepted, nil)
	writeSection(&b, "REJECTED TRADELINES", r.Rejected, func(t *model.Tradeline) string {
		return "Reason for rejection: " + joinReasons(t, isNegativeReason)
	})
	writeSection(&b, "SKIPPED TRADELINES", r.Skipped, func(t *model.Tradeline) string {
		return "Reason for skipping: " + joinReasons(t, isSkipReason)
	})

	b.WriteString("\n=== DETAILED EVALUATION ===\n")
	fmt.Fprintf(&b, "Total tradelines analyzed: %d\n", len(r.All))
	fmt.Fprintf(&b, "Tradelines accepted: %d\n", len(r.Accepted))
	fmt.Fprintf(&b, "Tradelines rejected: %d\n", len(r.Rejected))
	fmt.Fprintf(&b, "Tradelines skipped: %d\n", len(r.Skipped))

	return b.String()
}

func writeSection(b *strings.Builder, title string, tradelines []*model.Tradeline, footer func(*model.Tradeline) string) {
	fmt.Fprintf(b, "\n=== %s ===\n", title)
	for i, t := range tradelines {
		fmt.Fprintf(b, "%d. %s (Account #: %s)\n", i+1, t.AccountName, orNA(t.AccountNumber))
		fmt.Fprintf(b, "   Type: %s\n", orNA(t.AccountType))
		fmt.Fprintf(b, "   Status: %s / %s\n", orNA(t.AccountCondition), orNA(t.PaymentStatus))
		fmt.Fprintf(b, "   Credit Limit: $%d\n", t.CreditLimit)
		fmt.Fprintf(b, "   Original Amount: $%d\n", t.OriginalAmount)
		fmt.Fprintf(b, "   Status Date: %s\n", orNA(t.StatusDate))
		fmt.Fprintf(b, "   Responsibility: %s\n", orNA(t.Responsibility))
		if t.MonthsReviewed != nil {
			fmt.Fprintf(b, "   Months Reviewed: %d\n", *t.MonthsReviewed)
		} else {
			fmt.Fprintf(b, "   Months Reviewed: N/A\n")
		}
		fmt.Fprintf(b, "   Is Mortgage: %v\n", t.Mortgage)
		if footer != nil {
			fmt.Fprintf(b, "   %s\n", footer(t))
		}
	}
}

func joinReasons(t *model.Tradeline, keep func(model.Reason) bool) string {
	if t.Evaluation == nil {
		return ""
	}
	var parts []string
	for _, r := range t.Evaluation.Reasons {
		if keep(r) {
			parts = append(parts, r.Text)
		}
	}
	return strings.Join(parts, " / ")
}

func isNegativeReason(r model.Reason) bool {
	return strings.HasPrefix(r.Rule, "negative_")
}

func isSkipReason(r model.Reason) bool {
	return strings.HasPrefix(r.Rule, "skip_") || r.Rule == model.RuleBankruptcyDischarge
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
