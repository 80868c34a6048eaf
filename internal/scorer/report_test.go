package scorer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderDetailed(t *testing.T) {
	r := scoreBlocks(
		blockPositive("CHASE"),
		blockNegative("MIDLAND", "01/2024"),
	)
	out := RenderDetailed(r)

	assert.Contains(t, out, "=== CREDIT REPORT ANALYSIS ===")
	assert.Contains(t, out, "Final Score: 0")
	assert.Contains(t, out, "Final Grade: 4")
	assert.Contains(t, out, "=== ACCEPTED TRADELINES ===")
	assert.Contains(t, out, "=== REJECTED TRADELINES ===")
	assert.Contains(t, out, "=== SKIPPED TRADELINES ===")
	assert.Contains(t, out, "=== DETAILED EVALUATION ===")
	assert.Contains(t, out, "Total tradelines analyzed: 2")

	assert.Contains(t, out, "CHASE / 1000 / BC - Bank Credit Cards")
	assert.Contains(t, out, "Reason for rejection: Negative: Account 90 days past due")
	assert.NotContains(t, out, "=== REDEMPTION SCENARIO ===")
}

func TestRenderDetailedRedemptionSection(t *testing.T) {
	r := scoreBlocks(
		blockPositive("CHASE"),
		blockNegative("MIDLAND", "01/2019"),
		blockNegative("PORTFOLIO", "06/2018"),
	)
	require.True(t, r.Redemption.Applied)

	out := RenderDetailed(r)
	assert.Contains(t, out, "=== REDEMPTION SCENARIO ===")
	assert.Contains(t, out, "Percentage of negative tradelines older than 2 years: 100.00%")
	assert.Contains(t, out, "Score after redemption: 1")
}

func TestRenderDetailedSkipReasons(t *testing.T) {
	block := `TOYOTA / 3000 / AU - Auto Financing
Account Type: Auto Loan
Account Condition: Open
Payment Status: Current
Responsibility: Individual
Months Reviewed: 36`

	out := RenderDetailed(scoreBlocks(block))
	assert.Contains(t, out, "Reason for skipping:")
	assert.Contains(t, out, "Auto loan/lease excluded from positive scoring")
	// Positive-test narration never leaks into the skip footer.
	assert.NotContains(t, out, "Does not meet all positive criteria")
}

func TestRenderDetailedMissingFieldsShowNA(t *testing.T) {
	out := RenderDetailed(scoreBlocks("MYSTERY / 1 / XX - Unknown"))

	lines := strings.Split(out, "\n")
	var found bool
	for _, l := range lines {
		if strings.Contains(l, "Type: N/A") {
			found = true
		}
	}
	assert.True(t, found)
	assert.Contains(t, out, "Status Date: N/A")
	assert.Contains(t, out, "Months Reviewed: N/A")
}
