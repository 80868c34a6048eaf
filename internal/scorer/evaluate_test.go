package scorer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/creditscore-cli/internal/model"
)

func ptrInt(v int) *int { return &v }

func testReportDate() time.Time {
	return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
}

// goodTradeline meets every general positive criterion.
func goodTradeline() *model.Tradeline {
	return &model.Tradeline{
		AccountName:      "CAPITAL ONE / 1270246 / BC - Bank Credit Cards",
		AccountType:      "Credit Card",
		AccountCondition: "Open",
		PaymentStatus:    "Current",
		Responsibility:   "Individual",
		MonthsReviewed:   ptrInt(24),
		CreditLimit:      5000,
	}
}

func evaluateOne(t *testing.T, tl *model.Tradeline, rctx model.ReportContext) *model.Evaluation {
	t.Helper()
	New(DefaultRules()).Evaluate(tl, rctx)
	require.NotNil(t, tl.Evaluation)
	return tl.Evaluation
}

func TestEvaluateGeneralPositive(t *testing.T) {
	tl := goodTradeline()
	ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})

	assert.Equal(t, model.EvalAccepted, ev.Status)
	assert.True(t, ev.Positive)
	assert.False(t, ev.Negative)
	assert.False(t, ev.Skipped)
	assert.NotEmpty(t, ev.Reasons)
	assert.Equal(t, model.RulePositiveGeneral, ev.Reasons[0].Rule)
}

func TestEvaluateGeneralPositiveFailures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Tradeline)
	}{
		{"closed", func(tl *model.Tradeline) { tl.AccountCondition = "Paid/zero balance" }},
		{"not current", func(tl *model.Tradeline) { tl.PaymentStatus = "30 days past due" }},
		{"compound past due not current", func(tl *model.Tradeline) { tl.PaymentStatus = "Current/was 30 days past due" }},
		{"amount below floor", func(tl *model.Tradeline) { tl.CreditLimit = 999 }},
		{"short tenure", func(tl *model.Tradeline) { tl.MonthsReviewed = ptrInt(11) }},
		{"unknown tenure", func(tl *model.Tradeline) { tl.MonthsReviewed = nil }},
		{"joint responsibility", func(tl *model.Tradeline) { tl.Responsibility = "Joint Account" }},
		{"auto loan", func(tl *model.Tradeline) { tl.AccountType = "Auto Loan" }},
		{"auto lease", func(tl *model.Tradeline) { tl.AccountType = "Auto Lease" }},
		{"selfreported", func(tl *model.Tradeline) { tl.AccountType = "SELFREPORTED Rent" }},
		{"student loan", func(tl *model.Tradeline) { tl.AccountType = "Student Loan" }},
		{"medical flag from text", func(tl *model.Tradeline) { tl.MedicalOrEdu = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := goodTradeline()
			tt.mutate(tl)
			ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
			assert.False(t, ev.Positive)
		})
	}
}

func TestEvaluateAmountFloorInclusive(t *testing.T) {
	tl := goodTradeline()
	tl.CreditLimit = 1000
	ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
	assert.True(t, ev.Positive)
}

func TestEvaluateOriginalAmountSatisfiesFloor(t *testing.T) {
	tl := goodTradeline()
	tl.CreditLimit = 0
	tl.OriginalAmount = 2500
	ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
	assert.True(t, ev.Positive)
}

func TestEvaluateTenureFromOpenDate(t *testing.T) {
	tests := []struct {
		name     string
		openDate time.Time
		want     bool
	}{
		{"two years ago", time.Date(2022, 6, 1, 0, 0, 0, 0, time.UTC), true},
		{"exactly twelve months", time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), true},
		{"eleven months", time.Date(2023, 7, 1, 0, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := goodTradeline()
			tl.MonthsReviewed = nil
			d := tt.openDate
			tl.OpenDate = &d
			ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
			assert.Equal(t, tt.want, ev.Positive)
		})
	}
}

func TestEvaluateMortgageException(t *testing.T) {
	mortgage := func() *model.Tradeline {
		return &model.Tradeline{
			AccountName:      "WELLS FARGO / 9981 / MG - Mortgage Companies",
			AccountType:      "Conventional Real Estate Loan",
			AccountCondition: "Open",
			PaymentStatus:    "Current",
			OriginalAmount:   250000,
		}
	}

	t.Run("accepted without tenure or responsibility", func(t *testing.T) {
		tl := mortgage()
		// No months reviewed, no open date, no responsibility.
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
		assert.True(t, ev.Positive)
		assert.True(t, tl.Mortgage)
		assert.True(t, tl.ConventionalFHA)
		assert.Equal(t, model.RulePositiveMortgage, ev.Reasons[0].Rule)
	})

	t.Run("fha qualifies", func(t *testing.T) {
		tl := mortgage()
		tl.AccountType = "FHA Real Estate Loan"
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
		assert.True(t, ev.Positive)
	})

	t.Run("floor is exclusive", func(t *testing.T) {
		tl := mortgage()
		tl.OriginalAmount = 30000
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
		assert.False(t, ev.Positive)
	})

	t.Run("just above floor", func(t *testing.T) {
		tl := mortgage()
		tl.OriginalAmount = 30001
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
		assert.True(t, ev.Positive)
	})

	t.Run("not current fails", func(t *testing.T) {
		tl := mortgage()
		tl.PaymentStatus = "60 days past due"
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
		assert.False(t, ev.Positive)
		assert.True(t, ev.Negative)
	})

	t.Run("generic mortgage does not use exception", func(t *testing.T) {
		tl := mortgage()
		tl.AccountType = "Real Estate Loan"
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
		// Falls to the general test; no responsibility, so not positive.
		assert.False(t, ev.Positive)
		assert.True(t, tl.Mortgage)
		assert.False(t, tl.ConventionalFHA)
	})
}

func TestEvaluateNegatives(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		payment   string
		wantRule  string
	}{
		{"unpaid loss in condition", "Unpaid balance reported as loss", "Collection", model.RuleNegativeLoss},
		{"unpaid loss in payment", "Derogatory", "Unpaid balance reported as loss", model.RuleNegativeLoss},
		{"seriously past due", "Open", "Seriously past due", model.RuleNegativeSeriously},
		{"60 days past due", "Open", "60 days past due", model.RuleNegativePastDue},
		{"90 days past due", "Open", "90 days past due", model.RuleNegativePastDue},
		{"180 days past due", "Open", "180 days past due", model.RuleNegativePastDue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := &model.Tradeline{
				AccountName:      "X / Y / Z - Collections",
				AccountType:      "Credit Card",
				AccountCondition: tt.condition,
				PaymentStatus:    tt.payment,
			}
			ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
			assert.Equal(t, model.EvalRejected, ev.Status)
			assert.True(t, ev.Negative)

			rules := make([]string, 0, len(ev.Reasons))
			for _, r := range ev.Reasons {
				rules = append(rules, r.Rule)
			}
			assert.Contains(t, rules, tt.wantRule)
		})
	}
}

func TestEvaluateNotNegative(t *testing.T) {
	tests := []struct {
		name      string
		condition string
		payment   string
	}{
		{"30 days past due not derogatory", "Open", "30 days past due"},
		{"compound past due excluded", "Open", "Current/was 90 days past due"},
		{"paid zero balance suppresses past due", "Paid/zero balance", "60 days past due"},
		{"settled without loss", "Legally paid in full for less than full balance", "Settled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tl := &model.Tradeline{
				AccountName:      "X / Y / Z - Collections",
				AccountType:      "Credit Card",
				AccountCondition: tt.condition,
				PaymentStatus:    tt.payment,
			}
			ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})
			assert.False(t, ev.Negative)
			assert.Equal(t, model.EvalSkipped, ev.Status)
		})
	}
}

func TestEvaluateMedicalNeverNegative(t *testing.T) {
	tl := &model.Tradeline{
		AccountName:      "SALLIE MAE / 887 / ED - Student Loans",
		AccountType:      "Student Loan",
		AccountCondition: "Open",
		PaymentStatus:    "120 days past due",
	}
	ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})

	assert.False(t, ev.Negative)
	assert.True(t, ev.Skipped)

	rules := make([]string, 0, len(ev.Reasons))
	for _, r := range ev.Reasons {
		rules = append(rules, r.Rule)
	}
	assert.Contains(t, rules, model.RuleSkipMedicalEdu)
}

func TestEvaluateBankruptcyDischarge(t *testing.T) {
	discharged := func() *model.Tradeline {
		return &model.Tradeline{
			AccountName:      "X / Y / Z - Bank Credit Cards",
			AccountType:      "Credit Card",
			AccountCondition: "Discharged through Bankruptcy Chapter 7",
			PaymentStatus:    "Unpaid balance reported as loss",
		}
	}

	t.Run("excluded when report mentions bankruptcy", func(t *testing.T) {
		tl := discharged()
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate(), HasBankruptcy: true})
		assert.Equal(t, model.EvalSkipped, ev.Status)
		assert.True(t, ev.BankruptcyRelated)
		assert.False(t, ev.Negative)
		require.Len(t, ev.Reasons, 1)
		assert.Equal(t, model.RuleBankruptcyDischarge, ev.Reasons[0].Rule)
	})

	t.Run("evaluated normally without report bankruptcy", func(t *testing.T) {
		tl := discharged()
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate(), HasBankruptcy: false})
		assert.False(t, ev.BankruptcyRelated)
		assert.True(t, ev.Negative)
	})

	t.Run("included in bankruptcy phrasing", func(t *testing.T) {
		tl := discharged()
		tl.AccountCondition = "Debt included in or discharged through Bankruptcy Chapter 13"
		ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate(), HasBankruptcy: true})
		assert.True(t, ev.BankruptcyRelated)
	})
}

func TestEvaluateSkipReasons(t *testing.T) {
	tl := &model.Tradeline{
		AccountName:      "X / Y / Z - Auto",
		AccountType:      "Auto Loan",
		AccountCondition: "Open",
		PaymentStatus:    "Current",
		Responsibility:   "Individual",
		MonthsReviewed:   ptrInt(36),
		CreditLimit:      20000,
	}
	ev := evaluateOne(t, tl, model.ReportContext{ReportDate: testReportDate()})

	assert.True(t, ev.Skipped)
	rules := make([]string, 0, len(ev.Reasons))
	for _, r := range ev.Reasons {
		rules = append(rules, r.Rule)
	}
	assert.Contains(t, rules, model.RuleSkipNoCriteria)
	assert.Contains(t, rules, model.RuleSkipAuto)
}

func TestHasBankruptcy(t *testing.T) {
	assert.True(t, HasBankruptcy("Public Records\nBANKRUPTCY Chapter 7"))
	assert.True(t, HasBankruptcy("discharged through bankruptcy"))
	assert.False(t, HasBankruptcy("no derogatory public records"))
	assert.False(t, HasBankruptcy(""))
}
