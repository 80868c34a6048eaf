package scorer

import (
	"fmt"
	"strings"

	"github.com/sells-group/creditscore-cli/internal/model"
	"github.com/sells-group/creditscore-cli/internal/parser"
)

// Scorer evaluates tradelines and aggregates report scores under one
// rulebook. Safe for concurrent use; it holds no per-document state.
type Scorer struct {
	rules Rules
}

// New creates a Scorer with the given rulebook.
func New(rules Rules) *Scorer {
	return &Scorer{rules: rules}
}

// HasBankruptcy reports whether the document text mentions a bankruptcy
// anywhere. Computed once per document and shared by every evaluation.
func HasBankruptcy(text string) bool {
	return strings.Contains(strings.ToLower(text), "bankruptcy")
}

// bankruptcyConditions are the account-condition phrasings that mark a
// tradeline as discharged through a known bankruptcy.
var bankruptcyConditions = []string{
	"discharged through bankruptcy",
	"included in bankruptcy",
	"debt included in or discharged through bankruptcy",
}

// negativePastDueDays are the past-due buckets that trigger the negative
// test. 30-day lates are not derogatory enough to count.
var negativePastDueDays = []string{"60", "90", "120", "150", "180"}

// compoundPastDueDays covers the "current/was N days past due" compound
// statuses, which are neither current nor a past-due trigger.
var compoundPastDueDays = []string{"30", "60", "90", "120", "150", "180"}

// Evaluate classifies one tradeline against the rulebook and attaches the
// outcome to it. The bankruptcy exclusion short-circuits everything else;
// the positive and negative tests are otherwise independent checks.
func (s *Scorer) Evaluate(t *model.Tradeline, rctx model.ReportContext) {
	ev := &model.Evaluation{Status: model.EvalPending}
	t.Evaluation = ev

	condition := strings.ToLower(t.AccountCondition)
	if rctx.HasBankruptcy && containsAny(condition, bankruptcyConditions...) {
		ev.Status = model.EvalSkipped
		ev.Skipped = true
		ev.BankruptcyRelated = true
		ev.AddReason(model.RuleBankruptcyDischarge, "Excluded due to bankruptcy discharge")
		return
	}

	accountType := strings.ToLower(t.AccountType)
	t.MedicalOrEdu = t.MedicalOrEdu ||
		containsAny(accountType, "education loan", "student loan", "medical")
	t.Mortgage = containsAny(accountType, "real estate loan", "mortgage")
	t.ConventionalFHA = containsAny(accountType, "conventional real estate loan", "fha real estate loan")
	isAuto := containsAny(accountType, "auto loan", "auto lease")
	isSelfReported := strings.Contains(accountType, "selfreported")

	payment := strings.ToLower(t.PaymentStatus)
	isOpen := strings.Contains(condition, "open")
	isCurrent := strings.Contains(payment, "current") && !isCompoundPastDue(payment)

	// Tenure: months reviewed wins over open date; neither means unknown,
	// which fails the test.
	hasTenure := false
	if t.MonthsReviewed != nil {
		hasTenure = *t.MonthsReviewed >= s.rules.MinMonths
	} else if t.OpenDate != nil {
		hasTenure = parser.MonthsBetween(*t.OpenDate, rctx.ReportDate) >= s.rules.MinMonths
	}

	isIndividual := strings.Contains(strings.ToLower(t.Responsibility), "individual")

	if t.ConventionalFHA {
		// Mortgage exception: responsibility and tenure are not checked.
		if isOpen && isCurrent && t.OriginalAmount > s.rules.MortgageMinOriginal {
			ev.Status = model.EvalAccepted
			ev.Positive = true
			ev.AddReason(model.RulePositiveMortgage, "ACCEPTED as positive mortgage tradeline")
			ev.AddReason(model.RulePositiveMortgage,
				fmt.Sprintf("Open: %v, Current: %v, Original amount: $%d > $%d",
					isOpen, isCurrent, t.OriginalAmount, s.rules.MortgageMinOriginal))
		} else {
			ev.AddReason(model.RulePositiveFailed, "Does not meet mortgage criteria")
		}
	} else {
		amountOK := t.CreditLimit >= s.rules.MinAmount || t.OriginalAmount >= s.rules.MinAmount
		if isOpen && isCurrent && amountOK && hasTenure && isIndividual &&
			!t.MedicalOrEdu && !isAuto && !isSelfReported {
			ev.Status = model.EvalAccepted
			ev.Positive = true
			ev.AddReason(model.RulePositiveGeneral, "ACCEPTED as positive tradeline - meets all criteria")
			ev.AddReason(model.RulePositiveGeneral,
				fmt.Sprintf("Open: %v, Current: %v, Amount OK: %v", isOpen, isCurrent, amountOK))
			ev.AddReason(model.RulePositiveGeneral,
				fmt.Sprintf("%d+ months: %v, Individual: %v", s.rules.MinMonths, hasTenure, isIndividual))
		} else {
			ev.AddReason(model.RulePositiveFailed, "Does not meet all positive criteria")
		}
	}

	// Negative test. Medical and education accounts are never scored
	// negatively.
	if !t.MedicalOrEdu {
		negative := false

		if strings.Contains(condition, "unpaid balance reported as loss") ||
			strings.Contains(payment, "unpaid balance reported as loss") {
			negative = true
			ev.AddReason(model.RuleNegativeLoss, "Negative: Unpaid balance reported as loss")
		}
		if strings.Contains(payment, "seriously past due") {
			negative = true
			ev.AddReason(model.RuleNegativeSeriously, "Negative: Seriously past due")
		}
		if strings.Contains(condition, "legally paid in full for less than full balance") &&
			strings.Contains(payment, "unpaid balance reported as loss") {
			negative = true
			ev.AddReason(model.RuleNegativeSettledLoss,
				"Negative: Legally paid for less than full balance with unpaid balance")
		}
		if !strings.Contains(condition, "paid/zero balance") {
			for _, days := range negativePastDueDays {
				pattern := days + " days past due"
				if strings.Contains(payment, pattern) &&
					!strings.Contains(payment, "current/was "+pattern) {
					negative = true
					ev.AddReason(model.RuleNegativePastDue,
						fmt.Sprintf("Negative: Account %s days past due", days))
					break
				}
			}
		}

		if negative {
			ev.Status = model.EvalRejected
			ev.Negative = true
		}
	}

	if !ev.Positive && !ev.Negative {
		ev.Status = model.EvalSkipped
		ev.Skipped = true
		ev.AddReason(model.RuleSkipNoCriteria, "Does not meet criteria for positive or negative scoring")
		if t.MedicalOrEdu {
			ev.AddReason(model.RuleSkipMedicalEdu, "Medical or Educational account type excluded")
		}
		if isAuto {
			ev.AddReason(model.RuleSkipAuto, "Auto loan/lease excluded from positive scoring")
		}
		if isSelfReported {
			ev.AddReason(model.RuleSkipSelfReported, "SELFREPORTED tradeline excluded from positive scoring")
		}
	}
}

// isCompoundPastDue reports whether the payment status is of the
// "current/was N days past due" compound form.
func isCompoundPastDue(payment string) bool {
	for _, days := range compoundPastDueDays {
		if strings.Contains(payment, "current/was "+days+" days past due") {
			return true
		}
	}
	return false
}

// containsAny checks if s contains any of the given substrings.
func containsAny(s string, substrs ...string) bool {
	for _, sub := range substrs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
