package model

import "time"

// EvalStatus represents the terminal state of a tradeline evaluation.
type EvalStatus string

const (
	EvalPending  EvalStatus = "pending"
	EvalAccepted EvalStatus = "accepted"
	EvalRejected EvalStatus = "rejected"
	EvalSkipped  EvalStatus = "skipped"
)

// Rule identifiers attached to evaluation reasons. They make the reason
// trail machine-checkable; the Text carries the human narration.
const (
	RuleBankruptcyDischarge = "bankruptcy_discharge"
	RulePositiveGeneral     = "positive_general"
	RulePositiveMortgage    = "positive_mortgage"
	RulePositiveFailed      = "positive_failed"
	RuleNegativeLoss        = "negative_loss"
	RuleNegativeSeriously   = "negative_seriously_past_due"
	RuleNegativeSettledLoss = "negative_settled_loss"
	RuleNegativePastDue     = "negative_past_due"
	RuleSkipNoCriteria      = "skip_no_criteria"
	RuleSkipMedicalEdu      = "skip_medical_edu"
	RuleSkipAuto            = "skip_auto"
	RuleSkipSelfReported    = "skip_selfreported"
)

// Reason is one entry in a tradeline's evaluation audit trail.
// Reasons are append-only and never reordered or deduplicated.
type Reason struct {
	Rule string `json:"rule"`
	Text string `json:"text"`
}

// Evaluation holds the outcome of evaluating a single tradeline.
type Evaluation struct {
	Status            EvalStatus `json:"status"`
	Positive          bool       `json:"is_positive"`
	Negative          bool       `json:"is_negative"`
	Skipped           bool       `json:"is_skipped"`
	BankruptcyRelated bool       `json:"is_bankruptcy_related"`
	Reasons           []Reason   `json:"reasons"`
}

// AddReason appends a tagged reason to the trail.
func (e *Evaluation) AddReason(rule, text string) {
	e.Reasons = append(e.Reasons, Reason{Rule: rule, Text: text})
}

// ReasonTexts returns the human-readable side of the reason trail in
// insertion order.
func (e *Evaluation) ReasonTexts() []string {
	out := make([]string, 0, len(e.Reasons))
	for _, r := range e.Reasons {
		out = append(out, r.Text)
	}
	return out
}

// Tradeline is one reported account extracted from a credit report.
// All fields except Evaluation are immutable once extraction completes.
type Tradeline struct {
	AccountName      string     `json:"account_name"`
	AccountNumber    string     `json:"account_number,omitempty"`
	AccountType      string     `json:"account_type,omitempty"`
	AccountCondition string     `json:"account_condition,omitempty"`
	PaymentStatus    string     `json:"payment_status,omitempty"`
	Responsibility   string     `json:"responsibility,omitempty"`
	MonthsReviewed   *int       `json:"months_reviewed,omitempty"`
	OpenDate         *time.Time `json:"open_date,omitempty"`
	StatusDate       string     `json:"status_date,omitempty"` // MM/YYYY as reported
	CreditLimit      int64      `json:"credit_limit,omitempty"`
	OriginalAmount   int64      `json:"original_amount,omitempty"`
	HighBalance      int64      `json:"high_balance,omitempty"`
	MedicalOrEdu     bool       `json:"is_medical_or_edu"`
	Mortgage         bool       `json:"is_mortgage"`
	ConventionalFHA  bool       `json:"is_conventional_fha"`
	RawText          string     `json:"raw_text,omitempty"`

	Evaluation *Evaluation `json:"evaluation,omitempty"`
}

// ReportContext carries the document-level inputs shared by every
// tradeline evaluation within one run. Read-only during evaluation.
type ReportContext struct {
	ReportDate    time.Time `json:"report_date"`
	HasBankruptcy bool      `json:"has_bankruptcy"`
}

// RedemptionDetail describes the redemption re-scoring computation.
// It is populated whether or not the redemption score was adopted.
type RedemptionDetail struct {
	PctOldNegative float64 `json:"pct_neg_older_2yr"`
	Applied        bool    `json:"applied"`
	Score          int     `json:"score"`
	PositiveCount  int     `json:"positive_count"`
	NegativeCount  int     `json:"negative_count"`
}

// ScoreResult is the structured output of scoring one credit report.
type ScoreResult struct {
	RawScore      int              `json:"raw_score"`
	Grade         int              `json:"grade"`
	BaseScore     int              `json:"base_score"`
	HasBankruptcy bool             `json:"has_bankruptcy"`
	PositiveCount int              `json:"positive_count"`
	NegativeCount int              `json:"negative_count"`
	Redemption    RedemptionDetail `json:"redemption"`

	Accepted []*Tradeline `json:"accepted_tradelines"`
	Rejected []*Tradeline `json:"rejected_tradelines"`
	Skipped  []*Tradeline `json:"skipped_tradelines"`
	All      []*Tradeline `json:"all_tradelines"`
}

// RunStatus represents the state of a persisted scoring run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is one persisted scoring of a single document.
type Run struct {
	ID        string       `json:"id"`
	Source    string       `json:"source"` // input file path or "webhook"
	Status    RunStatus    `json:"status"`
	Result    *ScoreResult `json:"result,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}
