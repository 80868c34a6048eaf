package scorer

import (
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/creditscore-cli/internal/model"
	"github.com/sells-group/creditscore-cli/internal/parser"
)

// ScoreText runs the full pipeline on one document's text: bankruptcy
// detection, segmentation, field extraction, per-tradeline evaluation,
// aggregation, conditional redemption re-scoring, and grade mapping.
// reportDate anchors tenure and the redemption windows; callers normally
// pass time.Now().
func (s *Scorer) ScoreText(text string, reportDate time.Time) *model.ScoreResult {
	rctx := model.ReportContext{
		ReportDate:    reportDate,
		HasBankruptcy: HasBankruptcy(text),
	}

	tradelines := parser.ExtractTradelines(text)
	for _, t := range tradelines {
		s.Evaluate(t, rctx)
	}

	result := s.aggregate(tradelines, rctx)

	zap.L().Info("scorer: report scored",
		zap.Int("raw_score", result.RawScore),
		zap.Int("grade", result.Grade),
		zap.Int("positive", result.PositiveCount),
		zap.Int("negative", result.NegativeCount),
		zap.Bool("bankruptcy", result.HasBankruptcy),
		zap.Bool("redemption_applied", result.Redemption.Applied),
	)
	return result
}

// aggregate reduces evaluated tradelines to the final score and grade,
// applying the redemption scenario when it strictly improves the score.
func (s *Scorer) aggregate(all []*model.Tradeline, rctx model.ReportContext) *model.ScoreResult {
	baseScore := 0
	if rctx.HasBankruptcy {
		baseScore = -1
	}

	positives := filterTradelines(all, func(e *model.Evaluation) bool { return e.Positive })
	negatives := filterTradelines(all, func(e *model.Evaluation) bool { return e.Negative })
	skipped := filterTradelines(all, func(e *model.Evaluation) bool { return e.Skipped })

	rawScore := baseScore + len(positives) - len(negatives)

	result := &model.ScoreResult{
		RawScore:      rawScore,
		BaseScore:     baseScore,
		HasBankruptcy: rctx.HasBankruptcy,
		PositiveCount: len(positives),
		NegativeCount: len(negatives),
		Redemption: model.RedemptionDetail{
			PctOldNegative: s.pctOldNegative(negatives, rctx.ReportDate),
			Score:          rawScore,
			PositiveCount:  len(positives),
			NegativeCount:  len(negatives),
		},
		Accepted: positives,
		Rejected: negatives,
		Skipped:  skipped,
		All:      all,
	}

	if result.Redemption.PctOldNegative >= s.rules.RedemptionThreshold && len(negatives) > 0 {
		// Drop negatives older than the drop window; keep everything else
		// with its existing evaluation. The evaluator is never re-run.
		filtered := s.dropStaleNegatives(all, rctx.ReportDate)
		fpos := filterTradelines(filtered, func(e *model.Evaluation) bool { return e.Positive })
		fneg := filterTradelines(filtered, func(e *model.Evaluation) bool { return e.Negative })
		redemptionScore := baseScore + len(fpos) - len(fneg)

		result.Redemption.Score = redemptionScore
		result.Redemption.PositiveCount = len(fpos)
		result.Redemption.NegativeCount = len(fneg)

		if redemptionScore > rawScore {
			result.Redemption.Applied = true
			result.RawScore = redemptionScore
			result.PositiveCount = len(fpos)
			result.NegativeCount = len(fneg)
			result.Accepted = fpos
			result.Rejected = fneg

			zap.L().Debug("scorer: redemption applied",
				zap.Float64("pct_old_negative", result.Redemption.PctOldNegative),
				zap.Int("raw_score", rawScore),
				zap.Int("redemption_score", redemptionScore),
			)
		}
	}

	result.Grade = gradeFor(result.RawScore, result.Accepted)
	return result
}

// pctOldNegative returns the fraction of negative tradelines whose status
// date is present and strictly older than the redemption age window.
// Zero when there are no negative tradelines.
func (s *Scorer) pctOldNegative(negatives []*model.Tradeline, reportDate time.Time) float64 {
	if len(negatives) == 0 {
		return 0.0
	}
	cutoff := reportDate.AddDate(-s.rules.RedemptionAgeYears, 0, 0)
	old := 0
	for _, t := range negatives {
		if d, ok := parser.ParseMonthYear(t.StatusDate); ok && d.Before(cutoff) {
			old++
		}
	}
	return float64(old) / float64(len(negatives))
}

// dropStaleNegatives removes negative tradelines older than the drop
// window. Non-negative tradelines and negatives with an absent or recent
// status date pass through unchanged.
func (s *Scorer) dropStaleNegatives(all []*model.Tradeline, reportDate time.Time) []*model.Tradeline {
	cutoff := reportDate.AddDate(-s.rules.RedemptionDropYears, 0, 0)
	kept := make([]*model.Tradeline, 0, len(all))
	for _, t := range all {
		if t.Evaluation != nil && t.Evaluation.Negative {
			if d, ok := parser.ParseMonthYear(t.StatusDate); ok && d.Before(cutoff) {
				continue
			}
		}
		kept = append(kept, t)
	}
	return kept
}

// gradeFor maps the final score to a 1-5 grade. A score of exactly 4
// backed by an accepted mortgage bumps the grade from 2 to 1.
func gradeFor(score int, accepted []*model.Tradeline) int {
	switch {
	case score < 0:
		return 5
	case score == 0:
		return 4
	case score <= 2:
		return 3
	case score <= 4:
		if score == 4 && hasAcceptedMortgage(accepted) {
			return 1
		}
		return 2
	default:
		return 1
	}
}

func hasAcceptedMortgage(accepted []*model.Tradeline) bool {
	for _, t := range accepted {
		if t.Mortgage && t.Evaluation != nil && t.Evaluation.Positive {
			return true
		}
	}
	return false
}

func filterTradelines(all []*model.Tradeline, keep func(*model.Evaluation) bool) []*model.Tradeline {
	var out []*model.Tradeline
	for _, t := range all {
		if t.Evaluation != nil && keep(t.Evaluation) {
			out = append(out, t)
		}
	}
	return out
}
