package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/creditscore-cli/internal/model"
	"github.com/sells-group/creditscore-cli/internal/ocr"
	"github.com/sells-group/creditscore-cli/internal/scorer"
	"github.com/sells-group/creditscore-cli/internal/store"
)

var (
	scoreFormat     string
	scoreReportDate string
	scoreSave       bool
)

var scoreCmd = &cobra.Command{
	Use:   "score <document>",
	Short: "Score a single credit report",
	Long:  "Extracts text from a PDF or plain-text credit report, evaluates every tradeline, and prints the score and grade.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		path := args[0]

		reportDate, err := resolveReportDate(scoreReportDate)
		if err != nil {
			return err
		}

		sc, err := initScorer()
		if err != nil {
			return err
		}
		ex, err := initExtractor()
		if err != nil {
			return err
		}

		var st store.Store
		if scoreSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		result, err := scoreDocument(ctx, sc, ex, st, path, reportDate)
		if err != nil {
			return err
		}

		return writeResult(os.Stdout, result, scoreFormat)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreFormat, "format", "text", "output format: text, detailed, json, csv")
	scoreCmd.Flags().StringVar(&scoreReportDate, "report-date", "", "report date in YYYY-MM-DD (default today)")
	scoreCmd.Flags().BoolVar(&scoreSave, "save", false, "persist the run to the configured store")
	rootCmd.AddCommand(scoreCmd)
}

// resolveReportDate parses the --report-date flag, defaulting to now.
func resolveReportDate(flag string) (time.Time, error) {
	if flag == "" {
		return time.Now(), nil
	}
	d, err := time.Parse("2006-01-02", flag)
	if err != nil {
		return time.Time{}, eris.Wrapf(err, "parse report date %q", flag)
	}
	return d, nil
}

// scoreDocument runs the extract-evaluate-aggregate pipeline on one input
// file. When st is non-nil the run is persisted, including the failed
// state when extraction errors out.
func scoreDocument(ctx context.Context, sc *scorer.Scorer, ex ocr.Extractor, st store.Store, path string, reportDate time.Time) (*model.ScoreResult, error) {
	var run *model.Run
	if st != nil {
		r, err := st.CreateRun(ctx, path)
		if err != nil {
			return nil, err
		}
		run = r
	}

	text, err := ocr.ReadDocument(ctx, ex, path)
	if err != nil {
		if run != nil {
			if ferr := st.FailRun(ctx, run.ID); ferr != nil {
				zap.L().Warn("mark run failed", zap.String("run_id", run.ID), zap.Error(ferr))
			}
		}
		return nil, err
	}

	result := sc.ScoreText(text, reportDate)

	if run != nil {
		if err := st.CompleteRun(ctx, run.ID, result); err != nil {
			return nil, err
		}
		zap.L().Info("run saved", zap.String("run_id", run.ID), zap.String("source", path))
	}

	return result, nil
}

// writeResult renders a score result in the requested format.
func writeResult(w io.Writer, r *model.ScoreResult, format string) error {
	switch format {
	case "text", "":
		fmt.Fprintf(w, "Score: %d\n", r.RawScore)
		fmt.Fprintf(w, "Grade: %d\n", r.Grade)
		fmt.Fprintf(w, "Positive tradelines: %d\n", r.PositiveCount)
		fmt.Fprintf(w, "Negative tradelines: %d\n", r.NegativeCount)
		fmt.Fprintf(w, "Bankruptcy: %v\n", r.HasBankruptcy)
		if r.Redemption.Applied {
			fmt.Fprintf(w, "Redemption applied: stale negatives dropped, score recomputed to %d\n",
				r.Redemption.Score)
		}
		return nil
	case "detailed":
		_, err := io.WriteString(w, scorer.RenderDetailed(r))
		return err
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case "csv":
		return writeResultCSV(w, r)
	default:
		return eris.Errorf("unknown output format %q", format)
	}
}

// writeResultCSV emits one row per tradeline with its evaluation outcome.
func writeResultCSV(w io.Writer, r *model.ScoreResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{
		"account_name", "account_type", "account_condition", "payment_status",
		"credit_limit", "original_amount", "status_date", "evaluation",
	}); err != nil {
		return eris.Wrap(err, "write csv header")
	}

	for _, t := range r.All {
		status := ""
		if t.Evaluation != nil {
			status = string(t.Evaluation.Status)
		}
		row := []string{
			t.AccountName, t.AccountType, t.AccountCondition, t.PaymentStatus,
			strconv.FormatInt(t.CreditLimit, 10),
			strconv.FormatInt(t.OriginalAmount, 10),
			t.StatusDate, status,
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "flush csv")
}
