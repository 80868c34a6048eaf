package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/creditscore-cli/internal/model"
	"github.com/sells-group/creditscore-cli/internal/ocr"
	"github.com/sells-group/creditscore-cli/internal/scorer"
	"github.com/sells-group/creditscore-cli/internal/store"
)

var (
	batchLimit      int
	batchSave       bool
	batchReportDate string
)

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Score every credit report in a directory",
	Long:  "Finds PDF and plain-text reports under the given directory and scores them concurrently.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		reportDate, err := resolveReportDate(batchReportDate)
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
		if batchSave {
			st, err = initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
		}

		docs, err := findDocuments(args[0])
		if err != nil {
			return err
		}

		outcomes, err := processBatch(ctx, sc, ex, st, docs, batchLimit, cfg.Batch.MaxConcurrentDocuments, reportDate)
		if err != nil {
			return err
		}

		formatBatchOutcomes(os.Stdout, outcomes)
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchLimit, "limit", 0, "max number of documents to process (0 = all)")
	batchCmd.Flags().BoolVar(&batchSave, "save", false, "persist each run to the configured store")
	batchCmd.Flags().StringVar(&batchReportDate, "report-date", "", "report date in YYYY-MM-DD (default today)")
	rootCmd.AddCommand(batchCmd)
}

// findDocuments walks dir and returns every .pdf and .txt file, sorted for
// stable output.
func findDocuments(dir string) ([]string, error) {
	var docs []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".pdf", ".txt":
			docs = append(docs, path)
		}
		return nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "walk %s", dir)
	}
	sort.Strings(docs)
	return docs, nil
}

// batchOutcome is one document's result or failure.
type batchOutcome struct {
	Path     string
	Result   *model.ScoreResult
	Err      error
	Duration time.Duration
}

// processBatch scores documents concurrently, up to the configured limit.
// Individual document failures are recorded, not fatal; the batch only
// aborts on context cancellation.
func processBatch(ctx context.Context, sc *scorer.Scorer, ex ocr.Extractor, st store.Store, docs []string, limit, concurrency int, reportDate time.Time) ([]batchOutcome, error) {
	if len(docs) == 0 {
		zap.L().Info("no documents found")
		return nil, nil
	}
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}
	if concurrency < 1 {
		concurrency = 1
	}

	zap.L().Info("processing batch",
		zap.Int("documents", len(docs)),
		zap.Int("concurrency", concurrency),
	)

	outcomes := make([]batchOutcome, len(docs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range docs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			start := time.Now()
			result, err := scoreDocument(gctx, sc, ex, st, path, reportDate)
			outcome := batchOutcome{
				Path:     path,
				Result:   result,
				Err:      err,
				Duration: time.Since(start),
			}

			if err != nil {
				zap.L().Error("document failed", zap.String("path", path), zap.Error(err))
			}

			mu.Lock()
			outcomes[i] = outcome
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch interrupted")
	}
	return outcomes, nil
}

// formatBatchOutcomes writes a tabular batch summary.
func formatBatchOutcomes(out io.Writer, outcomes []batchOutcome) {
	if len(outcomes) == 0 {
		fmt.Fprintln(os.Stderr, "No documents found.")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DOCUMENT\tSCORE\tGRADE\tPOS\tNEG\tDURATION")
	_, _ = fmt.Fprintln(w, "--------\t-----\t-----\t---\t---\t--------")

	failed := 0
	for _, o := range outcomes {
		name := filepath.Base(o.Path)
		if o.Err != nil {
			failed++
			_, _ = fmt.Fprintf(w, "%s\tERROR\t-\t-\t-\t%s\n", name, o.Duration.Round(time.Millisecond))
			continue
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
			name, o.Result.RawScore, o.Result.Grade,
			o.Result.PositiveCount, o.Result.NegativeCount,
			o.Duration.Round(time.Millisecond))
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\n%d scored, %d failed\n", len(outcomes)-failed, failed)
}
