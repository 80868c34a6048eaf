package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/creditscore-cli/internal/model"
	"github.com/sells-group/creditscore-cli/internal/ocr"
	"github.com/sells-group/creditscore-cli/internal/scorer"
	"github.com/sells-group/creditscore-cli/internal/store"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start webhook server for scoring requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sc, err := initScorer()
		if err != nil {
			return err
		}
		ex, err := initExtractor()
		if err != nil {
			return err
		}
		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close() //nolint:errcheck

		limiter := rate.NewLimiter(rate.Limit(cfg.Server.RatePerSecond), cfg.Server.RateBurst)
		mux := newServeMux(sc, ex, st, limiter)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(ctx) //nolint:errcheck
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}

// scoreRequest is the webhook payload. Text carries the report body
// directly; Path points at a document on the server's disk and goes
// through the configured extractor. Exactly one of the two is required.
type scoreRequest struct {
	Text       string `json:"text,omitempty"`
	Path       string `json:"path,omitempty"`
	ReportDate string `json:"report_date,omitempty"` // YYYY-MM-DD, default today
	Save       bool   `json:"save,omitempty"`
}

type scoreResponse struct {
	RunID  string             `json:"run_id,omitempty"`
	Result *model.ScoreResult `json:"result"`
}

// newServeMux builds the HTTP routes.
func newServeMux(sc *scorer.Scorer, ex ocr.Extractor, st store.Store, limiter *rate.Limiter) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
	})

	mux.HandleFunc("POST /score", func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, `{"error":"rate limit exceeded"}`, http.StatusTooManyRequests)
			return
		}

		var req scoreRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, `{"error":"invalid request body"}`, http.StatusBadRequest)
			return
		}
		if (req.Text == "") == (req.Path == "") {
			http.Error(w, `{"error":"exactly one of text or path is required"}`, http.StatusBadRequest)
			return
		}

		reportDate, err := resolveReportDate(req.ReportDate)
		if err != nil {
			http.Error(w, `{"error":"report_date must be YYYY-MM-DD"}`, http.StatusBadRequest)
			return
		}

		text := req.Text
		source := "webhook"
		if req.Path != "" {
			text, err = ocr.ReadDocument(r.Context(), ex, req.Path)
			if err != nil {
				zap.L().Warn("webhook document unreadable", zap.String("path", req.Path), zap.Error(err))
				http.Error(w, `{"error":"document unreadable"}`, http.StatusUnprocessableEntity)
				return
			}
			source = req.Path
		}

		resp := scoreResponse{Result: sc.ScoreText(text, reportDate)}

		if req.Save {
			run, err := st.CreateRun(r.Context(), source)
			if err == nil {
				err = st.CompleteRun(r.Context(), run.ID, resp.Result)
			}
			if err != nil {
				zap.L().Error("persist webhook run", zap.Error(err))
				http.Error(w, `{"error":"failed to persist run"}`, http.StatusInternalServerError)
				return
			}
			resp.RunID = run.ID
		}

		zap.L().Info("webhook scored",
			zap.Int("raw_score", resp.Result.RawScore),
			zap.Int("grade", resp.Result.Grade),
			zap.Bool("saved", req.Save),
		)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(resp) //nolint:errcheck
	})

	return mux
}
