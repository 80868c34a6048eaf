package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/creditscore-cli/internal/ocr"
	"github.com/sells-group/creditscore-cli/internal/scorer"
	"github.com/sells-group/creditscore-cli/internal/store"
)

// initScorer builds a Scorer from the configured rulebook, applying file
// overrides when a rules path is set.
func initScorer() (*scorer.Scorer, error) {
	rules := scorer.DefaultRules()
	if cfg.Rules.Path != "" {
		r, err := scorer.LoadRules(cfg.Rules.Path)
		if err != nil {
			return nil, eris.Wrap(err, "load rules")
		}
		rules = r
	}
	return scorer.New(rules), nil
}

// initExtractor builds the configured document text extractor.
func initExtractor() (ocr.Extractor, error) {
	return ocr.NewExtractor(cfg.OCR)
}

// initStore opens the configured run store and applies migrations.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}
