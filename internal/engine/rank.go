package engine

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/Veraticus/lovetype/internal/model"
	"golang.org/x/sync/errgroup"
)

// RankEntry is one partner scored against a fixed primary type.
type RankEntry struct {
	Err     error                   `json:"-" yaml:"-"`
	Partner model.CategoryLabel     `json:"partner" yaml:"partner"`
	Error   string                  `json:"error,omitempty" yaml:"error,omitempty"`
	Result  model.InterpretedResult `json:"result" yaml:"result"`
}

// RankOptions controls Rank.
type RankOptions struct {
	// Progress is called after each partner completes.
	Progress    func(done, total int)
	Concurrency int
}

// Rank scores primary against every catalog partner and orders the results
// by confidence, highest first. Failed partners are kept at the end with
// their error; Rank itself fails only when the catalog or primary cannot be
// resolved or ctx is canceled. Rank does not touch the session store.
func (e *Engine) Rank(ctx context.Context, primary string, opts RankOptions) ([]RankEntry, error) {
	a, err := e.catalog.Resolve(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("primary type: %w", err)
	}
	partners, err := e.catalog.Categories(ctx)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	interpreter := e.interpreter
	e.mu.Unlock()

	entries := make([]RankEntry, len(partners))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(opts.Concurrency, 1))

	var (
		done int
		mu   sync.Mutex
	)
	for i, partner := range partners {
		g.Go(func() error {
			entry := RankEntry{Partner: partner}
			payload, err := e.scorer.RequestScore(gctx, a, partner)
			switch {
			case gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				slog.Debug("Rank request failed", "partner", partner, "error", err)
				entry.Err = err
				entry.Error = err.Error()
			default:
				entry.Result = interpreter.Interpret(*payload)
			}
			entries[i] = entry

			if opts.Progress != nil {
				mu.Lock()
				done++
				opts.Progress(done, len(partners))
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	slices.SortStableFunc(entries, func(x, y RankEntry) int {
		if (x.Err == nil) != (y.Err == nil) {
			if x.Err == nil {
				return -1
			}
			return 1
		}
		return cmp.Compare(y.Result.ConfidencePercent, x.Result.ConfidencePercent)
	})
	return entries, nil
}
