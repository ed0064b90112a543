// Package engine sequences a diagnosis: resolve the pair against the catalog,
// request the score, interpret it and hand the result to the session store.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/lovetype/internal/common"
	"github.com/Veraticus/lovetype/internal/interpret"
	"github.com/Veraticus/lovetype/internal/model"
	"github.com/Veraticus/lovetype/internal/session"
)

// Engine runs one diagnosis at a time. Each run is tagged with a sequence
// number; a run whose number is no longer the latest is discarded.
type Engine struct {
	catalog     Resolver
	scorer      Scorer
	interpreter *interpret.Interpreter
	store       session.Store
	now         func() time.Time
	seq         uint64
	mu          sync.Mutex
	inFlight    bool
}

// New creates an engine with the given dependencies.
func New(catalog Resolver, scorer Scorer, interpreter *interpret.Interpreter, store session.Store) *Engine {
	if interpreter == nil {
		interpreter = interpret.New(interpret.DefaultOptions())
	}
	return &Engine{
		catalog:     catalog,
		scorer:      scorer,
		interpreter: interpreter,
		store:       store,
		now:         time.Now,
	}
}

// SetInterpreter swaps the interpretation policy, e.g. after reconfiguration.
func (e *Engine) SetInterpreter(interpreter *interpret.Interpreter) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if interpreter != nil {
		e.interpreter = interpreter
	}
}

// Begin reserves the next sequence number. It fails with
// common.ErrRequestInFlight while another run is pending.
func (e *Engine) Begin() (uint64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.inFlight {
		return 0, common.ErrRequestInFlight
	}
	e.seq++
	e.inFlight = true
	return e.seq, nil
}

// Abandon drops the pending run, if any. Its response will be discarded.
func (e *Engine) Abandon() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.seq++
	e.inFlight = false
}

// Seq returns the latest issued sequence number.
func (e *Engine) Seq() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.seq
}

// InFlight reports whether a run is pending.
func (e *Engine) InFlight() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.inFlight
}

// Diagnose begins a run and executes it.
func (e *Engine) Diagnose(ctx context.Context, primary, partner string) (*model.Diagnosis, error) {
	seq, err := e.Begin()
	if err != nil {
		return nil, err
	}
	return e.Run(ctx, seq, primary, partner)
}

// Run executes the run reserved by Begin.
func (e *Engine) Run(ctx context.Context, seq uint64, primary, partner string) (*model.Diagnosis, error) {
	defer e.finish(seq)

	a, err := e.catalog.Resolve(ctx, primary)
	if err != nil {
		return nil, fmt.Errorf("primary type: %w", err)
	}
	b, err := e.catalog.Resolve(ctx, partner)
	if err != nil {
		return nil, fmt.Errorf("partner type: %w", err)
	}

	slog.Debug("Requesting diagnosis", "seq", seq, "primary", a, "partner", b)

	payload, err := e.scorer.RequestScore(ctx, a, b)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if seq != e.seq {
		slog.Debug("Discarding stale response", "seq", seq, "latest", e.seq)
		return nil, common.ErrStaleResponse
	}

	d := &model.Diagnosis{
		Request:   model.CompatibilityRequest{Primary: a, Partner: b},
		Payload:   *payload,
		Result:    e.interpreter.Interpret(*payload),
		CreatedAt: e.now(),
	}
	if e.store != nil {
		if err := e.store.Put(ctx, d); err != nil {
			return nil, fmt.Errorf("failed to store diagnosis: %w", err)
		}
	}
	return d, nil
}

func (e *Engine) finish(seq uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if seq == e.seq {
		e.inFlight = false
	}
}

// Detail returns the diagnosis handed off by the last successful run.
// It never re-requests; an empty session yields session.ErrNotFound.
func (e *Engine) Detail(ctx context.Context) (*model.Diagnosis, error) {
	if e.store == nil {
		return nil, session.ErrNotFound
	}
	return e.store.Take(ctx)
}

// Categories returns the catalog.
func (e *Engine) Categories(ctx context.Context) ([]model.CategoryLabel, error) {
	return e.catalog.Categories(ctx)
}
