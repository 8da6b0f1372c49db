package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Aman-CERP/digestcrack/internal/digest"
	crackerrors "github.com/Aman-CERP/digestcrack/internal/errors"
	"github.com/Aman-CERP/digestcrack/internal/indexstore"
)

// ErrNilDependency is returned when a required dependency is nil.
var ErrNilDependency = errors.New("nil dependency")

// Request describes one search.
type Request struct {
	// Target is the digest to find. Empty builds an index without searching.
	Target string
	Words  []string
	// Workers is the number of chunks to scan in parallel.
	Workers int
	Digest  digest.Func

	// Store is consulted before searching and receives the index when
	// BuildIndex is set. Optional.
	Store      indexstore.Store
	Key        indexstore.Key
	BuildIndex bool
}

// Result is the outcome of a search.
type Result struct {
	Found bool
	Word  string
	// FromCache is set when the stored index answered without a search.
	FromCache bool
	Lookup    indexstore.Status
	// Workers is the number of workers started.
	Workers   int
	Exhausted int
	Scanned   int
	// Indexed is the number of records persisted, if any.
	Indexed    int
	StopReason StopReason
	Elapsed    time.Duration
}

// Engine orchestrates searches: it consults the index store, runs the
// workers, waits for the stop condition and persists the gathered index.
type Engine struct {
	logger *slog.Logger
}

// EngineOption configures the search engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for orchestration events.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewEngine creates a search engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes req. A stored index hit returns immediately without starting
// any worker. If ctx is cancelled before the search stops, Run returns
// ctx.Err().
func (e *Engine) Run(ctx context.Context, req Request) (*Result, error) {
	if req.Digest == nil {
		return nil, crackerrors.InternalError("search request has no digest function", ErrNilDependency)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{Lookup: indexstore.StatusNoIndex}

	if req.Store != nil && req.Target != "" {
		lookup, err := req.Store.Lookup(ctx, req.Key, req.Target)
		if err != nil {
			return nil, indexIOError("index lookup failed", err)
		}
		result.Lookup = lookup.Status

		e.logger.Info("index_lookup",
			slog.String("dictionary", req.Key.Dictionary),
			slog.String("hash_type", req.Key.HashType.String()),
			slog.String("status", lookup.Status.String()),
			slog.Int("records", lookup.Records),
			slog.Int("skipped", lookup.Skipped))

		if lookup.Status == indexstore.StatusHit {
			result.Found = true
			result.Word = lookup.Word
			result.FromCache = true
			result.StopReason = StopFound
			result.Elapsed = time.Since(start)
			return result, nil
		}
	}

	outcomes, coord := e.search(ctx, req)
	result.Workers = len(outcomes)
	result.StopReason = coord.Reason()

	if result.StopReason == StopAborted {
		return nil, ctx.Err()
	}

	for _, o := range outcomes {
		result.Scanned += o.Scanned
		if o.Exhausted {
			result.Exhausted++
		}
		if o.Matched && !result.Found {
			result.Found = true
			result.Word = o.Match
		}
	}
	if !result.Found && result.Exhausted != result.Workers {
		return nil, crackerrors.InternalError(
			fmt.Sprintf("search stopped without a match after %d of %d workers exhausted", result.Exhausted, result.Workers), nil)
	}

	e.logger.Info("search_complete",
		slog.Bool("found", result.Found),
		slog.String("stop_reason", result.StopReason.String()),
		slog.Int("workers", result.Workers),
		slog.Int("exhausted", result.Exhausted),
		slog.Int("scanned", result.Scanned),
		slog.Duration("duration", time.Since(start)))

	if req.BuildIndex && req.Store != nil {
		records := Aggregate(outcomes)
		n, err := req.Store.Persist(ctx, req.Key, records)
		if err != nil {
			return nil, indexIOError("index persist failed", err)
		}
		result.Indexed = n

		e.logger.Info("index_persisted",
			slog.String("dictionary", req.Key.Dictionary),
			slog.String("hash_type", req.Key.HashType.String()),
			slog.Int("records", n))
	}

	result.Elapsed = time.Since(start)
	return result, nil
}

// search starts one worker per chunk and collects exactly one outcome from
// each, in the order they arrive.
func (e *Engine) search(ctx context.Context, req Request) ([]Outcome, *Coordinator) {
	chunks := Partition(req.Words, req.Workers)
	coord := NewCoordinator(len(chunks))

	stopAbort := context.AfterFunc(ctx, coord.Abort)
	defer stopAbort()

	results := make(chan Outcome, len(chunks))
	var g errgroup.Group
	for i, chunk := range chunks {
		g.Go(func() error {
			results <- runWorker(i, chunk, req.Target, req.Digest, coord, req.BuildIndex)
			return nil
		})
	}

	coord.WaitUntilStopped()

	outcomes := make([]Outcome, 0, len(chunks))
	for range chunks {
		outcomes = append(outcomes, <-results)
	}
	_ = g.Wait()

	return outcomes, coord
}

// indexIOError keeps errors that already carry a code, and classifies the
// rest as index I/O failures.
func indexIOError(message string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	if _, ok := crackerrors.As(err); ok {
		return err
	}
	return crackerrors.IndexError(message, err)
}
