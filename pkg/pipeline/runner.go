package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/hanoi/pkg/cache"
	"github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/hanoi"
	pkgio "github.com/matzehuels/hanoi/pkg/io"
	"github.com/matzehuels/hanoi/pkg/observability"
)

const keyTypeTrace = "trace"

// Runner executes solves with caching.
//
// The Runner is stateless except for the cache and logger, so multiple
// goroutines can share one Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute validates opts, then returns the trace for opts.Disks from the
// cache or a fresh solve.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}

	n := opts.Disks
	key := r.Keyer.TraceKey(n)
	result := &Result{RunID: uuid.NewString(), Disks: n}

	if !opts.needsMoves() {
		if doc, ok := r.lookup(ctx, key, n, opts.Logger); ok {
			result.Trace = doc.Trace()
			result.Final = hanoi.BoardFromPegs([hanoi.NumPegs][]int(doc.Final))
			result.Stats.Moves = doc.Moves
			result.CacheHit = true
			opts.Logger.Info("solved", "n", n, "moves", doc.Moves, "cached", true)
			return result, nil
		}
	}

	if err := r.solve(ctx, opts, result); err != nil {
		return nil, err
	}
	r.store(ctx, key, result, opts)

	opts.Logger.Info("solved",
		"n", n,
		"moves", result.Stats.Moves,
		"duration", result.Stats.SolveTime,
		"cached", false)
	return result, nil
}

func (r *Runner) solve(ctx context.Context, opts Options, result *Result) error {
	n := opts.Disks
	b, err := hanoi.NewBoard(n)
	if err != nil {
		return err
	}

	var solveOpts []hanoi.Option
	if opts.Debug {
		solveOpts = append(solveOpts, hanoi.WithLogger(opts.Logger))
	}

	var verifyErr error
	if opts.Snapshots {
		result.Snapshots = append(make([]*hanoi.Board, 0, hanoi.MoveCount(n)+1), b.Clone())
		result.Moves = make([]hanoi.Move, 0, hanoi.MoveCount(n))
	}
	if opts.Snapshots || opts.Verify {
		solveOpts = append(solveOpts, hanoi.WithObserver(func(m hanoi.Move, cur *hanoi.Board) {
			if opts.Verify && verifyErr == nil {
				if err := cur.Verify(n); err != nil {
					verifyErr = fmt.Errorf("after move %d: %w", m.Step, err)
				}
			}
			if opts.Snapshots {
				result.Moves = append(result.Moves, m)
				result.Snapshots = append(result.Snapshots, cur.Clone())
			}
		}))
	}

	observability.Solver().OnSolveStart(ctx, n)
	start := time.Now()
	tr, err := hanoi.Solve(b, n, solveOpts...)
	if err == nil {
		err = verifyErr
	}
	if err == nil && opts.Verify && !b.Solved(n) {
		err = errors.New(errors.ErrCodeInvariantViolation, "board not solved after %d moves: %s", tr.Moves(), b)
	}
	elapsed := time.Since(start)
	observability.Solver().OnSolveComplete(ctx, n, tr.Moves(), elapsed, err)
	if err != nil {
		return err
	}

	result.Trace = tr
	result.Final = b
	result.Stats = Stats{Moves: tr.Moves(), SolveTime: elapsed, Verified: opts.Verify}
	return nil
}

// lookup returns the cached document for key. Read failures and undecodable
// entries count as misses.
func (r *Runner) lookup(ctx context.Context, key string, n int, logger *log.Logger) (pkgio.Document, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		logger.Warn("cache read failed", "key", key, "err", err)
	}
	if err != nil || !hit {
		observability.Cache().OnCacheMiss(ctx, keyTypeTrace)
		return pkgio.Document{}, false
	}

	doc, err := pkgio.ReadJSON(bytes.NewReader(data))
	if err != nil || doc.Disks != n || len(doc.Final) != hanoi.NumPegs {
		logger.Debug("ignoring cached trace", "key", key, "err", err)
		observability.Cache().OnCacheMiss(ctx, keyTypeTrace)
		return pkgio.Document{}, false
	}
	observability.Cache().OnCacheHit(ctx, keyTypeTrace)
	return doc, true
}

func (r *Runner) store(ctx context.Context, key string, result *Result, opts Options) {
	doc := pkgio.NewDocument("", result.Disks, result.Trace, result.Final)
	var buf bytes.Buffer
	if err := pkgio.WriteJSON(&buf, doc); err != nil {
		opts.Logger.Warn("cache encode failed", "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), opts.ttl()); err != nil {
		opts.Logger.Warn("cache write failed", "key", key, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyTypeTrace, buf.Len())
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}
