// Package pipeline runs solves for the CLI and the HTTP API.
//
// A [Runner] wraps [hanoi.Solve] with everything around it: input
// validation, a trace cache, optional per-move verification and snapshot
// capture, run IDs, timing and observability hooks. Both entry points go
// through it so they behave the same.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{Disks: 5})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	doc := result.Document()
//
// # Caching
//
// Traces are deterministic in n, so a cached trace is returned as is. Runs
// that need the individual moves (Debug, Verify, Snapshots) or ask for
// Refresh always solve; their trace is written back to the cache.
package pipeline

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hanoi/pkg/errors"
	"github.com/matzehuels/hanoi/pkg/hanoi"
	pkgio "github.com/matzehuels/hanoi/pkg/io"
)

// DefaultTTL is how long a cached trace lives when Options.TTL is zero.
const DefaultTTL = 24 * time.Hour

// Options configures one run.
type Options struct {
	// Disks is the number of disks n.
	Disks int `json:"disks"`

	// MaxDisks caps Disks. Zero means [hanoi.MaxDisks].
	MaxDisks int `json:"max_disks,omitempty"`

	// Debug logs every move and board at debug level.
	Debug bool `json:"debug,omitempty"`

	// Verify checks the stacking and conservation invariants after every move.
	Verify bool `json:"verify,omitempty"`

	// Snapshots keeps a copy of every board state in the result.
	Snapshots bool `json:"snapshots,omitempty"`

	// Refresh skips the cache read.
	Refresh bool `json:"refresh,omitempty"`

	TTL time.Duration `json:"-"`

	// Logger overrides the runner's logger for this run.
	Logger *log.Logger `json:"-"`
}

// Validate checks Disks against the configured maximum.
func (o Options) Validate() error {
	return errors.ValidateDiskCount(o.Disks, o.limit())
}

func (o Options) limit() int {
	if o.MaxDisks <= 0 || o.MaxDisks > hanoi.MaxDisks {
		return hanoi.MaxDisks
	}
	return o.MaxDisks
}

// needsMoves reports whether the run must execute the solver even when a
// cached trace exists.
func (o Options) needsMoves() bool {
	return o.Debug || o.Verify || o.Snapshots || o.Refresh
}

func (o Options) ttl() time.Duration {
	if o.TTL > 0 {
		return o.TTL
	}
	return DefaultTTL
}

// Result is the outcome of one run.
type Result struct {
	RunID string
	Disks int
	Trace hanoi.Trace

	// Final is the board after the last move.
	Final *hanoi.Board

	// Moves and Snapshots are only filled when Options.Snapshots is set.
	// Snapshots[0] is the starting board and Snapshots[i] the board after
	// Moves[i-1].
	Moves     []hanoi.Move
	Snapshots []*hanoi.Board

	Stats    Stats
	CacheHit bool
}

// Stats holds run statistics.
type Stats struct {
	Moves     int
	SolveTime time.Duration
	Verified  bool
}

// Document converts the result into its serialized form.
func (r *Result) Document() pkgio.Document {
	return pkgio.NewDocument(r.RunID, r.Disks, r.Trace, r.Final)
}
