package hanoi

import (
	"github.com/charmbracelet/log"

	"github.com/matzehuels/hanoi/pkg/errors"
)

// Move describes one applied move. Step counts from 1.
type Move struct {
	Step int `json:"step"`
	Disk int `json:"disk"`
	From int `json:"from"`
	To   int `json:"to"`
}

// Option configures a [Solve] call.
type Option func(*solver)

type solver struct {
	logger   *log.Logger
	observer func(Move, *Board)
}

// WithLogger logs every move and the resulting board at debug level.
func WithLogger(l *log.Logger) Option { return func(s *solver) { s.logger = l } }

// WithObserver calls fn after every move with the move and the board it
// produced. The board is the live board being solved; clone it to keep it.
func WithObserver(fn func(Move, *Board)) Option { return func(s *solver) { s.observer = fn } }

// Solve moves all n disks off peg 0 of b and returns the load trace.
//
// b must hold the canonical starting position for n disks (see [NewBoard]);
// it is mutated in place and ends with every disk stacked on peg 1 or 2.
// Solve makes exactly [MoveCount](n) moves. It returns an INVALID_ARGUMENT
// error for n outside 1..[MaxDisks] and an INVARIANT_VIOLATION error if a
// move cannot be selected, in which case the returned trace is empty.
func Solve(b *Board, n int, opts ...Option) (Trace, error) {
	if err := errors.ValidateDiskCount(n, MaxDisks); err != nil {
		return Trace{}, err
	}
	var s solver
	for _, opt := range opts {
		opt(&s)
	}

	moves := MoveCount(n)
	tr := newTrace(moves + 1)
	tr.record(b.Loads())

	lastMoved := noDisk
	for step := 1; step <= moves; step++ {
		tops := b.Tops()

		from, ok := selectSource(tops, lastMoved)
		if !ok {
			return Trace{}, errors.New(errors.ErrCodeInvariantViolation,
				"no legal source peg at move %d of %d: %s", step, moves, b)
		}
		disk := tops[from]
		lastMoved = disk

		to, ok := selectDestination(tops, disk)
		if !ok {
			return Trace{}, errors.New(errors.ErrCodeInvariantViolation,
				"no legal destination peg for disk %d at move %d of %d: %s", disk, step, moves, b)
		}

		b.move(from, to)
		tr.record(b.Loads())

		if s.logger != nil {
			s.logger.Debug("move", "step", step, "disk", disk, "from", from, "to", to, "board", b)
		}
		if s.observer != nil {
			s.observer(Move{Step: step, Disk: disk, From: from, To: to}, b)
		}
	}
	return tr, nil
}

// selectSource returns the first peg whose top disk may move.
//
// A peg qualifies when it is not empty, its top was not moved last, and
// either some peg is empty or its top is smaller than the largest top of
// opposite parity.
func selectSource(tops [NumPegs]int, lastMoved int) (int, bool) {
	anyEmpty := false
	for _, t := range tops {
		if t == noDisk {
			anyEmpty = true
			break
		}
	}

	for j, top := range tops {
		if top == noDisk || top == lastMoved {
			continue
		}
		if anyEmpty {
			return j, true
		}
		if bound, ok := maxOppositeParity(tops, top); ok && top < bound {
			return j, true
		}
	}
	return 0, false
}

// maxOppositeParity returns the largest top whose parity differs from disk.
// An empty peg counts as 0, which is even. ok is false when every top shares
// the parity of disk.
func maxOppositeParity(tops [NumPegs]int, disk int) (best int, ok bool) {
	for _, t := range tops {
		if t%2 == disk%2 {
			continue
		}
		if !ok || t > best {
			best, ok = t, true
		}
	}
	return best, ok
}

// selectDestination scans pegs from the highest index down and returns the
// first that is empty or whose top is larger than disk and of opposite parity.
func selectDestination(tops [NumPegs]int, disk int) (int, bool) {
	for k := NumPegs - 1; k >= 0; k-- {
		t := tops[k]
		if t == noDisk || (t%2 != disk%2 && disk < t) {
			return k, true
		}
	}
	return 0, false
}
