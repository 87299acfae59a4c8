package hanoi

import (
	"fmt"
	"strings"

	"github.com/matzehuels/hanoi/pkg/errors"
)

const (
	// NumPegs is the number of pegs on every board.
	NumPegs = 3

	// MaxDisks is the largest disk count Solve accepts. The trace for n disks
	// holds 3·2^n integers, so larger values are impractical long before they
	// overflow.
	MaxDisks = 30

	// noDisk marks an empty peg top and the "nothing moved yet" state.
	noDisk = 0
)

// Board holds three pegs of disks. It is mutated in place by [Solve].
//
// The zero value is an empty board. A Board is not safe for concurrent use.
type Board struct {
	pegs  [NumPegs][]int // bottom first, so the top is the last element
	loads [NumPegs]int
}

// NewBoard returns the canonical starting position for n disks: every disk
// on peg 0 with size 1 on top, pegs 1 and 2 empty.
func NewBoard(n int) (*Board, error) {
	if err := errors.ValidateDiskCount(n, MaxDisks); err != nil {
		return nil, err
	}
	b := &Board{}
	src := make([]int, n)
	for i := range src {
		src[i] = n - i
	}
	b.pegs[0] = src
	b.loads[0] = TotalWeight(n)
	return b, nil
}

// BoardFromPegs builds a board from pegs listed top to bottom, the same
// order [Board.Peg] returns. The input is copied and not validated; use
// [Board.Verify] for that.
func BoardFromPegs(pegs [NumPegs][]int) *Board {
	b := &Board{}
	for i, p := range pegs {
		stack := make([]int, len(p))
		for j, d := range p {
			stack[len(p)-1-j] = d
			b.loads[i] += d
		}
		b.pegs[i] = stack
	}
	return b
}

// Top returns the size of the top disk on peg i, or 0 if the peg is empty.
func (b *Board) Top(i int) int {
	p := b.pegs[i]
	if len(p) == 0 {
		return noDisk
	}
	return p[len(p)-1]
}

// Tops returns the top disk of every peg, 0 for empty pegs.
func (b *Board) Tops() [NumPegs]int {
	var tops [NumPegs]int
	for i := range tops {
		tops[i] = b.Top(i)
	}
	return tops
}

// Len returns the number of disks on peg i.
func (b *Board) Len(i int) int {
	return len(b.pegs[i])
}

// Peg returns a copy of peg i ordered from top to bottom.
func (b *Board) Peg(i int) []int {
	p := b.pegs[i]
	out := make([]int, len(p))
	for j, d := range p {
		out[len(p)-1-j] = d
	}
	return out
}

// Pegs returns copies of all three pegs, each ordered from top to bottom.
func (b *Board) Pegs() [NumPegs][]int {
	var out [NumPegs][]int
	for i := range out {
		out[i] = b.Peg(i)
	}
	return out
}

// Load returns the sum of the disk sizes on peg i.
func (b *Board) Load(i int) int {
	return b.loads[i]
}

// Loads returns the load of every peg.
func (b *Board) Loads() [NumPegs]int {
	return b.loads
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{loads: b.loads}
	for i, p := range b.pegs {
		c.pegs[i] = append([]int(nil), p...)
	}
	return c
}

// move pops the top disk of peg from and pushes it onto peg to.
func (b *Board) move(from, to int) int {
	src := b.pegs[from]
	disk := src[len(src)-1]
	b.pegs[from] = src[:len(src)-1]
	b.pegs[to] = append(b.pegs[to], disk)
	b.loads[from] -= disk
	b.loads[to] += disk
	return disk
}

// Verify checks that every peg is ordered smallest on top and that the
// board holds each disk 1..n exactly once.
func (b *Board) Verify(n int) error {
	seen := make([]bool, n+1)
	count := 0
	for i, p := range b.pegs {
		for j, d := range p {
			if d < 1 || d > n {
				return errors.New(errors.ErrCodeInvariantViolation, "peg %d holds disk %d outside 1..%d", i, d, n)
			}
			if seen[d] {
				return errors.New(errors.ErrCodeInvariantViolation, "disk %d appears more than once", d)
			}
			seen[d] = true
			count++
			if j > 0 && p[j-1] <= d {
				return errors.New(errors.ErrCodeInvariantViolation, "peg %d: disk %d rests on disk %d", i, d, p[j-1])
			}
		}
	}
	if count != n {
		return errors.New(errors.ErrCodeInvariantViolation, "board holds %d disks, want %d", count, n)
	}
	return nil
}

// Solved reports whether peg 0 is empty and all n disks sit, correctly
// ordered, on a single other peg.
func (b *Board) Solved(n int) bool {
	if b.Len(0) != 0 || (b.Len(1) != n && b.Len(2) != n) {
		return false
	}
	return b.Verify(n) == nil
}

// String formats the board as its three pegs, top to bottom, e.g.
// "([1 2] [] [3])".
func (b *Board) String() string {
	parts := make([]string, NumPegs)
	for i := range parts {
		parts[i] = fmt.Sprint(b.Peg(i))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// TotalWeight returns n(n+1)/2, the combined size of disks 1..n.
func TotalWeight(n int) int {
	return n * (n + 1) / 2
}

// MoveCount returns 2^n - 1, the number of moves needed for n disks.
func MoveCount(n int) int {
	return 1<<n - 1
}
