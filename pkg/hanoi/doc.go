// Package hanoi solves the three-peg Towers of Hanoi puzzle without recursion.
//
// # Overview
//
// Instead of the textbook recursive decomposition, [Solve] inspects the
// current [Board] on every iteration and greedily picks the one disk that
// may move next. The rule only looks at the top disk of each peg and at the
// parity (odd/even size) of those disks:
//
//  1. The source is the first peg, in index order, whose top disk was not
//     the disk moved in the previous iteration and which is either smaller
//     than the largest opposite-parity top on the board, or may move
//     because some peg is empty.
//  2. The destination is the first peg, scanning from index 2 down to 0,
//     that is empty or whose top is larger and of opposite parity.
//
// Disks are identified by their size, 1 through n. Size 0 never exists and
// stands for "empty peg" and for "nothing moved yet".
//
// # Load trace
//
// The solver does not return the move list. It returns a [Trace]: for every
// peg, the sum of the disk sizes resting on it, recorded once before the
// first move and once after every move. A run over n disks makes
// exactly 2^n - 1 moves, so each of the three sequences has 2^n entries, and
// the three values at any step always add up to n(n+1)/2.
//
// # Failure
//
// Both selection scans are bounded to the three pegs. When a scan comes up
// empty, which only happens if the board did not start in the canonical
// configuration, Solve returns an INVARIANT_VIOLATION error from
// [github.com/matzehuels/hanoi/pkg/errors] instead of looping.
//
// # Debugging
//
// Use [WithLogger] to log every intermediate board at debug level, or
// [WithObserver] to receive each [Move] together with the board it produced.
//
// # Usage
//
//	b, _ := hanoi.NewBoard(3)
//	tr, err := hanoi.Solve(b, 3)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(tr.Peg(0)) // [6 5 3 3 0 1 1 0]
package hanoi
