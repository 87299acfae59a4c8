package hanoi

// Trace is the per-peg load recorded before the first move and after every
// move of a solve. Loads[i][s] is the sum of disk sizes on peg i after s
// moves.
type Trace struct {
	Loads [NumPegs][]int
}

func newTrace(size int) Trace {
	var t Trace
	for i := range t.Loads {
		t.Loads[i] = make([]int, 0, size)
	}
	return t
}

func (t *Trace) record(loads [NumPegs]int) {
	for i, l := range loads {
		t.Loads[i] = append(t.Loads[i], l)
	}
}

// Len returns the number of recorded states, moves + 1.
func (t Trace) Len() int {
	return len(t.Loads[0])
}

// Moves returns the number of moves the trace covers.
func (t Trace) Moves() int {
	if t.Len() == 0 {
		return 0
	}
	return t.Len() - 1
}

// Peg returns the load sequence of peg i.
func (t Trace) Peg(i int) []int {
	return t.Loads[i]
}

// At returns the three peg loads after step moves.
func (t Trace) At(step int) [NumPegs]int {
	var out [NumPegs]int
	for i := range out {
		out[i] = t.Loads[i][step]
	}
	return out
}
