package io

import (
	"github.com/matzehuels/hanoi/pkg/hanoi"
)

// Document is the serialized form of a solve.
type Document struct {
	RunID string  `json:"run_id,omitempty" yaml:"run_id,omitempty" toml:"run_id,omitempty"`
	Disks int     `json:"disks" yaml:"disks" toml:"disks"`
	Moves int     `json:"moves" yaml:"moves" toml:"moves"`
	Loads [][]int `json:"loads" yaml:"loads" toml:"loads"`
	Final [][]int `json:"final,omitempty" yaml:"final,omitempty" toml:"final,omitempty"`
}

// NewDocument builds a document from a trace. final may be nil.
func NewDocument(runID string, n int, tr hanoi.Trace, final *hanoi.Board) Document {
	doc := Document{
		RunID: runID,
		Disks: n,
		Moves: tr.Moves(),
		Loads: make([][]int, hanoi.NumPegs),
	}
	for i := range doc.Loads {
		doc.Loads[i] = tr.Peg(i)
	}
	if final != nil {
		pegs := final.Pegs()
		doc.Final = pegs[:]
	}
	return doc
}

// Trace rebuilds the load trace held by the document.
func (d Document) Trace() hanoi.Trace {
	var tr hanoi.Trace
	for i := 0; i < hanoi.NumPegs && i < len(d.Loads); i++ {
		tr.Loads[i] = d.Loads[i]
	}
	return tr
}

// Steps returns the number of recorded states.
func (d Document) Steps() int {
	if len(d.Loads) == 0 {
		return 0
	}
	return len(d.Loads[0])
}
