// Package io serializes solve results.
//
// # Overview
//
// A [Document] is what leaves the program: the disk count, the number of
// moves, the three load sequences and, when available, the final board. The
// same document can be written in several formats:
//
//   - text: one peg per line, loads separated by spaces (the default)
//   - csv: a header row, then one row per step: step,peg0,peg1,peg2
//   - json, yaml, toml: the document as a structured object
//
// # JSON Format
//
//	{
//	  "run_id": "0b3c…",
//	  "disks": 2,
//	  "moves": 3,
//	  "loads": [[3, 2, 0, 0], [0, 0, 2, 3], [0, 1, 1, 0]],
//	  "final": [[], [1, 2], []]
//	}
//
// run_id and final are optional. [ReadJSON] decodes this format back into a
// Document; the pipeline uses it for cached traces.
//
// # Export
//
// Use [Write] with a [Format] to write to any io.Writer, or [Export] to
// write to a file:
//
//	f, err := io.ParseFormat("yaml")
//	if err != nil {
//	    return err
//	}
//	err = io.Export("trace.yaml", f, doc)
package io
