package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/hanoi/pkg/hanoi"
)

// ReadJSON decodes a document written by [WriteJSON].
//
// The document must hold exactly three load sequences of equal length, one
// more than the move count. ReadJSON does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode: %w", err)
	}
	if err := doc.validate(); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// ImportJSON reads a JSON document from the file at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func (d Document) validate() error {
	if len(d.Loads) != hanoi.NumPegs {
		return fmt.Errorf("decode: want %d load sequences, got %d", hanoi.NumPegs, len(d.Loads))
	}
	for i, loads := range d.Loads {
		if len(loads) != d.Moves+1 {
			return fmt.Errorf("decode: peg %d has %d loads, want %d", i, len(loads), d.Moves+1)
		}
	}
	return nil
}
