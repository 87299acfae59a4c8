package io

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/hanoi/pkg/errors"
)

// Format names an output encoding.
type Format string

const (
	FormatText  Format = "text"
	FormatCSV   Format = "csv"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatTOML  Format = "toml"
	FormatTable Format = "table"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatText, FormatCSV, FormatJSON, FormatYAML, FormatTOML, FormatTable}

var contentTypes = map[Format]string{
	FormatText:  "text/plain; charset=utf-8",
	FormatCSV:   "text/csv; charset=utf-8",
	FormatJSON:  "application/json",
	FormatYAML:  "application/yaml",
	FormatTOML:  "application/toml",
	FormatTable: "text/plain; charset=utf-8",
}

// ParseFormat validates a format name. The empty string selects text.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	if _, ok := contentTypes[f]; !ok {
		return "", errors.New(errors.ErrCodeInvalidFormat,
			"unknown format %q (want one of %s)", s, formatList())
	}
	return f, nil
}

// ContentType returns the MIME type served for f.
func (f Format) ContentType() string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// Write encodes doc to w in format f.
func Write(w io.Writer, f Format, doc Document) error {
	switch f {
	case FormatText, "":
		return WriteText(w, doc)
	case FormatCSV:
		return WriteCSV(w, doc)
	case FormatJSON:
		return WriteJSON(w, doc)
	case FormatYAML:
		return WriteYAML(w, doc)
	case FormatTOML:
		return WriteTOML(w, doc)
	case FormatTable:
		return WriteTable(w, doc)
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
	}
}

// WriteText writes one line per peg with the loads separated by spaces.
func WriteText(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	var buf []byte
	for _, loads := range doc.Loads {
		buf = buf[:0]
		for i, l := range loads {
			if i > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, int64(l), 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	return bw.Flush()
}

// WriteCSV writes a header row followed by one row per recorded state.
func WriteCSV(w io.Writer, doc Document) error {
	cw := csv.NewWriter(w)
	header := []string{"step"}
	for i := range doc.Loads {
		header = append(header, "peg"+strconv.Itoa(i))
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	row := make([]string, len(header))
	for s := 0; s < doc.Steps(); s++ {
		row[0] = strconv.Itoa(s)
		for i, loads := range doc.Loads {
			row[i+1] = strconv.Itoa(loads[s])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write step %d: %w", s, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteJSON encodes doc as indented JSON. The output can be read back with
// [ReadJSON].
func WriteJSON(w io.Writer, doc Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML encodes doc as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

// WriteTOML encodes doc as TOML.
func WriteTOML(w io.Writer, doc Document) error {
	if err := toml.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

var (
	tableHeader = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCell   = lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)
)

// WriteTable renders the trace as a bordered terminal table with one row
// per recorded state.
func WriteTable(w io.Writer, doc Document) error {
	headers := []string{"step"}
	for i := range doc.Loads {
		headers = append(headers, "peg "+strconv.Itoa(i))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeader
			}
			return tableCell
		})
	for s := 0; s < doc.Steps(); s++ {
		row := []string{strconv.Itoa(s)}
		for _, loads := range doc.Loads {
			row = append(row, strconv.Itoa(loads[s]))
		}
		t.Row(row...)
	}

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Export writes doc to a file at path in format f.
func Export(path string, f Format, doc Document) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(out, f, doc); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
