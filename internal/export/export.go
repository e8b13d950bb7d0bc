// Package export turns in-memory records into downloadable CSV, JSON and
// plain-text blobs.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Format is a blob encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
	FormatText Format = "txt"
)

// ParseFormat accepts csv, json, txt or text.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "csv":
		return FormatCSV, nil
	case "json":
		return FormatJSON, nil
	case "txt", "text":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown export format %q (want csv, json or txt)", s)
}

// Table is a header plus rows of equal width.
type Table struct {
	Header []string
	Rows   [][]string
}

// CSV encodes t as RFC 4180: one line for the header, one per row.
// Fields containing commas, quotes or newlines are quoted.
func CSV(t Table) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(t.Header); err != nil {
		return nil, err
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", i, len(row), len(t.Header))
		}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// JSON pretty-prints v with two-space indentation.
func JSON(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

// Line is one "label: value" entry of a report section.
type Line struct {
	Label string
	Value string
}

// Section is a titled block of lines.
type Section struct {
	Title string
	Lines []Line
}

// Report is a sectioned plain-text document.
type Report struct {
	Title     string
	Generated time.Time
	Sections  []Section
}

// Text renders r. Labels within a section are padded to a common width.
func Text(r Report) []byte {
	var b strings.Builder
	b.WriteString(r.Title)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat("=", len(r.Title)))
	b.WriteByte('\n')
	if !r.Generated.IsZero() {
		fmt.Fprintf(&b, "Generated: %s\n", r.Generated.UTC().Format(time.RFC3339))
	}

	for _, s := range r.Sections {
		b.WriteByte('\n')
		b.WriteString(s.Title)
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("-", len(s.Title)))
		b.WriteByte('\n')

		width := 0
		for _, l := range s.Lines {
			width = max(width, len(l.Label))
		}
		for _, l := range s.Lines {
			fmt.Fprintf(&b, "%-*s  %s\n", width+1, l.Label+":", l.Value)
		}
	}
	return []byte(b.String())
}
