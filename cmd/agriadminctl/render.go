package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agribizboost/agriadmin/internal/views"
)

func table(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, r := range rows {
		fmt.Fprintln(tw, strings.Join(r, "\t"))
	}
	tw.Flush()
}

func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n%s\n", title, strings.Repeat("-", len(title)))
}

// bars prints a horizontal bar chart scaled to 40 columns.
func bars(w io.Writer, data []views.Bar) {
	var top int64
	width := 0
	for _, b := range data {
		top = max(top, b.Value)
		width = max(width, len(b.Label))
	}
	for _, b := range data {
		n := 0
		if top > 0 {
			n = int(b.Value * 40 / top)
		}
		fmt.Fprintf(w, "%-*s  %s %d\n", width, b.Label, strings.Repeat("#", n), b.Value)
	}
}

func etb(f float64) string {
	neg := f < 0
	if neg {
		f = -f
	}
	s := strconv.FormatInt(int64(f+0.5), 10)
	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if neg {
		return "-ETB " + b.String()
	}
	return "ETB " + b.String()
}

func pct(f float64) string { return strconv.FormatFloat(f, 'f', 1, 64) + "%" }

func when(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "never"
	}
	return t.Local().Format("2006-01-02 15:04")
}

func yes(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
