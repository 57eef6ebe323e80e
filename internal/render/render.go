// Package render turns a FetchState into the chart and table shown to users.
package render

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"exchangesnapshot/internal/snapshot"
)

const (
	Heading      = "Exchange Trading Volumes"
	LoadingText  = "Loading..."
	ChartTitle   = "Trading Volume by Exchange"
	DatasetLabel = "Trading Volume (24h)"
)

// TableHeaders are the table columns, in order.
var TableHeaders = []string{"Exchange", "Price (USD)", "Volume 24h"}

// BarChart is keyed by market with 24h volume as the measured value.
type BarChart struct {
	Title        string    `json:"title"`
	DatasetLabel string    `json:"dataset_label"`
	Labels       []string  `json:"labels"`
	Values       []float64 `json:"values"`
}

// Table holds preformatted cells.
type Table struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// Frame is everything a view draws for one FetchState. A Failed state
// yields an empty Frame: no indicator, chart or table.
type Frame struct {
	Heading string    `json:"heading"`
	Loading bool      `json:"loading"`
	Chart   *BarChart `json:"chart,omitempty"`
	Table   *Table    `json:"table,omitempty"`
}

// Build maps a FetchState to a Frame.
func Build(state snapshot.FetchState) Frame {
	f := Frame{Heading: Heading}
	switch state.Phase {
	case snapshot.Loading:
		f.Loading = true
	case snapshot.Ready:
		f.Chart = &BarChart{
			Title:        ChartTitle,
			DatasetLabel: DatasetLabel,
			Labels:       state.Snapshot.Labels(),
			Values:       state.Snapshot.Volumes(),
		}
		rows := make([][]string, 0, state.Snapshot.Len())
		for _, q := range state.Snapshot.Quotes() {
			rows = append(rows, []string{q.Market, FormatDecimal(q.Price), FormatDecimal(q.Volume24Hour)})
		}
		f.Table = &Table{Headers: append([]string(nil), TableHeaders...), Rows: rows}
	}
	return f
}

// FormatDecimal renders v with two decimals.
func FormatDecimal(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

// barWidth is the width of the longest bar in WriteText.
const barWidth = 40

// WriteText writes the frame as plain text: heading, loading indicator or
// chart and table.
func WriteText(w io.Writer, f Frame) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n\n", f.Heading)
	if f.Loading {
		fmt.Fprintf(&b, "%s\n", LoadingText)
	}
	if f.Chart != nil {
		writeChart(&b, f.Chart)
	}
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}
	if f.Table != nil {
		return writeTable(w, f.Table)
	}
	return nil
}

func writeChart(b *strings.Builder, c *BarChart) {
	fmt.Fprintf(b, "%s\n", c.Title)
	fmt.Fprintf(b, "[%s]\n", c.DatasetLabel)

	labelWidth := 0
	top := 0.0
	for i, l := range c.Labels {
		labelWidth = max(labelWidth, len(l))
		if i < len(c.Values) {
			top = max(top, c.Values[i])
		}
	}
	for i, l := range c.Labels {
		var v float64
		if i < len(c.Values) {
			v = c.Values[i]
		}
		n := 0
		if top > 0 {
			n = int(math.Round(v / top * barWidth))
		}
		fmt.Fprintf(b, "%-*s | %s %s\n", labelWidth, l, strings.Repeat("#", n), FormatDecimal(v))
	}
	b.WriteString("\n")
}

func writeTable(w io.Writer, t *Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(t.Headers, "\t")+"\t")
	for _, row := range t.Rows {
		fmt.Fprintln(tw, strings.Join(row, "\t")+"\t")
	}
	return tw.Flush()
}
