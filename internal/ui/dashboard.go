// Package ui draws the snapshot view in a terminal using termdash.
package ui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/mum4k/termdash"
	"github.com/mum4k/termdash/cell"
	"github.com/mum4k/termdash/container"
	"github.com/mum4k/termdash/container/grid"
	"github.com/mum4k/termdash/keyboard"
	"github.com/mum4k/termdash/linestyle"
	"github.com/mum4k/termdash/terminal/tcell"
	"github.com/mum4k/termdash/terminal/terminalapi"
	"github.com/mum4k/termdash/widgets/barchart"
	"github.com/mum4k/termdash/widgets/text"

	"exchangesnapshot/internal/render"
)

const redrawInterval = 250 * time.Millisecond

// Dashboard holds the widgets of the snapshot view.
type Dashboard struct {
	heading *text.Text
	chart   *barchart.BarChart
	table   *text.Text

	mu sync.Mutex
}

// NewDashboard creates the widgets.
func NewDashboard() (*Dashboard, error) {
	heading, err := text.New(text.WrapAtWords())
	if err != nil {
		return nil, fmt.Errorf("failed to create heading widget: %w", err)
	}
	chart, err := barchart.New(
		barchart.BarColors([]cell.Color{cell.ColorCyan, cell.ColorCyan, cell.ColorCyan}),
		barchart.ValueColors([]cell.Color{cell.ColorBlack, cell.ColorBlack, cell.ColorBlack}),
		barchart.ShowValues(),
		barchart.BarGap(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bar chart: %w", err)
	}
	table, err := text.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create table widget: %w", err)
	}
	return &Dashboard{heading: heading, chart: chart, table: table}, nil
}

// Update redraws the widgets from f.
func (d *Dashboard) Update(f render.Frame) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.heading.Reset()
	if err := d.heading.Write(f.Heading, text.WriteCellOpts(cell.Bold())); err != nil {
		return err
	}
	if f.Loading {
		if err := d.heading.Write("\n" + render.LoadingText); err != nil {
			return err
		}
	}

	labels, values, top := []string{}, []int{}, 1
	if f.Chart != nil {
		labels = f.Chart.Labels
		values, top = barValues(f.Chart.Values)
	}
	if err := d.chart.Values(values, top, barchart.Labels(labels)); err != nil {
		return fmt.Errorf("failed to update bar chart: %w", err)
	}

	d.table.Reset()
	if f.Table != nil {
		if err := d.table.Write(tableText(f.Table)); err != nil {
			return err
		}
	}
	return nil
}

// maxBarValue caps chart values so the float to int conversion stays defined.
const maxBarValue = math.MaxInt32

// barValues rounds volumes to whole units for the chart, clamped to
// [0, maxBarValue]. The returned max is at least 1.
func barValues(volumes []float64) ([]int, int) {
	out := make([]int, len(volumes))
	top := 1
	for i, v := range volumes {
		var n int
		switch {
		case math.IsNaN(v) || v <= 0:
			n = 0
		case v >= maxBarValue:
			n = maxBarValue
		default:
			n = int(math.Round(v))
		}
		out[i] = n
		top = max(top, n)
	}
	return out, top
}

func tableText(t *render.Table) string {
	widths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		widths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, c := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], len(c))
			}
		}
	}

	var b strings.Builder
	writeRow := func(cells []string) {
		for i, c := range cells {
			if i >= len(widths) {
				break
			}
			if i == 0 {
				fmt.Fprintf(&b, "%-*s", widths[i], c)
			} else {
				fmt.Fprintf(&b, "  %*s", widths[i], c)
			}
		}
		b.WriteString("\n")
	}
	writeRow(t.Headers)
	for _, row := range t.Rows {
		writeRow(row)
	}
	return b.String()
}

func (d *Dashboard) layout() ([]container.Option, error) {
	builder := grid.New()
	builder.Add(
		grid.RowHeightPerc(15,
			grid.Widget(d.heading,
				container.Border(linestyle.Light),
			),
		),
		grid.RowHeightPerc(55,
			grid.Widget(d.chart,
				container.Border(linestyle.Light),
				container.BorderTitle(" "+render.ChartTitle+" "),
			),
		),
		grid.RowHeightPerc(29,
			grid.Widget(d.table,
				container.Border(linestyle.Light),
				container.BorderTitle(" "+render.DatasetLabel+" "),
			),
		),
	)
	return builder.Build()
}

// Run draws the dashboard until ctx is done or the user presses q or Esc.
func Run(ctx context.Context, d *Dashboard) error {
	t, err := tcell.New(tcell.ColorMode(terminalapi.ColorMode256))
	if err != nil {
		return fmt.Errorf("failed to initialize terminal: %w", err)
	}
	defer t.Close()

	gridOpts, err := d.layout()
	if err != nil {
		return fmt.Errorf("failed to build grid layout: %w", err)
	}
	c, err := container.New(t, gridOpts...)
	if err != nil {
		return fmt.Errorf("failed to create root container: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	quitter := func(k *terminalapi.Keyboard) {
		if k.Key == 'q' || k.Key == 'Q' || k.Key == keyboard.KeyEsc {
			cancel()
		}
	}
	return termdash.Run(ctx, t, c, termdash.KeyboardSubscriber(quitter), termdash.RedrawInterval(redrawInterval))
}
