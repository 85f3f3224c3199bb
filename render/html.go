package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/CodeStranger-Fred/efemaze/agent"
	"github.com/CodeStranger-Fred/efemaze/maze"
)

// Cell codes on the maze chart.
const (
	codeFree = iota
	codeWall
	codePath
	codeStart
	codeGoal
)

// HTML writes a go-echarts page for one finished run: the maze with the path,
// every FrameEvery-th belief snapshot and the chosen EFE per step.
type HTML struct {
	Title      string
	FrameEvery int
}

func (h HTML) title() string {
	if h.Title == "" {
		return "efemaze"
	}
	return h.Title
}

func (h HTML) Render(w io.Writer, g *maze.Grid, res *agent.Result) error {
	page := components.NewPage()
	page.PageTitle = h.title()
	page.AddCharts(mazeChart(h.title(), g, res))

	every := max(h.FrameEvery, 1)
	for i := 0; i < len(res.Beliefs); i += every {
		page.AddCharts(beliefChart(i, res.Beliefs[i]))
	}
	if len(res.Trace) > 0 {
		page.AddCharts(efeChart(res.Trace))
	}
	return page.Render(w)
}

// WriteFile renders into path, creating its directory.
func (h HTML) WriteFile(path string, g *maze.Grid, res *agent.Result) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	if err := h.Render(f, g, res); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

func axisLabels(n int, reversed bool) []string {
	out := make([]string, n)
	for i := range out {
		if reversed {
			out[i] = fmt.Sprint(n - 1 - i)
		} else {
			out[i] = fmt.Sprint(i)
		}
	}
	return out
}

// heatMap lays a rows×cols matrix out with row 0 at the top.
func heatMap(title string, m mat.Matrix, lo, hi float64, colors []string) *charts.HeatMap {
	rows, cols := m.Dims()
	hm := charts.NewHeatMap()
	hm.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
		charts.WithXAxisOpts(opts.XAxis{
			Type:      "category",
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:      "category",
			Data:      axisLabels(rows, true),
			SplitArea: &opts.SplitArea{Show: opts.Bool(true)},
		}),
		charts.WithVisualMapOpts(opts.VisualMap{
			Calculable: opts.Bool(true),
			Min:        float32(lo),
			Max:        float32(hi),
			InRange:    &opts.VisualMapInRange{Color: colors},
		}),
	)

	items := make([]opts.HeatMapData, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			items = append(items, opts.HeatMapData{Value: [3]interface{}{c, rows - 1 - r, m.At(r, c)}})
		}
	}
	hm.SetXAxis(axisLabels(cols, false)).AddSeries(title, items)
	return hm
}

func mazeChart(title string, g *maze.Grid, res *agent.Result) *charts.HeatMap {
	m := mat.NewDense(g.Rows(), g.Cols(), nil)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			if !g.IsFree(maze.Position{Row: r, Col: c}) {
				m.Set(r, c, codeWall)
			}
		}
	}
	for _, p := range res.Path {
		m.Set(p.Row, p.Col, codePath)
	}
	m.Set(res.Start.Row, res.Start.Col, codeStart)
	m.Set(res.Goal.Row, res.Goal.Col, codeGoal)
	return heatMap(fmt.Sprintf("%s: %s in %d steps", title, res.Status, res.Steps), m, codeFree, codeGoal,
		[]string{"#f5f5f5", "#333333", "#f2c14e", "#3a86ff", "#e63946"})
}

func beliefChart(step int, b *mat.Dense) *charts.HeatMap {
	lo, hi := mat.Min(b), mat.Max(b)
	if hi <= lo {
		hi = lo + 1
	}
	return heatMap(fmt.Sprintf("Belief step %d", step), b, lo, hi,
		[]string{"#313695", "#74add1", "#ffffbf", "#f46d43", "#a50026"})
}

func efeChart(trace []agent.StepTrace) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Chosen EFE per step"}),
		charts.WithInitializationOpts(opts.Initialization{Theme: "shine"}),
	)
	steps := make([]string, 0, len(trace))
	items := make([]opts.LineData, 0, len(trace))
	for i, tr := range trace {
		steps = append(steps, fmt.Sprint(i+1))
		if tr.Stalled {
			items = append(items, opts.LineData{Value: "-"})
			continue
		}
		items = append(items, opts.LineData{Value: tr.EFE})
	}
	line.SetXAxis(steps).AddSeries("EFE", items)
	return line
}

// Serve exposes dir over HTTP on ln until ctx is done.
func Serve(ctx context.Context, ln net.Listener, dir string, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	srv := &http.Server{
		Handler:           http.FileServer(http.Dir(dir)),
		ReadHeaderTimeout: 5 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	logger.Info("serving charts", zap.String("url", "http://"+ln.Addr().String()), zap.String("dir", dir))

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
