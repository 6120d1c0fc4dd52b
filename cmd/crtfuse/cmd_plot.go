package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/spf13/cobra"

	"github.com/katalvlaran/crtfuse/birkhoff"
)

var (
	plotInput string
	plotOut   string
)

func newPlotCmd() *cobra.Command {
	plotInput, plotOut = "", "sinkhorn.html"
	cmd := &cobra.Command{
		Use:   "plot",
		Short: "Render the Sinkhorn convergence trace of a matrix as HTML",
		Args:  cobra.NoArgs,
		RunE:  runPlot,
	}
	cmd.Flags().StringVar(&plotInput, "input", "", "JSON file holding an array of rows")
	cmd.Flags().StringVar(&plotOut, "out", plotOut, "output HTML path")
	cmd.Flags().IntVar(&projectMaxIter, "max-iter", 0, "override birkhoff.max_iterations")
	cmd.Flags().Float64Var(&projectTol, "tol", 0, "override birkhoff.tolerance")

	return cmd
}

func runPlot(cmd *cobra.Command, args []string) error {
	m, err := readMatrix(plotInput)
	if err != nil {
		return err
	}
	p, err := projector(birkhoff.WithTrace())
	if err != nil {
		return err
	}
	res, err := p.Project(m)
	if err != nil {
		return err
	}

	page := components.NewPage().SetPageTitle("Sinkhorn convergence")
	page.AddCharts(traceChart(res, p.Tolerance()))

	f, err := os.Create(plotOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err = page.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", plotOut, err)
	}

	return writeJSON(cmd.OutOrStdout(), map[string]any{
		"out":        plotOut,
		"iterations": res.Iterations,
		"converged":  res.Converged,
	})
}

// traceChart plots the max row/column deviation per iteration with the
// tolerance as a flat reference series.
func traceChart(res *birkhoff.Result, tol float64) *charts.Line {
	xs := make([]string, len(res.Trace))
	dev := make([]opts.LineData, len(res.Trace))
	ref := make([]opts.LineData, len(res.Trace))
	for i, d := range res.Trace {
		xs[i] = strconv.Itoa(i + 1)
		dev[i] = opts.LineData{Value: d}
		ref[i] = opts.LineData{Value: tol}
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title:    "Sinkhorn-Knopp deviation",
			Subtitle: fmt.Sprintf("%d iterations, converged=%t", res.Iterations, res.Converged),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "iteration"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "max |sum − 1|", Type: "log"}),
		charts.WithDataZoomOpts(opts.DataZoom{Type: "slider"}),
	)
	line.SetXAxis(xs).
		AddSeries("deviation", dev).
		AddSeries("tolerance", ref)

	return line
}
