package report

import (
	"fmt"
	"image/color"
	"io"

	"github.com/gehtsoft-usa/go_ballisticsolver"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

const chartWidth = 6 * vg.Inch
const chartHeight = 4 * vg.Inch

func newChart(title string, results []go_ballisticsolver.TrajectoryResult, opts Options) (*plot.Plot, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("nothing to draw")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Distance, m"
	p.Y.Label.Text = fmt.Sprintf("Correction, %s", opts.CorrectionUnit)
	p.X.Min = 0
	p.Add(plotter.NewGrid())

	vertical := make(plotter.XYs, len(results))
	horizontal := make(plotter.XYs, len(results))
	for i, r := range results {
		vertical[i].X = float64(r.Distance)
		vertical[i].Y = float64(r.VerticalClicks) * opts.ClickValue
		horizontal[i].X = float64(r.Distance)
		horizontal[i].Y = float64(r.HorizontalClicks) * opts.ClickValue
	}

	elevationLine, err := plotter.NewLine(vertical)
	if err != nil {
		return nil, fmt.Errorf("failed to draw elevation: %w", err)
	}
	elevationLine.Color = color.RGBA{R: 200, A: 255}

	windageLine, err := plotter.NewLine(horizontal)
	if err != nil {
		return nil, fmt.Errorf("failed to draw windage: %w", err)
	}
	windageLine.Color = color.RGBA{B: 200, A: 255}
	windageLine.Dashes = []vg.Length{vg.Points(5), vg.Points(5)}

	p.Add(elevationLine, windageLine)
	p.Legend.Add("elevation", elevationLine)
	p.Legend.Add("windage", windageLine)
	p.Legend.Top = true
	return p, nil
}

//Chart saves the chart of the corrections over the distance into the file.
//The format is taken from the file extension (png, svg, pdf...).
func Chart(title string, results []go_ballisticsolver.TrajectoryResult, opts Options, path string) error {
	p, err := newChart(title, results, opts)
	if err != nil {
		return err
	}
	if err = p.Save(chartWidth, chartHeight, path); err != nil {
		return fmt.Errorf("failed to save chart: %w", err)
	}
	return nil
}

//WriteChart writes the chart of the corrections in the format specified
func WriteChart(w io.Writer, title string, results []go_ballisticsolver.TrajectoryResult, opts Options, format string) error {
	p, err := newChart(title, results, opts)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(chartWidth, chartHeight, format)
	if err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}
