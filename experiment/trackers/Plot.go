package trackers

import (
	"fmt"

	"github.com/samuelfneumann/goppo/experiment/tracker"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// Plot tracks a number of Fields of the episodic metrics of an
// experiment and saves them as learning curves to a single image. The
// image format is determined by the extension of the filename, e.g.
// .png or .svg.
type Plot struct {
	series
	title    string
	filename string
}

// NewPlot creates and returns a new *Plot Tracker saving the learning
// curves of fields to filename
func NewPlot(title, filename string, fields ...Field) *Plot {
	return &Plot{newSeries(fields), title, filename}
}

// Track records the Fields of m
func (p *Plot) Track(m tracker.Metrics) {
	p.track(m)
}

// Save draws the learning curves and saves them to disk
func (p *Plot) Save() error {
	plt := plot.New()
	plt.Title.Text = p.title
	plt.X.Label.Text = "Episodes"
	plt.Y.Label.Text = "Value"

	for i, f := range p.fields {
		pts := make(plotter.XYs, len(p.values[i]))
		for j, v := range p.values[i] {
			pts[j].X = float64(j)
			pts[j].Y = v
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("save: could not create line for %v: %w",
				f.Name, err)
		}
		line.Color = plotutil.Color(i)

		plt.Add(line)
		plt.Legend.Add(f.Name, line)
	}

	if err := plt.Save(6*vg.Inch, 4*vg.Inch, p.filename); err != nil {
		return fmt.Errorf("save: could not save plot: %w", err)
	}
	return nil
}
