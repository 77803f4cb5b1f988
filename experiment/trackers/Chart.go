package trackers

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/samuelfneumann/goppo/experiment/tracker"
)

// Chart tracks a number of Fields of the episodic metrics of an
// experiment and saves them as an interactive HTML line chart
type Chart struct {
	series
	title    string
	filename string
}

// NewChart creates and returns a new *Chart Tracker saving the
// learning curves of fields to the HTML file filename
func NewChart(title, filename string, fields ...Field) *Chart {
	return &Chart{newSeries(fields), title, filename}
}

// Track records the Fields of m
func (c *Chart) Track(m tracker.Metrics) {
	c.track(m)
}

// Save renders the chart and saves it to disk
func (c *Chart) Save() (err error) {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: c.title,
		}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Episode"}),
	)

	episodes := make([]string, c.episodes())
	for i := range episodes {
		episodes[i] = strconv.Itoa(i)
	}
	line.SetXAxis(episodes)

	for i, f := range c.fields {
		items := make([]opts.LineData, len(c.values[i]))
		for j, v := range c.values[i] {
			items[j] = opts.LineData{Value: v}
		}
		line.AddSeries(f.Name, items)
	}

	file, err := os.Create(c.filename)
	if err != nil {
		return fmt.Errorf("save: could not open save file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("save: could not close save file: %w", closeErr)
		}
	}()

	page := components.NewPage()
	page.AddCharts(line)
	if err := page.Render(file); err != nil {
		return fmt.Errorf("save: could not render chart: %w", err)
	}
	return nil
}
