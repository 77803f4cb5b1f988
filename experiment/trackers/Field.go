// Package trackers implements Trackers that save episodic metrics as
// gob encoded series, PNG plots, and HTML charts
package trackers

import "github.com/samuelfneumann/goppo/experiment/tracker"

// Field selects a named series from episodic Metrics
type Field struct {
	Name  string
	Value func(tracker.Metrics) float64
}

// Available Fields
var (
	Return = Field{"return", func(m tracker.Metrics) float64 {
		return m.Return
	}}
	RewardToGo = Field{"reward_to_go", func(m tracker.Metrics) float64 {
		return m.RewardToGo
	}}
	Advantage = Field{"advantage", func(m tracker.Metrics) float64 {
		return m.Advantage
	}}
	Loss = Field{"loss", func(m tracker.Metrics) float64 {
		return m.Loss
	}}
	CriticLoss = Field{"critic_loss", func(m tracker.Metrics) float64 {
		return m.CriticLoss
	}}
)

// series accumulates one value per episode for each of a set of Fields
type series struct {
	fields []Field
	values [][]float64
}

func newSeries(fields []Field) series {
	return series{fields: fields, values: make([][]float64, len(fields))}
}

func (s *series) track(m tracker.Metrics) {
	for i, f := range s.fields {
		s.values[i] = append(s.values[i], f.Value(m))
	}
}

// episodes returns the number of episodes tracked
func (s *series) episodes() int {
	if len(s.values) == 0 {
		return 0
	}
	return len(s.values[0])
}
