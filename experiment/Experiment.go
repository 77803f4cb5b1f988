// Package experiment implements the training loop of an agent on an
// environment
package experiment

import "github.com/samuelfneumann/goppo/experiment/tracker"

// Experiment runs an agent on an environment and tracks the data
// generated while doing so
type Experiment interface {
	RunEpisode(state *State) error
	Run(state *State) error
	Register(t tracker.Tracker)
	Save() error
}

// Optimizer updates a set of parameters given a scalar loss
type Optimizer interface {
	ZeroGrad() error
	Backward(loss float64) error
	Step() error
}

// Progress is notified once at the end of each episode
type Progress interface {
	Increment()
}

// State holds the episodic metrics of a training run. Each completed
// episode appends exactly one value to each sequence.
type State struct {
	Episode     int
	RewardsToGo []float64
	Advantages  []float64
	Losses      []float64
}

// NewState returns a new State with room for epochs episodes
func NewState(epochs int) *State {
	if epochs < 0 {
		epochs = 0
	}
	return &State{
		RewardsToGo: make([]float64, 0, epochs),
		Advantages:  make([]float64, 0, epochs),
		Losses:      make([]float64, 0, epochs),
	}
}

// record appends the metrics of a single episode to the State
func (s *State) record(rewardToGo, advantage, loss float64) {
	s.RewardsToGo = append(s.RewardsToGo, rewardToGo)
	s.Advantages = append(s.Advantages, advantage)
	s.Losses = append(s.Losses, loss)
	s.Episode++
}
