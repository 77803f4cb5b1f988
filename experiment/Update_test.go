package experiment

import (
	"math"
	"testing"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goppo/agent/ppo"
	"github.com/samuelfneumann/goppo/config"
	"github.com/samuelfneumann/goppo/estimator"
	"github.com/samuelfneumann/goppo/network"
	"github.com/samuelfneumann/goppo/policy"
)

// weights returns a copy of the learnable weights of net
func weights(t *testing.T, net *network.MLP) [][]float64 {
	t.Helper()
	var w [][]float64
	for _, node := range net.Learnables() {
		data, ok := node.Value().Data().([]float64)
		if !ok {
			t.Fatalf("weights: unexpected data type %T", node.Value().Data())
		}
		w = append(w, append([]float64(nil), data...))
	}
	return w
}

func equalWeights(a, b [][]float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				return false
			}
		}
	}
	return true
}

// The losses carry no gradient to the networks, so an episode leaves
// both the actor and the critic unchanged, whichever parameters the
// critic optimizer is bound to
func TestRunEpisodeLeavesWeightsUnchanged(t *testing.T) {
	for _, alias := range []bool{false, true} {
		c := config.Default()
		c.AliasCriticOptimizer = alias

		agent, err := ppo.New(c, c.InputSize)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		defer agent.Close()

		est, err := estimator.New(c.Gamma, c.Discounting)
		if err != nil {
			t.Fatal(err)
		}
		exp, err := NewEpisodic(&constEnv{}, agent.Actor, agent.Critic,
			agent.ActorOptimizer, agent.CriticOptimizer, policy.NewSampler(3),
			est, 5, 1, zerolog.Nop())
		if err != nil {
			t.Fatalf("newEpisodic: %v", err)
		}

		actorBefore := weights(t, agent.Actor.Network())
		criticBefore := weights(t, agent.Critic.Network())

		state := NewState(1)
		if err := exp.RunEpisode(state); err != nil {
			t.Fatalf("runEpisode(alias=%v): %v", alias, err)
		}

		if !equalWeights(actorBefore, weights(t, agent.Actor.Network())) {
			t.Errorf("runEpisode(alias=%v): actor weights changed", alias)
		}
		if !equalWeights(criticBefore, weights(t, agent.Critic.Network())) {
			t.Errorf("runEpisode(alias=%v): critic weights changed", alias)
		}

		if n := agent.ActorOptimizer.Steps(); n != 0 {
			t.Errorf("actor optimizer: want 0 steps have %v", n)
		}
		if n := agent.CriticOptimizer.Steps(); n != 1 {
			t.Errorf("critic optimizer: want 1 step have %v", n)
		}
		if loss := agent.CriticOptimizer.Loss(); math.Abs(loss+state.Losses[0]) > 1e-12 {
			t.Errorf("critic optimizer: want loss %v have %v",
				-state.Losses[0], loss)
		}
	}
}
