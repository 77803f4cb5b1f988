package experiment

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goppo/buffer/trajectory"
	env "github.com/samuelfneumann/goppo/environment"
	"github.com/samuelfneumann/goppo/estimator"
	"github.com/samuelfneumann/goppo/experiment/tracker"
	"github.com/samuelfneumann/goppo/loss"
	"github.com/samuelfneumann/goppo/policy"
	ts "github.com/samuelfneumann/goppo/timestep"
	"gonum.org/v1/gonum/mat"
)

// Episodic is an Experiment which collects a fixed length rollout in
// each episode and then updates the actor and critic once from it.
// The environment's done signal is ignored: every rollout has exactly
// trainingSize steps.
type Episodic struct {
	env.Environment
	actor  policy.Snapshotter
	critic estimator.Critic

	actorOptimizer  Optimizer
	criticOptimizer Optimizer

	sampler   *policy.Sampler
	estimator estimator.Estimator
	buffer    *trajectory.Buffer

	trainingSize int
	epochs       int

	trackers []tracker.Tracker
	progress Progress
	logger   zerolog.Logger
}

// NewEpisodic creates and returns a new episodic experiment. Each
// episode runs trainingSize steps of e, sampling actions with sampler
// from the distribution predicted by actor. The experiment is run
// for epochs episodes by Run.
func NewEpisodic(e env.Environment, actor policy.Snapshotter,
	critic estimator.Critic, actorOptimizer, criticOptimizer Optimizer,
	sampler *policy.Sampler, est estimator.Estimator, trainingSize,
	epochs int, logger zerolog.Logger, t ...tracker.Tracker) (*Episodic,
	error) {
	if epochs < 1 {
		return nil, fmt.Errorf("newEpisodic: epochs must be positive, "+
			"have(%v)", epochs)
	}

	buffer, err := trajectory.New(trainingSize)
	if err != nil {
		return nil, fmt.Errorf("newEpisodic: %w", err)
	}

	return &Episodic{
		Environment:     e,
		actor:           actor,
		critic:          critic,
		actorOptimizer:  actorOptimizer,
		criticOptimizer: criticOptimizer,
		sampler:         sampler,
		estimator:       est,
		buffer:          buffer,
		trainingSize:    trainingSize,
		epochs:          epochs,
		trackers:        t,
		logger:          logger.With().Str("component", "experiment").Logger(),
	}, nil
}

// Register registers a tracker.Tracker with the Experiment so that
// the metrics of each episode are tracked and saved
func (e *Episodic) Register(t tracker.Tracker) {
	e.trackers = append(e.trackers, t)
}

// SetProgress sets the Progress notified at the end of each episode
func (e *Episodic) SetProgress(p Progress) {
	e.progress = p
}

// Buffer returns the trajectory buffer of the Experiment
func (e *Episodic) Buffer() *trajectory.Buffer {
	return e.buffer
}

// RunEpisode runs a single episode of the experiment: a rollout of
// trainingSize steps followed by one update of the actor and critic.
// The metrics of the episode are appended to state. The trajectory
// buffer is empty when RunEpisode returns, whether or not it fails.
func (e *Episodic) RunEpisode(state *State) error {
	defer e.buffer.Clear()

	step, err := e.Reset()
	if err != nil {
		return fmt.Errorf("runEpisode: could not reset environment: %w", err)
	}

	// Rollout
	var episodeReturn float64
	for i := 0; i < e.trainingSize; i++ {
		next, err := e.step(step)
		if err != nil {
			return fmt.Errorf("runEpisode: step %v: %w", i, err)
		}
		episodeReturn += next.Reward
		step = next
	}

	// The snapshot is taken before any update in this episode, so it
	// matches the policy which generated the rollout
	old, err := e.actor.Snapshot()
	if err != nil {
		return fmt.Errorf("runEpisode: %w", err)
	}

	toGo, err := e.estimator.RewardToGo(e.buffer, 0)
	if err != nil {
		return fmt.Errorf("runEpisode: %w", err)
	}
	advantage, err := e.estimator.Advantage(e.buffer, e.critic, 0)
	if err != nil {
		return fmt.Errorf("runEpisode: %w", err)
	}

	ratios := make([]float64, e.buffer.Len())
	for t := range ratios {
		transition, err := e.buffer.At(t)
		if err != nil {
			return fmt.Errorf("runEpisode: %w", err)
		}
		ratios[t], err = policy.StateRatio(e.actor, old, transition.State,
			transition.Action)
		if err != nil {
			return fmt.Errorf("runEpisode: timestep %v: %w", t, err)
		}
	}

	actorObjective := loss.Actor(advantage, ratios)
	criticLoss, err := loss.Critic(e.buffer, e.estimator)
	if err != nil {
		return fmt.Errorf("runEpisode: %w", err)
	}
	total := loss.Total(actorObjective, criticLoss)

	if err := e.update(actorObjective, criticLoss); err != nil {
		return fmt.Errorf("runEpisode: %w", err)
	}

	if err := e.Render(); err != nil {
		return fmt.Errorf("runEpisode: could not render: %w", err)
	}

	state.record(toGo, advantage, total)
	e.track(tracker.Metrics{
		Episode:    state.Episode - 1,
		Steps:      e.buffer.Len(),
		Return:     episodeReturn,
		RewardToGo: toGo,
		Advantage:  advantage,
		Loss:       total,
		CriticLoss: criticLoss,
	})

	e.logger.Info().
		Int("episode", state.Episode-1).
		Float64("return", episodeReturn).
		Float64("reward_to_go", toGo).
		Float64("advantage", advantage).
		Float64("critic_loss", criticLoss).
		Float64("loss", total).
		Msg("episode complete")

	return nil
}

// step selects an action in the current timestep, takes it in the
// environment, and stores the resulting transition
func (e *Episodic) step(current ts.TimeStep) (ts.TimeStep, error) {
	// Copy the state, environments may reuse their observation vectors
	obs := mat.Col(nil, 0, current.Observation)
	params, err := e.actor.Forward(obs)
	if err != nil {
		return ts.TimeStep{}, err
	}

	action, err := e.sampler.Sample(params)
	if err != nil {
		return ts.TimeStep{}, err
	}

	// The done signal is ignored, rollouts have a fixed length
	next, _, err := e.Step(mat.NewVecDense(1, []float64{action}))
	if err != nil {
		return ts.TimeStep{}, err
	}

	state := mat.NewVecDense(len(obs), obs)
	if err := e.buffer.Append(ts.NewTransition(state, action, next)); err != nil {
		return ts.TimeStep{}, err
	}

	e.logger.Debug().
		Int("step", next.Number).
		Float64("mean", params.Mean).
		Float64("std", params.Std).
		Float64("action", action).
		Float64("reward", next.Reward).
		Msg("step")

	return next, nil
}

// update applies one optimizer step to the actor, if it has an
// objective, and one to the critic
func (e *Episodic) update(actorObjective loss.Objective,
	criticLoss float64) error {
	if actorObjective.Present() {
		actorLoss, err := actorObjective.Float64()
		if err != nil {
			return fmt.Errorf("update: %w", err)
		}
		if err := optimize(e.actorOptimizer, actorLoss); err != nil {
			return fmt.Errorf("update: actor: %w", err)
		}
	} else {
		e.logger.Warn().Msg("actor objective absent, skipping actor update")
	}

	if err := optimize(e.criticOptimizer, criticLoss); err != nil {
		return fmt.Errorf("update: critic: %w", err)
	}
	return nil
}

// optimize runs a single update of o with loss
func optimize(o Optimizer, loss float64) error {
	if err := o.ZeroGrad(); err != nil {
		return err
	}
	if err := o.Backward(loss); err != nil {
		return err
	}
	return o.Step()
}

// Run runs the experiment for all epochs
func (e *Episodic) Run(state *State) error {
	for i := 0; i < e.epochs; i++ {
		if err := e.RunEpisode(state); err != nil {
			return fmt.Errorf("run: episode %v: %w", state.Episode, err)
		}
		if e.progress != nil {
			e.progress.Increment()
		}
	}
	return nil
}

// Save saves all the data tracked by the Trackers to disk
func (e *Episodic) Save() error {
	for _, t := range e.trackers {
		if err := t.Save(); err != nil {
			return fmt.Errorf("save: %w", err)
		}
	}
	return nil
}

// track tracks the metrics of an episode in each Tracker
func (e *Episodic) track(m tracker.Metrics) {
	for _, t := range e.trackers {
		t.Track(m)
	}
}
