// Command goppo trains a proximal policy optimization agent on the
// inverted pendulum swing-up task
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goppo/agent/ppo"
	"github.com/samuelfneumann/goppo/config"
	env "github.com/samuelfneumann/goppo/environment"
	"github.com/samuelfneumann/goppo/environment/classiccontrol/pendulum"
	"github.com/samuelfneumann/goppo/estimator"
	"github.com/samuelfneumann/goppo/experiment"
	"github.com/samuelfneumann/goppo/experiment/tracker"
	"github.com/samuelfneumann/goppo/experiment/trackers"
	"github.com/samuelfneumann/goppo/policy"
	"github.com/samuelfneumann/progressbar"
)

// frameSize is the side length in pixels of rendered frames
const frameSize = 256

// gymBackend creates the OpenAI Gym environment. It is nil unless the
// binary is built with the gym tag.
var gymBackend func(c config.Config) (env.Environment, func() error, error)

func main() {
	configFile := flag.String("config", "", "YAML or JSON configuration file")
	seed := flag.Int64("seed", -1, "overrides the configured seed if >= 0")
	flag.Parse()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		With().Timestamp().Logger()

	if err := run(*configFile, *seed, logger); err != nil {
		logger.Fatal().Err(err).Msg("training failed")
	}
}

func run(configFile string, seed int64, logger zerolog.Logger) error {
	c, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if seed >= 0 {
		c.Seed = uint64(seed)
	}

	runID := uuid.New().String()
	logger = logger.Level(c.Level()).With().Str("run", runID).Logger()

	var effective strings.Builder
	if err := c.Write(&effective); err != nil {
		return err
	}
	logger.Debug().Msg("configuration\n" + effective.String())

	e, closeEnv, err := newEnvironment(c, logger)
	if err != nil {
		return err
	}
	defer closeEnv()

	features := e.ObservationSpec().Shape.Len()
	agent, err := ppo.New(c, features)
	if err != nil {
		return err
	}
	defer agent.Close()

	est, err := estimator.New(c.Gamma, c.Discounting)
	if err != nil {
		return err
	}

	exp, err := experiment.NewEpisodic(e, agent.Actor, agent.Critic,
		agent.ActorOptimizer, agent.CriticOptimizer, policy.NewSampler(c.Seed),
		est, c.TrainingSize, c.Epochs, logger)
	if err != nil {
		return err
	}
	for _, t := range newTrackers(c) {
		exp.Register(t)
	}

	if c.Progress {
		bar := progressbar.New(50, c.Epochs, 250*time.Millisecond, true)
		bar.Display()
		defer bar.Close()
		exp.SetProgress(bar)
	}

	logger.Info().
		Str("environment", c.Environment).
		Uint64("seed", c.Seed).
		Int("epochs", c.Epochs).
		Int("training_size", c.TrainingSize).
		Msg("starting training")

	start := time.Now()
	state := experiment.NewState(c.Epochs)
	if err := exp.Run(state); err != nil {
		return err
	}
	if err := exp.Save(); err != nil {
		return err
	}

	last := len(state.Losses) - 1
	logger.Info().
		Int("episodes", state.Episode).
		Float64("reward_to_go", state.RewardsToGo[last]).
		Float64("loss", state.Losses[last]).
		Dur("elapsed", time.Since(start)).
		Msg("training complete")
	return nil
}

// newEnvironment returns the configured environment and a function
// which releases its resources
func newEnvironment(c config.Config, logger zerolog.Logger) (env.Environment,
	func() error, error) {
	nop := func() error { return nil }

	switch c.Environment {
	case config.Gym:
		if gymBackend == nil {
			return nil, nop, fmt.Errorf("newEnvironment: binary built " +
				"without gym support, rebuild with -tags gym")
		}
		return gymBackend(c)

	case config.Pendulum:
		var renderer pendulum.Renderer = pendulum.NopRenderer{}
		switch c.Render {
		case config.RenderTerminal:
			renderer = pendulum.NewTerminalRenderer(os.Stdout, true, false)
		case config.RenderFrames:
			r, err := pendulum.NewFrameRenderer(c.FrameDir, frameSize, logger)
			if err != nil {
				return nil, nop, fmt.Errorf("newEnvironment: %w", err)
			}
			renderer = r
		}

		task := pendulum.NewSwingUp(pendulum.NewStarter(c.Seed),
			c.MaxEpisodeSteps)
		p, err := pendulum.New(task, c.Gamma, renderer)
		if err != nil {
			return nil, nop, fmt.Errorf("newEnvironment: %w", err)
		}
		return p, nop, nil
	}

	return nil, nop, fmt.Errorf("newEnvironment: unknown environment %q",
		c.Environment)
}

// newTrackers returns the trackers saving the episodic metrics
func newTrackers(c config.Config) []tracker.Tracker {
	fields := []trackers.Field{
		trackers.Return,
		trackers.RewardToGo,
		trackers.Advantage,
		trackers.Loss,
		trackers.CriticLoss,
	}

	var t []tracker.Tracker
	if c.MetricsFile != "" {
		for _, f := range fields {
			filename := tracker.Filename(c.MetricsFile, f.Name)
			t = append(t, trackers.NewSeries(f, filename))
		}
	}
	if c.PlotFile != "" {
		t = append(t, trackers.NewPlot("Episodic losses", c.PlotFile,
			trackers.Loss, trackers.CriticLoss))
	}
	if c.ChartFile != "" {
		t = append(t, trackers.NewChart("Episodic rewards", c.ChartFile,
			trackers.Return, trackers.RewardToGo, trackers.Advantage))
	}
	return t
}
