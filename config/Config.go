// Package config implements the hyperparameter configuration of a
// training run, loaded from YAML or JSON files
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/samuelfneumann/goppo/estimator"
	"github.com/samuelfneumann/goppo/initwfn"
	"github.com/samuelfneumann/goppo/network"
	"github.com/samuelfneumann/goppo/solver"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Environment backends
const (
	Pendulum = "pendulum"
	Gym      = "gym"
)

// Render modes
const (
	RenderNone     = "none"
	RenderTerminal = "terminal"
	RenderFrames   = "frames"
)

// envPrefix prefixes environment variables overriding configuration
// keys, e.g. GOPPO_EPOCHS
const envPrefix = "goppo"

// Config describes a training run. A Config should not be modified
// once a run has started.
type Config struct {
	Seed uint64 `mapstructure:"seed" yaml:"seed" json:"seed"`

	// Training schedule
	BatchSize    int     `mapstructure:"batch_size" yaml:"batch_size" json:"batch_size"`
	Epochs       int     `mapstructure:"epochs" yaml:"epochs" json:"epochs"`
	TrainingSize int     `mapstructure:"training_size" yaml:"training_size" json:"training_size"`
	Gamma        float64 `mapstructure:"gamma" yaml:"gamma" json:"gamma"`

	Discounting          estimator.Discounting `mapstructure:"discounting" yaml:"discounting" json:"discounting"`
	AliasCriticOptimizer bool                  `mapstructure:"alias_critic_optimizer" yaml:"alias_critic_optimizer" json:"alias_critic_optimizer"`

	// Neural networks
	InputSize  int          `mapstructure:"input_size" yaml:"input_size" json:"input_size"`
	OutputSize int          `mapstructure:"output_size" yaml:"output_size" json:"output_size"`
	HiddenSize int          `mapstructure:"hidden_size" yaml:"hidden_size" json:"hidden_size"`
	Layers     int          `mapstructure:"layers" yaml:"layers" json:"layers"`
	Activation string       `mapstructure:"activation" yaml:"activation" json:"activation"`
	Init       initwfn.Type `mapstructure:"init" yaml:"init" json:"init"`
	InitGain   float64      `mapstructure:"init_gain" yaml:"init_gain" json:"init_gain"`

	// Solvers
	Solver       solver.Type `mapstructure:"solver" yaml:"solver" json:"solver"`
	LearningRate float64     `mapstructure:"learning_rate" yaml:"learning_rate" json:"learning_rate"`
	AdamEpsilon  float64     `mapstructure:"adam_epsilon" yaml:"adam_epsilon" json:"adam_epsilon"`

	// Environment
	Environment     string `mapstructure:"environment" yaml:"environment" json:"environment"`
	MaxEpisodeSteps int    `mapstructure:"max_episode_steps" yaml:"max_episode_steps" json:"max_episode_steps"`
	Render          string `mapstructure:"render" yaml:"render" json:"render"`
	FrameDir        string `mapstructure:"frame_dir" yaml:"frame_dir" json:"frame_dir"`

	// Output
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file" json:"metrics_file"`
	PlotFile    string `mapstructure:"plot_file" yaml:"plot_file" json:"plot_file"`
	ChartFile   string `mapstructure:"chart_file" yaml:"chart_file" json:"chart_file"`
	LogLevel    string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Progress    bool   `mapstructure:"progress" yaml:"progress" json:"progress"`
}

// Default returns the default configuration
func Default() Config {
	return Config{
		Seed: 0,

		BatchSize:    10,
		Epochs:       30,
		TrainingSize: 100,
		Gamma:        0.99,

		Discounting:          estimator.Absolute,
		AliasCriticOptimizer: false,

		InputSize:  3,
		OutputSize: 1,
		HiddenSize: 8,
		Layers:     2,
		Activation: "relu",
		Init:       initwfn.GlorotU,
		InitGain:   1.0,

		Solver:       solver.Adam,
		LearningRate: 1e-3,
		AdamEpsilon:  1e-5,

		Environment:     Pendulum,
		MaxEpisodeSteps: 200,
		Render:          RenderNone,
		FrameDir:        "frames",

		MetricsFile: "metrics.bin",
		PlotFile:    "",
		ChartFile:   "",
		LogLevel:    "info",
		Progress:    true,
	}
}

// Load reads the configuration at path, which may be a YAML or JSON
// file. Keys missing from the file take their values from Default, and
// any key may be overridden by an environment variable of the same
// name, upper cased and prefixed with GOPPO_. If path is empty, only
// defaults and environment variables are used.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v, Default())

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("load: could not read %v: %w", path,
				err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %w", path,
			err)
	}

	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}
	return c, nil
}

// setDefaults registers the fields of c as defaults of v
func setDefaults(v *viper.Viper, c Config) {
	v.SetDefault("seed", c.Seed)
	v.SetDefault("batch_size", c.BatchSize)
	v.SetDefault("epochs", c.Epochs)
	v.SetDefault("training_size", c.TrainingSize)
	v.SetDefault("gamma", c.Gamma)
	v.SetDefault("discounting", string(c.Discounting))
	v.SetDefault("alias_critic_optimizer", c.AliasCriticOptimizer)
	v.SetDefault("input_size", c.InputSize)
	v.SetDefault("output_size", c.OutputSize)
	v.SetDefault("hidden_size", c.HiddenSize)
	v.SetDefault("layers", c.Layers)
	v.SetDefault("activation", c.Activation)
	v.SetDefault("init", string(c.Init))
	v.SetDefault("init_gain", c.InitGain)
	v.SetDefault("solver", string(c.Solver))
	v.SetDefault("learning_rate", c.LearningRate)
	v.SetDefault("adam_epsilon", c.AdamEpsilon)
	v.SetDefault("environment", c.Environment)
	v.SetDefault("max_episode_steps", c.MaxEpisodeSteps)
	v.SetDefault("render", c.Render)
	v.SetDefault("frame_dir", c.FrameDir)
	v.SetDefault("metrics_file", c.MetricsFile)
	v.SetDefault("plot_file", c.PlotFile)
	v.SetDefault("chart_file", c.ChartFile)
	v.SetDefault("log_level", c.LogLevel)
	v.SetDefault("progress", c.Progress)
}

// Validate checks a Config to ensure it is a valid configuration
func (c Config) Validate() error {
	if c.BatchSize < 1 {
		return fmt.Errorf("validate: cannot have batch size < 1")
	}
	if c.Epochs < 1 {
		return fmt.Errorf("validate: cannot have epochs < 1")
	}
	if c.TrainingSize < 1 {
		return fmt.Errorf("validate: cannot have training size < 1")
	}
	if c.Gamma <= 0 || c.Gamma > 1 {
		return fmt.Errorf("validate: gamma must be in (0, 1] but got %v",
			c.Gamma)
	}

	switch c.Discounting {
	case estimator.Absolute, estimator.Relative:
	default:
		return fmt.Errorf("validate: unknown discounting %q", c.Discounting)
	}

	if c.InputSize != 3 || c.OutputSize != 1 {
		return fmt.Errorf("validate: the pendulum requires input size 3 "+
			"and output size 1 but got %v and %v", c.InputSize, c.OutputSize)
	}
	if c.HiddenSize < 1 || c.Layers < 0 {
		return fmt.Errorf("validate: invalid network of %v hidden layers "+
			"of %v units", c.Layers, c.HiddenSize)
	}
	if _, err := network.ParseActivation(c.Activation); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if _, err := initwfn.New(c.Init, c.InitGain); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("validate: learning rate must be positive")
	}

	switch c.Solver {
	case solver.Adam, solver.Vanilla:
	default:
		return fmt.Errorf("validate: unknown solver %q", c.Solver)
	}

	switch c.Environment {
	case Pendulum, Gym:
	default:
		return fmt.Errorf("validate: unknown environment %q", c.Environment)
	}
	if c.MaxEpisodeSteps < 1 {
		return fmt.Errorf("validate: cannot have max episode steps < 1")
	}

	switch c.Render {
	case RenderNone, RenderTerminal:
	case RenderFrames:
		if c.FrameDir == "" {
			return fmt.Errorf("validate: frame rendering requires frame_dir")
		}
	default:
		return fmt.Errorf("validate: unknown render mode %q", c.Render)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	return nil
}

// Write writes c to w as YAML
func (c Config) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return enc.Close()
}

// Level returns the zerolog level of the configuration
func (c Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.InfoLevel
	}
	return level
}

// HiddenSizes returns the sizes of the hidden layers of the actor and
// critic networks
func (c Config) HiddenSizes() []int {
	sizes := make([]int, c.Layers)
	for i := range sizes {
		sizes[i] = c.HiddenSize
	}
	return sizes
}
