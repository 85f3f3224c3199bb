// Package config loads efemaze settings from YAML, a .env file and EFEMAZE_*
// environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/CodeStranger-Fred/efemaze/agent"
	"github.com/CodeStranger-Fred/efemaze/maze"
)

var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Run    RunConfig    `yaml:"run"`
	Policy PolicyConfig `yaml:"policy"`
	Model  ModelConfig  `yaml:"model"`
	Render RenderConfig `yaml:"render"`
	Store  StoreConfig  `yaml:"store"`
}

type RunConfig struct {
	Seed      uint64  `yaml:"seed"`
	Size      int     `yaml:"size"`
	Variant   string  `yaml:"variant"`   // active, reveal
	Generator string  `yaml:"generator"` // prims, terrain
	Density   float64 `yaml:"density"`   // terrain only
	MaxSteps  int     `yaml:"max_steps"`
}

type PolicyConfig struct {
	Alpha          float64 `yaml:"alpha"`
	Beta           float64 `yaml:"beta"`
	Gamma          float64 `yaml:"gamma"`
	GoalPreference float64 `yaml:"goal_preference"`
	// VisitPenalty of 0 selects the variant's default.
	VisitPenalty     float64 `yaml:"visit_penalty"`
	VisitDecay       float64 `yaml:"visit_decay"`
	SensingRadius    int     `yaml:"sensing_radius"`
	TransitionRadius int     `yaml:"transition_radius"`
	PriorBoost       float64 `yaml:"prior_boost"`
}

type ModelConfig struct {
	Hidden       int     `yaml:"hidden"`
	LearningRate float64 `yaml:"learning_rate"`
	L2           float64 `yaml:"l2"`
	Device       string  `yaml:"device"`
}

type RenderConfig struct {
	HTML       string `yaml:"html"` // output path, empty to skip
	FrameEvery int    `yaml:"frame_every"`
	Serve      string `yaml:"serve"` // listen address, empty to skip
	Animate    bool   `yaml:"animate"`
	Delay      string `yaml:"delay"`
	Color      bool   `yaml:"color"`
}

type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Driver  string `yaml:"driver"` // sqlite, postgres
	DSN     string `yaml:"dsn"`
}

func Default() *Config {
	a := agent.DefaultOptions(agent.Active)
	return &Config{
		Run: RunConfig{
			Seed:      1,
			Size:      15,
			Variant:   string(agent.Active),
			Generator: "prims",
			Density:   0.2,
			MaxSteps:  a.MaxSteps,
		},
		Policy: PolicyConfig{
			Alpha:            a.Alpha,
			Beta:             a.Beta,
			Gamma:            a.Gamma,
			GoalPreference:   a.GoalPreference,
			VisitDecay:       a.VisitDecay,
			SensingRadius:    a.SensingRadius,
			TransitionRadius: a.TransitionRadius,
			PriorBoost:       a.PriorBoost,
		},
		Model: ModelConfig{
			Hidden:       a.Network.Hidden,
			LearningRate: a.Network.LearningRate,
			L2:           a.Network.L2,
			Device:       string(a.Network.Device),
		},
		Render: RenderConfig{
			FrameEvery: 10,
			Delay:      "80ms",
			Color:      true,
		},
		Store: StoreConfig{
			Driver: "sqlite",
			DSN:    "efemaze.db",
		},
	}
}

// Load overlays the YAML file at path onto the defaults. A missing file
// yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv loads envFile into the environment if it exists, without
// replacing variables already set, then applies EFEMAZE_* overrides.
func (c *Config) ApplyEnv(envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("config: load %s: %w", envFile, err)
			}
		}
	}

	strs := map[string]*string{
		"EFEMAZE_VARIANT":      &c.Run.Variant,
		"EFEMAZE_GENERATOR":    &c.Run.Generator,
		"EFEMAZE_DEVICE":       &c.Model.Device,
		"EFEMAZE_HTML":         &c.Render.HTML,
		"EFEMAZE_STORE_DRIVER": &c.Store.Driver,
		"EFEMAZE_STORE_DSN":    &c.Store.DSN,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"EFEMAZE_SIZE":      &c.Run.Size,
		"EFEMAZE_MAX_STEPS": &c.Run.MaxSteps,
	}
	for key, dst := range ints {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: %s: %w", key, err)
		}
		*dst = n
	}

	if v := os.Getenv("EFEMAZE_SEED"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("config: EFEMAZE_SEED: %w", err)
		}
		c.Run.Seed = n
	}
	if v := os.Getenv("EFEMAZE_STORE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: EFEMAZE_STORE: %w", err)
		}
		c.Store.Enabled = b
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Run.Size < 5 {
		return fmt.Errorf("%w: size %d is below 5", ErrInvalid, c.Run.Size)
	}
	if _, err := maze.ByName(c.Run.Generator, c.Run.Density); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.Run.Density < 0 || c.Run.Density >= 1 {
		return fmt.Errorf("%w: density %v outside [0,1)", ErrInvalid, c.Run.Density)
	}
	switch c.Store.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("%w: store driver %q", ErrInvalid, c.Store.Driver)
	}
	if c.Render.FrameEvery < 1 {
		return fmt.Errorf("%w: frame_every must be at least 1", ErrInvalid)
	}
	if _, err := time.ParseDuration(c.Render.Delay); err != nil {
		return fmt.Errorf("%w: delay: %w", ErrInvalid, err)
	}
	if err := c.AgentOptions(nil).Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// AgentOptions converts the policy and model sections for agent.New.
func (c *Config) AgentOptions(logger *zap.Logger) agent.Options {
	o := agent.DefaultOptions(agent.Variant(c.Run.Variant))
	o.Alpha = c.Policy.Alpha
	o.Beta = c.Policy.Beta
	o.Gamma = c.Policy.Gamma
	o.GoalPreference = c.Policy.GoalPreference
	if c.Policy.VisitPenalty != 0 {
		o.VisitPenalty = c.Policy.VisitPenalty
	}
	o.VisitDecay = c.Policy.VisitDecay
	o.SensingRadius = c.Policy.SensingRadius
	o.TransitionRadius = c.Policy.TransitionRadius
	o.PriorBoost = c.Policy.PriorBoost
	o.MaxSteps = c.Run.MaxSteps
	o.Network = agent.NetworkConfig{
		Hidden:       c.Model.Hidden,
		LearningRate: c.Model.LearningRate,
		L2:           c.Model.L2,
		Device:       agent.Device(c.Model.Device),
	}
	o.Logger = logger
	return o
}

// Generator resolves the configured maze generator.
func (c *Config) Generator() (maze.Generator, error) {
	return maze.ByName(c.Run.Generator, c.Run.Density)
}

// AnimationDelay parses Render.Delay, falling back to 80ms.
func (c *Config) AnimationDelay() time.Duration {
	d, err := time.ParseDuration(c.Render.Delay)
	if err != nil {
		return 80 * time.Millisecond
	}
	return d
}
