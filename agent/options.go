package agent

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	ErrOutOfBounds       = errors.New("agent: position out of bounds")
	ErrUnsupportedDevice = errors.New("agent: unsupported device")
	ErrUnknownVariant    = errors.New("agent: unknown variant")
)

// Variant selects which policy engine drives the agent.
type Variant string

const (
	// Active is the canonical agent: probabilistic belief, learned
	// observation model, risk and ambiguity terms.
	Active Variant = "active"
	// Reveal is the simplified agent: tri-state map, preference and visit
	// penalty only, no learning.
	Reveal Variant = "reveal"
)

// Options carries every tunable of a run. The zero value is not useful; start
// from DefaultOptions.
type Options struct {
	Variant Variant

	Alpha          float64 // risk weight
	Beta           float64 // ambiguity weight
	Gamma          float64 // Boltzmann sharpness
	GoalPreference float64
	VisitPenalty   float64
	VisitDecay     float64

	SensingRadius    int
	TransitionRadius int
	PriorBoost       float64 // initial belief multiplier at start and goal

	MaxSteps      int
	RecordBeliefs bool

	Network NetworkConfig
	Logger  *zap.Logger
}

// DefaultOptions returns the tuned constants for a variant.
func DefaultOptions(v Variant) Options {
	o := Options{
		Variant:          v,
		Alpha:            0.5,
		Beta:             0.5,
		Gamma:            20.0,
		GoalPreference:   200.0,
		VisitPenalty:     1.0,
		VisitDecay:       0.99,
		SensingRadius:    2,
		TransitionRadius: 1,
		PriorBoost:       5.0,
		MaxSteps:         500,
		RecordBeliefs:    true,
		Network:          DefaultNetworkConfig(),
	}
	if v == Reveal {
		o.VisitPenalty = 100.0
	}
	return o
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

func (o Options) Validate() error {
	switch o.Variant {
	case Active, Reveal:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownVariant, string(o.Variant))
	}
	if o.Gamma <= 0 {
		return fmt.Errorf("agent: gamma must be positive, got %v", o.Gamma)
	}
	if o.VisitDecay <= 0 || o.VisitDecay > 1 {
		return fmt.Errorf("agent: visit decay must be in (0,1], got %v", o.VisitDecay)
	}
	if o.SensingRadius < 0 || o.TransitionRadius < 0 {
		return fmt.Errorf("agent: radii must be non-negative")
	}
	if o.MaxSteps <= 0 {
		return fmt.Errorf("agent: max steps must be positive, got %d", o.MaxSteps)
	}
	if o.Variant == Active {
		return o.Network.Validate()
	}
	return nil
}
