package agent

import (
	"fmt"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

// ObservationModel maps a cell to the probability that it is free, plus an
// auxiliary transition prediction the policies do not use.
type ObservationModel interface {
	Predict(pos maze.Position) (float64, []float64)
	// TrainStep takes one optimisation step toward label (1 free, 0
	// blocked) at pos and returns the loss before the step.
	TrainStep(pos maze.Position, label float64) float64
}

// Device is the execution context a model is built for.
type Device string

const CPU Device = "cpu"

type NetworkConfig struct {
	Hidden       int
	LearningRate float64
	L2           float64
	Device       Device
}

func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Hidden:       32,
		LearningRate: 1e-3,
		L2:           1e-5,
		Device:       CPU,
	}
}

func (c NetworkConfig) Validate() error {
	if c.Device != CPU {
		return fmt.Errorf("%w: %q", ErrUnsupportedDevice, string(c.Device))
	}
	if c.Hidden <= 0 {
		return fmt.Errorf("agent: hidden width must be positive, got %d", c.Hidden)
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("agent: learning rate must be positive, got %v", c.LearningRate)
	}
	if c.L2 < 0 {
		return fmt.Errorf("agent: l2 must be non-negative, got %v", c.L2)
	}
	return nil
}
