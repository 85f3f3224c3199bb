package agent

import (
	"go.uber.org/zap"

	"github.com/CodeStranger-Fred/efemaze/maze"
)

// OnlineLearner trains the observation model on the cell the agent has just
// entered, one sample and one step at a time.
type OnlineLearner struct {
	model  ObservationModel
	grid   *maze.Grid
	logger *zap.Logger

	steps    int
	lastLoss float64
}

func NewOnlineLearner(model ObservationModel, grid *maze.Grid, logger *zap.Logger) *OnlineLearner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OnlineLearner{model: model, grid: grid, logger: logger}
}

func (l *OnlineLearner) Learn(pos maze.Position) float64 {
	label := 0.0
	if l.grid.IsFree(pos) {
		label = 1.0
	}
	l.lastLoss = l.model.TrainStep(pos, label)
	l.steps++
	l.logger.Debug("model step",
		zap.Int("step", l.steps),
		zap.Stringer("pos", pos),
		zap.Float64("label", label),
		zap.Float64("loss", l.lastLoss))
	return l.lastLoss
}

func (l *OnlineLearner) Steps() int        { return l.steps }
func (l *OnlineLearner) LastLoss() float64 { return l.lastLoss }
