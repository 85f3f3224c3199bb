// Package mdp holds the small decision-process vocabulary shared by the
// navigation agents: moves on a grid, probabilities, and distributions that
// can be sampled with a caller-owned random source.
package mdp

import "fmt"

type Action string

const (
	Up    Action = "up"
	Right Action = "right"
	Down  Action = "down"
	Left  Action = "left"
)

// Actions lists the moves in enumeration order. Candidate scoring and
// sampling iterate in this order, so ties resolve toward the earlier move.
var Actions = []Action{Up, Right, Down, Left}

// Delta returns the (row, col) offset of a move.
func (a Action) Delta() (int, int) {
	switch a {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Right:
		return 0, 1
	case Left:
		return 0, -1
	default:
		panic(fmt.Sprintf("unhandled action: %q", string(a)))
	}
}

// Source is the slice of *rand.Rand the samplers need.
type Source interface {
	Float64() float64
}
