package car

import (
	"strconv"

	"github.com/pkg/errors"
)

type MoveAction int

const (
	MoveNone MoveAction = iota
	MoveForward
	MoveBackward
)

const MoveActionCount = 3

type TurnAction int

const (
	TurnNone TurnAction = iota
	TurnLeft
	TurnRight
)

const TurnActionCount = 3

const ActionCount = MoveActionCount * TurnActionCount

func (m MoveAction) String() string {
	switch m {
	case MoveNone:
		return "none"
	case MoveForward:
		return "forward"
	case MoveBackward:
		return "backward"
	}

	return "MoveAction(" + strconv.Itoa(int(m)) + ")"
}

func (t TurnAction) String() string {
	switch t {
	case TurnNone:
		return "none"
	case TurnLeft:
		return "left"
	case TurnRight:
		return "right"
	}

	return "TurnAction(" + strconv.Itoa(int(t)) + ")"
}

type Action struct {
	Move MoveAction
	Turn TurnAction
}

func (a Action) IsNone() bool {
	return a.Move == MoveNone && a.Turn == TurnNone
}

// Label encodes the action as a class index for the training store
func (a Action) Label() int {
	return int(a.Move)*TurnActionCount + int(a.Turn)
}

func (a Action) String() string {
	return "<Action(" + a.Move.String() + ", " + a.Turn.String() + ")>"
}

func DecodeLabel(label int) (Action, error) {
	if label < 0 || label >= ActionCount {
		return Action{}, errors.Errorf("invalid action label %d", label)
	}

	return Action{
		Move: MoveAction(label / TurnActionCount),
		Turn: TurnAction(label % TurnActionCount),
	}, nil
}
