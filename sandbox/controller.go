package sandbox

import (
	"github.com/bytearena/whiskers/car"
)

type Key int

const (
	KeyUp Key = iota
	KeyDown
	KeyLeft
	KeyRight
)

func (k Key) String() string {
	switch k {
	case KeyUp:
		return "up"
	case KeyDown:
		return "down"
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	}

	return "unknown"
}

// Controller holds the set of arrow keys currently pressed.
type Controller struct {
	pressed map[Key]bool
}

func NewController() *Controller {
	return &Controller{
		pressed: make(map[Key]bool),
	}
}

func (c *Controller) Press(k Key) {
	c.pressed[k] = true
}

func (c *Controller) Release(k Key) {
	delete(c.pressed, k)
}

func (c *Controller) ReleaseAll() {
	c.pressed = make(map[Key]bool)
}

func (c *Controller) IsPressed(k Key) bool {
	return c.pressed[k]
}

func (c *Controller) Any() bool {
	return len(c.pressed) > 0
}

// Action evaluates up, down, left, right in that order; later keys override
// earlier ones, so down wins over up and right over left.
func (c *Controller) Action() car.Action {
	action := car.Action{}

	if c.pressed[KeyUp] {
		action.Move = car.MoveForward
	}

	if c.pressed[KeyDown] {
		action.Move = car.MoveBackward
	}

	if c.pressed[KeyLeft] {
		action.Turn = car.TurnLeft
	}

	if c.pressed[KeyRight] {
		action.Turn = car.TurnRight
	}

	return action
}
