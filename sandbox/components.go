package sandbox

import (
	"github.com/bytearena/whiskers/car"
	"github.com/bytearena/whiskers/physics"
	"github.com/bytearena/whiskers/raycast"
)

func (s Sandbox) CastPhysicalBody(data interface{}) *physics.Body {
	return data.(*physics.Body)
}

func (s Sandbox) CastCar(data interface{}) *car.Car {
	return data.(*car.Car)
}

// Obstacle is the raycast shape of an obstacle entity.
type Obstacle struct {
	shape raycast.Obstacle
	user  bool // drawn by the user, as opposed to world bounds and configured obstacles
}

func (s Sandbox) CastObstacle(data interface{}) *Obstacle {
	return data.(*Obstacle)
}

func (o *Obstacle) GetShape() raycast.Obstacle {
	return o.shape
}

func (o *Obstacle) IsUser() bool {
	return o.user
}

// Controlled is the control state of a car entity.
type Controlled struct {
	lastAction car.Action
	manual     bool // driven by the keyboard during the last control tick
	predicted  bool // driven by the policy during the last control tick
}

func (s Sandbox) CastControlled(data interface{}) *Controlled {
	return data.(*Controlled)
}

func (c *Controlled) GetLastAction() car.Action {
	return c.lastAction
}

func (c *Controlled) IsManual() bool {
	return c.manual
}

func (c *Controlled) IsPredicted() bool {
	return c.predicted
}
