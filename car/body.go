package car

import "github.com/bytearena/whiskers/common/utils/vector"

// Body is the handle on the rigid body simulated by the physics engine. The
// engine owns integration (position, velocity, angle); a Car only ever writes
// the applied force and torque.
type Body interface {
	GetPosition() vector.Vector2
	GetForward() vector.Vector2 // unit vector
	GetLateral() vector.Vector2 // unit vector, orthogonal to forward
	GetSpeed() float64

	ApplyForce(force vector.Vector2, point vector.Vector2)

	// SetTorque replaces the torque applied during the next physics step
	SetTorque(torque float64)
}
