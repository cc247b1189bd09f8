package physics

import (
	"github.com/bytearena/box2d"
	"github.com/bytearena/whiskers/common/types"
	"github.com/bytearena/whiskers/common/utils/vector"
)

// Body wraps a Box2D body. It satisfies car.Body for dynamic bodies.
type Body struct {
	body        *box2d.B2Body
	descriptor  types.PhysicalBodyDescriptor
	forceScale  float64
	torqueScale float64

	torque    float64 // pending, applied on next World.Step
	hasTorque bool
	static    bool
	contacts  int
}

func (b *Body) GetBody() *box2d.B2Body {
	return b.body
}

func (b *Body) GetDescriptor() types.PhysicalBodyDescriptor {
	return b.descriptor
}

func (b *Body) IsStatic() bool {
	return b.static
}

func (b *Body) GetPosition() vector.Vector2 {
	return vector.FromB2Vec2(b.body.GetPosition())
}

func (b *Body) GetAngle() float64 {
	return b.body.GetAngle()
}

// GetForward is the world direction of the body local +X axis.
func (b *Body) GetForward() vector.Vector2 {
	return vector.FromB2Vec2(b.body.GetWorldVector(box2d.MakeB2Vec2(1, 0)))
}

// GetLateral is the world direction of the body local +Y axis.
func (b *Body) GetLateral() vector.Vector2 {
	return vector.FromB2Vec2(b.body.GetWorldVector(box2d.MakeB2Vec2(0, 1)))
}

func (b *Body) GetVelocity() vector.Vector2 {
	return vector.FromB2Vec2(b.body.GetLinearVelocity())
}

func (b *Body) GetSpeed() float64 {
	v := b.body.GetLinearVelocity()
	return v.Length()
}

// ApplyForce applies force at a world point immediately, waking the body.
func (b *Body) ApplyForce(force vector.Vector2, point vector.Vector2) {
	if b.static {
		return
	}

	b.body.ApplyForce(force.Scale(b.forceScale).ToB2Vec2(), point.ToB2Vec2(), true)
}

// SetTorque replaces the torque applied on the next step; the last call wins.
func (b *Body) SetTorque(torque float64) {
	if b.static {
		return
	}

	b.torque = torque
	b.hasTorque = true
}

func (b *Body) GetPendingTorque() (float64, bool) {
	return b.torque, b.hasTorque
}

// Reset teleports the body and cancels its motion.
func (b *Body) Reset(position vector.Vector2, angle float64) {
	b.body.SetTransform(position.ToB2Vec2(), angle)
	b.body.SetLinearVelocity(box2d.MakeB2Vec2(0, 0))
	b.body.SetAngularVelocity(0)
	b.torque = 0
	b.hasTorque = false
}

// GetContacts is the number of contacts this body began since it was created.
func (b *Body) GetContacts() int {
	return b.contacts
}

func (b *Body) flushTorque() {
	if !b.hasTorque {
		return
	}

	b.body.ApplyTorque(b.torque*b.torqueScale, true)
	b.torque = 0
	b.hasTorque = false
}
