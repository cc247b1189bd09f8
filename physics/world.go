package physics

import (
	"fmt"

	"github.com/bytearena/box2d"
	"github.com/bytearena/whiskers/common/types"
	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/pkg/errors"
)

const maxPolygonVertices = 8 // box2d b2_maxPolygonVertices

const BoundThickness = 1.0

// Bound is one of the four static boxes lining the inside of the world.
type Bound struct {
	ID         string
	Center     vector.Vector2
	HalfWidth  float64
	HalfHeight float64
}

func Bounds(width float64, height float64) []Bound {
	half := BoundThickness / 2

	return []Bound{
		{ID: "bound:top", Center: vector.MakeVector2(width/2, half), HalfWidth: width / 2, HalfHeight: half},
		{ID: "bound:right", Center: vector.MakeVector2(width-half, height/2), HalfWidth: half, HalfHeight: height / 2},
		{ID: "bound:bottom", Center: vector.MakeVector2(width/2, height-half), HalfWidth: width / 2, HalfHeight: half},
		{ID: "bound:left", Center: vector.MakeVector2(half, height/2), HalfWidth: half, HalfHeight: height / 2},
	}
}

type Options struct {
	ForceScale          float64 `json:"forceScale"`
	TorqueScale         float64 `json:"torqueScale"`
	LinearDamping       float64 `json:"linearDamping"`
	AngularDamping      float64 `json:"angularDamping"`
	CarDensity          float64 `json:"carDensity"`
	CarRestitution      float64 `json:"carRestitution"`
	ObstacleRestitution float64 `json:"obstacleRestitution"`
	VelocityIterations  int     `json:"velocityIterations"`
	PositionIterations  int     `json:"positionIterations"`
}

// DefaultOptions are tuned so that the car increments (force 0.003, torque
// 0.03) move a 50x25 car of density 0.001 at a usable pace in pixel units.
func DefaultOptions() Options {
	return Options{
		ForceScale:          1e6,
		TorqueScale:         2.5e5,
		LinearDamping:       0.05 * 60,
		AngularDamping:      0.05 * 60,
		CarDensity:          0.001,
		CarRestitution:      0.3,
		ObstacleRestitution: 0.6,
		VelocityIterations:  8,
		PositionIterations:  3,
	}
}

// Contact is a pair of bodies that began touching during a step.
type Contact struct {
	A types.PhysicalBodyDescriptor
	B types.PhysicalBodyDescriptor
}

type World struct {
	PhysicalWorld *box2d.B2World

	width   float64
	height  float64
	options Options

	bodies   []*Body
	byID     map[string]*Body
	listener *contactListener
}

func NewWorld(width float64, height float64, options Options) *World {
	gravity := box2d.MakeB2Vec2(0.0, 0.0) // seen from the top
	b2world := box2d.MakeB2World(gravity)

	world := &World{
		PhysicalWorld: &b2world,
		width:         width,
		height:        height,
		options:       options,
		bodies:        make([]*Body, 0),
		byID:          make(map[string]*Body),
	}

	world.listener = newContactListener(world)
	world.PhysicalWorld.SetContactListener(world.listener)

	for _, bound := range Bounds(width, height) {
		world.addBound(bound)
	}

	return world
}

func (w *World) GetWidth() float64 {
	return w.width
}

func (w *World) GetHeight() float64 {
	return w.height
}

func (w *World) GetOptions() Options {
	return w.options
}

func (w *World) GetBody(id string) *Body {
	return w.byID[id]
}

func (w *World) Len() int {
	return len(w.bodies)
}

func (w *World) addBound(bound Bound) {
	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_staticBody
	bodydef.Position.Set(bound.Center.GetX(), bound.Center.GetY())

	body := w.PhysicalWorld.CreateBody(&bodydef)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(bound.HalfWidth, bound.HalfHeight)
	body.CreateFixture(&shape, 0.0)

	w.register(body, types.MakePhysicalBodyDescriptor(types.PhysicalBodyDescriptorType.Bound, bound.ID), true)
}

// AddCarBody creates a dynamic box whose local +X axis (the length) is the car forward.
func (w *World) AddCarBody(id string, position vector.Vector2, angle float64, length float64, width float64) *Body {
	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_dynamicBody
	bodydef.Position.Set(position.GetX(), position.GetY())
	bodydef.Angle = angle
	bodydef.AllowSleep = false
	bodydef.LinearDamping = w.options.LinearDamping
	bodydef.AngularDamping = w.options.AngularDamping

	body := w.PhysicalWorld.CreateBody(&bodydef)

	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBox(length/2, width/2)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Density = w.options.CarDensity
	fixturedef.Restitution = w.options.CarRestitution
	body.CreateFixtureFromDef(&fixturedef)

	return w.register(body, types.MakePhysicalBodyDescriptor(types.PhysicalBodyDescriptorType.Car, id), false)
}

func (w *World) AddCircleObstacle(id string, center vector.Vector2, radius float64) (*Body, error) {
	if !(radius > 0) {
		return nil, errors.Errorf("physics: invalid radius %f for obstacle %s", radius, id)
	}

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_staticBody
	bodydef.Position.Set(center.GetX(), center.GetY())

	body := w.PhysicalWorld.CreateBody(&bodydef)

	shape := box2d.MakeB2CircleShape()
	shape.SetRadius(radius)

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Shape = &shape
	fixturedef.Restitution = w.options.ObstacleRestitution
	body.CreateFixtureFromDef(&fixturedef)

	return w.register(body, types.MakePhysicalBodyDescriptor(types.PhysicalBodyDescriptorType.Obstacle, id), true), nil
}

// AddPolygonObstacle creates a static convex polygon (world coordinates), or
// an edge when given exactly two vertices.
func (w *World) AddPolygonObstacle(id string, vertices []vector.Vector2) (res *Body, err error) {
	if len(vertices) < 2 || len(vertices) > maxPolygonVertices {
		return nil, errors.Errorf("physics: obstacle %s has %d vertices, expected 2 to %d", id, len(vertices), maxPolygonVertices)
	}

	bodydef := box2d.MakeB2BodyDef()
	bodydef.Type = box2d.B2BodyType.B2_staticBody
	body := w.PhysicalWorld.CreateBody(&bodydef)

	defer func() {
		if r := recover(); r != nil {
			w.PhysicalWorld.DestroyBody(body)
			res = nil
			err = errors.Errorf("physics: obstacle %s is not valid; perhaps some vertices are duplicated? (%s)", id, fmt.Sprint(r))
		}
	}()

	fixturedef := box2d.MakeB2FixtureDef()
	fixturedef.Restitution = w.options.ObstacleRestitution

	if len(vertices) == 2 {
		shape := box2d.MakeB2EdgeShape()
		shape.Set(vertices[0].ToB2Vec2(), vertices[1].ToB2Vec2())
		fixturedef.Shape = &shape
	} else {
		points := make([]box2d.B2Vec2, len(vertices))
		for i, v := range vertices {
			points[i] = v.ToB2Vec2()
		}

		shape := box2d.MakeB2PolygonShape()
		shape.Set(points, len(points))
		fixturedef.Shape = &shape
	}

	body.CreateFixtureFromDef(&fixturedef)

	return w.register(body, types.MakePhysicalBodyDescriptor(types.PhysicalBodyDescriptorType.Obstacle, id), true), nil
}

func (w *World) register(body *box2d.B2Body, descriptor types.PhysicalBodyDescriptor, static bool) *Body {
	body.SetUserData(descriptor)

	b := &Body{
		body:        body,
		descriptor:  descriptor,
		forceScale:  w.options.ForceScale,
		torqueScale: w.options.TorqueScale,
		static:      static,
	}

	w.bodies = append(w.bodies, b)
	w.byID[descriptor.ID] = b

	return b
}

// RemoveBody destroys the Box2D body; it must not be called during Step.
func (w *World) RemoveBody(b *Body) bool {
	if b == nil {
		return false
	}

	for i, candidate := range w.bodies {
		if candidate != b {
			continue
		}

		w.PhysicalWorld.DestroyBody(b.body)
		w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
		delete(w.byID, b.descriptor.ID)

		return true
	}

	return false
}

// Step flushes pending torques then integrates the world by dt seconds.
func (w *World) Step(dt float64) {
	for _, b := range w.bodies {
		if !b.static {
			b.flushTorque()
		}
	}

	w.PhysicalWorld.Step(dt, w.options.VelocityIterations, w.options.PositionIterations)
}

// PopContacts returns the contacts begun since the previous call.
func (w *World) PopContacts() []Contact {
	return w.listener.PopContacts()
}
