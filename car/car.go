package car

import (
	"math"

	"github.com/bytearena/whiskers/common/utils/number"
	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/bytearena/whiskers/raycast"
	"github.com/bytearena/whiskers/sensor"
)

const distanceRelPrecision = 6

type Options struct {
	VelocityIncrement float64 `json:"velocityIncrement"` // force applied by one move action
	AngleIncrement    float64 `json:"angleIncrement"`    // torque applied by one turn action
	FovDistance       float64 `json:"fovDistance"`       // length of the sensor rays
	FrontSensors      int     `json:"frontSensors"`
	FrontAngle        float64 `json:"frontAngle"` // expressed in rad
	RearSensors       int     `json:"rearSensors"`
	RearAngle         float64 `json:"rearAngle"` // expressed in rad
}

func DefaultOptions() Options {
	return Options{
		VelocityIncrement: 0.003,
		AngleIncrement:    0.03,
		FovDistance:       200,
		FrontSensors:      9,
		FrontAngle:        math.Pi / 2,
		RearSensors:       9,
		RearAngle:         math.Pi / 2,
	}
}

type Car struct {
	id   string
	name string
	body Body

	velocityIncrement float64
	angleIncrement    float64
	fovDistance       float64

	slots    []sensor.Slot
	readings sensor.Readings

	speed      float64
	speedDelta float64
}

func NewCar(id string, name string, body Body, options Options) *Car {
	slots := sensor.MakeFrontRearFan(
		options.FrontSensors, options.FrontAngle,
		options.RearSensors, options.RearAngle,
	)

	readings := make(sensor.Readings, len(slots))
	for i := range readings {
		readings[i].DistanceRel = 1
		readings[i].Distance = restDistance(options.FovDistance)
	}

	return &Car{
		id:                id,
		name:              name,
		body:              body,
		velocityIncrement: options.VelocityIncrement,
		angleIncrement:    options.AngleIncrement,
		fovDistance:       options.FovDistance,
		slots:             slots,
		readings:          readings,
	}
}

func (car *Car) GetID() string { return car.id }
func (car *Car) GetName() string { return car.name }
func (car *Car) GetBody() Body { return car.body }
func (car *Car) GetFovDistance() float64 { return car.fovDistance }
func (car *Car) GetSlots() []sensor.Slot { return car.slots }
func (car *Car) GetSpeedDelta() float64 { return car.speedDelta }
func (car *Car) GetSensorData() sensor.Readings { return car.readings }

// Features returns a fresh copy of the feature vector of the last sensor update
func (car *Car) Features() []float64 {
	return car.readings.Features(nil)
}

func (car *Car) onAction() {
	speed := car.body.GetSpeed()
	car.speedDelta = speed - car.speed
	car.speed = speed
}

func (car *Car) MoveForward() {
	car.onAction()
	force := car.body.GetForward().Scale(car.velocityIncrement)
	car.body.ApplyForce(force, car.body.GetPosition())
}

func (car *Car) MoveBackward() {
	car.onAction()
	force := car.body.GetForward().Scale(-car.velocityIncrement)
	car.body.ApplyForce(force, car.body.GetPosition())
}

func (car *Car) TurnLeft() {
	car.onAction()
	car.body.SetTorque(-car.angleIncrement)
}

func (car *Car) TurnRight() {
	car.onAction()
	car.body.SetTorque(car.angleIncrement)
}

// Apply performs the turn, then the move of the action
func (car *Car) Apply(action Action) {
	switch action.Turn {
	case TurnLeft:
		car.TurnLeft()
	case TurnRight:
		car.TurnRight()
	}

	switch action.Move {
	case MoveForward:
		car.MoveForward()
	case MoveBackward:
		car.MoveBackward()
	}
}

// UpdateSensorData casts every sensor ray against obstacles. The car body must
// not be part of obstacles. The returned slice is the same on every call.
// restDistance is the distance of a non colliding reading.
func restDistance(fovDistance float64) float64 {
	if !number.IsFinite(fovDistance) {
		return 0
	}

	return fovDistance
}

func (car *Car) UpdateSensorData(obstacles []raycast.Obstacle) sensor.Readings {
	return car.updateSensorData(func(origin, target vector.Vector2) (raycast.Hit, bool) {
		return raycast.Nearest(obstacles, origin, target)
	})
}

func (car *Car) UpdateSensorDataIndexed(index *raycast.Index) sensor.Readings {
	return car.updateSensorData(index.Nearest)
}

func (car *Car) updateSensorData(nearest func(origin, target vector.Vector2) (raycast.Hit, bool)) sensor.Readings {
	position := car.body.GetPosition()

	if car.fovDistance <= 0 || !number.IsFinite(car.fovDistance) {
		distance := restDistance(car.fovDistance)

		for i := range car.readings {
			car.readings[i] = sensor.Reading{
				Point:       position,
				Collides:    false,
				Distance:    distance,
				DistanceRel: 1,
			}
		}

		return car.readings
	}

	vForward := car.body.GetForward().Scale(car.fovDistance)

	for i, slot := range car.slots {
		vFov := vForward.Rotate(slot.Angle).Add(position)
		reading := &car.readings[i]

		hit, collides := nearest(position, vFov)
		distance := 0.0
		if collides {
			distance = hit.Point.Sub(position).Mag()
		}

		// a hit at the very tip of the ray is out of range
		if !collides || distance >= car.fovDistance {
			reading.Collides = false
			reading.Point = vFov
			reading.Distance = car.fovDistance
			reading.DistanceRel = 1
			continue
		}

		reading.Collides = true
		reading.Point = hit.Point
		reading.Distance = distance
		reading.DistanceRel = number.Clamp(number.ToFixed(distance/car.fovDistance, distanceRelPrecision), 0, 1)
	}

	return car.readings
}
