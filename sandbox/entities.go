package sandbox

import (
	"github.com/bytearena/ecs"
	"github.com/bytearena/whiskers/car"
	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/bytearena/whiskers/physics"
	"github.com/bytearena/whiskers/raycast"
	petname "github.com/dustinkirkland/golang-petname"
)

func (s *Sandbox) newEntityCar(id string, position vector.Vector2, angle float64) *car.Car {
	entity := s.manager.NewEntity()

	body := s.world.AddCarBody(id, position, angle, s.config.CarLength, s.config.CarWidth)
	c := car.NewCar(id, petname.Generate(2, "-"), body, s.config.Car)

	entity.
		AddComponent(s.physicalBodyComponent, body).
		AddComponent(s.carComponent, c).
		AddComponent(s.controlledComponent, &Controlled{})

	s.cars[id] = entity
	s.carOrder = append(s.carOrder, id)

	// sensors are valid as soon as the car exists
	c.UpdateSensorDataIndexed(s.index)

	return c
}

func (s *Sandbox) newEntityObstacle(shape raycast.Obstacle, body *physics.Body, user bool) *ecs.Entity {
	entity := s.manager.NewEntity()

	if body != nil {
		entity.AddComponent(s.physicalBodyComponent, body)
	}

	entity.AddComponent(s.obstacleComponent, &Obstacle{
		shape: shape,
		user:  user,
	})

	s.index.Add(shape)
	s.obstacles[shape.GetID()] = entity

	if user {
		s.userObstacles = append(s.userObstacles, shape.GetID())
	}

	return entity
}
