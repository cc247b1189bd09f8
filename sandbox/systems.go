package sandbox

import (
	"encoding/json"
	"math"
	"time"

	"github.com/bitly/go-notify"
	"github.com/bytearena/whiskers/common/types"
	"github.com/bytearena/whiskers/physics"
)

// Step advances the sandbox by dt seconds: sensors every step, control once
// per tick interval, then physics, then the frame broadcast.
func (s *Sandbox) Step(dt float64) {
	s.ticknum++
	s.elapsed += time.Duration(math.Round(dt * float64(time.Second)))

	systemSensors(s)

	if s.throttle.Ready(s.elapsed) {
		systemControl(s)
	}

	systemPhysics(s, dt)
	systemFrame(s)
}

func systemSensors(s *Sandbox) {
	for _, entityresult := range s.carsView.Get() {
		carAspect := s.CastCar(entityresult.Components[s.carComponent])
		carAspect.UpdateSensorDataIndexed(s.index)
	}
}

func systemControl(s *Sandbox) {
	manual := s.controller.Any()

	for _, id := range s.carOrder {
		c, _, controlled := s.getCar(id)
		if c == nil {
			continue
		}

		controlled.manual = false
		controlled.predicted = false

		// the user driving the selected car suspends its autopilot
		if manual && id == s.selected {
			action := s.controller.Action()
			c.Apply(action)

			controlled.lastAction = action
			controlled.manual = true

			if s.recording && !action.IsNone() {
				if s.store.Add(c.Features(), action.Label()) {
					s.debug("sample recorded for " + action.String())
				}
			}

			continue
		}

		if !s.autopilot || s.policy == nil {
			continue
		}

		action, ok := s.policy.Predict(c.Features())
		if !ok {
			continue
		}

		c.Apply(action)
		controlled.lastAction = action
		controlled.predicted = true
	}
}

func systemPhysics(s *Sandbox, dt float64) {
	s.world.Step(dt)
	systemCollisions(s, s.world.PopContacts())
}

// systemCollisions keeps the contacts of the last step that involve a car.
func systemCollisions(s *Sandbox, contacts []physics.Contact) {
	s.lastCollisions = s.lastCollisions[:0]

	for _, contact := range contacts {
		for _, pair := range [][2]types.PhysicalBodyDescriptor{{contact.A, contact.B}, {contact.B, contact.A}} {
			if !pair[0].IsCar() {
				continue
			}

			s.lastCollisions = append(s.lastCollisions, FrameCollision{
				Car:  pair[0].ID,
				With: pair[1].ID,
				Kind: pair[1].Type.String(),
			})
			s.collisions++

			s.debug("car " + pair[0].ID + " hit " + pair[1].Type.String() + " " + pair[1].ID)
		}
	}
}

func systemFrame(s *Sandbox) {
	if !s.frames {
		return
	}

	data, err := json.Marshal(s.GetFrame())
	if err != nil {
		s.debug("frame dropped: " + err.Error())
		return
	}

	notify.PostTimeout(FrameEvent, string(data), time.Millisecond)
}
