package sandbox

import (
	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/bytearena/whiskers/raycast"
	"github.com/bytearena/whiskers/sensor"
)

type FrameCar struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Selected bool            `json:"selected"`
	Position vector.Vector2  `json:"position"`
	Angle    float64         `json:"angle"`
	Speed    float64         `json:"speed"`
	Action   string          `json:"action"`
	Manual   bool            `json:"manual"`
	Contacts int             `json:"contacts"`
	Fov      float64         `json:"fov"`
	Sensors  sensor.Readings `json:"sensors"`
}

type FrameObstacle struct {
	ID       string           `json:"id"`
	Kind     string           `json:"kind"`
	User     bool             `json:"user"`
	Center   *vector.Vector2  `json:"center,omitempty"`
	Radius   float64          `json:"radius,omitempty"`
	Vertices []vector.Vector2 `json:"vertices,omitempty"`
}

// FrameCollision is a contact begun during the last step between a car and another body.
type FrameCollision struct {
	Car  string `json:"car"`
	With string `json:"with"`
	Kind string `json:"kind"` // type of the other body: Car, Obstacle or Bound
}

// Frame is the state of the sandbox sent to the visualisation.
type Frame struct {
	SandboxID  string           `json:"sandboxId"`
	Tick       int              `json:"tick"`
	Elapsed    float64          `json:"elapsed"` // expressed in s
	Width      float64          `json:"width"`
	Height     float64          `json:"height"`
	Recording  bool             `json:"recording"`
	Autopilot  bool             `json:"autopilot"`
	Samples    int              `json:"samples"`
	Collisions int              `json:"collisions"` // since the sandbox started
	Cars       []FrameCar       `json:"cars"`
	Obstacles  []FrameObstacle  `json:"obstacles"`
	Contacts   []FrameCollision `json:"contacts"`
}

func (s *Sandbox) GetFrame() Frame {
	frame := Frame{
		SandboxID:  s.id,
		Tick:       s.ticknum,
		Elapsed:    s.elapsed.Seconds(),
		Width:      s.config.World.Width,
		Height:     s.config.World.Height,
		Recording:  s.recording,
		Autopilot:  s.autopilot,
		Samples:    s.store.Len(),
		Collisions: s.collisions,
		Cars:       make([]FrameCar, 0, len(s.carOrder)),
		Obstacles:  make([]FrameObstacle, 0, s.index.Len()),
		Contacts:   append([]FrameCollision(nil), s.lastCollisions...),
	}

	for _, id := range s.carOrder {
		c, body, controlled := s.getCar(id)
		if c == nil {
			continue
		}

		readings := make(sensor.Readings, len(c.GetSensorData()))
		copy(readings, c.GetSensorData())

		frame.Cars = append(frame.Cars, FrameCar{
			ID:       id,
			Name:     c.GetName(),
			Selected: id == s.selected,
			Position: body.GetPosition(),
			Angle:    body.GetAngle(),
			Speed:    body.GetSpeed(),
			Action:   controlled.GetLastAction().String(),
			Manual:   controlled.IsManual(),
			Contacts: body.GetContacts(),
			Fov:      c.GetFovDistance(),
			Sensors:  readings,
		})
	}

	for _, entityresult := range s.obstaclesView.Get() {
		obstacleAspect := s.CastObstacle(entityresult.Components[s.obstacleComponent])

		item := FrameObstacle{
			ID:   obstacleAspect.GetShape().GetID(),
			Kind: obstacleAspect.GetShape().Kind().String(),
			User: obstacleAspect.IsUser(),
		}

		switch shape := obstacleAspect.GetShape().(type) {
		case *raycast.Circle:
			center := shape.GetCenter()
			item.Center = &center
			item.Radius = shape.GetRadius()
		case *raycast.Polygon:
			item.Vertices = shape.GetVertices()
		}

		frame.Obstacles = append(frame.Obstacles, item)
	}

	return frame
}
