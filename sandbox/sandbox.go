package sandbox

import (
	"math"
	"math/rand"
	"strconv"
	"time"

	"github.com/bytearena/ecs"
	"github.com/bytearena/whiskers/car"
	"github.com/bytearena/whiskers/common/utils"
	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/physics"
	"github.com/bytearena/whiskers/raycast"
	"github.com/bytearena/whiskers/training"
	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

// FrameEvent is the go-notify event receiving the JSON frame of every step.
const FrameEvent = "sandbox:frame"

type Sandbox struct {
	id      string
	config  config.Config
	ticknum int
	elapsed time.Duration

	manager *ecs.Manager
	world   *physics.World
	index   *raycast.Index

	physicalBodyComponent *ecs.Component
	carComponent          *ecs.Component
	obstacleComponent     *ecs.Component
	controlledComponent   *ecs.Component

	carsView      *ecs.View
	obstaclesView *ecs.View

	cars          map[string]*ecs.Entity
	carOrder      []string
	selected      string
	obstacles     map[string]*ecs.Entity
	userObstacles []string // undo stack

	store      *training.Store
	policy     training.Policy
	controller *Controller
	throttle   *Throttle
	recording  bool
	autopilot  bool
	frames     bool

	collisions     int
	lastCollisions []FrameCollision

	rand *rand.Rand
}

func New(conf config.Config) *Sandbox {
	manager := ecs.NewManager()

	s := &Sandbox{
		id:     uuid.NewV4().String(),
		config: conf,

		manager: manager,
		world:   physics.NewWorld(conf.World.Width, conf.World.Height, conf.Physics),
		index:   raycast.NewIndex(),

		physicalBodyComponent: manager.NewComponent(),
		carComponent:          manager.NewComponent(),
		obstacleComponent:     manager.NewComponent(),
		controlledComponent:   manager.NewComponent(),

		cars:          make(map[string]*ecs.Entity),
		carOrder:      make([]string, 0),
		obstacles:     make(map[string]*ecs.Entity),
		userObstacles: make([]string, 0),

		lastCollisions: make([]FrameCollision, 0),

		store:      training.NewStore(conf.Epsilon),
		controller: NewController(),
		throttle:   NewThrottle(conf.GetTickInterval()),

		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	s.carsView = manager.CreateView(
		s.carComponent,
		s.physicalBodyComponent,
		s.controlledComponent,
	)

	s.obstaclesView = manager.CreateView(
		s.obstacleComponent,
	)

	s.physicalBodyComponent.SetDestructor(func(entity *ecs.Entity, data interface{}) {
		s.world.RemoveBody(s.CastPhysicalBody(data))
	})

	s.obstacleComponent.SetDestructor(func(entity *ecs.Entity, data interface{}) {
		s.index.Remove(s.CastObstacle(data).GetShape().GetID())
	})

	initWorld(s)

	return s
}

func initWorld(s *Sandbox) {
	for _, bound := range physics.Bounds(s.config.World.Width, s.config.World.Height) {
		shape := raycast.MakeOrientedRectangle(bound.ID, bound.Center, 2*bound.HalfWidth, 2*bound.HalfHeight, 0, true)
		s.newEntityObstacle(shape, s.world.GetBody(bound.ID), false)
	}

	for _, obstacle := range s.config.Obstacles {
		_, err := s.addObstacle(raycast.MakeCircle(
			uuid.NewV4().String(),
			vector.MakeVector2(obstacle.X, obstacle.Y),
			obstacle.Radius,
			true,
		), false)

		if err != nil {
			s.debug("configured obstacle skipped: " + err.Error())
		}
	}
}

func (s *Sandbox) debug(msg string) {
	if s.config.Debug {
		utils.DebugWith("sandbox", msg, utils.Context{"sandbox": s.id})
	}
}

func (s *Sandbox) GetID() string { return s.id }
func (s *Sandbox) GetConfig() config.Config { return s.config }
func (s *Sandbox) GetWorld() *physics.World { return s.world }
func (s *Sandbox) GetIndex() *raycast.Index { return s.index }
func (s *Sandbox) GetStore() *training.Store { return s.store }
func (s *Sandbox) GetController() *Controller { return s.controller }
func (s *Sandbox) GetTick() int { return s.ticknum }
func (s *Sandbox) GetElapsed() time.Duration { return s.elapsed }
func (s *Sandbox) Obstacles() []raycast.Obstacle { return s.index.Obstacles() }
func (s *Sandbox) IsRecording() bool { return s.recording }
func (s *Sandbox) IsAutopilot() bool { return s.autopilot }
func (s *Sandbox) GetPolicy() training.Policy { return s.policy }
func (s *Sandbox) SetSeed(seed int64) { s.rand = rand.New(rand.NewSource(seed)) }
func (s *Sandbox) EnableFrames(enabled bool) { s.frames = enabled }
func (s *Sandbox) GetCollisions() int { return s.collisions }

func (s *Sandbox) getEntity(entity *ecs.Entity, tagelements ...interface{}) *ecs.QueryResult {
	return s.manager.GetEntityByID(entity.GetID(), tagelements...)
}

///////////////////////////////////////////////////////////////////////////////
// Cars
///////////////////////////////////////////////////////////////////////////////

// AddCar puts a car at position heading along angle; the first car becomes the selected one.
func (s *Sandbox) AddCar(position vector.Vector2, angle float64) *car.Car {
	id := uuid.NewV4().String()
	c := s.newEntityCar(id, position, angle)

	if s.selected == "" {
		s.selected = id
	}

	s.debug("car " + c.GetName() + " added")

	return c
}

// AddRandomCar drops a car within 100 units of the world centre.
func (s *Sandbox) AddRandomCar() *car.Car {
	w, h := s.config.World.Width, s.config.World.Height

	return s.AddCar(vector.MakeVector2(
		w/2-100+s.rand.Float64()*200,
		h/2-100+s.rand.Float64()*200,
	), 0)
}

func (s *Sandbox) getCar(id string) (*car.Car, *physics.Body, *Controlled) {
	entity, ok := s.cars[id]
	if !ok {
		return nil, nil, nil
	}

	qr := s.getEntity(entity, s.carComponent, s.physicalBodyComponent, s.controlledComponent)
	if qr == nil {
		return nil, nil, nil
	}

	return s.CastCar(qr.Components[s.carComponent]),
		s.CastPhysicalBody(qr.Components[s.physicalBodyComponent]),
		s.CastControlled(qr.Components[s.controlledComponent])
}

func (s *Sandbox) GetCar(id string) *car.Car {
	c, _, _ := s.getCar(id)
	return c
}

// Cars are listed in creation order.
func (s *Sandbox) Cars() []*car.Car {
	res := make([]*car.Car, 0, len(s.carOrder))
	for _, id := range s.carOrder {
		if c := s.GetCar(id); c != nil {
			res = append(res, c)
		}
	}

	return res
}

func (s *Sandbox) SelectedCar() *car.Car {
	if s.selected == "" {
		return nil
	}

	return s.GetCar(s.selected)
}

func (s *Sandbox) SelectCar(id string) error {
	if _, ok := s.cars[id]; !ok {
		return errors.Errorf("sandbox: no car %s", id)
	}

	s.selected = id
	return nil
}

func (s *Sandbox) RemoveCar(id string) bool {
	entity, ok := s.cars[id]
	if !ok {
		return false
	}

	s.manager.DisposeEntities(entity)
	delete(s.cars, id)

	for i, candidate := range s.carOrder {
		if candidate == id {
			s.carOrder = append(s.carOrder[:i], s.carOrder[i+1:]...)
			break
		}
	}

	if s.selected == id {
		s.selected = ""
		if len(s.carOrder) > 0 {
			s.selected = s.carOrder[0]
		}
	}

	return true
}

// ResetCar moves the selected car to a random place of the world, at a random heading.
func (s *Sandbox) ResetCar() bool {
	_, body, controlled := s.getCar(s.selected)
	if body == nil {
		return false
	}

	w, h := s.config.World.Width, s.config.World.Height
	body.Reset(vector.MakeVector2(
		w*(0.1+0.8*s.rand.Float64()),
		h*(0.1+0.8*s.rand.Float64()),
	), s.rand.Float64()*math.Pi)

	controlled.lastAction = car.Action{}

	return true
}

///////////////////////////////////////////////////////////////////////////////
// Obstacles
///////////////////////////////////////////////////////////////////////////////

func (s *Sandbox) addObstacle(shape raycast.Obstacle, user bool) (string, error) {
	var body *physics.Body
	var err error

	switch obstacle := shape.(type) {
	case *raycast.Circle:
		body, err = s.world.AddCircleObstacle(obstacle.GetID(), obstacle.GetCenter(), obstacle.GetRadius())
	case *raycast.Polygon:
		body, err = s.world.AddPolygonObstacle(obstacle.GetID(), obstacle.GetVertices())
	default:
		err = errors.Errorf("sandbox: unsupported obstacle kind %s", shape.Kind())
	}

	if err != nil {
		return "", err
	}

	s.newEntityObstacle(shape, body, user)

	return shape.GetID(), nil
}

func (s *Sandbox) AddCircleObstacle(center vector.Vector2, radius float64) (string, error) {
	id, err := s.addObstacle(raycast.MakeCircle(uuid.NewV4().String(), center, radius, true), true)
	if err != nil {
		return "", errors.Wrap(err, "could not add circle obstacle")
	}

	s.debug("obstacle " + id + " added")

	return id, nil
}

// AddWall turns a drag from `from` to `to` into an obstacle: a circle of
// ObstacleSize radius at `to` for short drags, else a thin wall along the drag,
// clipped to the world.
func (s *Sandbox) AddWall(from vector.Vector2, to vector.Vector2) (string, error) {
	distance := from.DistanceTo(to)

	if distance < s.config.ObstacleSize {
		return s.AddCircleObstacle(to, s.config.ObstacleSize)
	}

	id := uuid.NewV4().String()
	wall := raycast.MakeOrientedRectangle(
		id,
		from.Lerp(to, 0.5),
		distance,
		s.config.WallThickness,
		to.Sub(from).Angle(),
		true,
	)

	clipped, ok := raycast.ClipPolygon(
		wall,
		vector.MakeNullVector2(),
		vector.MakeVector2(s.config.World.Width, s.config.World.Height),
	)

	if !ok {
		return "", errors.Errorf("wall from %s to %s is outside of the world", from, to)
	}

	if _, err := s.addObstacle(clipped, true); err != nil {
		return "", errors.Wrap(err, "could not add wall")
	}

	s.debug("wall " + id + " added")

	return id, nil
}

func (s *Sandbox) removeObstacle(id string) bool {
	entity, ok := s.obstacles[id]
	if !ok {
		return false
	}

	s.manager.DisposeEntities(entity)
	delete(s.obstacles, id)

	for i, candidate := range s.userObstacles {
		if candidate == id {
			s.userObstacles = append(s.userObstacles[:i], s.userObstacles[i+1:]...)
			break
		}
	}

	return true
}

// RemoveObstaclesAt removes every user obstacle containing point.
func (s *Sandbox) RemoveObstaclesAt(point vector.Vector2) int {
	toRemove := make([]string, 0)

	for _, entityresult := range s.obstaclesView.Get() {
		obstacleAspect := s.CastObstacle(entityresult.Components[s.obstacleComponent])
		if !obstacleAspect.IsUser() {
			continue
		}

		switch shape := obstacleAspect.GetShape().(type) {
		case *raycast.Circle:
			if shape.Contains(point) {
				toRemove = append(toRemove, shape.GetID())
			}
		case *raycast.Polygon:
			if shape.Contains(point) {
				toRemove = append(toRemove, shape.GetID())
			}
		}
	}

	for _, id := range toRemove {
		s.removeObstacle(id)
		s.debug("obstacle " + id + " removed")
	}

	return len(toRemove)
}

// UndoObstacle removes the most recent user obstacle.
func (s *Sandbox) UndoObstacle() bool {
	if len(s.userObstacles) == 0 {
		return false
	}

	id := s.userObstacles[len(s.userObstacles)-1]
	s.debug("obstacle " + id + " undone")

	return s.removeObstacle(id)
}

func (s *Sandbox) UserObstacles() []raycast.Obstacle {
	res := make([]raycast.Obstacle, 0, len(s.userObstacles))
	for _, obstacle := range s.index.Obstacles() {
		if entity, ok := s.obstacles[obstacle.GetID()]; ok {
			qr := s.getEntity(entity, s.obstacleComponent)
			if qr != nil && s.CastObstacle(qr.Components[s.obstacleComponent]).IsUser() {
				res = append(res, obstacle)
			}
		}
	}

	return res
}

///////////////////////////////////////////////////////////////////////////////
// Training
///////////////////////////////////////////////////////////////////////////////

func (s *Sandbox) SetRecording(recording bool) {
	s.recording = recording
	s.debug("recording " + onOff(recording))
}

func (s *Sandbox) SetAutopilot(autopilot bool) {
	s.autopilot = autopilot
	s.debug("autopilot " + onOff(autopilot))
}

func (s *Sandbox) SetPolicy(policy training.Policy) {
	s.policy = policy
}

// TrainPolicy replaces the policy with a nearest neighbour policy over the recorded samples.
func (s *Sandbox) TrainPolicy() error {
	if s.store.Len() == 0 {
		return errors.New("no training data recorded")
	}

	policy := training.NewNearestNeighbourPolicy(s.store)
	s.SetPolicy(policy)
	s.debug("policy trained on " + strconv.Itoa(policy.Len()) + " samples")

	return nil
}

func (s *Sandbox) LoadDataset(filename string) error {
	if err := s.store.LoadFile(filename); err != nil {
		return err
	}

	s.debug("dataset " + filename + " loaded")
	return nil
}

func (s *Sandbox) SaveDataset(filename string) error {
	return s.store.SaveFile(filename)
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
