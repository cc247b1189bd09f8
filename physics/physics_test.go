package physics

import (
	"math"
	"testing"

	"github.com/bytearena/whiskers/car"
	"github.com/bytearena/whiskers/common/types"
	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ car.Body = (*Body)(nil)

const dt = 1.0 / 60.0

func v(x, y float64) vector.Vector2 {
	return vector.MakeVector2(x, y)
}

func TestNewWorldHasBounds(t *testing.T) {
	world := NewWorld(1280, 720, DefaultOptions())

	assert.Equal(t, 4, world.Len())
	assert.Equal(t, 1280.0, world.GetWidth())
	assert.Equal(t, 720.0, world.GetHeight())

	bound := world.GetBody("bound:top")
	require.NotNil(t, bound)
	assert.True(t, bound.IsStatic())
	assert.Equal(t, types.PhysicalBodyDescriptorType.Bound, bound.GetDescriptor().Type)
}

func TestCarBodyAxes(t *testing.T) {
	world := NewWorld(1280, 720, DefaultOptions())

	straight := world.AddCarBody("straight", v(100, 100), 0, 50, 25)
	assert.InDelta(t, 1.0, straight.GetForward().GetX(), 1e-9)
	assert.InDelta(t, 0.0, straight.GetForward().GetY(), 1e-9)
	assert.InDelta(t, 0.0, straight.GetLateral().GetX(), 1e-9)
	assert.InDelta(t, 1.0, straight.GetLateral().GetY(), 1e-9)

	turned := world.AddCarBody("turned", v(300, 100), math.Pi/2, 50, 25)
	assert.InDelta(t, 0.0, turned.GetForward().GetX(), 1e-9)
	assert.InDelta(t, 1.0, turned.GetForward().GetY(), 1e-9)

	assert.InDelta(t, 100.0, straight.GetPosition().GetX(), 1e-9)
	assert.InDelta(t, 100.0, straight.GetPosition().GetY(), 1e-9)
	assert.Equal(t, 0.0, straight.GetSpeed())
	assert.False(t, straight.IsStatic())
}

func TestForwardForceMovesCar(t *testing.T) {
	world := NewWorld(1280, 720, DefaultOptions())
	body := world.AddCarBody("car", v(200, 200), 0, 50, 25)

	for i := 0; i < 30; i++ {
		body.ApplyForce(body.GetForward().Scale(0.003), body.GetPosition())
		world.Step(dt)
	}

	assert.True(t, body.GetPosition().GetX() > 200)
	assert.InDelta(t, 200.0, body.GetPosition().GetY(), 1e-6)
	assert.True(t, body.GetSpeed() > 0)
}

func TestTorqueLastWriterWins(t *testing.T) {
	world := NewWorld(1280, 720, DefaultOptions())
	body := world.AddCarBody("car", v(200, 200), 0, 50, 25)

	body.SetTorque(0.03)
	body.SetTorque(-0.03)

	torque, pending := body.GetPendingTorque()
	assert.True(t, pending)
	assert.Equal(t, -0.03, torque)

	world.Step(dt)

	_, pending = body.GetPendingTorque()
	assert.False(t, pending)
	assert.True(t, body.GetAngle() < 0)
}

func TestResetCancelsMotion(t *testing.T) {
	world := NewWorld(1280, 720, DefaultOptions())
	body := world.AddCarBody("car", v(200, 200), 0, 50, 25)

	for i := 0; i < 10; i++ {
		body.ApplyForce(body.GetForward().Scale(0.003), body.GetPosition())
		world.Step(dt)
	}
	body.SetTorque(0.03)

	body.Reset(v(600, 300), math.Pi)

	_, pending := body.GetPendingTorque()
	assert.False(t, pending)
	assert.Equal(t, 0.0, body.GetSpeed())
	assert.InDelta(t, 600.0, body.GetPosition().GetX(), 1e-9)
	assert.InDelta(t, math.Pi, body.GetAngle(), 1e-9)
}

func TestObstacles(t *testing.T) {
	world := NewWorld(1280, 720, DefaultOptions())

	_, err := world.AddCircleObstacle("bad", v(10, 10), 0)
	assert.Error(t, err)

	circle, err := world.AddCircleObstacle("circle", v(400, 400), 40)
	require.NoError(t, err)
	assert.True(t, circle.IsStatic())

	_, err = world.AddPolygonObstacle("point", []vector.Vector2{v(1, 1)})
	assert.Error(t, err)

	box, err := world.AddPolygonObstacle("box", []vector.Vector2{v(0, 0), v(10, 0), v(10, 6), v(0, 6)})
	require.NoError(t, err)

	_, err = world.AddPolygonObstacle("edge", []vector.Vector2{v(500, 0), v(500, 100)})
	require.NoError(t, err)

	assert.Equal(t, 7, world.Len())
	assert.Same(t, box, world.GetBody("box"))

	// static bodies ignore actuation
	circle.SetTorque(1)
	_, pending := circle.GetPendingTorque()
	assert.False(t, pending)

	assert.True(t, world.RemoveBody(circle))
	assert.False(t, world.RemoveBody(circle))
	assert.False(t, world.RemoveBody(nil))
	assert.Nil(t, world.GetBody("circle"))
	assert.Equal(t, 6, world.Len())
}

func TestContacts(t *testing.T) {
	world := NewWorld(1280, 720, DefaultOptions())
	body := world.AddCarBody("car", v(100, 100), 0, 50, 25)

	_, err := world.AddCircleObstacle("circle", v(120, 100), 10)
	require.NoError(t, err)

	world.Step(dt)

	contacts := world.PopContacts()
	require.NotEmpty(t, contacts)
	assert.True(t, contacts[0].Involves("car"))
	assert.True(t, contacts[0].Involves("circle"))
	assert.True(t, body.GetContacts() >= 1)

	assert.Empty(t, world.PopContacts())
}

func TestBoundsLineTheInsideOfTheWorld(t *testing.T) {
	bounds := Bounds(1280, 720)
	require.Len(t, bounds, 4)

	for _, bound := range bounds {
		t.Run(bound.ID, func(t *testing.T) {
			assert.True(t, bound.Center.GetX()-bound.HalfWidth >= 0)
			assert.True(t, bound.Center.GetY()-bound.HalfHeight >= 0)
			assert.True(t, bound.Center.GetX()+bound.HalfWidth <= 1280)
			assert.True(t, bound.Center.GetY()+bound.HalfHeight <= 720)
			assert.InDelta(t, BoundThickness/2, math.Min(bound.HalfWidth, bound.HalfHeight), 1e-9)
		})
	}
}
