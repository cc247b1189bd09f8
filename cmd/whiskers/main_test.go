package main

import (
	"math"
	"strings"
	"testing"

	"github.com/bytearena/whiskers/car"
	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/raycast"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/bytearena/whiskers/sensor"
	"github.com/bytearena/whiskers/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMakeApp(t *testing.T) {
	app := makeapp()

	for _, name := range []string{"serve", "replay", "drive", "simulate", "dataset"} {
		t.Run(name, func(t *testing.T) {
			assert.NotNil(t, app.Command(name))
		})
	}

	dataset := app.Command("dataset")
	require.NotNil(t, dataset)
	require.Len(t, dataset.Subcommands, 1)
	assert.Equal(t, "inspect", dataset.Subcommands[0].Name)
}

func TestCountActions(t *testing.T) {
	store := training.NewStore(training.DefaultEpsilon)

	forward := car.Action{Move: car.MoveForward}
	left := car.Action{Turn: car.TurnLeft}

	store.Add([]float64{0.1, 0.2}, forward.Label())
	store.Add([]float64{0.5, 0.2}, forward.Label())
	store.Add([]float64{0.9, 0.9}, left.Label())

	counts, err := countActions(store)
	require.NoError(t, err)
	assert.Equal(t, []labelCount{
		{Action: forward, Count: 2},
		{Action: left, Count: 1},
	}, counts)

	store.Add([]float64{0.3, 0.3}, car.ActionCount)
	_, err = countActions(store)
	assert.Error(t, err)
}

func TestRunSimulation(t *testing.T) {
	conf := config.Default()
	conf.TickIntervalMs = 0

	s := sandbox.New(conf)
	s.AddCar(vector.MakeVector2(330, 200), 0) // configured obstacle at (200, 200) behind

	steps := 0
	report := runSimulation(s, 10, conf.PhysicsStep, func() { steps++ })

	assert.Equal(t, 10, steps)
	assert.Equal(t, 10, report.Ticks)
	assert.Equal(t, 1, report.Cars)
	assert.False(t, math.IsInf(report.MinDistance, 1))
	assert.Contains(t, report.String(), "10 ticks, 1 cars")
}

func TestSimulationReportWithoutHits(t *testing.T) {
	report := SimulationReport{Ticks: 3, MinDistance: math.Inf(1)}
	assert.Contains(t, report.String(), "closest obstacle none")
}

func TestFormatSensorBars(t *testing.T) {
	readings := sensor.Readings{
		{Collides: false, DistanceRel: 1},
		{Collides: true, Distance: 50, DistanceRel: 0.25},
	}

	lines := strings.Split(strings.TrimRight(formatSensorBars(readings, 36), "\n"), "\n")
	require.Len(t, lines, 2)

	assert.Equal(t, 0, strings.Count(lines[0], "#"))
	assert.True(t, strings.HasSuffix(lines[0], "-"))

	assert.Equal(t, 15, strings.Count(lines[1], "#"))
	assert.True(t, strings.HasSuffix(lines[1], "50.0"))
}

func TestObstacleCommandsAheadOfTheCar(t *testing.T) {
	conf := config.Default()
	conf.Obstacles = nil

	s := sandbox.New(conf)

	_, ok := obstacleCommand(s, 'o')
	assert.False(t, ok, "no car to drop an obstacle in front of")

	s.AddCar(vector.MakeVector2(300, 400), 0)

	circle, ok := obstacleCommand(s, 'o')
	require.True(t, ok)
	require.NoError(t, s.ApplyCommand(circle))

	wall, ok := obstacleCommand(s, 'w')
	require.True(t, ok)
	require.NoError(t, s.ApplyCommand(wall))

	user := s.UserObstacles()
	require.Len(t, user, 2)
	assert.True(t, user[0].(*raycast.Circle).GetCenter().Equals(vector.MakeVector2(400, 400)))
	assert.True(t, user[1].(*raycast.Polygon).Contains(vector.MakeVector2(400, 440)))

	// both contain the point ahead
	remove, ok := obstacleCommand(s, 'c')
	require.True(t, ok)
	require.NoError(t, s.ApplyCommand(remove))
	assert.Empty(t, s.UserObstacles())

	undo, ok := obstacleCommand(s, 'u')
	require.True(t, ok)
	assert.Error(t, s.ApplyCommand(undo))

	_, ok = obstacleCommand(s, 'z')
	assert.False(t, ok)
}
