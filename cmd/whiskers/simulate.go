package main

import (
	"fmt"
	"math"

	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/cheggaaa/pb"
	"github.com/ttacon/chalk"
)

type SimulationReport struct {
	Ticks       int
	Cars        int
	Contacts    int     // contacts begun between a car and anything else
	MinDistance float64 // closest sensor hit over the run; +Inf when nothing was seen
}

func (report SimulationReport) String() string {
	distance := "none"
	if !math.IsInf(report.MinDistance, 1) {
		distance = fmt.Sprintf("%.1f", report.MinDistance)
	}

	return fmt.Sprintf("%d ticks, %d cars, %d contacts, closest obstacle %s", report.Ticks, report.Cars, report.Contacts, distance)
}

func runSimulation(s *sandbox.Sandbox, ticks int, dt float64, onStep func()) SimulationReport {
	report := SimulationReport{
		MinDistance: math.Inf(1),
	}

	for i := 0; i < ticks; i++ {
		s.Step(dt)

		for _, c := range s.Cars() {
			readings := c.GetSensorData()
			if closest := readings.Closest(); closest >= 0 {
				report.MinDistance = math.Min(report.MinDistance, readings[closest].Distance)
			}
		}

		if onStep != nil {
			onStep()
		}
	}

	frame := s.GetFrame()
	report.Ticks = frame.Tick
	report.Cars = len(frame.Cars)
	report.Contacts = frame.Collisions

	return report
}

func simulateAction(conf config.Config, ticks int, cars int, seed int64) error {
	s := sandbox.New(conf)

	if seed != 0 {
		s.SetSeed(seed)
	}

	for i := 0; i < cars; i++ {
		s.AddRandomCar()
	}

	if err := loadPolicy(s, conf.Dataset); err != nil {
		return err
	}

	s.SetAutopilot(true)

	bar := pb.New(ticks)
	bar.SetWidth(80)
	bar.Start()

	report := runSimulation(s, ticks, conf.PhysicsStep, func() { bar.Increment() })

	bar.Finish()

	color := chalk.Green
	if report.Contacts > 0 {
		color = chalk.Yellow
	}

	fmt.Println(color.Color(report.String()))

	return nil
}
