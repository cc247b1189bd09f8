package config

import (
	"encoding/json"
	"io/ioutil"
	"math"
	"os"
	"path"
	"time"

	"github.com/bytearena/whiskers/car"
	"github.com/bytearena/whiskers/physics"
	"github.com/bytearena/whiskers/training"
	"github.com/kardianos/osext"
	"github.com/pkg/errors"
)

const Filename = "whiskers.json"

type ObstacleConfig struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

type WorldConfig struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type VizConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

type Config struct {
	World          WorldConfig      `json:"world"`
	TickIntervalMs int              `json:"tickIntervalMs"` // throttle of the control system
	PhysicsStep    float64          `json:"physicsStep"`    // expressed in s
	CarLength      float64          `json:"carLength"`
	CarWidth       float64          `json:"carWidth"`
	ObstacleSize   float64          `json:"obstacleSize"`  // radius of clicked obstacles, minimum wall length
	WallThickness  float64          `json:"wallThickness"` // thickness of dragged walls
	Car            car.Options      `json:"car"`
	Physics        physics.Options  `json:"physics"`
	Epsilon        float64          `json:"epsilon"`
	Obstacles      []ObstacleConfig `json:"obstacles"`
	Dataset        string           `json:"dataset"`
	Viz            VizConfig        `json:"viz"`
	Debug          bool             `json:"debug"`
}

func Default() Config {
	width, height := 1280.0, 720.0

	return Config{
		World:          WorldConfig{Width: width, Height: height},
		TickIntervalMs: 50,
		PhysicsStep:    1.0 / 60.0,
		CarLength:      50,
		CarWidth:       25,
		ObstacleSize:   25,
		WallThickness:  6,
		Car:            car.DefaultOptions(),
		Physics:        physics.DefaultOptions(),
		Epsilon:        training.DefaultEpsilon,
		Obstacles: []ObstacleConfig{
			{X: 200, Y: 200, Radius: 40},
			{X: width - 200, Y: 200, Radius: 40},
			{X: width - 200, Y: height - 200, Radius: 40},
			{X: 200, Y: height - 200, Radius: 40},
		},
		Dataset: "dataset.json",
		Viz: VizConfig{
			Host: "127.0.0.1",
			Port: 8081,
		},
	}
}

func (conf Config) GetTickInterval() time.Duration {
	return time.Duration(conf.TickIntervalMs) * time.Millisecond
}

// Validate rejects values the simulation cannot run with.
func (conf Config) Validate() error {
	if !(conf.World.Width > 0) || !(conf.World.Height > 0) {
		return errors.Errorf("world size must be positive, got %fx%f", conf.World.Width, conf.World.Height)
	}

	if conf.TickIntervalMs < 0 {
		return errors.Errorf("tickIntervalMs must not be negative, got %d", conf.TickIntervalMs)
	}

	if !(conf.PhysicsStep > 0) || math.IsInf(conf.PhysicsStep, 0) {
		return errors.Errorf("physicsStep must be positive, got %f", conf.PhysicsStep)
	}

	if !(conf.CarLength > 0) || !(conf.CarWidth > 0) {
		return errors.Errorf("car size must be positive, got %fx%f", conf.CarLength, conf.CarWidth)
	}

	if conf.Car.FrontSensors < 0 || conf.Car.RearSensors < 0 {
		return errors.New("sensor counts must not be negative")
	}

	if math.IsNaN(conf.Car.FovDistance) || math.IsInf(conf.Car.FovDistance, 0) {
		return errors.New("fovDistance must be finite")
	}

	if conf.Car.FovDistance < 0 {
		return errors.Errorf("fovDistance must not be negative, got %f", conf.Car.FovDistance)
	}

	if conf.Epsilon < 0 || math.IsNaN(conf.Epsilon) {
		return errors.Errorf("epsilon must not be negative, got %f", conf.Epsilon)
	}

	for i, obstacle := range conf.Obstacles {
		if !(obstacle.Radius > 0) {
			return errors.Errorf("obstacle %d has a non positive radius", i)
		}
	}

	return nil
}

// Parse overlays the JSON document on the defaults: absent keys keep their default.
func Parse(data []byte) (Config, error) {
	conf := Default()

	if err := json.Unmarshal(data, &conf); err != nil {
		return Default(), errors.Wrap(err, "invalid JSON in config")
	}

	if err := conf.Validate(); err != nil {
		return Default(), errors.Wrap(err, "invalid config")
	}

	return conf, nil
}

func Load(configpath string) (Config, error) {
	data, err := ioutil.ReadFile(configpath)
	if err != nil {
		return Default(), errors.Wrapf(err, "cannot read config file %s", configpath)
	}

	conf, err := Parse(data)
	if err != nil {
		return Default(), errors.Wrapf(err, "config file %s", configpath)
	}

	return conf, nil
}

// LoadOrDefault is Load, except that a missing file yields the defaults.
func LoadOrDefault(configpath string) (Config, error) {
	if _, err := os.Stat(configpath); os.IsNotExist(err) {
		return Default(), nil
	}

	return Load(configpath)
}

// DefaultPath is whiskers.json next to the running executable.
func DefaultPath() string {
	exfolder, err := osext.ExecutableFolder()
	if err != nil {
		return Filename
	}

	return path.Join(exfolder, Filename)
}
