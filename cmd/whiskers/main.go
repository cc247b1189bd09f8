package main

import (
	"math/rand"
	"os"
	"time"

	"github.com/bytearena/whiskers/common/utils"
	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/urfave/cli"
	bettererrors "github.com/xtuc/better-errors"
)

func main() {
	rand.Seed(time.Now().UnixNano())

	app := makeapp()
	if err := app.Run(os.Args); err != nil {
		utils.FailWith(err)
	}
}

func makeapp() *cli.App {
	app := cli.NewApp()
	app.Description = "Whiskers: teach a car to avoid obstacles by driving it"
	app.Name = "whiskers"
	app.Version = utils.GetVersion()

	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config", Value: config.DefaultPath(), Usage: "Path of the config file; defaults are used when it does not exist"},
		cli.StringFlag{Name: "dataset", Value: "", Usage: "Training dataset file; overrides the config"},
		cli.BoolFlag{Name: "debug", Usage: "Enable debug logging"},
	}

	app.Commands = []cli.Command{
		{
			Name:    "serve",
			Aliases: []string{"s"},
			Usage:   "Run the sandbox in real time and stream it to the browser",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "host", Value: "", Usage: "IP serving the visualisation; defaults to the config"},
				cli.IntFlag{Name: "port", Value: 0, Usage: "Port serving the visualisation; defaults to the config"},
				cli.IntFlag{Name: "cars", Value: 1, Usage: "Number of cars in the sandbox"},
				cli.BoolFlag{Name: "autopilot", Usage: "Drive the cars with a policy trained on the dataset"},
				cli.BoolFlag{Name: "no-browser", Usage: "Disable automatic browser opening at start"},
				cli.StringFlag{Name: "record-file", Value: "", Usage: "Destination file for recording the frames"},
			},
			Action: func(c *cli.Context) error {
				conf, err := loadConfig(c)
				if err != nil {
					return err
				}

				if host := c.String("host"); host != "" {
					conf.Viz.Host = host
				}

				if port := c.Int("port"); port != 0 {
					conf.Viz.Port = port
				}

				return serveAction(conf, c.Int("cars"), c.Bool("autopilot"), c.Bool("no-browser"), c.String("record-file"))
			},
		},
		{
			Name:      "replay",
			Aliases:   []string{"r"},
			Usage:     "Stream a recorded session to the browser",
			ArgsUsage: "<record file>",
			Flags: []cli.Flag{
				cli.StringFlag{Name: "host", Value: "", Usage: "IP serving the visualisation; defaults to the config"},
				cli.IntFlag{Name: "port", Value: 0, Usage: "Port serving the visualisation; defaults to the config"},
				cli.BoolFlag{Name: "no-browser", Usage: "Disable automatic browser opening at start"},
			},
			Action: func(c *cli.Context) error {
				conf, err := loadConfig(c)
				if err != nil {
					return err
				}

				if c.NArg() == 0 {
					return bettererrors.New("Missing record file")
				}

				if host := c.String("host"); host != "" {
					conf.Viz.Host = host
				}

				if port := c.Int("port"); port != 0 {
					conf.Viz.Port = port
				}

				return replayAction(conf, c.Args().First(), c.Bool("no-browser"))
			},
		},
		{
			Name:    "drive",
			Aliases: []string{"d"},
			Usage:   "Drive a car from the terminal and record training samples",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "cars", Value: 1, Usage: "Number of cars in the sandbox; the first one is driven"},
				cli.BoolFlag{Name: "load", Usage: "Load the existing dataset before recording"},
			},
			Action: func(c *cli.Context) error {
				conf, err := loadConfig(c)
				if err != nil {
					return err
				}

				return driveAction(conf, c.Int("cars"), c.Bool("load"))
			},
		},
		{
			Name:  "simulate",
			Usage: "Run the sandbox headless with the autopilot and report collisions",
			Flags: []cli.Flag{
				cli.IntFlag{Name: "ticks", Value: 3600, Usage: "Number of physics steps to simulate"},
				cli.IntFlag{Name: "cars", Value: 1, Usage: "Number of cars in the sandbox"},
				cli.Int64Flag{Name: "seed", Value: 0, Usage: "Seed of the car placement; random when 0"},
			},
			Action: func(c *cli.Context) error {
				conf, err := loadConfig(c)
				if err != nil {
					return err
				}

				return simulateAction(conf, c.Int("ticks"), c.Int("cars"), c.Int64("seed"))
			},
		},
		{
			Name:  "dataset",
			Usage: "Operations on training datasets",
			Subcommands: []cli.Command{
				{
					Name:      "inspect",
					Usage:     "Print the number of samples per action",
					ArgsUsage: "[dataset file]",
					Flags: []cli.Flag{
						cli.BoolFlag{Name: "dump", Usage: "Dump every sample"},
					},
					Action: func(c *cli.Context) error {
						conf, err := loadConfig(c)
						if err != nil {
							return err
						}

						filename := conf.Dataset
						if c.NArg() > 0 {
							filename = c.Args().First()
						}

						return datasetInspectAction(conf, filename, c.Bool("dump"))
					},
				},
			},
		},
	}

	return app
}

func loadConfig(c *cli.Context) (config.Config, error) {
	configpath := c.GlobalString("config")

	conf, err := config.LoadOrDefault(configpath)
	if err != nil {
		return conf, bettererrors.
			New("Could not load config").
			With(bettererrors.NewFromErr(err)).
			SetContext("config", configpath)
	}

	if dataset := c.GlobalString("dataset"); dataset != "" {
		conf.Dataset = dataset
	}

	if c.GlobalBool("debug") {
		conf.Debug = true
	}

	return conf, nil
}

func loadPolicy(s *sandbox.Sandbox, filename string) error {
	if err := s.LoadDataset(filename); err != nil {
		return bettererrors.
			New("Could not load dataset").
			With(bettererrors.NewFromErr(err)).
			SetContext("dataset", filename)
	}

	if err := s.TrainPolicy(); err != nil {
		return bettererrors.
			New("Could not train the autopilot").
			With(bettererrors.NewFromErr(err)).
			SetContext("dataset", filename)
	}

	return nil
}
