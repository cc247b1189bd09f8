package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/bytearena/whiskers/common/recording"
	"github.com/bytearena/whiskers/common/utils"
	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/bytearena/whiskers/vizserver"
	"github.com/skratchdot/open-golang/open"
	bettererrors "github.com/xtuc/better-errors"
)

type serveStatus struct {
	lock sync.RWMutex

	Tick      int  `json:"tick"`
	Cars      int  `json:"cars"`
	Samples   int  `json:"samples"`
	Recording bool `json:"recording"`
	Autopilot bool `json:"autopilot"`
}

// update is called by the simulation loop; get by the http handlers.
func (status *serveStatus) update(s *sandbox.Sandbox) {
	status.lock.Lock()
	defer status.lock.Unlock()

	status.Tick = s.GetTick()
	status.Cars = len(s.Cars())
	status.Samples = s.GetStore().Len()
	status.Recording = s.IsRecording()
	status.Autopilot = s.IsAutopilot()
}

func (status *serveStatus) get() interface{} {
	status.lock.RLock()
	defer status.lock.RUnlock()

	return map[string]interface{}{
		"tick":      status.Tick,
		"cars":      status.Cars,
		"samples":   status.Samples,
		"recording": status.Recording,
		"autopilot": status.Autopilot,
	}
}

func serveAction(conf config.Config, cars int, autopilot bool, nobrowser bool, recordFile string) error {
	s := sandbox.New(conf)

	for i := 0; i < cars; i++ {
		s.AddRandomCar()
	}

	if autopilot {
		if err := loadPolicy(s, conf.Dataset); err != nil {
			return err
		}

		s.SetAutopilot(true)
	}

	s.EnableFrames(true)

	var recorder recording.Recorder = recording.MakeEmptyRecorder()
	if recordFile != "" {
		recorder = recording.MakeArchiveRecorder(recordFile, recording.RecordMetadata{
			SandboxID: s.GetID(),
			Width:     conf.World.Width,
			Height:    conf.World.Height,
			Step:      conf.PhysicsStep,
		})
	}

	defer func() {
		if err := recorder.Close(); err != nil {
			utils.WarnWith(
				bettererrors.
					New("Could not write the record").
					With(bettererrors.NewFromErr(err)).
					SetContext("file", recordFile),
			)
		}
	}()

	status := &serveStatus{}
	status.update(s)

	addr := conf.Viz.Host + ":" + strconv.Itoa(conf.Viz.Port)
	// commands of the browser are applied between two steps
	commands := make(chan sandbox.Command, 64)
	viz := vizserver.NewVizService(addr, s.GetID(), status.get, commands)

	errc := viz.Start()

	url := "http://" + addr + "/"
	utils.DebugWith("serve", "Sandbox "+s.GetID()+" running", utils.Context{
		"url":  url,
		"cars": cars,
	})

	if !nobrowser {
		openBrowser(url)
	}

	interrupt := makeInterrupt()
	defer signal.Stop(interrupt)

	step := time.Duration(conf.PhysicsStep * float64(time.Second))
	ticker := time.NewTicker(step)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Step(conf.PhysicsStep)
			status.update(s)

			if recordFile != "" {
				data, err := json.Marshal(s.GetFrame())
				utils.Check(err, "Could not serialize frame")

				if err := recorder.Record(string(data)); err != nil {
					return bettererrors.
						New("Could not record frame").
						With(bettererrors.NewFromErr(err))
				}
			}

		case cmd := <-commands:
			if err := s.ApplyCommand(cmd); err != nil {
				utils.DebugWith("serve", "Command failed; "+err.Error(), utils.Context{
					"command": string(cmd.Type),
				})
			}

		case err, ok := <-errc:
			if ok && err != nil {
				return bettererrors.
					New("Visualisation server failed").
					With(bettererrors.NewFromErr(err)).
					SetContext("addr", addr)
			}

			return nil

		case <-interrupt:
			utils.Debug("serve", "Shutting down")

			if err := viz.Stop(); err != nil {
				return bettererrors.
					New("Could not stop the visualisation server").
					With(bettererrors.NewFromErr(err))
			}

			return nil
		}
	}
}

func openBrowser(url string) {
	if err := open.Run(url); err != nil {
		utils.WarnWith(
			bettererrors.
				New("Could not open the browser").
				With(bettererrors.NewFromErr(err)).
				SetContext("url", url),
		)
	}
}

func makeInterrupt() chan os.Signal {
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	return interrupt
}
