package main

import (
	"os/signal"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/bitly/go-notify"
	"github.com/bytearena/whiskers/common/replay"
	"github.com/bytearena/whiskers/common/utils"
	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/bytearena/whiskers/vizserver"
	bettererrors "github.com/xtuc/better-errors"
)

func replayAction(conf config.Config, filename string, nobrowser bool) error {
	replayer, err := replay.NewReplayer(filename)
	if err != nil {
		return bettererrors.
			New("Could not open record").
			With(bettererrors.NewFromErr(err)).
			SetContext("file", filename)
	}
	defer replayer.Close()

	metadata := replayer.GetMetadata()

	var frames int64
	status := func() interface{} {
		return map[string]interface{}{
			"replay": filename,
			"date":   metadata.Date,
			"frames": atomic.LoadInt64(&frames),
		}
	}

	addr := conf.Viz.Host + ":" + strconv.Itoa(conf.Viz.Port)
	viz := vizserver.NewVizService(addr, metadata.SandboxID, status, nil)
	errc := viz.Start()
	defer viz.Stop()

	url := "http://" + addr + "/"
	utils.DebugWith("replay", "Replaying "+filename, utils.Context{
		"url":     url,
		"sandbox": metadata.SandboxID,
	})

	if !nobrowser {
		openBrowser(url)
	}

	interrupt := makeInterrupt()
	defer signal.Stop(interrupt)

	step := metadata.Step
	if !(step > 0) {
		step = conf.PhysicsStep
	}

	ticker := time.NewTicker(time.Duration(step * float64(time.Second)))
	defer ticker.Stop()

	lines, readErrc := replayer.Read()

	for {
		select {
		case <-ticker.C:
			line, ok := <-lines
			if !ok {
				if err := <-readErrc; err != nil {
					return bettererrors.
						New("Could not read record").
						With(bettererrors.NewFromErr(err)).
						SetContext("file", filename)
				}

				utils.Debug("replay", "End of record")
				return nil
			}

			atomic.AddInt64(&frames, 1)
			notify.PostTimeout(sandbox.FrameEvent, line, time.Millisecond)

		case err, ok := <-errc:
			if ok && err != nil {
				return bettererrors.
					New("Visualisation server failed").
					With(bettererrors.NewFromErr(err)).
					SetContext("addr", addr)
			}

			return nil

		case <-interrupt:
			return nil
		}
	}
}
