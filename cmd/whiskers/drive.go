package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/bytearena/whiskers/common/utils"
	"github.com/bytearena/whiskers/config"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/bytearena/whiskers/sensor"
	"github.com/jroimartin/gocui"
	bettererrors "github.com/xtuc/better-errors"
)

var (
	SENSORS_VIEW_NAME = "sensors"
	STATUS_VIEW_NAME  = "status"
	LOG_VIEW_NAME     = "log"

	STATUS_PANEL_SIZE = 4
	MAX_LOG_LINES     = 60

	// Terminals only report key presses, held keys repeat; a key is
	// released when it has not repeated for this long.
	KEY_HOLD = 150 * time.Millisecond
)

type DriveOutput struct {
	gm      *gocui.Gui
	sandbox *sandbox.Sandbox
	dataset string
	dt      float64

	pressed map[sandbox.Key]time.Time
	lines   []string
	done    chan struct{}
}

func NewDriveOutput(s *sandbox.Sandbox, dataset string, dt float64) *DriveOutput {
	return &DriveOutput{
		sandbox: s,
		dataset: dataset,
		dt:      dt,
		pressed: make(map[sandbox.Key]time.Time),
		lines:   make([]string, 0),
		done:    make(chan struct{}),
	}
}

func driveAction(conf config.Config, cars int, load bool) error {
	s := sandbox.New(conf)

	if cars < 1 {
		cars = 1
	}

	for i := 0; i < cars; i++ {
		s.AddRandomCar()
	}

	if load {
		if err := loadPolicy(s, conf.Dataset); err != nil {
			return err
		}
	}

	ui := NewDriveOutput(s, conf.Dataset, conf.PhysicsStep)

	// debug lines of the sandbox go to the log view instead of the terminal
	utils.SetDebugOutput(ui)
	defer utils.SetDebugOutput(nil)

	return ui.Run()
}

func (ui *DriveOutput) Run() error {
	gm, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return bettererrors.
			New("Could not initialize the terminal").
			With(bettererrors.NewFromErr(err))
	}

	ui.gm = gm
	defer ui.Close()

	gm.SetManagerFunc(ui.layout)

	if err := ui.bindKeys(); err != nil {
		return bettererrors.
			New("Could not bind keys").
			With(bettererrors.NewFromErr(err))
	}

	go ui.loop()

	ui.LogInfo("arrows drive, r record, a autopilot, t train, s save, x reset, o circle, w wall, c clear, u undo, ctrl-c quit")

	// Main loop is blocking
	if err := gm.MainLoop(); err != nil && err != gocui.ErrQuit {
		return bettererrors.
			New("Terminal interface failed").
			With(bettererrors.NewFromErr(err))
	}

	return nil
}

func (ui *DriveOutput) Close() error {
	close(ui.done)
	ui.gm.Close()

	return nil
}

// Write receives the debug lines of the sandbox.
func (ui *DriveOutput) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		ui.appendLine(line)
	}

	return len(p), nil
}

func (ui *DriveOutput) appendLine(line string) {
	ui.lines = append([]string{time.Now().Format(time.StampMilli) + " - " + line}, ui.lines...)

	if len(ui.lines) > MAX_LOG_LINES {
		ui.lines = ui.lines[:MAX_LOG_LINES]
	}
}

// LogInfo must be called from the gui goroutine.
func (ui *DriveOutput) LogInfo(msg string) {
	ui.appendLine(msg)
}

func (ui *DriveOutput) loop() {
	ticker := time.NewTicker(time.Duration(ui.dt * float64(time.Second)))
	defer ticker.Stop()

	for {
		select {
		case <-ui.done:
			return
		case <-ticker.C:
			// the sandbox is only touched from the gui goroutine
			ui.gm.Update(ui.tick)
		}
	}
}

func (ui *DriveOutput) tick(g *gocui.Gui) error {
	now := time.Now()
	controller := ui.sandbox.GetController()

	for key, at := range ui.pressed {
		if now.Sub(at) > KEY_HOLD {
			controller.Release(key)
			delete(ui.pressed, key)
		}
	}

	ui.sandbox.Step(ui.dt)

	return ui.render(g)
}

func (ui *DriveOutput) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	sensorsHeight := 2
	if selected := ui.sandbox.SelectedCar(); selected != nil {
		sensorsHeight += len(selected.GetSlots())
	}

	if v, err := g.SetView(SENSORS_VIEW_NAME, 0, 0, maxX-1, sensorsHeight); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		v.Title = "sensors"
	}

	if v, err := g.SetView(STATUS_VIEW_NAME, 0, sensorsHeight+1, maxX-1, sensorsHeight+1+STATUS_PANEL_SIZE); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		v.Title = "status"
	}

	if v, err := g.SetView(LOG_VIEW_NAME, 0, sensorsHeight+2+STATUS_PANEL_SIZE, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}

		v.Title = "log"
	}

	return nil
}

func (ui *DriveOutput) render(g *gocui.Gui) error {
	sensors, err := g.View(SENSORS_VIEW_NAME)
	if err != nil {
		return err
	}

	status, err := g.View(STATUS_VIEW_NAME)
	if err != nil {
		return err
	}

	log, err := g.View(LOG_VIEW_NAME)
	if err != nil {
		return err
	}

	sensors.Clear()
	status.Clear()
	log.Clear()

	selected := ui.sandbox.SelectedCar()
	if selected != nil {
		width, _ := sensors.Size()
		fmt.Fprint(sensors, formatSensorBars(selected.GetSensorData(), width))

		body := selected.GetBody()
		x, y := body.GetPosition().Get()
		fmt.Fprintf(status, "%s  position (%.0f, %.0f)  speed %.2f  action %s\n",
			selected.GetName(), x, y, body.GetSpeed(), ui.sandbox.GetController().Action(),
		)
	}

	fmt.Fprintf(status, "tick %d  samples %d  recording %s  autopilot %s\n",
		ui.sandbox.GetTick(),
		ui.sandbox.GetStore().Len(),
		onOff(ui.sandbox.IsRecording()),
		onOff(ui.sandbox.IsAutopilot()),
	)

	fmt.Fprintln(log, strings.Join(ui.lines, "\n"))

	return nil
}

// formatSensorBars draws one line per sensor; the bar grows as the obstacle gets closer.
func formatSensorBars(readings sensor.Readings, width int) string {
	barWidth := width - 16
	if barWidth < 1 {
		barWidth = 1
	}

	var b strings.Builder
	for i, reading := range readings {
		filled := 0
		distance := "     -"

		if reading.Collides {
			filled = int((1 - reading.DistanceRel) * float64(barWidth))
			distance = fmt.Sprintf("%6.1f", reading.Distance)
		}

		if filled < 0 {
			filled = 0
		} else if filled > barWidth {
			filled = barWidth
		}

		fmt.Fprintf(&b, "%2d %s%s %s\n", i, strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled), distance)
	}

	return b.String()
}

func (ui *DriveOutput) bindKeys() error {
	arrows := map[gocui.Key]sandbox.Key{
		gocui.KeyArrowUp:    sandbox.KeyUp,
		gocui.KeyArrowDown:  sandbox.KeyDown,
		gocui.KeyArrowLeft:  sandbox.KeyLeft,
		gocui.KeyArrowRight: sandbox.KeyRight,
	}

	for arrow, key := range arrows {
		if err := ui.gm.SetKeybinding("", arrow, gocui.ModNone, ui.press(key)); err != nil {
			return err
		}
	}

	bindings := map[rune]func(g *gocui.Gui, v *gocui.View) error{
		'r': ui.toggleRecording,
		'a': ui.toggleAutopilot,
		't': ui.train,
		's': ui.save,
		'x': ui.reset,
	}

	for _, r := range []rune{'o', 'w', 'c', 'u'} {
		bindings[r] = ui.editObstacle(r)
	}

	for r, handler := range bindings {
		if err := ui.gm.SetKeybinding("", r, gocui.ModNone, handler); err != nil {
			return err
		}
	}

	return ui.gm.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone, quit)
}

func (ui *DriveOutput) press(key sandbox.Key) func(g *gocui.Gui, v *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		ui.sandbox.GetController().Press(key)
		ui.pressed[key] = time.Now()
		return nil
	}
}

func (ui *DriveOutput) toggleRecording(g *gocui.Gui, v *gocui.View) error {
	ui.sandbox.SetRecording(!ui.sandbox.IsRecording())
	ui.LogInfo("recording " + onOff(ui.sandbox.IsRecording()))
	return nil
}

func (ui *DriveOutput) toggleAutopilot(g *gocui.Gui, v *gocui.View) error {
	if ui.sandbox.GetPolicy() == nil {
		ui.LogInfo("no policy yet; press t to train one")
		return nil
	}

	ui.sandbox.SetAutopilot(!ui.sandbox.IsAutopilot())
	ui.LogInfo("autopilot " + onOff(ui.sandbox.IsAutopilot()))
	return nil
}

func (ui *DriveOutput) train(g *gocui.Gui, v *gocui.View) error {
	if err := ui.sandbox.TrainPolicy(); err != nil {
		ui.LogInfo("cannot train: " + err.Error())
		return nil
	}

	ui.LogInfo(fmt.Sprintf("policy trained on %d samples", ui.sandbox.GetStore().Len()))
	return nil
}

func (ui *DriveOutput) save(g *gocui.Gui, v *gocui.View) error {
	if err := ui.sandbox.SaveDataset(ui.dataset); err != nil {
		ui.LogInfo("cannot save: " + err.Error())
		return nil
	}

	ui.LogInfo(fmt.Sprintf("%d samples saved to %s", ui.sandbox.GetStore().Len(), ui.dataset))
	return nil
}

// obstacleCommand maps the obstacle keys of the terminal to sandbox commands
// acting in front of the selected car: o drops a circle, w a wall across its
// path, c removes what is there, u undoes the last obstacle.
func obstacleCommand(s *sandbox.Sandbox, r rune) (sandbox.Command, bool) {
	if r == 'u' {
		return sandbox.Command{Type: sandbox.CommandType.Undo}, true
	}

	selected := s.SelectedCar()
	if selected == nil {
		return sandbox.Command{}, false
	}

	conf := s.GetConfig()
	body := selected.GetBody()
	ahead := body.GetPosition().Add(body.GetForward().Scale(conf.CarLength + 2*conf.ObstacleSize))
	halfWall := body.GetLateral().Scale(2 * conf.ObstacleSize)

	switch r {
	case 'o':
		return sandbox.MakeWallCommand(ahead, ahead), true
	case 'w':
		return sandbox.MakeWallCommand(ahead.Sub(halfWall), ahead.Add(halfWall)), true
	case 'c':
		return sandbox.MakeRemoveCommand(ahead), true
	}

	return sandbox.Command{}, false
}

func (ui *DriveOutput) editObstacle(r rune) func(g *gocui.Gui, v *gocui.View) error {
	return func(g *gocui.Gui, v *gocui.View) error {
		cmd, ok := obstacleCommand(ui.sandbox, r)
		if !ok {
			return nil
		}

		if err := ui.sandbox.ApplyCommand(cmd); err != nil {
			ui.LogInfo(string(cmd.Type) + ": " + err.Error())
			return nil
		}

		ui.LogInfo(fmt.Sprintf("%s applied; %d user obstacles", cmd.Type, len(ui.sandbox.UserObstacles())))
		return nil
	}
}

func (ui *DriveOutput) reset(g *gocui.Gui, v *gocui.View) error {
	ui.sandbox.ResetCar()
	return nil
}

func quit(g *gocui.Gui, v *gocui.View) error {
	return gocui.ErrQuit
}

func onOff(b bool) string {
	if b {
		return "on"
	}

	return "off"
}
