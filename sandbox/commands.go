package sandbox

import (
	"encoding/json"

	"github.com/bytearena/whiskers/common/utils/vector"
	"github.com/pkg/errors"
)

type _commandtype string

var CommandType = struct {
	Wall      _commandtype // from, to: a circle for short drags, else a wall
	Remove    _commandtype // at: user obstacles containing the point
	Undo      _commandtype
	Select    _commandtype // car
	Reset     _commandtype
	AddCar    _commandtype
	Key       _commandtype // key, pressed
	Recording _commandtype // on
	Autopilot _commandtype // on
	Train     _commandtype
	Save      _commandtype
}{
	Wall:      _commandtype("wall"),
	Remove:    _commandtype("remove"),
	Undo:      _commandtype("undo"),
	Select:    _commandtype("select"),
	Reset:     _commandtype("reset"),
	AddCar:    _commandtype("addcar"),
	Key:       _commandtype("key"),
	Recording: _commandtype("recording"),
	Autopilot: _commandtype("autopilot"),
	Train:     _commandtype("train"),
	Save:      _commandtype("save"),
}

// Command is a change requested by a client of the sandbox; it is applied
// between two steps by the goroutine running the sandbox.
type Command struct {
	Type    _commandtype    `json:"type"`
	From    *vector.Vector2 `json:"from,omitempty"`
	To      *vector.Vector2 `json:"to,omitempty"`
	At      *vector.Vector2 `json:"at,omitempty"`
	Car     string          `json:"car,omitempty"`
	Key     string          `json:"key,omitempty"`
	Pressed bool            `json:"pressed,omitempty"`
	On      bool            `json:"on,omitempty"`
}

func MakeWallCommand(from vector.Vector2, to vector.Vector2) Command {
	return Command{Type: CommandType.Wall, From: &from, To: &to}
}

func MakeRemoveCommand(at vector.Vector2) Command {
	return Command{Type: CommandType.Remove, At: &at}
}

func parseKey(name string) (Key, error) {
	for _, key := range []Key{KeyUp, KeyDown, KeyLeft, KeyRight} {
		if key.String() == name {
			return key, nil
		}
	}

	return KeyUp, errors.Errorf("unknown key %q", name)
}

// ParseCommand decodes a JSON command and checks that it carries the fields its type needs.
func ParseCommand(data []byte) (Command, error) {
	var cmd Command
	if err := json.Unmarshal(data, &cmd); err != nil {
		return Command{}, errors.Wrap(err, "invalid command")
	}

	if err := cmd.Validate(); err != nil {
		return Command{}, err
	}

	return cmd, nil
}

func (cmd Command) Validate() error {
	switch cmd.Type {
	case CommandType.Wall:
		if cmd.From == nil || cmd.To == nil {
			return errors.New("wall command needs from and to")
		}
	case CommandType.Remove:
		if cmd.At == nil {
			return errors.New("remove command needs at")
		}
	case CommandType.Select:
		if cmd.Car == "" {
			return errors.New("select command needs car")
		}
	case CommandType.Key:
		if _, err := parseKey(cmd.Key); err != nil {
			return errors.Wrap(err, "invalid key command")
		}
	case CommandType.Undo, CommandType.Reset, CommandType.AddCar,
		CommandType.Recording, CommandType.Autopilot,
		CommandType.Train, CommandType.Save:
	default:
		return errors.Errorf("unknown command type %q", string(cmd.Type))
	}

	return nil
}

func (s *Sandbox) ApplyCommand(cmd Command) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	switch cmd.Type {
	case CommandType.Wall:
		_, err := s.AddWall(*cmd.From, *cmd.To)
		return err

	case CommandType.Remove:
		if s.RemoveObstaclesAt(*cmd.At) == 0 {
			return errors.Errorf("no user obstacle at %s", *cmd.At)
		}

	case CommandType.Undo:
		if !s.UndoObstacle() {
			return errors.New("no user obstacle to undo")
		}

	case CommandType.Select:
		return s.SelectCar(cmd.Car)

	case CommandType.Reset:
		if !s.ResetCar() {
			return errors.New("no car to reset")
		}

	case CommandType.AddCar:
		s.AddRandomCar()

	case CommandType.Key:
		key, _ := parseKey(cmd.Key)
		if cmd.Pressed {
			s.controller.Press(key)
		} else {
			s.controller.Release(key)
		}

	case CommandType.Recording:
		s.SetRecording(cmd.On)

	case CommandType.Autopilot:
		if cmd.On && s.policy == nil {
			return errors.New("no policy to drive with; train one first")
		}

		s.SetAutopilot(cmd.On)

	case CommandType.Train:
		return s.TrainPolicy()

	case CommandType.Save:
		return s.SaveDataset(s.config.Dataset)
	}

	return nil
}
