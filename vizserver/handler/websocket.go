package handler

import (
	"fmt"
	"net/http"

	notify "github.com/bitly/go-notify"
	"github.com/bytearena/whiskers/common/utils"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/bytearena/whiskers/vizserver/types"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
)

type VizInitMessageData struct {
	SandboxID string `json:"sandboxId"`
}

type VizInitMessage struct {
	Type string             `json:"type"`
	Data VizInitMessageData `json:"data"`
}

type VizErrorMessageData struct {
	Message string `json:"message"`
}

type VizErrorMessage struct {
	Type string              `json:"type"`
	Data VizErrorMessageData `json:"data"`
}

func makeVizErrorMessage(msg string) VizErrorMessage {
	return VizErrorMessage{
		Type: "error",
		Data: VizErrorMessageData{Message: msg},
	}
}

// Websocket streams every sandbox frame to the client as {"type":"frame","data":<frame>}.
// Messages sent by the client are sandbox commands, forwarded to commands;
// a nil commands makes the stream read only.
func Websocket(sandboxID string, watchers *types.WatcherMap, commands chan<- sandbox.Command) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		}

		c, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			utils.Debug("viz-server", "upgrade: "+err.Error())
			return
		}

		watcher := types.NewWatcher(c)

		// Listen to frames coming from the sandbox
		framechan := make(chan interface{})
		notify.Start(sandbox.FrameEvent, framechan)

		defer func(c *websocket.Conn) {
			notify.Stop(sandbox.FrameEvent, framechan)
			watchers.Remove(watcher.GetId())
			c.Close()
		}(c)

		err = watcher.WriteJSON(VizInitMessage{
			Type: "init",
			Data: VizInitMessageData{SandboxID: sandboxID},
		})
		if err != nil {
			utils.Debug("viz-server", "Could not send VizInitMessage JSON; "+err.Error())
			return
		}

		watchers.SetWatcher(watcher)

		// Reading is mandatory to notice when the websocket is closed client side
		clientclosedsocket := make(chan struct{})
		go func(client *websocket.Conn) {
			defer close(clientclosedsocket)
			for {
				_, data, err := client.ReadMessage()
				if err != nil {
					return
				}

				if err := forwardCommand(data, commands); err != nil {
					utils.Debug("viz-server", "command rejected; "+err.Error())

					if err := watcher.WriteJSON(makeVizErrorMessage(err.Error())); err != nil {
						return
					}
				}
			}
		}(c)

		for {
			select {
			case <-clientclosedsocket:
				return
			case frame := <-framechan:
				frameString, ok := frame.(string)
				if !ok {
					continue
				}

				msg := fmt.Sprintf("{\"type\":\"frame\",\"data\":%s}", frameString)
				if err := watcher.WriteText([]byte(msg)); err != nil {
					return
				}
			}
		}
	}
}

func forwardCommand(data []byte, commands chan<- sandbox.Command) error {
	if commands == nil {
		return errors.New("this sandbox does not accept commands")
	}

	cmd, err := sandbox.ParseCommand(data)
	if err != nil {
		return err
	}

	select {
	case commands <- cmd:
		return nil
	default:
		return errors.New("sandbox is busy; command dropped")
	}
}
