package vizserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	notify "github.com/bitly/go-notify"
	"github.com/bytearena/whiskers/sandbox"
	"github.com/bytearena/whiskers/vizserver/handler"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome(t *testing.T) {
	viz := NewVizService("127.0.0.1:0", "sandbox-id", func() interface{} {
		return map[string]int{"tick": 12}
	}, nil)

	server := httptest.NewServer(viz.Handler())
	defer server.Close()

	res, err := http.Get(server.URL + "/")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusOK, res.StatusCode)

	var body struct {
		SandboxID string         `json:"sandboxId"`
		Watchers  int            `json:"watchers"`
		Status    map[string]int `json:"status"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&body))

	assert.Equal(t, "sandbox-id", body.SandboxID)
	assert.Equal(t, 0, body.Watchers)
	assert.Equal(t, 12, body.Status["tick"])
}

func TestWebsocketStreamsFrames(t *testing.T) {
	viz := NewVizService("127.0.0.1:0", "sandbox-id", nil, nil)

	server := httptest.NewServer(viz.Handler())
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, initmsg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"init","data":{"sandboxId":"sandbox-id"}}`, string(initmsg))

	require.Eventually(t, func() bool {
		return viz.GetNumberWatchers() == 1
	}, 5*time.Second, 10*time.Millisecond)

	notify.PostTimeout(sandbox.FrameEvent, `{"tick":1}`, time.Second)

	_, framemsg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"frame","data":{"tick":1}}`, string(framemsg))

	conn.Close()

	assert.Eventually(t, func() bool {
		return viz.GetNumberWatchers() == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestStartStop(t *testing.T) {
	viz := NewVizService("127.0.0.1:0", "sandbox-id", nil, nil)

	errc := viz.Start()
	require.NoError(t, viz.Stop())

	select {
	case err, open := <-errc:
		assert.False(t, open && err != nil)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}

	assert.NoError(t, viz.Stop())
}

func dialViz(t *testing.T, viz *VizService) (*websocket.Conn, func()) {
	server := httptest.NewServer(viz.Handler())

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	_, _, err = conn.ReadMessage() // init
	require.NoError(t, err)

	return conn, func() {
		conn.Close()
		server.Close()
	}
}

func TestWebsocketForwardsCommands(t *testing.T) {
	commands := make(chan sandbox.Command, 1)
	viz := NewVizService("127.0.0.1:0", "sandbox-id", nil, commands)

	conn, closeFn := dialViz(t, viz)
	defer closeFn()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"wall","from":[10,20],"to":[100,20]}`)))

	select {
	case cmd := <-commands:
		assert.Equal(t, sandbox.CommandType.Wall, cmd.Type)
		require.NotNil(t, cmd.From)
		require.NotNil(t, cmd.To)
		assert.Equal(t, 100.0, cmd.To.GetX())
	case <-time.After(5 * time.Second):
		t.Fatal("command not forwarded")
	}

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"remove"}`)))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var reply handler.VizErrorMessage
	require.NoError(t, json.Unmarshal(msg, &reply))
	assert.Equal(t, "error", reply.Type)
	assert.Contains(t, reply.Data.Message, "at")
}

func TestWebsocketIsReadOnlyWithoutCommands(t *testing.T) {
	viz := NewVizService("127.0.0.1:0", "sandbox-id", nil, nil)

	conn, closeFn := dialViz(t, viz)
	defer closeFn()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"undo"}`)))

	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(msg), `"type":"error"`)
}
