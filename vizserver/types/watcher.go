package types

import (
	"sync"

	commontypes "github.com/bytearena/whiskers/common/types"
	"github.com/gorilla/websocket"
	uuid "github.com/satori/go.uuid"
)

// Watcher is one websocket client of the frame stream.
type Watcher struct {
	id   string
	conn *websocket.Conn
	lock sync.Mutex
}

func NewWatcher(conn *websocket.Conn) *Watcher {
	return &Watcher{
		id:   uuid.NewV4().String(),
		conn: conn,
	}
}

func (watcher *Watcher) GetId() string {
	return watcher.id
}

func (watcher *Watcher) WriteText(msg []byte) error {
	watcher.lock.Lock()
	defer watcher.lock.Unlock()

	return watcher.conn.WriteMessage(websocket.TextMessage, msg)
}

func (watcher *Watcher) WriteJSON(v interface{}) error {
	watcher.lock.Lock()
	defer watcher.lock.Unlock()

	return watcher.conn.WriteJSON(v)
}

type WatcherMap struct {
	*commontypes.SyncMap
}

func NewWatcherMap() *WatcherMap {
	return &WatcherMap{
		commontypes.NewSyncMap(),
	}
}

func (wmap *WatcherMap) Get(id string) *Watcher {
	if res, ok := (wmap.GetGeneric(id)).(*Watcher); ok {
		return res
	}

	return nil
}

func (wmap *WatcherMap) SetWatcher(watcher *Watcher) {
	wmap.Set(watcher.GetId(), watcher)
}
