package vizserver

import (
	"context"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/bytearena/whiskers/common/utils"
	"github.com/bytearena/whiskers/sandbox"
	apphandler "github.com/bytearena/whiskers/vizserver/handler"
	"github.com/bytearena/whiskers/vizserver/types"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

type VizService struct {
	addr      string
	sandboxID string
	status    apphandler.StatusCbk
	commands  chan<- sandbox.Command
	watchers  *types.WatcherMap

	lock   sync.Mutex
	server *http.Server
}

// NewVizService serves the frames of a sandbox; client commands are sent to
// commands, nil makes the visualisation read only.
func NewVizService(addr string, sandboxID string, status apphandler.StatusCbk, commands chan<- sandbox.Command) *VizService {
	return &VizService{
		addr:      addr,
		sandboxID: sandboxID,
		status:    status,
		commands:  commands,
		watchers:  types.NewWatcherMap(),
	}
}

func (viz *VizService) GetAddr() string {
	return viz.addr
}

func (viz *VizService) GetNumberWatchers() int {
	return viz.watchers.Size()
}

func (viz *VizService) Handler() http.Handler {
	logger := os.Stdout
	router := mux.NewRouter()

	router.Handle("/", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.Home(viz.sandboxID, viz.watchers, viz.status)),
	)).Methods("GET")

	router.Handle("/ws", handlers.CombinedLoggingHandler(logger,
		http.HandlerFunc(apphandler.Websocket(viz.sandboxID, viz.watchers, viz.commands)),
	)).Methods("GET")

	return router
}

// Start listens in the background; errors other than a clean Stop are sent on the returned channel.
func (viz *VizService) Start() chan error {
	viz.lock.Lock()
	viz.server = &http.Server{
		Addr:    viz.addr,
		Handler: viz.Handler(),
	}
	server := viz.server
	viz.lock.Unlock()

	errc := make(chan error, 1)

	go func() {
		utils.Debug("viz-server", "Listening on "+viz.addr)

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}

		close(errc)
	}()

	return errc
}

func (viz *VizService) Stop() error {
	viz.lock.Lock()
	server := viz.server
	viz.server = nil
	viz.lock.Unlock()

	if server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return server.Shutdown(ctx)
}
