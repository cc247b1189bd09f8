package handler

import (
	"encoding/json"
	"net/http"

	"github.com/bytearena/whiskers/vizserver/types"
)

// StatusCbk returns a JSON serializable snapshot of the simulation.
type StatusCbk func() interface{}

type homeResponse struct {
	SandboxID string      `json:"sandboxId"`
	Watchers  int         `json:"watchers"`
	Status    interface{} `json:"status,omitempty"`
}

func Home(sandboxID string, watchers *types.WatcherMap, status StatusCbk) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		res := homeResponse{
			SandboxID: sandboxID,
			Watchers:  watchers.Size(),
		}

		if status != nil {
			res.Status = status()
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		json.NewEncoder(w).Encode(res)
	}
}
