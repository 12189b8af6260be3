package daemon

import (
	"context"
	"net/http"

	"instagen/internal/logging"
	"instagen/internal/types"
)

type API struct {
	Version  string
	Backends Backends
	Env      types.Credentials
	Shutdown func(context.Context) error
	Logger   logging.Logger
}

func (a *API) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", a.Health)
	mux.HandleFunc("/api/generate", a.Generate)
	mux.HandleFunc("/api/generate-text", a.GenerateText)
	mux.HandleFunc("/api/publish", a.Publish)
	mux.HandleFunc("/shutdown", a.ShutdownServer)
}

func (a *API) logger() logging.Logger {
	if a == nil || a.Logger == nil {
		return logging.Nop()
	}
	return a.Logger
}

// credentials merges request-supplied keys over the server environment.
func (a *API) credentials(keys *types.Credentials) types.Credentials {
	if keys == nil {
		return a.Env
	}
	return keys.Merge(a.Env)
}
