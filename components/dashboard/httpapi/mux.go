package httpapi

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/goliatone/go-market-dashboard/components/dashboard"
)

// MuxConfig mounts the dashboard on a plain net/http ServeMux.
type MuxConfig struct {
	Controller *dashboard.Controller
	API        Executor
	Broadcast  *dashboard.BroadcastHook
	BasePath   string
}

// NewServeMux registers the page, JSON, command and streaming endpoints.
func NewServeMux(cfg MuxConfig) *http.ServeMux {
	base := strings.TrimSuffix(cfg.BasePath, "/") + "/dashboard"
	api := cfg.API
	if api == nil {
		api = NewCommandExecutor(cfg.Controller, nil)
	}
	h := &Handlers{API: api, PagePath: base}
	mux := http.NewServeMux()

	mux.HandleFunc("GET "+base, func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := cfg.Controller.RenderTemplate(r.Context(), &buf); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(buf.Bytes())
	})
	mux.HandleFunc("GET "+base+"/_view", h.HandleView)
	mux.HandleFunc("GET "+base+"/grids/{id}", func(w http.ResponseWriter, r *http.Request) {
		h.HandleGridPage(w, r, r.PathValue("id"))
	})
	mux.HandleFunc("POST "+base+"/update", h.HandleManualUpdate)
	mux.HandleFunc("POST "+base+"/refresh", h.HandleRefresh)
	mux.HandleFunc("POST "+base+"/alerts/{id}/dismiss", func(w http.ResponseWriter, r *http.Request) {
		h.HandleDismissAlert(w, r, r.PathValue("id"))
	})
	if cfg.Broadcast != nil {
		mux.HandleFunc("GET "+base+"/ws", cfg.Broadcast.ServeWebSocket)
		mux.HandleFunc("GET "+base+"/events", cfg.Broadcast.ServeSSE)
	}
	return mux
}
