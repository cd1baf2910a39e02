package handlers

import (
	"encoding/json"
	"net/http"

	"jimengapi/internal/catalog"
	"jimengapi/internal/infra"
)

// App bundles the handler dependencies.
type App struct {
	Catalog *catalog.Store
	Log     infra.Logger
}

func NewApp(store *catalog.Store, log infra.Logger) *App {
	return &App{Catalog: store, Log: log}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, errCode, msg string) {
	a.json(w, code, map[string]string{"error": errCode, "message": msg})
}

func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
