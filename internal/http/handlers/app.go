package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"promptart/internal/catalog"
	"promptart/internal/history"
	"promptart/internal/imagegen"
)

// SampleCache is the slice of *samplecache.Cache the handlers need.
type SampleCache interface {
	Get(ctx context.Context, id int) (string, error)
	EnsureWarm(ctx context.Context) error
	Lookup(id int) (string, bool)
	Snapshot() map[int]string
}

// Generator produces fresh images; *imagegen.Service satisfies it.
type Generator interface {
	Generate(ctx context.Context, req imagegen.Request) (imagegen.Result, error)
}

type App struct {
	Catalog *catalog.Catalog
	Samples SampleCache
	Images  Generator
	History history.Recorder
	Logger  zerolog.Logger
}

func NewApp(cat *catalog.Catalog, samples SampleCache, images Generator, hist history.Recorder, logger zerolog.Logger) *App {
	if hist == nil {
		hist = history.Nop{}
	}
	return &App{Catalog: cat, Samples: samples, Images: images, History: hist, Logger: logger}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type failureResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// fail writes the {success:false, error} envelope every endpoint shares.
func (a *App) fail(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, failureResponse{Success: false, Error: msg})
}

// warm makes sure every catalog id has a mirror entry before a listing is
// rendered. Failures are already logged by the cache.
func (a *App) warm(r *http.Request) {
	if err := a.Samples.EnsureWarm(r.Context()); err != nil {
		a.Logger.Warn().Err(err).Msg("sample warm-up interrupted")
	}
}
