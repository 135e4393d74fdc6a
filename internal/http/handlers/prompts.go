package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"promptart/internal/domain"
)

// promptWithSample is a catalog record decorated with its cached image, ""
// when none is available.
type promptWithSample struct {
	domain.PromptRecord
	SampleImage string `json:"sampleImage"`
}

func (a *App) decorate(records []domain.PromptRecord) []promptWithSample {
	out := make([]promptWithSample, 0, len(records))
	for _, rec := range records {
		sample, _ := a.Samples.Lookup(rec.ID)
		out = append(out, promptWithSample{PromptRecord: rec, SampleImage: sample})
	}
	return out
}

type promptListResponse struct {
	Success bool               `json:"success"`
	Prompts []promptWithSample `json:"prompts"`
	Count   int                `json:"count"`
}

func (a *App) PredefinedPrompts(w http.ResponseWriter, r *http.Request) {
	a.warm(r)
	prompts := a.decorate(a.Catalog.List())
	a.json(w, http.StatusOK, promptListResponse{Success: true, Prompts: prompts, Count: len(prompts)})
}

type promptResponse struct {
	Success bool             `json:"success"`
	Prompt  promptWithSample `json:"prompt"`
}

func (a *App) PromptByID(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		a.fail(w, http.StatusBadRequest, fmt.Sprintf("invalid prompt id %q", raw))
		return
	}
	record, err := a.Catalog.ByID(id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.fail(w, http.StatusOK, err.Error())
			return
		}
		a.fail(w, http.StatusInternalServerError, "failed to load prompt")
		return
	}

	a.warm(r)
	// A failed population leaves "" which is what the response should carry.
	sample, _ := a.Samples.Get(r.Context(), id)
	a.json(w, http.StatusOK, promptResponse{
		Success: true,
		Prompt:  promptWithSample{PromptRecord: record, SampleImage: sample},
	})
}

type categoryResponse struct {
	Success  bool               `json:"success"`
	Prompts  []promptWithSample `json:"prompts"`
	Category string             `json:"category"`
	Count    int                `json:"count"`
}

func (a *App) PromptsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	a.warm(r)
	prompts := a.decorate(a.Catalog.ByCategory(category))
	a.json(w, http.StatusOK, categoryResponse{
		Success:  true,
		Prompts:  prompts,
		Category: category,
		Count:    len(prompts),
	})
}
