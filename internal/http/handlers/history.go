package handlers

import (
	"net/http"
	"strconv"

	"promptart/internal/domain"
	"promptart/internal/history"
)

type generationsResponse struct {
	Success     bool                      `json:"success"`
	Generations []domain.GenerationRecord `json:"generations"`
	Count       int                       `json:"count"`
}

// Generations lists recent generation metadata, newest first.
func (a *App) Generations(w http.ResponseWriter, r *http.Request) {
	limit := history.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			a.fail(w, http.StatusBadRequest, "limit must be an integer")
			return
		}
		limit = n
	}

	list, err := a.History.Recent(r.Context(), history.ClampLimit(limit))
	if err != nil {
		a.Logger.Error().Err(err).Msg("list generations")
		a.fail(w, http.StatusInternalServerError, "failed to list generations")
		return
	}
	if list == nil {
		list = []domain.GenerationRecord{}
	}
	a.json(w, http.StatusOK, generationsResponse{Success: true, Generations: list, Count: len(list)})
}
