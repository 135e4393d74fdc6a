package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"promptart/internal/domain"
	"promptart/internal/imagegen"
	"promptart/internal/middleware"
)

// generateRequest accepts both promptIndex and the older prompt_index spelling.
type generateRequest struct {
	PromptIndex     *int    `json:"promptIndex"`
	LegacyPromptIdx *int    `json:"prompt_index"`
	Prompt          *string `json:"prompt"`
}

func (g generateRequest) index() *int {
	if g.PromptIndex != nil {
		return g.PromptIndex
	}
	return g.LegacyPromptIdx
}

type generateResponse struct {
	Success     bool              `json:"success"`
	ImageData   string            `json:"imageData"`
	Prompt      string            `json:"prompt"`
	PromptData  domain.PromptData `json:"promptData"`
	Description string            `json:"description"`
}

// GenerateImage always calls the model; the sample cache is never consulted.
func (a *App) GenerateImage(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		a.fail(w, http.StatusBadRequest, "invalid request body")
		return
	}

	source, data := a.selectPrompt(req)
	a.generate(w, r, source, data, "Image generated from prompt: '%s'")
}

// GenerateRandom generates from a uniformly chosen catalog prompt.
func (a *App) GenerateRandom(w http.ResponseWriter, r *http.Request) {
	a.generate(w, r, domain.SourceRandom, a.Catalog.Random().Data(), "Random image generated from: '%s'")
}

// selectPrompt applies the selection order: any non-empty free text verbatim,
// then a valid index, then a random catalog record.
func (a *App) selectPrompt(req generateRequest) (domain.GenerationSource, domain.PromptData) {
	if req.Prompt != nil && *req.Prompt != "" {
		return domain.SourceCustom, domain.CustomPromptData(*req.Prompt)
	}
	if idx := req.index(); idx != nil {
		if record, err := a.Catalog.ByID(*idx); err == nil {
			return domain.SourceCatalog, record.Data()
		}
	}
	return domain.SourceRandom, a.Catalog.Random().Data()
}

func (a *App) generate(w http.ResponseWriter, r *http.Request, source domain.GenerationSource, data domain.PromptData, description string) {
	res, err := a.Images.Generate(r.Context(), imagegen.Request{
		Source:    source,
		Prompt:    data,
		RequestID: middleware.RequestIDFromContext(r.Context()),
	})
	if err != nil {
		a.fail(w, http.StatusOK, err.Error())
		return
	}
	a.json(w, http.StatusOK, generateResponse{
		Success:     true,
		ImageData:   res.Base64(),
		Prompt:      data.Prompt,
		PromptData:  data,
		Description: fmt.Sprintf(description, data.Prompt),
	})
}
