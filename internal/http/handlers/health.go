package handlers

import (
	"net/http"
)

type rootResponse struct {
	Success   bool              `json:"success"`
	Message   string            `json:"message"`
	Status    string            `json:"status"`
	Endpoints map[string]string `json:"endpoints"`
}

func (a *App) Root(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, rootResponse{
		Success: true,
		Message: "Prompt Art Clash API is running!",
		Status:  "healthy",
		Endpoints: map[string]string{
			"predefined_prompts":  "/predefined-prompts",
			"generate_image":      "/generate-image",
			"generate_random":     "/generate-random",
			"sample_images":       "/sample-images",
			"prompt_by_id":        "/prompt/{prompt_id}",
			"prompts_by_category": "/prompts-by-category/{category}",
			"generations":         "/generations",
		},
	})
}
