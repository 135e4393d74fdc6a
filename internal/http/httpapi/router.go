package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"promptart/internal/http/handlers"
	"promptart/internal/middleware"
)

func NewRouter(app *handlers.App, logger zerolog.Logger, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		middleware.Logger(logger),
		middleware.CORS(allowedOrigins),
	)

	r.Get("/", app.Root)

	r.Post("/generate-image", app.GenerateImage)
	r.Get("/generate-random", app.GenerateRandom)

	r.Get("/predefined-prompts", app.PredefinedPrompts)
	r.Get("/prompt/{id}", app.PromptByID)
	r.Get("/prompts-by-category/{category}", app.PromptsByCategory)
	r.Get("/sample-images", app.SampleImages)

	r.Get("/generations", app.Generations)

	return r
}
