package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(app *App) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/ping", PingHandler)

	r.Route("/api/interviews/{interviewID}/analysis", func(r chi.Router) {
		r.Post("/", app.AnalyzeHandler)
		r.Get("/", app.LatestAnalysisHandler)
	})

	return r
}
