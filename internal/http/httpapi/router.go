package httpapi

import (
	stdhttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"server/internal/http/handlers"
	appmw "server/internal/middleware"
)

// NewRouter assembles the HTTP surface of the relay.
func NewRouter(app *handlers.App, logger zerolog.Logger, allowedOrigins []string) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(appmw.RequestID, chimw.RealIP, chimw.Recoverer)
	r.Use(appmw.Logger(logger))
	r.Use(appmw.CORS(allowedOrigins))

	r.Get("/ping", app.Ping)

	r.Post("/generate", app.Generate)
	r.Get("/status/{jobID}", app.Status)
	r.Get("/result/{jobID}", app.Result)

	r.Get("/key", app.GetKey)
	r.Post("/key", app.SetKey)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
