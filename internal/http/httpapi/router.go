package httpapi

import (
	stdhttp "net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"jimengapi/internal/http/handlers"
	"jimengapi/internal/infra"
	"jimengapi/internal/middleware"
)

// Options configures the router's middleware chain.
type Options struct {
	Logger         infra.Logger
	AllowedOrigins string
	CountryLookup  middleware.CountryLookup
}

func NewRouter(app *handlers.App, opts Options) stdhttp.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(opts.Logger))
	if opts.AllowedOrigins != "" {
		r.Use(middleware.CORS(strings.Split(opts.AllowedOrigins, ",")))
	}
	r.Use(middleware.Region(opts.CountryLookup))

	r.Get("/v1/healthz", app.Health)

	r.Route("/v1/models", func(r chi.Router) {
		r.Get("/", app.ModelsList)
		r.Get("/image", app.ImageModels)
		r.Get("/image/resolve", app.ResolveImageSize)
		r.Get("/video", app.VideoModels)
		r.Get("/config/status", app.ConfigStatus)
		r.Post("/config/refresh", app.ConfigRefresh)
	})

	r.Post("/v1/images/draft", app.ImageDraft)

	return r
}
