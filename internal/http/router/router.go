// Package router arma el chi.Router de la fachada con su cadena de
// middlewares estándar.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/dropDatabas3/groupgate/internal/access"
	httpx "github.com/dropDatabas3/groupgate/internal/http"
	"github.com/dropDatabas3/groupgate/internal/http/handlers"
	"github.com/dropDatabas3/groupgate/internal/http/middlewares"
	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/scope"
)

// Deps agrupa lo que necesita el router.
type Deps struct {
	Scope      *scope.Service
	Access     *access.Controller
	Directory  identity.Directory // nil con auth deshabilitada
	Pingers    map[string]handlers.Pinger
	Registerer prometheus.Registerer // nil = default
}

// New construye el handler raíz del servicio.
func New(d Deps) http.Handler {
	metricsHandler := httpx.RegisterMetrics(d.Registerer)

	r := chi.NewRouter()

	r.Get("/readyz", handlers.Readyz(d.Pingers))
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/scope/read", handlers.ResolveRead(d.Scope))
		r.Post("/scope/write", handlers.ResolveWrite(d.Scope))
		r.Post("/access/check", handlers.Check(d.Access))
		if d.Directory != nil {
			r.Post("/groups/resolve", handlers.ResolveGroups(d.Directory))
		}
	})

	// La cadena externa: request id primero, después logging, recover y la
	// captura del Authorization para el path ambiente del resolver.
	return middlewares.Chain(r,
		middlewares.WithRequestID(),
		middlewares.WithLogging(),
		middlewares.WithRecover(),
		middlewares.WithAuthCapture(),
	)
}
