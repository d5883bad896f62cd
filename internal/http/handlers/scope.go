// Package handlers implementa los endpoints de la fachada.
package handlers

import (
	"net/http"

	"github.com/dropDatabas3/groupgate/internal/audit"
	httpx "github.com/dropDatabas3/groupgate/internal/http"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
	"github.com/dropDatabas3/groupgate/internal/reqctx"
	"github.com/dropDatabas3/groupgate/internal/scope"
)

// scopeRequest es el body de los endpoints de resolución. tokens es la lista
// explícita que manda un intermediario que no puede reenviar headers; si
// viene vacía, se usa el Authorization capturado por middleware.
type scopeRequest struct {
	Tokens []string `json:"tokens,omitempty"`
}

type readScopeResponse struct {
	Groups []string `json:"groups"`
}

type writeScopeResponse struct {
	// Group es null cuando el caller no puede escribir (anónimo con auth
	// habilitada). No es un error: el transporte responde 200 igual.
	Group *string `json:"group"`
}

// ResolveRead resuelve el scope de lectura. Nunca responde 401/403: toda
// falla degrada a {"public"}.
func ResolveRead(svc *scope.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scopeRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}

		groups := svc.ResolvePermittedGroups(r.Context(), req.Tokens)
		httpx.CountResolution("read", inputPath(r, req.Tokens), outcomeOf(len(groups) > 1))
		audit.Resolution(r.Context(), "read", groups)

		logger.From(r.Context()).Debug("scope de lectura resuelto", logger.Groups(groups))
		httpx.WriteJSON(w, http.StatusOK, readScopeResponse{Groups: groups})
	}
}

// ResolveWrite resuelve la identidad de escritura. group=null significa
// "caller anónimo, no puede escribir"; tampoco es un error.
func ResolveWrite(svc *scope.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req scopeRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}

		var resp writeScopeResponse
		if g, ok := svc.ResolveWriteGroup(r.Context(), req.Tokens); ok {
			resp.Group = &g
			httpx.CountResolution("write", inputPath(r, req.Tokens), "resolved")
			audit.Resolution(r.Context(), "write", []string{g})
			logger.From(r.Context()).Debug("write group resuelto", logger.Group(g))
		} else {
			httpx.CountResolution("write", inputPath(r, req.Tokens), "degraded")
			audit.Resolution(r.Context(), "write", nil)
		}
		httpx.WriteJSON(w, http.StatusOK, resp)
	}
}

// inputPath reporta por cuál de los dos paths entró la identidad.
func inputPath(r *http.Request, tokens []string) string {
	if len(tokens) > 0 {
		return "explicit"
	}
	if reqctx.Authorization(r.Context()) != "" {
		return "ambient"
	}
	return "none"
}

func outcomeOf(resolved bool) string {
	if resolved {
		return "resolved"
	}
	return "degraded"
}
