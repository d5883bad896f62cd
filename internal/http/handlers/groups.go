package handlers

import (
	"net/http"

	"github.com/dropDatabas3/groupgate/internal/directory"
	httpx "github.com/dropDatabas3/groupgate/internal/http"
	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
	"github.com/dropDatabas3/groupgate/internal/validation"
)

type resolveGroupsRequest struct {
	Names []string `json:"names"`
}

type resolveGroupsResponse struct {
	// IDs contiene solo los nombres resolubles, en el mismo orden relativo.
	// Una lista más corta que names es la única señal de falla parcial.
	IDs []string `json:"ids"`
}

// ResolveGroups mapea nombres legibles a identificadores estables. Se invoca
// justo antes de persistir/filtrar; nombres desconocidos se descartan en
// silencio, nunca 404.
func ResolveGroups(dir identity.Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveGroupsRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}
		for _, n := range req.Names {
			if !validation.ValidGroupName(n) {
				httpx.WriteError(w, httpx.ErrBadRequest.WithDetail("nombre de grupo inválido: "+n))
				return
			}
		}

		ids := directory.GroupUUIDs(r.Context(), dir, req.Names)
		if len(ids) < len(req.Names) {
			logger.From(r.Context()).Debug("nombres de grupo no resueltos",
				logger.Count(len(req.Names)-len(ids)))
		}
		httpx.WriteJSON(w, http.StatusOK, resolveGroupsResponse{IDs: ids})
	}
}
