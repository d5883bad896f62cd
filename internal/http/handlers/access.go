package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dropDatabas3/groupgate/internal/access"
	"github.com/dropDatabas3/groupgate/internal/audit"
	httpx "github.com/dropDatabas3/groupgate/internal/http"
	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
	"github.com/dropDatabas3/groupgate/internal/util"
)

type checkRequest struct {
	Token   string `json:"token"`
	GroupID string `json:"group_id"`
	// Exactamente uno de level/permission. Sin ninguno: solo pertenencia.
	Level      string `json:"level,omitempty"`
	Permission string `json:"permission,omitempty"`
}

type claimsSummary struct {
	TokenID   string   `json:"token_id"`
	Groups    []string `json:"groups"`
	Primary   string   `json:"primary"`
	IssuedAt  string   `json:"issued_at,omitempty"`
	ExpiresAt string   `json:"expires_at,omitempty"`
}

// Check valida pertenencia, permiso o nivel contra un grupo. Acá SÍ se
// responde con error explícito: 401 token inválido, 404 grupo desconocido,
// 403 denegado (política fail-closed-and-loud del Controller).
func Check(ctrl *access.Controller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req checkRequest
		if !httpx.ReadJSON(w, r, &req) {
			return
		}
		if strings.TrimSpace(req.Token) == "" || strings.TrimSpace(req.GroupID) == "" {
			httpx.WriteError(w, httpx.ErrBadRequest.WithDetail("token y group_id son obligatorios"))
			return
		}
		if req.Level != "" && req.Permission != "" {
			httpx.WriteError(w, httpx.ErrBadRequest.WithDetail("level y permission son excluyentes"))
			return
		}

		claims, err := runCheck(r, ctrl, req)
		if err != nil {
			decision := decisionOf(err)
			httpx.CountAccessCheck(decision)
			audit.Decision(r.Context(), decision, req.GroupID, util.TokenFP(req.Token))
			logger.From(r.Context()).Info("chequeo de acceso denegado",
				logger.GroupID(req.GroupID), logger.Decision(decision), logger.Err(err))
			httpx.WriteError(w, err)
			return
		}

		httpx.CountAccessCheck("granted")
		audit.Decision(r.Context(), "granted", req.GroupID, util.TokenFP(req.Token))
		out := claimsSummary{
			TokenID: claims.ID,
			Groups:  claims.Groups,
			Primary: claims.Primary(),
		}
		if !claims.IssuedAt.IsZero() {
			out.IssuedAt = claims.IssuedAt.UTC().Format(time.RFC3339)
		}
		if !claims.ExpiresAt.IsZero() {
			out.ExpiresAt = claims.ExpiresAt.UTC().Format(time.RFC3339)
		}
		httpx.WriteJSON(w, http.StatusOK, out)
	}
}

func runCheck(r *http.Request, ctrl *access.Controller, req checkRequest) (*identity.Claims, error) {
	ctx := r.Context()
	switch {
	case req.Permission != "":
		perm, perr := access.ParsePermission(req.Permission)
		if perr != nil {
			return nil, httpx.ErrBadRequest.WithDetail(perr.Error())
		}
		return ctrl.CheckPermission(ctx, req.Token, req.GroupID, perm)
	case req.Level != "":
		level, lerr := access.ParseLevel(req.Level)
		if lerr != nil {
			return nil, httpx.ErrBadRequest.WithDetail(lerr.Error())
		}
		return ctrl.CheckAccessLevel(ctx, req.Token, req.GroupID, level)
	default:
		return ctrl.ValidateMembership(ctx, req.Token, req.GroupID)
	}
}

func decisionOf(err error) string {
	var tv *access.TokenValidationError
	if errors.As(err, &tv) {
		return "token_invalid"
	}
	var nf *access.GroupNotFoundError
	if errors.As(err, &nf) {
		return "group_not_found"
	}
	return "denied"
}
