package handlers

import (
	"context"
	"net/http"
	"time"

	httpx "github.com/dropDatabas3/groupgate/internal/http"
)

// Pinger lo implementan las dependencias chequeables (identity remote, acl pg, redis).
type Pinger interface {
	Ping(ctx context.Context) error
}

// Readyz chequea las dependencias registradas. Con auth deshabilitada la
// lista puede estar vacía y el servicio reporta ready igual.
func Readyz(deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		out := make(map[string]string, len(deps)+1)
		out["status"] = "ok"
		for name, p := range deps {
			if err := p.Ping(ctx); err != nil {
				out[name] = "down: " + err.Error()
				out["status"] = "degraded"
				status = http.StatusServiceUnavailable
			} else {
				out[name] = "ok"
			}
		}
		httpx.WriteJSON(w, status, out)
	}
}
