package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/groupgate/internal/reqctx"
)

// WithAuthCapture copia el header Authorization crudo al contexto del
// request. Es el reemplazo explícito del estado ambiente: el resolver
// dual-path lee de reqctx, nunca del request directamente.
//
// No valida nada: un header ausente o malformado se captura igual (o no se
// captura) y el resolver decide degradar. Este middleware jamás responde 401.
func WithAuthCapture() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := strings.TrimSpace(r.Header.Get("Authorization"))
			if ah != "" {
				r = r.WithContext(reqctx.WithAuthorization(r.Context(), ah))
			}
			next.ServeHTTP(w, r)
		})
	}
}
