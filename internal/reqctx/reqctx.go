// Package reqctx lleva valores con alcance de request por context.Context
// explícito. Reemplaza el estado ambiente estilo thread-local: el middleware
// de transporte escribe acá y las capas de resolución leen de acá, siempre a
// través del contexto que viaja como parámetro.
package reqctx

import "context"

type ctxKey string

const (
	// ctxAuthorizationKey guarda el header Authorization crudo del request.
	ctxAuthorizationKey ctxKey = "authorization"
	// ctxRequestIDKey guarda el request ID.
	ctxRequestIDKey ctxKey = "request_id"
)

// WithAuthorization inyecta el header Authorization en el contexto.
// Lo llama el middleware de captura; el valor se guarda crudo (con prefijo
// "Bearer " incluido si vino).
func WithAuthorization(ctx context.Context, header string) context.Context {
	return context.WithValue(ctx, ctxAuthorizationKey, header)
}

// Authorization obtiene el header Authorization del contexto.
// Retorna cadena vacía si el middleware no lo capturó.
func Authorization(ctx context.Context) string {
	if v := ctx.Value(ctxAuthorizationKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// WithRequestID inyecta el request ID en el contexto.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, id)
}

// RequestID obtiene el request ID del contexto, o cadena vacía.
func RequestID(ctx context.Context) string {
	if v := ctx.Value(ctxRequestIDKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
