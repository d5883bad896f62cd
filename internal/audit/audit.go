// Package audit emite eventos de auditoría de decisiones de acceso.
// Hoy el sink es el logger estructurado del proceso; la forma del evento es
// estable para poder cablear un sink externo sin tocar a los callers.
package audit

import (
	"context"

	"github.com/dropDatabas3/groupgate/internal/observability/logger"
)

// Decision registra el resultado de un chequeo de acceso. tokenFP es la
// huella del token (util.TokenFP), nunca el token crudo.
func Decision(ctx context.Context, decision, groupID, tokenFP string) {
	logger.From(ctx).Info("audit: access decision",
		logger.Decision(decision),
		logger.GroupID(groupID),
		logger.TokenFP(tokenFP),
	)
}

// Resolution registra una resolución de scope (lectura o escritura).
func Resolution(ctx context.Context, kind string, groups []string) {
	logger.From(ctx).Info("audit: scope resolution",
		logger.Op(kind),
		logger.Groups(groups),
	)
}
