// Package directory mapea nombres legibles de grupo a los identificadores
// estables que usan las capas de almacenamiento. Se invoca en el punto de
// persistencia o filtrado: los registros guardados se indexan por ID, nunca
// por el nombre mutable.
package directory

import (
	"context"
	"errors"

	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
)

// GroupUUID resuelve el identificador estable de un grupo por nombre.
// Retorna ok=false si el directorio no lo conoce; nunca error.
func GroupUUID(ctx context.Context, dir identity.Directory, name string) (string, bool) {
	g, err := dir.GroupByName(ctx, name)
	if err != nil {
		if !errors.Is(err, identity.ErrGroupUnknown) {
			logger.From(ctx).Warn("lookup de grupo falló",
				logger.Group(name), logger.Err(err))
		}
		return "", false
	}
	return g.ID, true
}

// GroupUUIDs resuelve cada nombre, descartando en silencio los desconocidos.
// El resultado preserva el orden relativo de los nombres resolubles; la única
// señal de falla parcial es una lista más corta.
func GroupUUIDs(ctx context.Context, dir identity.Directory, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if id, ok := GroupUUID(ctx, dir, n); ok {
			out = append(out, id)
		}
	}
	return out
}
