package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// DurationMs crea un campo para la duración en milisegundos.
func DurationMs(v int64) zap.Field {
	return zap.Int64("duration_ms", v)
}

// Bytes crea un campo para los bytes de respuesta.
func Bytes(v int) zap.Field {
	return zap.Int("bytes", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - DOMINIO
// =================================================================================

// Group crea un campo para el nombre de un grupo.
func Group(v string) zap.Field {
	return zap.String("group", v)
}

// GroupID crea un campo para el identificador estable de un grupo.
func GroupID(v string) zap.Field {
	return zap.String("group_id", v)
}

// Groups crea un campo para una lista de grupos.
func Groups(v []string) zap.Field {
	return zap.Strings("groups", v)
}

// TokenFP crea un campo para la huella de un token (nunca el token crudo).
func TokenFP(v string) zap.Field {
	return zap.String("token_fp", v)
}

// Decision crea un campo para el resultado de una decisión de acceso
// ("granted", "denied", "degraded").
func Decision(v string) zap.Field {
	return zap.String("decision", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// Duration crea un campo para una duración.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Any crea un campo genérico (usar como último recurso).
func Any(key string, v any) zap.Field {
	return zap.Any(key, v)
}
