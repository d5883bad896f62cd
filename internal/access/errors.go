package access

import (
	"errors"
	"fmt"
	"strings"
)

// ErrGroupAccess es la raíz de la taxonomía de errores de este paquete.
// errors.Is(err, ErrGroupAccess) matchea cualquier violación de acceso.
var ErrGroupAccess = errors.New("group access violation")

// GroupNotFoundError indica que el grupo consultado no existe en el ACL store.
// Solo ocurre en chequeos respaldados por store; sin store no hay noción de
// "grupo desconocido".
type GroupNotFoundError struct {
	Group string
}

func (e *GroupNotFoundError) Error() string {
	return fmt.Sprintf("access: grupo %q no encontrado", e.Group)
}

func (e *GroupNotFoundError) Is(target error) bool { return target == ErrGroupAccess }

// AccessDeniedError indica que el token no tiene el acceso pedido sobre el grupo.
// Missing enumera los permisos elementales faltantes (vacío en denegaciones
// de pertenencia simple).
type AccessDeniedError struct {
	Group   string
	Missing []Permission
	Reason  string
}

func (e *AccessDeniedError) Error() string {
	msg := fmt.Sprintf("access: denegado sobre grupo %q", e.Group)
	if len(e.Missing) > 0 {
		parts := make([]string, len(e.Missing))
		for i, p := range e.Missing {
			parts[i] = string(p)
		}
		msg += ": faltan permisos [" + strings.Join(parts, ", ") + "]"
	}
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *AccessDeniedError) Is(target error) bool { return target == ErrGroupAccess }

// TokenValidationError envuelve una falla de verificación del servicio de
// identidad (expirado, malformado, revocado, no presente en el store).
type TokenValidationError struct {
	Err error
}

func (e *TokenValidationError) Error() string {
	return fmt.Sprintf("access: token inválido: %v", e.Err)
}

// Unwrap expone la causa original para errors.Is/As.
func (e *TokenValidationError) Unwrap() error { return e.Err }

func (e *TokenValidationError) Is(target error) bool { return target == ErrGroupAccess }
