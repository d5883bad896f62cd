package access

import (
	"context"
	"errors"
)

// ACL es la tabla de miembros de un grupo: nombre de grupo miembro → permisos
// elementales otorgados. Los literales ya vienen normalizados al enum
// (la normalización ocurre al cargar el store, no por chequeo).
type ACL map[string][]Permission

// Grants retorna los permisos otorgados a un miembro y si el miembro figura
// en la tabla.
func (a ACL) Grants(member string) ([]Permission, bool) {
	perms, ok := a[member]
	return perms, ok
}

// Store es el ACL store opcional: mapea identificador de grupo → tabla ACL.
// Cuando un Controller se construye sin Store, degrada a chequeo de
// pertenencia simple (ver Controller).
type Store interface {
	// GroupACL retorna la tabla del grupo.
	// Retorna ErrUnknownGroup si el store no conoce el groupID.
	GroupACL(ctx context.Context, groupID string) (ACL, error)
}

// ErrUnknownGroup lo retornan los adapters de Store cuando el grupo no existe.
// El Controller lo traduce a *GroupNotFoundError.
var ErrUnknownGroup = errors.New("access: unknown group in acl store")
