package access

import (
	"fmt"
	"strings"
)

// =================================================================================
// PERMISOS ELEMENTALES
// =================================================================================

// Permission es un permiso elemental sobre un grupo.
type Permission string

const (
	PermissionRead   Permission = "read"
	PermissionCreate Permission = "create"
	PermissionUpdate Permission = "update"
	PermissionDelete Permission = "delete"
)

// ParsePermission normaliza un literal textual al enum cerrado.
// Las tablas ACL se normalizan UNA vez al cargarse, nunca por chequeo.
func ParsePermission(s string) (Permission, error) {
	switch Permission(strings.ToLower(strings.TrimSpace(s))) {
	case PermissionRead:
		return PermissionRead, nil
	case PermissionCreate:
		return PermissionCreate, nil
	case PermissionUpdate:
		return PermissionUpdate, nil
	case PermissionDelete:
		return PermissionDelete, nil
	}
	return "", fmt.Errorf("access: permiso desconocido %q", s)
}

// ParsePermissions normaliza una lista de literales.
func ParsePermissions(in []string) ([]Permission, error) {
	out := make([]Permission, 0, len(in))
	for _, s := range in {
		p, err := ParsePermission(s)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// =================================================================================
// NIVELES DE ACCESO
// =================================================================================

// Level es un nivel de acceso agregado. Cada nivel mapea a un conjunto FIJO
// de permisos elementales; el de WRITE es subconjunto estricto del de ADMIN.
type Level string

const (
	LevelRead  Level = "read"
	LevelWrite Level = "write"
	LevelAdmin Level = "admin"
)

var levelPermissions = map[Level][]Permission{
	LevelRead:  {PermissionRead},
	LevelWrite: {PermissionRead, PermissionCreate, PermissionUpdate},
	LevelAdmin: {PermissionRead, PermissionCreate, PermissionUpdate, PermissionDelete},
}

// ParseLevel normaliza un literal de nivel.
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case LevelRead:
		return LevelRead, nil
	case LevelWrite:
		return LevelWrite, nil
	case LevelAdmin:
		return LevelAdmin, nil
	}
	return "", fmt.Errorf("access: nivel desconocido %q", s)
}

// Required retorna el conjunto de permisos elementales que exige el nivel.
// Retorna una copia: el mapa interno no se expone.
func (l Level) Required() []Permission {
	req := levelPermissions[l]
	out := make([]Permission, len(req))
	copy(out, req)
	return out
}
