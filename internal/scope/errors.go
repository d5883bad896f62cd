package scope

import (
	"fmt"
	"strings"
)

// GroupAccessDeniedError lo usan los callers de este paquete cuando una
// validación de scope falla y hace falta diagnosticar: además del grupo
// objetivo lleva la lista REAL de grupos permitidos del caller.
//
// Es independiente de la taxonomía del paquete access: una denegación de
// scope no es una violación del ACL store.
type GroupAccessDeniedError struct {
	Group     string
	Permitted []string
}

func (e *GroupAccessDeniedError) Error() string {
	return fmt.Sprintf("scope: acceso denegado a grupo %q (permitidos: [%s])",
		e.Group, strings.Join(e.Permitted, ", "))
}
