// Package scope deriva el alcance de lectura y escritura de una identidad
// por-request: qué grupos puede leer un caller y a qué grupo único se
// atribuyen sus escrituras.
//
// A diferencia del paquete access (que levanta errores tipados), la
// resolución dual-path de este paquete NUNCA retorna error: toda falla
// degrada al default seguro ("public" para lecturas, ninguno para
// escrituras). Ver resolver.go.
package scope

import (
	"sort"

	"github.com/dropDatabas3/groupgate/internal/identity"
)

// AuthMode indica si el proceso corre con autenticación habilitada.
// Es un valor explícito inyectado al construir el Service; nunca se infiere
// de si un singleton quedó sin inicializar.
type AuthMode int

const (
	// AuthEnabled: los tokens se verifican contra el servicio de identidad.
	AuthEnabled AuthMode = iota
	// AuthDisabled: el proceso entero corre sin autenticación. Habilita la
	// escritura anónima como "public" (ver ResolveWriteGroup).
	AuthDisabled
)

// Service deriva scopes de lectura/escritura para el caso común de una
// identidad por request. Se construye una vez al armar el proceso y se
// inyecta en cada path de manejo de requests; es seguro para lectura
// concurrente una vez construido.
type Service struct {
	verifier identity.Verifier
	mode     AuthMode
}

// New construye el Service. Con mode == AuthDisabled, verifier puede ser nil.
func New(verifier identity.Verifier, mode AuthMode) *Service {
	return &Service{verifier: verifier, mode: mode}
}

// Enabled reporta si la autenticación está habilitada para el proceso.
func (s *Service) Enabled() bool {
	return s.mode == AuthEnabled && s.verifier != nil
}

// PrimaryGroup responde "¿de quién es esta identidad de ESCRITURA?":
// el primer grupo de las claims, o "public" si no hay claims o no traen
// grupos. Nota: NO agrega "public" a una lista presente — solo provee el
// default cuando no hay token. Esa asimetría con el extractor de claims es
// deliberada (escritura vs lectura).
func (s *Service) PrimaryGroup(claims *identity.Claims) string {
	if claims == nil || len(claims.Groups) == 0 {
		return identity.PublicGroup
	}
	return claims.Groups[0]
}

// PermittedGroups retorna el scope de lectura: unión de {"public"} y los
// grupos de las claims, sin duplicados, orden estable (sorted). Siempre
// contiene "public".
func (s *Service) PermittedGroups(claims *identity.Claims) []string {
	set := map[string]struct{}{identity.PublicGroup: {}}
	if claims != nil {
		for _, g := range claims.Groups {
			set[g] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for g := range set {
		out = append(out, g)
	}
	sort.Strings(out)
	return out
}

// WriteGroup retorna la identidad de escritura única del token: su primer
// grupo. Los callers anónimos no escriben: sin claims (o sin grupos) retorna
// ok=false.
func (s *Service) WriteGroup(claims *identity.Claims) (string, bool) {
	if claims == nil || len(claims.Groups) == 0 {
		return "", false
	}
	return claims.Groups[0], true
}

// WriteGroups retorna TODOS los grupos a los que el token podría atribuir
// una escritura. Distinto de WriteGroup: se usa solo cuando el caller quiere
// enumerar explícitamente, no para elegir el default.
func (s *Service) WriteGroups(claims *identity.Claims) []string {
	if claims == nil {
		return []string{}
	}
	out := make([]string, len(claims.Groups))
	copy(out, claims.Groups)
	return out
}

// ValidateReadAccess verifica que el grupo esté dentro del scope de lectura.
func (s *Service) ValidateReadAccess(claims *identity.Claims, group string) bool {
	for _, g := range s.PermittedGroups(claims) {
		if g == group {
			return true
		}
	}
	return false
}

// ValidateWriteAccess verifica que el grupo sea literalmente uno de los
// grupos de las claims. Sin claims, siempre false.
func (s *Service) ValidateWriteAccess(claims *identity.Claims, group string) bool {
	if claims == nil {
		return false
	}
	return claims.HasGroup(group)
}

// RequireReadAccess es la variante "loud" de ValidateReadAccess: para los
// callers que necesitan diagnosticar, la denegación lleva el grupo objetivo
// y el scope real del caller.
func (s *Service) RequireReadAccess(claims *identity.Claims, group string) error {
	permitted := s.PermittedGroups(claims)
	for _, g := range permitted {
		if g == group {
			return nil
		}
	}
	return &GroupAccessDeniedError{Group: group, Permitted: permitted}
}

// IsPublicGroup verifica si el grupo es el centinela reservado "public".
func (s *Service) IsPublicGroup(group string) bool {
	return group == identity.PublicGroup
}
