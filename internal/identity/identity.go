// Package identity define el contrato con el servicio de identidad externo.
//
// Este paquete no verifica ni firma tokens: solo describe lo que groupgate
// consume de su colaborador (verificación de tokens y directorio de grupos).
// Las implementaciones concretas viven en identity/remote.
package identity

import (
	"context"
	"errors"
	"time"
)

// PublicGroup es el grupo centinela reservado. Todo caller, autenticado o no,
// puede leer lo publicado bajo este grupo.
const PublicGroup = "public"

// Claims es el resultado tipado de verificar un token.
// Se construye por llamada, nunca se persiste ni se muta.
type Claims struct {
	// ID identifica al token (jti).
	ID string
	// Groups es la lista ORDENADA de grupos del token. El primero es el
	// grupo primario (la identidad de escritura por defecto).
	Groups []string
	// IssuedAt es el momento de emisión.
	IssuedAt time.Time
	// ExpiresAt es la expiración; cero si el token no expira.
	ExpiresAt time.Time
}

// Primary retorna el grupo primario: el primero de la lista,
// o PublicGroup si el token no trae grupos.
func (c *Claims) Primary() string {
	if c == nil || len(c.Groups) == 0 {
		return PublicGroup
	}
	return c.Groups[0]
}

// HasGroup verifica pertenencia literal sobre la lista COMPLETA de grupos.
func (c *Claims) HasGroup(group string) bool {
	if c == nil {
		return false
	}
	for _, g := range c.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// Group es un scope de acceso con nombre. El ID es el identificador estable
// asignado por el servicio de identidad; el nombre es mutable y solo apto
// para mostrar. Todo lo persistido se filtra por ID, nunca por nombre.
type Group struct {
	ID   string
	Name string
}

// Verifier es la capacidad de verificación de tokens del servicio de identidad.
type Verifier interface {
	// Verify valida el token y retorna sus claims.
	// Con requireStore=true la verificación debe ser store-backed
	// (introspección, no solo firma); los tokens revocados fallan.
	Verify(ctx context.Context, token string, requireStore bool) (*Claims, error)
}

// Directory es el directorio de grupos del servicio de identidad.
type Directory interface {
	// GroupByName busca un grupo por su nombre legible.
	// Retorna ErrGroupUnknown si no existe.
	GroupByName(ctx context.Context, name string) (*Group, error)
}

// ErrGroupUnknown indica que el directorio no conoce el nombre consultado.
var ErrGroupUnknown = errors.New("identity: group unknown")
