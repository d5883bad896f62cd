// Package access implementa el control de acceso por grupo sobre tokens ya
// verificables: extracción de claims, pertenencia, permisos y niveles.
//
// Política de errores: TODO fallo acá se reporta con error tipado
// (fail-closed-and-loud). El degradado silencioso a "public" vive en el
// paquete scope, no acá; no mezclar ambas políticas.
package access

import (
	"context"
	"errors"

	"github.com/dropDatabas3/groupgate/internal/identity"
	"github.com/dropDatabas3/groupgate/internal/observability/logger"
	"github.com/dropDatabas3/groupgate/internal/util"
)

// Controller responde preguntas de pertenencia/permiso/nivel contra un grupo
// objetivo, re-extrayendo claims del token en cada operación (sin cache).
//
// Con store == nil opera en modo "pertenencia simple": el grupo debe figurar
// literalmente en la lista de grupos del token y, una vez que eso se cumple,
// el acceso es total. Es un atajo documentado para despliegues sin ACL, no un
// bypass de propósito general.
type Controller struct {
	verifier identity.Verifier
	store    Store // nil => modo pertenencia simple
}

// New construye el Controller. store puede ser nil.
func New(verifier identity.Verifier, store Store) *Controller {
	return &Controller{verifier: verifier, store: store}
}

// ExtractClaims verifica el token (store-backed) y arma las claims tipadas.
// Garantiza que "public" esté presente en la lista de grupos, agregándolo al
// final si el token no lo traía. Cualquier falla de verificación se re-lanza
// como *TokenValidationError con la causa original.
func (c *Controller) ExtractClaims(ctx context.Context, token string) (*identity.Claims, error) {
	if c.verifier == nil {
		return nil, &TokenValidationError{Err: errors.New("verificación no disponible (auth deshabilitada)")}
	}
	cl, err := c.verifier.Verify(ctx, token, true)
	if err != nil {
		return nil, &TokenValidationError{Err: err}
	}

	groups := make([]string, 0, len(cl.Groups)+1)
	groups = append(groups, cl.Groups...)
	if !contains(groups, identity.PublicGroup) {
		groups = append(groups, identity.PublicGroup)
	}

	return &identity.Claims{
		ID:        cl.ID,
		Groups:    groups,
		IssuedAt:  cl.IssuedAt,
		ExpiresAt: cl.ExpiresAt,
	}, nil
}

// ValidateMembership valida que el token pertenezca al grupo.
//
// Sin ACL store: pertenencia literal sobre la lista COMPLETA de grupos.
// Con ACL store: el grupo debe existir en el store (si no, *GroupNotFoundError)
// y el grupo PRIMARIO del token debe ser key de su tabla de miembros.
// La restricción a primario en modo store es comportamiento observado del
// sistema original y se preserva tal cual (ver DESIGN.md).
func (c *Controller) ValidateMembership(ctx context.Context, token, groupID string) (*identity.Claims, error) {
	claims, err := c.ExtractClaims(ctx, token)
	if err != nil {
		return nil, err
	}

	if c.store == nil {
		if claims.HasGroup(groupID) {
			return claims, nil
		}
		logger.From(ctx).Debug("membership denegada (sin acl store)",
			logger.GroupID(groupID), logger.TokenFP(util.TokenFP(token)))
		return nil, &AccessDeniedError{Group: groupID, Reason: "el token no pertenece al grupo"}
	}

	acl, err := c.groupACL(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if _, ok := acl.Grants(claims.Primary()); !ok {
		logger.From(ctx).Debug("membership denegada (acl store)",
			logger.GroupID(groupID), logger.Group(claims.Primary()), logger.TokenFP(util.TokenFP(token)))
		return nil, &AccessDeniedError{Group: groupID, Reason: "el grupo primario no es miembro"}
	}
	return claims, nil
}

// CheckPermission valida pertenencia y que el miembro tenga el permiso pedido.
// Sin ACL store, la pertenencia alcanza: acceso total una vez dentro.
func (c *Controller) CheckPermission(ctx context.Context, token, groupID string, perm Permission) (*identity.Claims, error) {
	claims, err := c.ValidateMembership(ctx, token, groupID)
	if err != nil {
		return nil, err
	}
	if c.store == nil {
		return claims, nil
	}

	acl, err := c.groupACL(ctx, groupID)
	if err != nil {
		return nil, err
	}
	granted, _ := acl.Grants(claims.Primary())
	if !permsContain(granted, perm) {
		return nil, &AccessDeniedError{Group: groupID, Missing: []Permission{perm}}
	}
	return claims, nil
}

// CheckAccessLevel valida que el conjunto COMPLETO de permisos requeridos por
// el nivel esté incluido en los otorgados al miembro. En denegación, Missing
// enumera cada permiso elemental faltante.
func (c *Controller) CheckAccessLevel(ctx context.Context, token, groupID string, level Level) (*identity.Claims, error) {
	claims, err := c.ValidateMembership(ctx, token, groupID)
	if err != nil {
		return nil, err
	}
	if c.store == nil {
		return claims, nil
	}

	acl, err := c.groupACL(ctx, groupID)
	if err != nil {
		return nil, err
	}
	granted, _ := acl.Grants(claims.Primary())

	var missing []Permission
	for _, req := range level.Required() {
		if !permsContain(granted, req) {
			missing = append(missing, req)
		}
	}
	if len(missing) > 0 {
		return nil, &AccessDeniedError{Group: groupID, Missing: missing}
	}
	return claims, nil
}

// AccessibleGroups retorna todos los grupos del token (siempre incluye "public").
func (c *Controller) AccessibleGroups(ctx context.Context, token string) ([]string, error) {
	claims, err := c.ExtractClaims(ctx, token)
	if err != nil {
		return nil, err
	}
	return claims.Groups, nil
}

// groupACL carga la tabla del grupo traduciendo ErrUnknownGroup a error tipado.
func (c *Controller) groupACL(ctx context.Context, groupID string) (ACL, error) {
	acl, err := c.store.GroupACL(ctx, groupID)
	if err != nil {
		if errors.Is(err, ErrUnknownGroup) {
			return nil, &GroupNotFoundError{Group: groupID}
		}
		return nil, err
	}
	return acl, nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func permsContain(list []Permission, p Permission) bool {
	for _, g := range list {
		if g == p {
			return true
		}
	}
	return false
}
