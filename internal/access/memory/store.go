// Package memory implementa access.Store en memoria. Se usa en tests y en
// despliegues sin base de datos que igual quieren ACLs por grupo (cargados
// de un archivo de seed al arrancar).
package memory

import (
	"context"
	"sync"

	"github.com/dropDatabas3/groupgate/internal/access"
)

type Store struct {
	mu   sync.RWMutex
	acls map[string]access.ACL // groupID → tabla
}

// New construye el store normalizando TODOS los literales de permiso al enum
// en este momento; un literal inválido es error de construcción, no de chequeo.
func New(raw map[string]map[string][]string) (*Store, error) {
	acls := make(map[string]access.ACL, len(raw))
	for groupID, members := range raw {
		acl := make(access.ACL, len(members))
		for member, lits := range members {
			perms, err := access.ParsePermissions(lits)
			if err != nil {
				return nil, err
			}
			acl[member] = perms
		}
		acls[groupID] = acl
	}
	return &Store{acls: acls}, nil
}

// GroupACL retorna la tabla del grupo, o access.ErrUnknownGroup.
func (s *Store) GroupACL(_ context.Context, groupID string) (access.ACL, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	acl, ok := s.acls[groupID]
	if !ok {
		return nil, access.ErrUnknownGroup
	}
	return acl, nil
}

// SetGroupACL reemplaza la tabla de un grupo. Pensado para seeds y tests.
func (s *Store) SetGroupACL(groupID string, acl access.ACL) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.acls[groupID] = acl
}
