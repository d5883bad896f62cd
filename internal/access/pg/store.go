// Package pg implementa access.Store sobre Postgres (pgx).
//
// Esquema (ver migrations/0001_group_acl.sql):
//
//	group_acl(group_id uuid, member text, perm text, PRIMARY KEY (group_id, member, perm))
//	acl_groups(group_id uuid PRIMARY KEY)
//
// acl_groups existe para distinguir "grupo sin miembros" (tabla vacía) de
// "grupo desconocido" (ErrUnknownGroup).
package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dropDatabas3/groupgate/internal/access"
)

type Store struct {
	pool *pgxpool.Pool
}

func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// GroupACL carga la tabla de miembros del grupo. Los literales de permiso se
// normalizan al enum acá, al cargar; un literal inválido en la tabla es un
// error de datos y se reporta como tal.
func (s *Store) GroupACL(ctx context.Context, groupID string) (access.ACL, error) {
	var exists bool
	const qExists = `SELECT EXISTS (SELECT 1 FROM acl_groups WHERE group_id = $1);`
	if err := s.pool.QueryRow(ctx, qExists, groupID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("acl pg: exists %s: %w", groupID, err)
	}
	if !exists {
		return nil, access.ErrUnknownGroup
	}

	const q = `
SELECT member, perm
FROM group_acl
WHERE group_id = $1
ORDER BY member, perm;`
	rows, err := s.pool.Query(ctx, q, groupID)
	if err != nil {
		return nil, fmt.Errorf("acl pg: query %s: %w", groupID, err)
	}
	defer rows.Close()

	acl := make(access.ACL)
	for rows.Next() {
		var member, lit string
		if err := rows.Scan(&member, &lit); err != nil {
			return nil, err
		}
		p, err := access.ParsePermission(lit)
		if err != nil {
			return nil, fmt.Errorf("acl pg: grupo %s, miembro %s: %w", groupID, member, err)
		}
		acl[member] = append(acl[member], p)
	}
	return acl, rows.Err()
}

// Ping verifica la conexión; usado por readyz.
func (s *Store) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}
