package pg

import (
	"context"
	"fmt"
	"io/fs"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"

	migrations "github.com/dropDatabas3/groupgate/migrations/postgres"
)

// Migrate aplica las migraciones embebidas en orden ascendente de nombre.
// Los statements son idempotentes (IF NOT EXISTS): correr de nuevo es no-op.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	entries, err := fs.Glob(migrations.FS, "*.sql")
	if err != nil {
		return fmt.Errorf("acl pg: listando migraciones: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		sql, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("acl pg: leyendo %s: %w", name, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("acl pg: aplicando %s: %w", name, err)
		}
	}
	return nil
}
